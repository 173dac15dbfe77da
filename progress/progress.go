// Package progress persists where each track was left off so playback can resume.
package progress

import (
	"sync"
	"time"

	"github.com/lectern-cli/lectern/filesystem"
	"github.com/lectern-cli/lectern/internal/validate"
	"github.com/lectern-cli/lectern/key"
	"github.com/lectern-cli/lectern/track"
	"github.com/lectern-cli/lectern/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

var (
	cacherOnce sync.Once
	cacher     *gache.Cache[map[string]*Record]
)

func store() *gache.Cache[map[string]*Record] {
	cacherOnce.Do(func() {
		cacher = gache.New[map[string]*Record](
			&gache.Options{
				Path:       where.Progress(),
				FileSystem: &filesystem.GacheFs{},
			},
		)
	})
	return cacher
}

// now is replaced in tests.
var now = time.Now

// All returns every saved record keyed by track id.
func All() (map[string]*Record, error) {
	cached, expired, err := store().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// Get returns the record for a track id.
func Get(trackID string) mo.Option[*Record] {
	saved, err := All()
	if err != nil {
		return mo.None[*Record]()
	}
	record, ok := saved[trackID]
	if !ok {
		return mo.None[*Record]()
	}
	return mo.Some(record)
}

// Save upserts the position of t. Crossing the configured completion
// percentage marks the track completed.
func Save(t *track.Track, position, duration float64) error {
	saved, err := All()
	if err != nil {
		return err
	}

	record := recordFor(saved, t)

	record.Position = position
	if duration > 0 {
		record.Duration = duration
	}
	record.LastPlayedAt = now()
	threshold := viper.GetFloat64(key.ProgressCompletionPercentage)
	if threshold > 0 && record.Percentage() >= threshold {
		record.Completed = true
	}

	if err := validate.Struct(record); err != nil {
		return err
	}

	saved[t.ID] = record
	return store().Set(saved)
}

// MarkCompleted flags t as finished and rewinds its saved position.
func MarkCompleted(t *track.Track) error {
	saved, err := All()
	if err != nil {
		return err
	}

	record := recordFor(saved, t)
	record.Completed = true
	record.Position = 0
	record.LastPlayedAt = now()

	if err := validate.Struct(record); err != nil {
		return err
	}

	saved[t.ID] = record
	return store().Set(saved)
}

// RecentlyPlayed returns up to limit unfinished records, most recent first.
func RecentlyPlayed(limit int) ([]*Record, error) {
	saved, err := All()
	if err != nil {
		return nil, err
	}

	records := lo.Filter(lo.Values(saved), func(r *Record, _ int) bool {
		return r.Resumable()
	})

	slices.SortFunc(records, func(a, b *Record) int {
		return b.LastPlayedAt.Compare(a.LastPlayedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Remove deletes the record of one track.
func Remove(trackID string) error {
	saved, err := All()
	if err != nil {
		return err
	}

	delete(saved, trackID)
	return store().Set(saved)
}

// Clear deletes every record.
func Clear() error {
	return store().Set(make(map[string]*Record))
}

// recordFor returns a copy of the saved record of t, or a fresh one.
func recordFor(saved map[string]*Record, t *track.Track) *Record {
	if existing, ok := saved[t.ID]; ok {
		record := *existing
		return &record
	}
	return newRecord(t)
}
