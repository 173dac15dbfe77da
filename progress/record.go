package progress

import (
	"fmt"
	"time"

	"github.com/lectern-cli/lectern/timefmt"
	"github.com/lectern-cli/lectern/track"
	"github.com/samber/mo"
)

// Record is the saved listening state of one track.
type Record struct {
	TrackID      string    `json:"track_id" validate:"required"`
	Title        string    `json:"title"`
	CourseTitle  string    `json:"course_title,omitempty"`
	Locator      string    `json:"locator"`
	Position     float64   `json:"position" validate:"gte=0"`
	Duration     float64   `json:"duration" validate:"gte=0"`
	Completed    bool      `json:"completed"`
	LastPlayedAt time.Time `json:"last_played_at"`
}

// Percentage is the listened share in [0, 100], or 0 while the duration is unknown.
func (r *Record) Percentage() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return min(r.Position/r.Duration*100, 100)
}

// Resumable reports whether playback can continue from a saved position.
func (r *Record) Resumable() bool {
	return !r.Completed && r.Position > 0
}

func (r *Record) String() string {
	status := fmt.Sprintf("%s / %s", timefmt.Format(r.Position), timefmt.Format(r.Duration))
	if r.Completed {
		status = "completed"
	}
	return fmt.Sprintf("%s : %s", r.Title, status)
}

func newRecord(t *track.Track) *Record {
	return &Record{
		TrackID:     t.ID,
		Title:       t.Title,
		CourseTitle: t.CourseTitle.OrEmpty(),
		Locator:     t.AudioLocator.OrEmpty(),
	}
}

// Track rebuilds a playable track from the record, for entries that are no
// longer part of the loaded queue.
func (r *Record) Track() *track.Track {
	t := &track.Track{
		ID:           r.TrackID,
		Title:        r.Title,
		AudioLocator: mo.None[string](),
		CourseTitle:  mo.None[string](),
		Duration:     mo.None[string](),
	}
	if r.Locator != "" {
		t.AudioLocator = mo.Some(r.Locator)
	}
	if r.CourseTitle != "" {
		t.CourseTitle = mo.Some(r.CourseTitle)
	}
	if r.Duration > 0 {
		t.Duration = mo.Some(timefmt.Format(r.Duration))
	}
	return t
}
