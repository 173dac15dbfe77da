// Package track describes the playable items handed to the player and reads them from catalog files.
package track

import (
	"strconv"

	"github.com/lectern-cli/lectern/timefmt"
	"github.com/lectern-cli/lectern/util"
	"github.com/samber/mo"
)

// Track is an immutable playable item.
type Track struct {
	ID           string
	Title        string
	Author       string
	CoverURL     string
	AudioLocator mo.Option[string]
	// Duration is the catalog's display string, e.g. "8:52".
	Duration    mo.Option[string]
	CourseTitle mo.Option[string]
	IsFavorite  bool
}

// Playable reports whether the track has something to load.
func (t *Track) Playable() bool {
	return t.AudioLocator.IsPresent()
}

// KnownDuration parses the catalog duration string into seconds.
func (t *Track) KnownDuration() (float64, bool) {
	d, ok := t.Duration.Get()
	if !ok {
		return 0, false
	}
	return timefmt.Parse(d)
}

// Subtitle is the second line shown under the title.
func (t *Track) Subtitle() string {
	if course, ok := t.CourseTitle.Get(); ok {
		return course
	}
	return t.Author
}

func (t *Track) String() string {
	return t.Title
}

// FromLocators builds an ad-hoc queue from bare file paths or URLs.
func FromLocators(locators []string) []*Track {
	tracks := make([]*Track, 0, len(locators))
	for i, locator := range locators {
		if locator == "" {
			continue
		}

		title := util.FileStem(locator)
		if title == "" || title == "." || title == "/" {
			title = locator
		}

		tracks = append(tracks, &Track{
			ID:           "local-" + strconv.Itoa(i+1),
			Title:        title,
			AudioLocator: mo.Some(locator),
		})
	}
	return tracks
}
