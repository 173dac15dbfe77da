package track

import (
	"testing"

	"github.com/lectern-cli/lectern/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

const catalog = `[
  {"id": "ep-1", "title": "HACCP Basics", "author": "Dr. Ruiz", "duration": "8:52",
   "audio_url": "https://cdn.example.com/ep1.mp3", "course_title": "Food Safety 101"},
  {"id": "ep-2", "title": "Audit Preparation", "author": "Dr. Ruiz", "duration": "12:05",
   "audio_url": "https://cdn.example.com/ep2.mp3", "is_favorite": true},
  {"id": "book-1", "title": "Quality Systems", "author": "A. Mora", "chapters": [
    {"id": "ch-2", "title": "Audits", "audio_url": "ch2.mp3", "order_index": 2},
    {"id": "ch-1", "title": "Foundations", "audio_url": "ch1.mp3", "duration": "3:10", "order_index": 1}
  ]},
  {"id": "pdf-1", "title": "Handbook", "author": "ISO"}
]`

func init() {
	filesystem.SetMemMapFs()
}

func TestCatalog(t *testing.T) {
	Convey("Given a catalog file", t, func() {
		So(afero.WriteFile(filesystem.API(), "catalog.json", []byte(catalog), 0644), ShouldBeNil)

		tracks, err := Load("catalog.json")
		So(err, ShouldBeNil)

		Convey("Chapters expand in order", func() {
			So(tracks, ShouldHaveLength, 5)
			So(tracks[2].ID, ShouldEqual, "ch-1")
			So(tracks[3].ID, ShouldEqual, "ch-2")
			So(tracks[2].CourseTitle.MustGet(), ShouldEqual, "Quality Systems")
		})

		Convey("Optional fields stay absent when missing", func() {
			So(tracks[4].Playable(), ShouldBeFalse)
			So(tracks[1].CourseTitle.IsAbsent(), ShouldBeTrue)
			So(tracks[1].IsFavorite, ShouldBeTrue)
		})

		Convey("Catalog durations parse to seconds", func() {
			d, ok := tracks[0].KnownDuration()
			So(ok, ShouldBeTrue)
			So(d, ShouldEqual, 532)

			_, ok = tracks[3].KnownDuration()
			So(ok, ShouldBeFalse)
		})

		Convey("Subtitle prefers the course", func() {
			So(tracks[0].Subtitle(), ShouldEqual, "Food Safety 101")
			So(tracks[1].Subtitle(), ShouldEqual, "Dr. Ruiz")
		})
	})

	Convey("Given entries without required fields", t, func() {
		_, err := Parse([]byte(`[{"id": "x"}]`))

		Convey("Loading fails naming the field", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "title is required")
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := Load("nope.json")
		So(err, ShouldNotBeNil)
	})
}

func TestFind(t *testing.T) {
	Convey("Given parsed tracks", t, func() {
		tracks, err := Parse([]byte(catalog))
		So(err, ShouldBeNil)

		Convey("An empty query returns everything", func() {
			So(Find(tracks, " "), ShouldHaveLength, len(tracks))
		})

		Convey("Queries match titles fuzzily, closest first", func() {
			found := Find(tracks, "audit")
			So(found, ShouldHaveLength, 2)
			So(found[0].ID, ShouldEqual, "ch-2")
			So(found[1].ID, ShouldEqual, "ep-2")
		})

		Convey("Queries match courses", func() {
			found := Find(tracks, "food safety")
			So(found, ShouldHaveLength, 1)
			So(found[0].ID, ShouldEqual, "ep-1")
		})

		Convey("IndexOf finds by id", func() {
			So(IndexOf(tracks, "ch-2"), ShouldEqual, 3)
			So(IndexOf(tracks, "missing"), ShouldEqual, -1)
		})
	})
}

func TestFromLocators(t *testing.T) {
	Convey("Given bare locators", t, func() {
		tracks := FromLocators([]string{"/music/t1.mp3", "", "https://x.io/a/lesson.ogg?sig=1"})

		Convey("Each becomes a playable track titled by its stem", func() {
			So(tracks, ShouldHaveLength, 2)
			So(tracks[0].Title, ShouldEqual, "t1")
			So(tracks[1].Title, ShouldEqual, "lesson")
			So(tracks[1].AudioLocator.MustGet(), ShouldEqual, "https://x.io/a/lesson.ogg?sig=1")
		})
	})
}
