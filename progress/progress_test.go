package progress

import (
	"os"
	"testing"
	"time"

	"github.com/lectern-cli/lectern/filesystem"
	"github.com/lectern-cli/lectern/key"
	"github.com/lectern-cli/lectern/track"
	"github.com/lectern-cli/lectern/where"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	_ = os.Setenv(where.EnvConfigPath, "/lectern-test")
}

func TestProgress(t *testing.T) {
	viper.Set(key.ProgressCompletionPercentage, 95)

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	defer func() { now = time.Now }()

	ep1 := &track.Track{ID: "ep-1", Title: "HACCP Basics", AudioLocator: mo.Some("ep1.mp3")}
	ep2 := &track.Track{ID: "ep-2", Title: "Audits", AudioLocator: mo.Some("ep2.mp3")}
	ep3 := &track.Track{ID: "ep-3", Title: "Recalls", AudioLocator: mo.Some("ep3.mp3")}

	Convey("Given an empty store", t, func() {
		So(Clear(), ShouldBeNil)

		Convey("When saving a position", func() {
			So(Save(ep1, 30, 120), ShouldBeNil)

			Convey("It can be read back", func() {
				record, ok := Get("ep-1").Get()
				So(ok, ShouldBeTrue)
				So(record.Position, ShouldEqual, 30)
				So(record.Duration, ShouldEqual, 120)
				So(record.Locator, ShouldEqual, "ep1.mp3")
				So(record.Percentage(), ShouldEqual, 25)
				So(record.Completed, ShouldBeFalse)
			})

			Convey("A later save without duration keeps the known one", func() {
				So(Save(ep1, 45, 0), ShouldBeNil)
				record := Get("ep-1").MustGet()
				So(record.Position, ShouldEqual, 45)
				So(record.Duration, ShouldEqual, 120)
			})

			Convey("Crossing the completion threshold completes the track", func() {
				So(Save(ep1, 118, 120), ShouldBeNil)
				So(Get("ep-1").MustGet().Completed, ShouldBeTrue)
			})
		})

		Convey("When a negative position is saved", func() {
			err := Save(ep1, -3, 120)
			So(err, ShouldNotBeNil)
			So(Get("ep-1").IsAbsent(), ShouldBeTrue)
		})

		Convey("When listing recent tracks", func() {
			So(Save(ep1, 10, 100), ShouldBeNil)
			So(Save(ep2, 20, 100), ShouldBeNil)
			So(Save(ep3, 0, 100), ShouldBeNil)
			So(Save(ep1, 15, 100), ShouldBeNil)

			recent, err := RecentlyPlayed(5)
			So(err, ShouldBeNil)

			Convey("Unstarted tracks are skipped and the newest comes first", func() {
				So(recent, ShouldHaveLength, 2)
				So(recent[0].TrackID, ShouldEqual, "ep-1")
				So(recent[1].TrackID, ShouldEqual, "ep-2")
			})

			Convey("The limit applies", func() {
				limited, err := RecentlyPlayed(1)
				So(err, ShouldBeNil)
				So(limited, ShouldHaveLength, 1)
			})

			Convey("Completed tracks drop out", func() {
				So(MarkCompleted(ep2), ShouldBeNil)
				recent, err := RecentlyPlayed(5)
				So(err, ShouldBeNil)
				So(recent, ShouldHaveLength, 1)
				So(Get("ep-2").MustGet().Position, ShouldEqual, 0)
			})
		})

		Convey("When removing a record", func() {
			So(Save(ep2, 5, 50), ShouldBeNil)
			So(Remove("ep-2"), ShouldBeNil)
			So(Get("ep-2").IsAbsent(), ShouldBeTrue)
		})
	})
}
