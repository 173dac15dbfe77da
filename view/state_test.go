package view

import (
	"errors"
	"testing"
	"time"

	"github.com/lectern-cli/lectern/playback"
	"github.com/lectern-cli/lectern/track"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeControls struct {
	seeks []float64
	rates []float64
}

func (f *fakeControls) SeekFraction(fraction float64) {
	f.seeks = append(f.seeks, fraction)
}

func (f *fakeControls) SetPlaybackRate(rate float64) error {
	if !playback.ValidRate(rate) {
		return playback.NewError(playback.KindInvalidArgument, "", nil)
	}
	f.rates = append(f.rates, rate)
	return nil
}

func TestState(t *testing.T) {
	Convey("Given a view state on a track", t, func() {
		controls := &fakeControls{}
		clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		var updates [][2]float64
		ended := 0

		s := New(controls,
			WithClock(func() time.Time { return clock }),
			WithHooks(Hooks{
				OnTimeUpdate: func(cur, dur float64) { updates = append(updates, [2]float64{cur, dur}) },
				OnEnded:      func() { ended++ },
			}),
		)
		s.SetTrack(&track.Track{ID: "t1", Title: "Lesson", AudioLocator: mo.Some("t1.mp3")})

		Convey("Progress derives the fraction and display strings", func() {
			s.OnProgress("t1.mp3", 30, 120)
			snap := s.Snapshot()
			So(snap.ProgressFraction, ShouldEqual, 0.25)
			So(snap.DisplayPosition, ShouldEqual, "0:30")
			So(snap.DisplayDuration, ShouldEqual, "2:00")
			So(updates, ShouldResemble, [][2]float64{{30, 120}})
		})

		Convey("An unknown duration gives a zero fraction", func() {
			s.OnProgress("t1.mp3", 12, 0)
			So(s.Snapshot().ProgressFraction, ShouldEqual, 0)
		})

		Convey("Scrubbing before the duration is known does nothing", func() {
			s.Scrub(0.5)
			So(controls.seeks, ShouldBeEmpty)
			So(s.Snapshot().ProgressFraction, ShouldEqual, 0)
		})

		Convey("Scrubbing to the middle round-trips", func() {
			s.OnProgress("t1.mp3", 0, 200)
			s.Scrub(0.5)
			So(controls.seeks, ShouldResemble, []float64{0.5})
			snap := s.Snapshot()
			So(snap.ProgressFraction, ShouldEqual, 0.5)
			So(snap.DisplayPosition, ShouldEqual, "1:40")
		})

		Convey("Scrubbing clamps out of range fractions", func() {
			s.OnProgress("t1.mp3", 0, 100)
			s.Scrub(1.7)
			s.Scrub(-2)
			So(controls.seeks, ShouldResemble, []float64{1, 0})
		})

		Convey("Nudging moves by seconds", func() {
			s.OnProgress("t1.mp3", 50, 100)
			s.Nudge(10)
			So(controls.seeks, ShouldResemble, []float64{0.6})
		})

		Convey("Five speed cycles come back to 1x", func() {
			labels := []string{}
			for i := 0; i < 5; i++ {
				s.CycleSpeed()
				labels = append(labels, s.Snapshot().SpeedLabel)
			}
			So(labels, ShouldResemble, []string{"1.25x", "1.5x", "1.75x", "2x", "1x"})
			So(s.Snapshot().Speed, ShouldEqual, 1.0)
			So(controls.rates, ShouldHaveLength, 5)
		})

		Convey("Like toggles are debounced", func() {
			So(s.ToggleLike(), ShouldBeTrue)
			So(s.Snapshot().IsLiked, ShouldBeTrue)
			So(s.Snapshot().IsLikeAnimating, ShouldBeTrue)

			clock = clock.Add(100 * time.Millisecond)
			So(s.ToggleLike(), ShouldBeFalse)
			So(s.Snapshot().IsLiked, ShouldBeTrue)

			clock = clock.Add(300 * time.Millisecond)
			So(s.ToggleLike(), ShouldBeTrue)
			So(s.Snapshot().IsLiked, ShouldBeFalse)
		})

		Convey("Ending resets progress and tells the host", func() {
			s.OnProgress("t1.mp3", 60, 120)
			s.OnEnded("t1.mp3")
			So(s.Snapshot().ProgressFraction, ShouldEqual, 0)
			So(s.Snapshot().DisplayPosition, ShouldEqual, "0:00")
			So(ended, ShouldEqual, 1)
		})

		Convey("Surfaced errors become a message", func() {
			s.OnError("t1.mp3", playback.NewError(playback.KindNetwork, "t1.mp3", errors.New("503")))
			msg, ok := s.Snapshot().Message.Get()
			So(ok, ShouldBeTrue)
			So(msg.Locator, ShouldEqual, "t1.mp3")
			So(msg.Text, ShouldEqual, playback.KindNetwork.Message())

			Convey("And a new track clears it", func() {
				s.SetTrack(&track.Track{ID: "t2"})
				So(s.Snapshot().Message.IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("Internal errors are not shown", func() {
			s.OnError("t1.mp3", playback.NewError(playback.KindAborted, "t1.mp3", nil))
			So(s.Snapshot().Message.IsAbsent(), ShouldBeTrue)
		})

		Convey("Phase drives the playing flag", func() {
			s.OnPhase(playback.PhasePlaying)
			So(s.Snapshot().IsPlaying, ShouldBeTrue)
			s.OnPhase(playback.PhasePaused)
			So(s.Snapshot().IsPlaying, ShouldBeFalse)
		})
	})

	Convey("Given a track with a catalog duration", t, func() {
		s := New(&fakeControls{})
		s.SetTrack(&track.Track{ID: "ep", Duration: mo.Some("8:52"), IsFavorite: true})
		s.OnProgress("ep.mp3", 10, 531.7)

		Convey("The catalog string is displayed", func() {
			So(s.Snapshot().DisplayDuration, ShouldEqual, "8:52")
		})

		Convey("Favorites start liked", func() {
			So(s.Snapshot().IsLiked, ShouldBeTrue)
		})
	})

	Convey("Given a fresh track whose catalog gives a clock duration", t, func() {
		controls := &fakeControls{}
		s := New(controls)
		s.SetTrack(&track.Track{ID: "ep", Duration: mo.Some("2:00")})

		Convey("Scrubbing works before the first progress", func() {
			s.Scrub(0.5)
			So(controls.seeks, ShouldResemble, []float64{0.5})
			So(s.Snapshot().DisplayPosition, ShouldEqual, "1:00")
		})

		Convey("A free-form label leaves the duration unknown", func() {
			s.SetTrack(&track.Track{ID: "ep2", Duration: mo.Some("45 min")})
			s.Scrub(0.5)
			So(controls.seeks, ShouldBeEmpty)
		})
	})

	Convey("Given host hooks for presentation toggles", t, func() {
		expanded := []bool{}
		studies := 0
		s := New(&fakeControls{}, WithHooks(Hooks{
			OnExpand:          func(e bool) { expanded = append(expanded, e) },
			OnToggleStudyMode: func() { studies++ },
		}))

		s.SetExpanded(true)
		s.SetExpanded(true)
		s.ToggleStudyMode()

		So(expanded, ShouldResemble, []bool{true})
		So(studies, ShouldEqual, 1)
		So(s.Snapshot().IsStudyMode, ShouldBeTrue)
	})
}

func TestWaveform(t *testing.T) {
	Convey("Given a waveform", t, func() {
		w := newWaveform(DefaultBars)

		Convey("Heights are stable per track", func() {
			a := w.bars("t1", 0.5, false, true)
			b := w.bars("t1", 0.5, false, true)
			So(a, ShouldResemble, b)
			So(a, ShouldHaveLength, 35)
		})

		Convey("Only the current track is memoized", func() {
			first := w.bars("t1", 0, false, false)
			w.bars("t2", 0, false, false)
			So(w.id, ShouldEqual, "t2")
			So(w.heights, ShouldHaveLength, 35)

			So(w.bars("t1", 0, false, false), ShouldResemble, first)
		})

		Convey("Heights stay within bounds", func() {
			for _, study := range []bool{false, true} {
				for _, bar := range w.bars("t2", 0, study, false) {
					So(bar.Height, ShouldBeBetweenOrEqual, 10, 100)
				}
			}
		})

		Convey("Study mode shrinks bars", func() {
			normal := w.bars("t3", 0, false, false)
			study := w.bars("t3", 0, true, false)
			for i := range normal {
				So(study[i].Height, ShouldBeLessThanOrEqualTo, normal[i].Height)
			}
		})

		Convey("Bars up to the progress are active", func() {
			bars := w.bars("t1", 0.5, false, true)
			So(bars[0].Active, ShouldBeTrue)
			So(bars[17].Active, ShouldBeTrue)
			So(bars[18].Active, ShouldBeFalse)
			So(bars[17].Animated, ShouldBeTrue)

			paused := w.bars("t1", 0.5, false, false)
			So(paused[17].Animated, ShouldBeFalse)
		})
	})
}
