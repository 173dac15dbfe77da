package tui

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lectern-cli/lectern/filesystem"
	"github.com/lectern-cli/lectern/key"
	"github.com/lectern-cli/lectern/playback"
	"github.com/lectern-cli/lectern/progress"
	"github.com/lectern-cli/lectern/track"
	"github.com/lectern-cli/lectern/view"
	"github.com/lectern-cli/lectern/where"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	_ = os.Setenv(where.EnvConfigPath, "/lectern-tui-test")
}

type fakeOutput struct {
	loads  []playback.Tag
	seeks  []float64
	calls  []string
	events chan playback.Event
}

func newFakeOutput() *fakeOutput {
	return &fakeOutput{events: make(chan playback.Event, 8)}
}

func (f *fakeOutput) Load(tag playback.Tag) error {
	f.loads = append(f.loads, tag)
	f.calls = append(f.calls, "load")
	return nil
}

func (f *fakeOutput) Play() error {
	f.calls = append(f.calls, "play")
	return nil
}

func (f *fakeOutput) Pause() error {
	f.calls = append(f.calls, "pause")
	return nil
}

func (f *fakeOutput) Seek(seconds float64) error {
	f.seeks = append(f.seeks, seconds)
	f.calls = append(f.calls, "seek")
	return nil
}

func (f *fakeOutput) SetRate(float64) error         { return nil }
func (f *fakeOutput) Events() <-chan playback.Event { return f.events }
func (f *fakeOutput) Close() error                  { return nil }

func (f *fakeOutput) last() string {
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testQueue() []*track.Track {
	return []*track.Track{
		{ID: "ep-1", Title: "HACCP Basics", AudioLocator: mo.Some("ep1.mp3")},
		{ID: "ep-2", Title: "Audits", AudioLocator: mo.Some("ep2.mp3")},
		{ID: "ep-3", Title: "Recalls"},
	}
}

func setupViper(autoplay bool) {
	viper.Set(key.PlayerAutoplay, autoplay)
	viper.Set(key.PlayerDefaultSpeed, 1.0)
	viper.Set(key.PlayerLikeDebounceMs, 400)
	viper.Set(key.PlayerSeekStepSeconds, 10)
	viper.Set(key.ProgressSave, true)
	viper.Set(key.ProgressSaveIntervalSeconds, 0)
	viper.Set(key.ProgressCompletionPercentage, 95)
	viper.Set(key.WaveformBars, 35)
}

func (b *statefulBubble) send(ev playback.Event) {
	b.Update(eventMsg(ev))
}

func (b *statefulBubble) tag() playback.Tag {
	return b.controller.Session().Tag()
}

func TestBubble(t *testing.T) {
	Convey("Given a host with autoplay enabled", t, func() {
		setupViper(true)
		So(progress.Clear(), ShouldBeNil)

		output := newFakeOutput()
		b := newBubble(output, &Options{Queue: testQueue()})
		b.Init()

		So(output.loads, ShouldHaveLength, 1)
		So(b.player.Item.MustGet().ID, ShouldEqual, "ep-1")
		So(b.controller.Session().Phase, ShouldEqual, playback.PhaseLoading)

		Convey("Ready starts playback without another request", func() {
			b.send(playback.Ready(b.tag()))
			So(output.last(), ShouldEqual, "play")
			So(b.view.Snapshot().IsPlaying, ShouldBeTrue)

			Convey("Space pauses and resumes", func() {
				b.Update(keyPress(" "))
				So(b.player.IsPlaying, ShouldBeFalse)
				So(output.last(), ShouldEqual, "pause")

				b.Update(keyPress(" "))
				So(b.player.IsPlaying, ShouldBeTrue)
				So(output.last(), ShouldEqual, "play")
			})

			Convey("Progress reaches the view and the store", func() {
				b.send(playback.Progress(b.tag(), 30, 120))
				So(b.view.Snapshot().ProgressFraction, ShouldEqual, 0.25)

				record, ok := progress.Get("ep-1").Get()
				So(ok, ShouldBeTrue)
				So(record.Position, ShouldEqual, 30)
			})

			Convey("Forward nudges by the configured step", func() {
				b.send(playback.Progress(b.tag(), 30, 120))
				b.Update(keyPress("l"))
				So(output.seeks, ShouldResemble, []float64{40})
			})
		})

		Convey("Switching tracks makes the old events stale", func() {
			old := b.tag()
			b.Update(keyPress("n"))
			So(b.player.Item.MustGet().ID, ShouldEqual, "ep-2")

			b.send(playback.Ended(old))
			b.send(playback.Failed(old, playback.KindNetwork, nil))
			So(b.player.IsPlaying, ShouldBeTrue)
			So(b.view.Snapshot().Message.IsAbsent(), ShouldBeTrue)
			So(b.controller.Session().Phase, ShouldEqual, playback.PhaseLoading)
		})

		Convey("A track without audio is not loaded", func() {
			b.Update(keyPress("n"))
			b.Update(keyPress("n"))
			So(b.player.Item.MustGet().ID, ShouldEqual, "ep-2")
			So(output.loads, ShouldHaveLength, 2)
		})

		Convey("Ended moves on to the next track", func() {
			b.send(playback.Ready(b.tag()))
			b.send(playback.Progress(b.tag(), 119, 120))
			b.send(playback.Ended(b.tag()))

			So(b.player.Item.MustGet().ID, ShouldEqual, "ep-2")
			So(b.player.IsPlaying, ShouldBeTrue)
			So(progress.Get("ep-1").MustGet().Completed, ShouldBeTrue)
		})

		Convey("A surfaced failure pauses the host and shows a message", func() {
			b.send(playback.Failed(b.tag(), playback.KindDecode, nil))
			So(b.player.IsPlaying, ShouldBeFalse)

			msg, ok := b.view.Snapshot().Message.Get()
			So(ok, ShouldBeTrue)
			So(msg.Text, ShouldEqual, playback.KindDecode.Message())

			Convey("Play cannot revive it", func() {
				b.Update(keyPress(" "))
				So(b.player.IsPlaying, ShouldBeFalse)
				So(b.controller.Session().PlayOnReady, ShouldBeFalse)
				So(output.calls, ShouldNotContain, "play")
			})
		})

		Convey("A network failure can be retried", func() {
			b.send(playback.Failed(b.tag(), playback.KindNetwork, nil))
			So(b.player.IsPlaying, ShouldBeFalse)

			b.Update(keyPress("r"))
			So(output.loads, ShouldHaveLength, 2)
			So(b.player.IsPlaying, ShouldBeTrue)
			So(b.view.Snapshot().Message.IsAbsent(), ShouldBeTrue)
		})

		Convey("Study mode and expansion reach the host state", func() {
			b.Update(keyPress("t"))
			So(b.player.IsStudyMode, ShouldBeTrue)
			So(b.view.Snapshot().IsStudyMode, ShouldBeTrue)

			b.Update(keyPress("e"))
			So(b.player.IsExpanded, ShouldBeTrue)
			So(b.View(), ShouldContainSubstring, "Now Playing")
		})

		Convey("Quit stops playback and clears the item", func() {
			b.Update(keyPress("q"))
			So(b.player.IsPlaying, ShouldBeFalse)
			So(b.player.Item.IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given a host without autoplay", t, func() {
		setupViper(false)
		So(progress.Clear(), ShouldBeNil)

		output := newFakeOutput()
		b := newBubble(output, &Options{Queue: testQueue()})
		b.Init()

		Convey("Ready does not start playback", func() {
			b.send(playback.Ready(b.tag()))
			So(output.calls, ShouldNotContain, "play")
			So(b.controller.Session().Phase, ShouldEqual, playback.PhaseReady)
		})

		Convey("Play before ready is deferred", func() {
			b.Update(keyPress(" "))
			So(b.player.IsPlaying, ShouldBeTrue)
			So(output.calls, ShouldNotContain, "play")

			b.send(playback.Ready(b.tag()))
			So(output.last(), ShouldEqual, "play")
		})

		Convey("Ended stays on the track and stops", func() {
			b.Update(keyPress(" "))
			b.send(playback.Ready(b.tag()))
			b.send(playback.Ended(b.tag()))

			So(b.player.Item.MustGet().ID, ShouldEqual, "ep-1")
			So(b.player.IsPlaying, ShouldBeFalse)
			So(b.controller.Session().Phase, ShouldEqual, playback.PhasePaused)
			So(b.controller.Session().Position, ShouldEqual, 0)
		})
	})

	Convey("Given a catalog track with a known duration", t, func() {
		setupViper(false)
		So(progress.Clear(), ShouldBeNil)

		queue := testQueue()
		queue[0].Duration = mo.Some("1:20")

		output := newFakeOutput()
		b := newBubble(output, &Options{Queue: queue})
		b.Init()

		Convey("The controller starts with it", func() {
			So(b.controller.Session().Duration, ShouldEqual, 80)
		})

		Convey("Seeking does not wait for the first progress", func() {
			b.Update(keyPress("l"))
			So(output.seeks, ShouldResemble, []float64{10})
		})
	})

	Convey("Given saved progress and a resumed start", t, func() {
		setupViper(false)
		So(progress.Clear(), ShouldBeNil)

		queue := testQueue()
		So(progress.Save(queue[1], 60, 120), ShouldBeNil)

		output := newFakeOutput()
		b := newBubble(output, &Options{Queue: queue, Start: 1, Resume: true})
		b.Init()

		Convey("The first progress with a duration seeks to the saved position", func() {
			b.send(playback.Ready(b.tag()))
			b.send(playback.Progress(b.tag(), 0, 0))
			So(output.seeks, ShouldBeEmpty)

			b.send(playback.Progress(b.tag(), 0, 120))
			So(output.seeks, ShouldResemble, []float64{60})

			b.send(playback.Progress(b.tag(), 1, 120))
			So(output.seeks, ShouldHaveLength, 1)
		})
	})
}

func TestRenderWaveform(t *testing.T) {
	Convey("Given three bars", t, func() {
		bars := []view.Bar{{Height: 100, Active: true}, {Height: 10}, {Height: 50}}

		Convey("Every row has one cell per bar", func() {
			rows := strings.Split(renderWaveform(bars, 2), "\n")
			So(rows, ShouldHaveLength, 2)
			for _, row := range rows {
				So(lipgloss.Width(row), ShouldEqual, 3)
			}
		})

		Convey("Nothing is drawn without bars", func() {
			So(renderWaveform(nil, 2), ShouldBeEmpty)
		})
	})
}
