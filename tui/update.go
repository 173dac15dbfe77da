package tui

import (
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lectern-cli/lectern/internal/ui"
	"github.com/lectern-cli/lectern/key"
	"github.com/lectern-cli/lectern/log"
	"github.com/lectern-cli/lectern/open"
	"github.com/lectern-cli/lectern/playback"
	"github.com/lectern-cli/lectern/progress"
	"github.com/lectern-cli/lectern/track"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// recentLimit is how many entries the continue-listening list shows.
const recentLimit = 5

func (b *statefulBubble) Init() tea.Cmd {
	cmd := b.play(b.index)
	if b.options.Resume {
		if t, ok := b.player.Item.Get(); ok {
			b.resumeFrom(t)
		}
	}

	return tea.Batch(append([]tea.Cmd{cmd, b.waitForEvent()}, b.flush()...)...)
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{b.notifier.Update(msg)}

	switch msg := msg.(type) {
	case eventMsg:
		b.controller.Dispatch(playback.Event(msg))
		if playback.Event(msg).Kind == playback.EventProgress {
			b.applyResume()
		}
		cmds = append(cmds, b.waitForEvent())
		return b, tea.Batch(append(cmds, b.flush()...)...)
	case spinner.TickMsg:
		if b.controller.Session().Phase != playback.PhaseLoading {
			return b, tea.Batch(cmds...)
		}
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, tea.Batch(append(cmds, cmd)...)
	case redrawMsg:
		return b, tea.Batch(cmds...)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			b.intents.OnClose()
			return b, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case playerState:
		cmd = b.updatePlayer(msg)
	case queueState:
		cmd = b.updateQueue(msg)
	case recentState:
		cmd = b.updateRecent(msg)
	}

	cmds = append(cmds, cmd)
	return b, tea.Batch(append(cmds, b.flush()...)...)
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	step := float64(viper.GetInt(key.PlayerSeekStepSeconds))

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		b.intents.OnClose()
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.playPause):
		b.intents.OnTogglePlay()
	case bubblesKey.Matches(keyMsg, b.keymap.seekBack):
		b.view.Nudge(-step)
	case bubblesKey.Matches(keyMsg, b.keymap.seekForward):
		b.view.Nudge(step)
	case bubblesKey.Matches(keyMsg, b.keymap.speed):
		b.view.CycleSpeed()
	case bubblesKey.Matches(keyMsg, b.keymap.like):
		if !b.view.ToggleLike() {
			return nil
		}
		window := time.Duration(viper.GetInt(key.PlayerLikeDebounceMs)) * time.Millisecond
		return tea.Tick(window, func(time.Time) tea.Msg {
			return redrawMsg{}
		})
	case bubblesKey.Matches(keyMsg, b.keymap.study):
		b.view.ToggleStudyMode()
	case bubblesKey.Matches(keyMsg, b.keymap.expand):
		b.view.SetExpanded(!b.player.IsExpanded)
	case bubblesKey.Matches(keyMsg, b.keymap.next):
		return b.play(b.index + 1)
	case bubblesKey.Matches(keyMsg, b.keymap.prev):
		return b.play(b.index - 1)
	case bubblesKey.Matches(keyMsg, b.keymap.retry):
		return b.retry()
	case bubblesKey.Matches(keyMsg, b.keymap.openCover):
		return b.openCover()
	case bubblesKey.Matches(keyMsg, b.keymap.queue):
		b.showQueue()
	case bubblesKey.Matches(keyMsg, b.keymap.recent):
		return b.showRecent()
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.view.DismissMessage()
	case bubblesKey.Matches(keyMsg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return nil
}

func (b *statefulBubble) retry() tea.Cmd {
	lastErr := b.controller.Session().LastError
	if lastErr == nil || !lastErr.Retryable() {
		return nil
	}

	b.view.DismissMessage()
	b.player.IsPlaying = true
	if err := b.controller.Retry(); err != nil {
		log.Warnf("retry: %v", err)
	}
	return b.spinnerC.Tick
}

func (b *statefulBubble) openCover() tea.Cmd {
	t, ok := b.player.Item.Get()
	if !ok || t.CoverURL == "" {
		return ui.Notify("No cover to open")
	}

	if err := open.Start(t.CoverURL); err != nil {
		log.Warnf("open cover %s: %v", t.CoverURL, err)
		return ui.Notify("Could not open cover")
	}
	return nil
}

func (b *statefulBubble) showQueue() {
	items := lo.Map(b.queue, func(t *track.Track, i int) list.Item {
		return &listItem{internal: t, marked: i == b.index}
	})
	_ = b.queueC.SetItems(items)
	b.queueC.Select(b.index)
	b.setState(queueState)
}

func (b *statefulBubble) showRecent() tea.Cmd {
	records, err := progress.RecentlyPlayed(recentLimit)
	if err != nil {
		log.Warnf("recently played: %v", err)
		return ui.Notify("Could not read progress")
	}

	items := lo.Map(records, func(r *progress.Record, _ int) list.Item {
		return &listItem{internal: r}
	})
	_ = b.recentC.SetItems(items)
	b.recentC.ResetSelected()
	b.setState(recentState)
	return nil
}

// updateList handles the shared back navigation of list states and forwards
// everything else to l. It reports whether msg was consumed.
func (b *statefulBubble) updateList(l *list.Model, msg tea.Msg) (tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(keyMsg, b.keymap.back) && l.FilterState() == list.Unfiltered {
		l.ResetFilter()
		b.setState(playerState)
		return nil, true
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && l.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(keyMsg, b.keymap.confirm):
			return nil, false
		case bubblesKey.Matches(keyMsg, b.keymap.quit):
			b.intents.OnClose()
			return tea.Quit, true
		}
	}

	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return cmd, true
}

func (b *statefulBubble) updateQueue(msg tea.Msg) tea.Cmd {
	if cmd, consumed := b.updateList(&b.queueC, msg); consumed {
		return cmd
	}

	item, ok := b.queueC.SelectedItem().(*listItem)
	if !ok {
		return nil
	}
	t := item.internal.(*track.Track)

	b.setState(playerState)
	if i := track.IndexOf(b.queue, t.ID); i != b.index {
		return b.play(i)
	}
	return nil
}

func (b *statefulBubble) updateRecent(msg tea.Msg) tea.Cmd {
	if cmd, consumed := b.updateList(&b.recentC, msg); consumed {
		return cmd
	}

	item, ok := b.recentC.SelectedItem().(*listItem)
	if !ok {
		return nil
	}
	record := item.internal.(*progress.Record)

	i := track.IndexOf(b.queue, record.TrackID)
	if i < 0 {
		b.queue = append(b.queue, record.Track())
		i = len(b.queue) - 1
	}

	b.setState(playerState)
	cmd := b.play(i)
	if t, ok := b.player.Item.Get(); ok && t.ID == record.TrackID {
		b.resumeFrom(t)
	}
	return cmd
}
