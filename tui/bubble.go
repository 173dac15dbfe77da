package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	bubblesProgress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lectern-cli/lectern/internal/ui"
	"github.com/lectern-cli/lectern/key"
	"github.com/lectern-cli/lectern/log"
	"github.com/lectern-cli/lectern/playback"
	"github.com/lectern-cli/lectern/progress"
	"github.com/lectern-cli/lectern/style"
	"github.com/lectern-cli/lectern/track"
	"github.com/lectern-cli/lectern/util"
	"github.com/lectern-cli/lectern/view"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// statefulBubble is the host: it owns the PlayerState, the one controller
// and the view state both presentations render from.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	progressC bubblesProgress.Model
	helpC     help.Model
	queueC    list.Model
	recentC   list.Model
	notifier  *ui.Model

	controller *playback.Controller
	view       *view.State
	observers  playback.Observers
	player     PlayerState
	intents    Intents

	queue []*track.Track
	index int

	resume   mo.Option[float64]
	lastSave time.Time

	// pending holds commands raised from observer callbacks; deferred holds
	// controller calls that must wait until the current event is dispatched.
	pending  []tea.Cmd
	deferred []func() tea.Cmd

	width, height int
	options       *Options
}

type eventMsg playback.Event

type redrawMsg struct{}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.queueC.SetSize(listWidth, listHeight)
	b.queueC.Help.Width = listWidth
	b.recentC.SetSize(listWidth, listHeight)
	b.recentC.Help.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.progressC.Width = b.width
	b.helpC.Width = b.width
}

// waitForEvent delivers the next output event to the update loop.
func (b *statefulBubble) waitForEvent() tea.Cmd {
	events := b.controller.Events()
	return func() tea.Msg {
		return eventMsg(<-events)
	}
}

// play makes queue[index] the host's item and retargets the controller at it.
func (b *statefulBubble) play(index int) tea.Cmd {
	if index < 0 || index >= len(b.queue) {
		return nil
	}

	t := b.queue[index]
	locator, ok := t.AudioLocator.Get()
	if !ok {
		return ui.Notify(fmt.Sprintf("%s has no audio", t.Title))
	}

	b.flushProgress()

	b.index = index
	b.player.Item = mo.Some(t)
	b.player.IsStudyMode = false
	b.view.SetTrack(t)
	b.resume = mo.None[float64]()
	b.lastSave = time.Time{}

	var opts []playback.LoadOption
	if d, ok := t.KnownDuration(); ok {
		opts = append(opts, playback.WithKnownDuration(d))
	}
	if err := b.controller.LoadTrack(locator, opts...); err != nil {
		log.Warnf("load %s: %v", locator, err)
	}

	return b.spinnerC.Tick
}

// resumeFrom seeks to the saved position of the current track once its
// duration is known.
func (b *statefulBubble) resumeFrom(t *track.Track) {
	if record, ok := progress.Get(t.ID).Get(); ok && record.Resumable() {
		b.resume = mo.Some(record.Position)
	}
}

func (b *statefulBubble) applyResume() {
	position, ok := b.resume.Get()
	if !ok || b.controller.Session().Duration <= 0 {
		return
	}
	b.resume = mo.None[float64]()
	b.controller.Seek(position)
}

// applyIntent pushes the host's play/pause decision into the controller.
func (b *statefulBubble) applyIntent() {
	if !b.player.IsPlaying {
		b.controller.Pause()
		b.flushProgress()
		return
	}

	err := b.controller.Play()
	if err != nil && !errors.Is(err, playback.ErrNotReady) {
		b.player.IsPlaying = false
		return
	}

	// a failed track never becomes ready unless it can be retried
	session := b.controller.Session()
	if session.Phase == playback.PhaseError && session.LastError != nil && !session.LastError.Retryable() {
		b.controller.Pause()
		b.player.IsPlaying = false
	}
}

func (b *statefulBubble) togglePlay() {
	b.player.IsPlaying = !b.player.IsPlaying
	b.applyIntent()
}

func (b *statefulBubble) closePlayer() {
	b.flushProgress()
	b.player.IsPlaying = false
	b.controller.Pause()
	b.player.Item = mo.None[*track.Track]()
}

func (b *statefulBubble) saveProgress(current, duration float64) {
	interval := time.Duration(viper.GetInt(key.ProgressSaveIntervalSeconds)) * time.Second
	if time.Since(b.lastSave) < interval {
		return
	}
	b.writeProgress(current, duration)
}

// flushProgress saves the current position regardless of the save interval.
func (b *statefulBubble) flushProgress() {
	session := b.controller.Session()
	b.writeProgress(session.Position, session.Duration)
}

func (b *statefulBubble) writeProgress(current, duration float64) {
	if current <= 0 || !viper.GetBool(key.ProgressSave) {
		return
	}
	t, ok := b.player.Item.Get()
	if !ok {
		return
	}

	b.lastSave = time.Now()
	if err := progress.Save(t, current, duration); err != nil {
		log.Warnf("save progress of %s: %v", t.ID, err)
	}
}

// onEnded completes the track, stops the host intent and optionally moves on.
func (b *statefulBubble) onEnded() {
	if t, ok := b.player.Item.Get(); ok && viper.GetBool(key.ProgressSave) {
		if err := progress.MarkCompleted(t); err != nil {
			log.Warnf("mark %s completed: %v", t.ID, err)
		}
	}
	b.lastSave = time.Now()

	if b.player.IsPlaying {
		b.intents.OnTogglePlay()
	}

	if viper.GetBool(key.PlayerAutoplay) && b.index+1 < len(b.queue) {
		b.deferred = append(b.deferred, func() tea.Cmd {
			b.player.IsPlaying = true
			return b.play(b.index + 1)
		})
	}
}

// flush collects commands raised while dispatching and runs deferred controller calls.
func (b *statefulBubble) flush() []tea.Cmd {
	cmds := b.pending
	b.pending = nil

	deferred := b.deferred
	b.deferred = nil
	for _, f := range deferred {
		cmds = append(cmds, f())
	}

	return cmds
}

// The controller notifies the view state first and then the host, through
// observers. The host itself only reacts to failures.

func (b *statefulBubble) OnReady(string)                      {}
func (b *statefulBubble) OnProgress(string, float64, float64) {}
func (b *statefulBubble) OnEnded(string)                      {}
func (b *statefulBubble) OnPhase(playback.Phase)              {}

func (b *statefulBubble) OnError(_ string, err *playback.Error) {
	b.player.IsPlaying = false
	if err.Surfaced() {
		b.pending = append(b.pending, ui.Notify(err.Kind.Message()))
	}
}

func newBubble(output playback.Output, options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := &statefulBubble{
		keymap:   keymap,
		notifier: &ui.Model{},
		queue:    options.Queue,
		options:  options,
		player: PlayerState{
			IsPlaying:  viper.GetBool(key.PlayerAutoplay),
			IsExpanded: viper.GetBool(key.TUIStartExpanded),
		},
	}

	bubble.intents = Intents{
		OnClose:      bubble.closePlayer,
		OnTogglePlay: bubble.togglePlay,
		OnExpand: func(expanded bool) {
			bubble.player.IsExpanded = expanded
		},
		OnToggleStudyMode: func() {
			bubble.player.IsStudyMode = !bubble.player.IsStudyMode
		},
		OnTimeUpdate: bubble.saveProgress,
	}

	rate := viper.GetFloat64(key.PlayerDefaultSpeed)
	bubble.controller = playback.New(
		output,
		playback.WithObserver(&bubble.observers),
		playback.WithDesiredPlaying(func() bool { return bubble.player.IsPlaying }),
		playback.WithRate(rate),
	)
	if err := bubble.controller.SetPlaybackRate(rate); err != nil {
		rate = playback.DefaultRate
	}

	bubble.view = view.New(
		bubble.controller,
		view.WithBars(viper.GetInt(key.WaveformBars)),
		view.WithLikeWindow(time.Duration(viper.GetInt(key.PlayerLikeDebounceMs))*time.Millisecond),
		view.WithExpanded(bubble.player.IsExpanded),
		view.WithHooks(view.Hooks{
			OnTimeUpdate:      bubble.intents.OnTimeUpdate,
			OnEnded:           bubble.onEnded,
			OnToggleStudyMode: bubble.intents.OnToggleStudyMode,
			OnExpand:          bubble.intents.OnExpand,
		}),
	)
	bubble.view.SetSpeed(rate)
	bubble.observers = playback.Observers{bubble.view, bubble}

	makeList := func(title string, bg lipgloss.Color) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = keymap.forList()
		listC.AdditionalShortHelpKeys = keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(bg).Padding(0, 1)
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)
		return listC
	}

	bubble.queueC = makeList("Queue", style.Peach)
	bubble.queueC.SetStatusBarItemName("track", "tracks")
	bubble.recentC = makeList("Continue Listening", style.Yellow)
	bubble.recentC.SetStatusBarItemName("entry", "entries")

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = bubblesProgress.New(
		bubblesProgress.WithGradient(string(style.Mauve), string(style.Lavender)),
		bubblesProgress.WithoutPercentage(),
	)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.index = lo.Clamp(options.Start, 0, max(len(options.Queue)-1, 0))
	return bubble
}
