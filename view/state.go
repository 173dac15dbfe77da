// Package view derives what the player shows from controller notifications and user gestures.
package view

import (
	"time"

	"github.com/lectern-cli/lectern/playback"
	"github.com/lectern-cli/lectern/timefmt"
	"github.com/lectern-cli/lectern/track"
	"github.com/lectern-cli/lectern/util"
	"github.com/samber/mo"
)

// DefaultLikeWindow is how long a like toggle blocks the next one.
const DefaultLikeWindow = 400 * time.Millisecond

// Controls is the part of the controller the view drives directly.
type Controls interface {
	SeekFraction(fraction float64)
	SetPlaybackRate(rate float64) error
}

// Hooks forwards view events to the host. Nil hooks are skipped.
type Hooks struct {
	OnTimeUpdate      func(current, duration float64)
	OnEnded           func()
	OnToggleStudyMode func()
	OnExpand          func(expanded bool)
}

// Message is a user-visible failure scoped to the track it happened on.
type Message struct {
	Locator string
	Kind    playback.Kind
	Text    string
}

// Snapshot is everything a presentation needs to render one frame.
type Snapshot struct {
	ProgressFraction float64
	IsExpanded       bool
	IsStudyMode      bool
	IsLiked          bool
	IsLikeAnimating  bool
	IsPlaying        bool
	DisplayPosition  string
	DisplayDuration  string
	Speed            float64
	SpeedLabel       string
	Bars             []Bar
	Message          mo.Option[Message]
	Phase            playback.Phase
}

// State is the presentation state shared by the mini and expanded players.
// It implements playback.Observer.
type State struct {
	controls Controls
	hooks    Hooks
	now      func() time.Time

	track    *track.Track
	position float64
	duration float64
	fraction float64
	speed    float64
	phase    playback.Phase
	message  mo.Option[Message]

	liked      bool
	likeUntil  time.Time
	likeWindow time.Duration

	studyMode bool
	expanded  bool

	waveform *waveform
}

// Option configures a State.
type Option func(*State)

// WithClock replaces time.Now for the like debounce.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		s.now = now
	}
}

// WithLikeWindow sets the like debounce window.
func WithLikeWindow(d time.Duration) Option {
	return func(s *State) {
		if d >= 0 {
			s.likeWindow = d
		}
	}
}

// WithBars sets the number of waveform bars.
func WithBars(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.waveform = newWaveform(n)
		}
	}
}

// WithHooks wires host callbacks.
func WithHooks(h Hooks) Option {
	return func(s *State) {
		s.hooks = h
	}
}

// WithExpanded sets the initial presentation.
func WithExpanded(expanded bool) Option {
	return func(s *State) {
		s.expanded = expanded
	}
}

// New returns a State driving controls.
func New(controls Controls, opts ...Option) *State {
	s := &State{
		controls:   controls,
		now:        time.Now,
		speed:      playback.DefaultRate,
		likeWindow: DefaultLikeWindow,
		waveform:   newWaveform(DefaultBars),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetTrack resets per-track state for t. A duration known from the catalog
// is taken until the output reports the real one.
func (s *State) SetTrack(t *track.Track) {
	s.track = t
	s.position = 0
	s.duration = 0
	if t != nil {
		s.duration, _ = t.KnownDuration()
	}
	s.fraction = 0
	s.message = mo.None[Message]()
	s.likeUntil = time.Time{}
	s.liked = t != nil && t.IsFavorite
	s.studyMode = false
}

// Track returns the current track, if any.
func (s *State) Track() mo.Option[*track.Track] {
	if s.track == nil {
		return mo.None[*track.Track]()
	}
	return mo.Some(s.track)
}

// SetSpeed mirrors a rate applied elsewhere, e.g. from configuration.
func (s *State) SetSpeed(rate float64) {
	if playback.ValidRate(rate) {
		s.speed = rate
	}
}

// Scrub seeks to fraction of the known duration and shows it immediately.
// It does nothing while the duration is unknown.
func (s *State) Scrub(fraction float64) {
	if s.duration <= 0 {
		return
	}

	fraction = util.Clamp(fraction, 0, 1)
	s.controls.SeekFraction(fraction)
	s.fraction = fraction
	s.position = fraction * s.duration
}

// Nudge scrubs by delta seconds from the current position.
func (s *State) Nudge(delta float64) {
	if s.duration <= 0 {
		return
	}
	s.Scrub((s.position + delta) / s.duration)
}

// CycleSpeed advances to the next playback rate, wrapping after the last.
func (s *State) CycleSpeed() float64 {
	next := playback.NextRate(s.speed)
	if err := s.controls.SetPlaybackRate(next); err != nil {
		return s.speed
	}
	s.speed = next
	return s.speed
}

// ToggleLike flips the like flag unless a previous toggle is still animating.
// It reports whether the toggle was applied.
func (s *State) ToggleLike() bool {
	now := s.now()
	if now.Before(s.likeUntil) {
		return false
	}

	s.liked = !s.liked
	s.likeUntil = now.Add(s.likeWindow)
	return true
}

// ToggleStudyMode flips study mode.
func (s *State) ToggleStudyMode() {
	s.studyMode = !s.studyMode
	if s.hooks.OnToggleStudyMode != nil {
		s.hooks.OnToggleStudyMode()
	}
}

// SetExpanded switches between the mini and expanded presentation.
func (s *State) SetExpanded(expanded bool) {
	if s.expanded == expanded {
		return
	}
	s.expanded = expanded
	if s.hooks.OnExpand != nil {
		s.hooks.OnExpand(expanded)
	}
}

// DismissMessage hides the current error message.
func (s *State) DismissMessage() {
	s.message = mo.None[Message]()
}

// Bars returns the waveform for the current track and progress.
func (s *State) Bars() []Bar {
	id := ""
	if s.track != nil {
		id = s.track.ID
	}
	return s.waveform.bars(id, s.fraction, s.studyMode, s.phase.IsPlaying())
}

// Snapshot captures the current presentation state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		ProgressFraction: s.fraction,
		IsExpanded:       s.expanded,
		IsStudyMode:      s.studyMode,
		IsLiked:          s.liked,
		IsLikeAnimating:  s.now().Before(s.likeUntil),
		IsPlaying:        s.phase.IsPlaying(),
		DisplayPosition:  timefmt.Format(s.position),
		DisplayDuration:  s.displayDuration(),
		Speed:            s.speed,
		SpeedLabel:       playback.RateLabel(s.speed),
		Bars:             s.Bars(),
		Message:          s.message,
		Phase:            s.phase,
	}
}

func (s *State) displayDuration() string {
	if s.track != nil {
		if d, ok := s.track.Duration.Get(); ok {
			return d
		}
	}
	return timefmt.Format(s.duration)
}

func (s *State) OnReady(string) {
	s.message = mo.None[Message]()
}

func (s *State) OnProgress(_ string, position, duration float64) {
	s.position = position
	if duration > 0 {
		s.duration = duration
		s.fraction = util.Clamp(position/duration, 0, 1)
	} else {
		s.fraction = 0
	}

	if s.hooks.OnTimeUpdate != nil {
		s.hooks.OnTimeUpdate(position, duration)
	}
}

func (s *State) OnEnded(string) {
	s.position = 0
	s.fraction = 0
	if s.hooks.OnEnded != nil {
		s.hooks.OnEnded()
	}
}

func (s *State) OnError(locator string, err *playback.Error) {
	if err == nil || !err.Surfaced() {
		return
	}
	s.message = mo.Some(Message{
		Locator: locator,
		Kind:    err.Kind,
		Text:    err.Kind.Message(),
	})
}

func (s *State) OnPhase(phase playback.Phase) {
	s.phase = phase
}
