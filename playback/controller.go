// Package playback drives a single audio output across rapid track switches.
//
// Every load is tagged with its locator and a generation number. Events coming
// back from the output carry that tag and are compared against the active load
// when they are dispatched, so callbacks from a superseded track never reach
// the observer.
//
// A Controller is not safe for concurrent use. Drive it from the host's event
// loop and hand output events to Dispatch from that same loop.
package playback

import (
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/lectern-cli/lectern/log"
	"github.com/lectern-cli/lectern/util"
	"github.com/samber/mo"
)

var errEmptyLocator = errors.New("empty locator")

// Controller owns one Output and the Session describing what it plays.
type Controller struct {
	output   Output
	observer Observer
	desired  func() bool
	want     bool
	known    float64
	session  Session
	logger   log.Entry
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver sets the receiver of filtered notifications.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// WithDesiredPlaying supplies the host's current play/pause intent.
// It seeds the deferred-play slot of every new load.
func WithDesiredPlaying(f func() bool) Option {
	return func(c *Controller) {
		c.desired = f
	}
}

// WithRate sets the initial playback rate. Rates outside Rates are ignored.
func WithRate(rate float64) Option {
	return func(c *Controller) {
		if ValidRate(rate) {
			c.session.Rate = rate
		}
	}
}

// LoadOption configures a single LoadTrack call.
type LoadOption func(*load)

type load struct {
	duration float64
}

// WithKnownDuration seeds the session duration from metadata such as a catalog
// entry. The first progress event that carries a duration replaces it.
func WithKnownDuration(seconds float64) LoadOption {
	return func(l *load) {
		if seconds > 0 && !math.IsInf(seconds, 0) {
			l.duration = seconds
		}
	}
}

// New creates a controller around output. The output is owned from here on
// and released by Close.
func New(output Output, opts ...Option) *Controller {
	c := &Controller{
		output:   output,
		observer: nopObserver{},
		session: Session{
			Rate:  DefaultRate,
			Phase: PhaseIdle,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Session returns a copy of the current session state.
func (c *Controller) Session() Session {
	return c.session
}

// Events exposes the output's event stream for the host loop to drain.
func (c *Controller) Events() <-chan Event {
	return c.output.Events()
}

// LoadTrack retargets the output at locator. Anything still in flight for a
// previous load becomes stale.
func (c *Controller) LoadTrack(locator string, opts ...LoadOption) error {
	if strings.TrimSpace(locator) == "" {
		return NewError(KindInvalidArgument, locator, errEmptyLocator)
	}

	var l load
	for _, opt := range opts {
		opt(&l)
	}
	c.known = l.duration

	if c.session.ID == "" {
		c.session.ID = uuid.NewString()
		c.logger = log.With(log.Fields{"session": c.session.ID})
	}

	c.session.Generation++
	c.session.ActiveLocator = mo.Some(locator)
	c.session.IsReady = false
	c.session.LastError = nil
	c.session.Position = 0
	c.session.Duration = l.duration
	c.session.PlayOnReady = c.wantsPlay()
	c.setPhase(PhaseLoading)

	tag := c.session.Tag()
	c.logger.Infof("loading %s (generation %d)", locator, tag.Generation)

	if err := c.output.Load(tag); err != nil {
		c.Dispatch(Failed(tag, classifyOutputErr(err, KindNetwork), err))
		return err
	}

	return nil
}

// SetDesiredPlaying records the host's play/pause intent for hosts that push
// it instead of supplying WithDesiredPlaying. A pending load picks it up.
func (c *Controller) SetDesiredPlaying(playing bool) {
	c.want = playing
	if !c.session.IsReady && c.session.Phase == PhaseLoading {
		c.session.PlayOnReady = playing
	}
}

func (c *Controller) wantsPlay() bool {
	if c.desired != nil {
		return c.desired()
	}
	return c.want
}

// Retry reloads the active locator after a retryable failure.
func (c *Controller) Retry() error {
	locator, ok := c.session.ActiveLocator.Get()
	if !ok {
		return NewError(KindInvalidArgument, "", errEmptyLocator)
	}
	if c.session.LastError == nil || !c.session.LastError.Retryable() {
		return nil
	}
	return c.LoadTrack(locator, WithKnownDuration(c.known))
}

// Play starts output. While the active track is not ready the request is
// remembered and honoured once it is; ErrNotReady is returned so callers
// know the start is deferred.
func (c *Controller) Play() error {
	if !c.session.IsReady {
		c.session.PlayOnReady = true
		return NewError(KindNotReady, c.session.ActiveLocator.OrEmpty(), nil)
	}
	return c.start()
}

// Pause stops output. It always succeeds and is idempotent.
func (c *Controller) Pause() {
	c.session.PlayOnReady = false
	if c.session.Phase != PhasePlaying {
		return
	}

	if err := c.output.Pause(); err != nil {
		c.logger.Warnf("pause: %v", err)
	}
	c.setPhase(PhasePaused)
}

// Seek moves to seconds, clamped to [0, duration]. It does nothing while the
// duration is unknown.
func (c *Controller) Seek(seconds float64) {
	if c.session.Duration <= 0 {
		return
	}
	if math.IsNaN(seconds) {
		seconds = 0
	}

	target := util.Clamp(seconds, 0, c.session.Duration)
	if err := c.output.Seek(target); err != nil {
		c.logger.Warnf("seek to %.1f: %v", target, err)
		return
	}

	c.session.Position = target
	if c.session.Phase == PhaseEnded {
		c.setPhase(PhasePaused)
	}
}

// SeekFraction seeks to fraction of the known duration.
func (c *Controller) SeekFraction(fraction float64) {
	if math.IsNaN(fraction) {
		fraction = 0
	}
	c.Seek(util.Clamp(fraction, 0, 1) * c.session.Duration)
}

// SetPlaybackRate applies one of Rates.
func (c *Controller) SetPlaybackRate(rate float64) error {
	if !ValidRate(rate) {
		return NewError(KindInvalidArgument, c.session.ActiveLocator.OrEmpty(), errors.New("unsupported rate"))
	}

	c.session.Rate = rate
	if err := c.output.SetRate(rate); err != nil {
		c.logger.Warnf("set rate %v: %v", rate, err)
	}
	return nil
}

// Dispatch applies one output event. Events that do not belong to the active
// load are dropped before they touch the session or the observer.
func (c *Controller) Dispatch(ev Event) {
	if !c.session.Owns(ev.Tag) {
		c.logger.Debugf("dropping stale %s for %s (generation %d)", ev.Kind, ev.Tag.Locator, ev.Tag.Generation)
		return
	}

	locator := ev.Tag.Locator

	switch ev.Kind {
	case EventReady:
		if c.session.IsReady {
			return
		}
		c.session.IsReady = true
		c.session.LastError = nil
		c.setPhase(PhaseReady)
		c.observer.OnReady(locator)

		if c.session.PlayOnReady {
			_ = c.start()
		}

	case EventProgress:
		if ev.Duration > 0 && !math.IsInf(ev.Duration, 0) {
			c.session.Duration = ev.Duration
		}
		pos := ev.Position
		if math.IsNaN(pos) || pos < 0 {
			pos = 0
		}
		if c.session.Duration > 0 {
			pos = math.Min(pos, c.session.Duration)
		}
		c.session.Position = pos
		c.observer.OnProgress(locator, c.session.Position, c.session.Duration)

	case EventEnded:
		c.session.PlayOnReady = false
		c.session.Position = 0
		c.setPhase(PhaseEnded)
		if err := c.output.Pause(); err != nil {
			c.logger.Warnf("pause after end: %v", err)
		}
		if err := c.output.Seek(0); err != nil {
			c.logger.Warnf("rewind after end: %v", err)
		}
		c.observer.OnEnded(locator)
		c.setPhase(PhasePaused)

	case EventError:
		err := ev.Err
		if err == nil {
			err = NewError(KindDecode, locator, nil)
		}
		if err.Kind == KindAborted {
			c.logger.Debugf("ignoring aborted load of %s", locator)
			return
		}
		c.fail(err)
	}
}

// Close releases the output. Events still queued become stale.
func (c *Controller) Close() error {
	c.session.Generation++
	c.session.ActiveLocator = mo.None[string]()
	c.session.IsReady = false
	c.session.PlayOnReady = false
	c.setPhase(PhaseIdle)
	return c.output.Close()
}

func (c *Controller) start() error {
	c.session.PlayOnReady = false

	if err := c.output.Play(); err != nil {
		perr := NewError(KindDevice, c.session.ActiveLocator.OrEmpty(), err)
		c.session.LastError = perr
		c.setPhase(PhasePaused)
		c.logger.Warnf("play rejected: %v", err)
		c.observer.OnError(perr.Locator, perr)
		return perr
	}

	c.setPhase(PhasePlaying)
	return nil
}

func (c *Controller) fail(err *Error) {
	c.session.LastError = err
	c.session.IsReady = false
	c.session.PlayOnReady = false
	c.setPhase(PhaseError)
	c.logger.Errorf("%v", err)
	c.observer.OnError(err.Locator, err)
}

func (c *Controller) setPhase(p Phase) {
	if c.session.Phase == p {
		return
	}
	c.logger.Debugf("phase %s -> %s", c.session.Phase, p)
	c.session.Phase = p
	c.observer.OnPhase(p)
}

// classifyOutputErr keeps the kind of an *Error returned by an output and
// falls back to def for anything else.
func classifyOutputErr(err error, def Kind) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return def
}
