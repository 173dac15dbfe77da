package playback

// Output is the single platform audio resource a Controller drives.
//
// Commands return once issued; outcomes arrive later on Events, tagged with
// the Tag passed to Load.
type Output interface {
	Load(tag Tag) error
	Play() error
	Pause() error
	Seek(seconds float64) error
	SetRate(rate float64) error
	Events() <-chan Event
	Close() error
}

// Observer receives notifications that survived stale-event filtering.
type Observer interface {
	OnReady(locator string)
	OnProgress(locator string, position, duration float64)
	OnEnded(locator string)
	OnError(locator string, err *Error)
	OnPhase(phase Phase)
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

func (o Observers) OnReady(locator string) {
	for _, obs := range o {
		obs.OnReady(locator)
	}
}

func (o Observers) OnProgress(locator string, position, duration float64) {
	for _, obs := range o {
		obs.OnProgress(locator, position, duration)
	}
}

func (o Observers) OnEnded(locator string) {
	for _, obs := range o {
		obs.OnEnded(locator)
	}
}

func (o Observers) OnError(locator string, err *Error) {
	for _, obs := range o {
		obs.OnError(locator, err)
	}
}

func (o Observers) OnPhase(phase Phase) {
	for _, obs := range o {
		obs.OnPhase(phase)
	}
}

type nopObserver struct{}

func (nopObserver) OnReady(string)                      {}
func (nopObserver) OnProgress(string, float64, float64) {}
func (nopObserver) OnEnded(string)                      {}
func (nopObserver) OnError(string, *Error)              {}
func (nopObserver) OnPhase(Phase)                       {}
