package playback

// Tag identifies the load an event belongs to.
// Generation distinguishes two loads of the same locator.
type Tag struct {
	Locator    string
	Generation uint64
}

// EventKind enumerates platform callbacks.
type EventKind int

const (
	EventReady EventKind = iota + 1
	EventProgress
	EventEnded
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventProgress:
		return "progress"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a tagged callback from an Output.
type Event struct {
	Kind     EventKind
	Tag      Tag
	Position float64
	Duration float64
	Err      *Error
}

// Ready reports that the output can start playing the tagged load.
func Ready(tag Tag) Event {
	return Event{Kind: EventReady, Tag: tag}
}

// Progress reports position and duration in seconds. A zero duration means unknown.
func Progress(tag Tag, position, duration float64) Event {
	return Event{Kind: EventProgress, Tag: tag, Position: position, Duration: duration}
}

// Ended reports that the tagged load played to completion.
func Ended(tag Tag) Event {
	return Event{Kind: EventEnded, Tag: tag}
}

// Failed reports a load or playback failure for the tagged load.
func Failed(tag Tag, kind Kind, cause error) Event {
	return Event{Kind: EventError, Tag: tag, Err: NewError(kind, tag.Locator, cause)}
}
