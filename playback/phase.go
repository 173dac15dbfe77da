package playback

// Phase is the lifecycle state of a playback session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhasePlaying
	PhasePaused
	PhaseEnded
	PhaseError
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseLoading:
		return "Loading"
	case PhaseReady:
		return "Ready"
	case PhasePlaying:
		return "Playing"
	case PhasePaused:
		return "Paused"
	case PhaseEnded:
		return "Ended"
	case PhaseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsPlaying reports whether audio is being output.
func (p Phase) IsPlaying() bool {
	return p == PhasePlaying
}
