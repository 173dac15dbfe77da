package tui

import (
	"github.com/lectern-cli/lectern/track"
	"github.com/samber/mo"
)

// PlayerState is the host-owned description of what should be playing.
type PlayerState struct {
	Item        mo.Option[*track.Track]
	IsPlaying   bool
	IsExpanded  bool
	IsStudyMode bool
}

// Intents are the requests the player raises towards its host.
type Intents struct {
	OnClose           func()
	OnTogglePlay      func()
	OnExpand          func(expanded bool)
	OnToggleStudyMode func()
	OnTimeUpdate      func(current, duration float64)
}
