package playback

import "github.com/samber/mo"

// Session is the mutable state of the one playable resource.
// It is reset in place on every load and only released by Controller.Close.
type Session struct {
	ID            string
	ActiveLocator mo.Option[string]
	Generation    uint64
	IsReady       bool
	LastError     *Error
	Position      float64
	Duration      float64
	Rate          float64
	Phase         Phase
	PlayOnReady   bool
}

// Tag returns the tag of the active load.
func (s Session) Tag() Tag {
	return Tag{Locator: s.ActiveLocator.OrEmpty(), Generation: s.Generation}
}

// Owns reports whether tag belongs to the active load.
func (s Session) Owns(tag Tag) bool {
	locator, ok := s.ActiveLocator.Get()
	return ok && locator == tag.Locator && s.Generation == tag.Generation
}
