package style

import "github.com/charmbracelet/lipgloss"

// Catppuccin mocha, trimmed to what the player draws with.
var (
	Base    = lipgloss.Color("#1e1e2e")
	Text    = lipgloss.Color("#cdd6f4")
	Overlay = lipgloss.Color("#6c7086")

	Pink     = lipgloss.Color("#f5c2e7")
	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Lavender = lipgloss.Color("#b4befe")
)

var (
	AccentColor    = Mauve
	SecondaryColor = Lavender
	ErrorColor     = Red
	FaintColor     = Overlay
)
