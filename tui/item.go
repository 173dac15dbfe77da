package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lectern-cli/lectern/icon"
	"github.com/lectern-cli/lectern/progress"
	"github.com/lectern-cli/lectern/style"
	"github.com/lectern-cli/lectern/track"
)

// listItem implements the list.Item interface for queue tracks and saved progress records.
type listItem struct {
	internal interface{}
	marked   bool
}

func (t *listItem) getMark() string {
	switch t.internal.(type) {
	case *track.Track:
		return lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Track))
	default:
		return ""
	}
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *track.Track:
		var sb strings.Builder
		sb.WriteString(e.Title)
		if d, ok := e.Duration.Get(); ok {
			sb.WriteString(" ")
			sb.WriteString(style.Faint(d))
		}
		if e.IsFavorite {
			sb.WriteString(" ")
			sb.WriteString(icon.Get(icon.Like))
		}
		title = sb.String()
	case *progress.Record:
		title = e.Title
	default:
		title = t.FilterValue()
	}

	if title != "" && t.marked {
		title = fmt.Sprintf("%s %s", title, t.getMark())
	}

	return
}

// Description retrieves the secondary line for the list item.
func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case *track.Track:
		description = e.Subtitle()
		if !e.Playable() {
			description = lipgloss.NewStyle().Foreground(style.ErrorColor).Render("no audio")
		}
	case *progress.Record:
		percentage := lipgloss.NewStyle().Foreground(style.Yellow).Render(fmt.Sprintf(" (%.0f%%)", e.Percentage()))
		description = fmt.Sprintf("%s%s", e.String(), percentage)
	}

	return
}

// FilterValue returns the string used for list filtering.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *track.Track:
		return e.Title + " " + e.Subtitle()
	case *progress.Record:
		return e.Title + " " + e.CourseTitle
	default:
		return ""
	}
}
