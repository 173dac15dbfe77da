// Package ui provides state management and rendering for ephemeral terminal notifications.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lectern-cli/lectern/style"
)

// notificationLifetime is how long a notification stays on screen.
const notificationLifetime = 3 * time.Second

// Model holds the notification currently shown under the main view.
type Model struct {
	notification string
	seq          int
}

// NotificationMsg asks the model to show a notification.
type NotificationMsg string

// ClearNotificationMsg resets the notification it was scheduled for.
type ClearNotificationMsg struct {
	seq int
}

// Notify returns a tea.Cmd that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(text)
	}
}

// Update processes incoming messages to modify the notification state.
// A clear scheduled for an older notification leaves a newer one in place.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = string(msg)
		m.seq++
		seq := m.seq
		return tea.Tick(notificationLifetime, func(time.Time) tea.Msg {
			return ClearNotificationMsg{seq: seq}
		})
	case ClearNotificationMsg:
		if msg.seq == m.seq {
			m.notification = ""
		}
	}
	return nil
}

// Current returns the visible notification, if any.
func (m *Model) Current() string {
	return m.notification
}

// View appends the current notification to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] = lines[len(lines)-1] + "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
