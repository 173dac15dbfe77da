// Package tui hosts the player in a terminal user interface.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lectern-cli/lectern/player"
	"github.com/lectern-cli/lectern/track"
	"github.com/lectern-cli/lectern/util"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Queue []*track.Track
	// Start is the queue index played first.
	Start int
	// Resume seeks the first track to its saved position once it is ready.
	Resume bool
}

// Run builds the audio output and runs the player until the user quits.
func Run(options *Options) error {
	if len(options.Queue) == 0 {
		return errors.New("nothing to play")
	}

	output, err := player.New()
	if err != nil {
		return err
	}

	bubble := newBubble(output, options)
	defer util.Ignore(bubble.controller.Close)

	_, err = tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
