// Package player provides the audio outputs the playback controller drives.
// The primary implementation targets mpv via its JSON-IPC interface.
package player

import (
	"fmt"

	"github.com/lectern-cli/lectern/key"
	"github.com/lectern-cli/lectern/playback"
	"github.com/spf13/viper"
)

// BackendMPV is the only supported backend.
const BackendMPV = "mpv"

// Backends lists the accepted values of player.backend.
var Backends = []string{BackendMPV}

// New creates the output configured by player.backend.
func New() (playback.Output, error) {
	switch backend := viper.GetString(key.PlayerBackend); backend {
	case BackendMPV, "":
		return NewMPV(viper.GetString(key.PlayerMPVPath)), nil
	default:
		return nil, fmt.Errorf("unknown player backend %q, available: %v", backend, Backends)
	}
}
