// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Engine - these keys tune the audio output backend and the controller defaults.
const (
	PlayerBackend         = "player.backend"
	PlayerMPVPath         = "player.mpv_path"
	PlayerDefaultSpeed    = "player.default_speed"
	PlayerAutoplay        = "player.autoplay"
	PlayerLikeDebounceMs  = "player.like_debounce_ms"
	PlayerSeekStepSeconds = "player.seek_step_seconds"
)

// Progress Tracking - these keys configure persistence of resume positions.
const (
	ProgressSave                 = "progress.save"
	ProgressSaveIntervalSeconds  = "progress.save_interval_seconds"
	ProgressCompletionPercentage = "progress.completion_percentage"
)

// Catalog Search - these keys configure the --find lookup.
const (
	FindRememberQueries  = "find.remember_queries"
	FindQuerySuggestions = "find.query_suggestions"
)

// Waveform rendering.
const (
	WaveformBars = "waveform.bars"
)

// Terminal User Interface (TUI) - these keys define the interactive player's presentation.
const (
	TUIStartExpanded = "tui.start_expanded"
	TUIShowLocator   = "tui.show_locator"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
