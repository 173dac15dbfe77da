// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Lectern is the canonical application identifier used for filesystem paths and CLI branding.
	Lectern = "lectern"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// Logo is the banner printed above the root command help.
const Logo = `  _           _
 | | ___  ___| |_ ___ _ __ _ __
 | |/ _ \/ __| __/ _ \ '__| '_ \
 | |  __/ (__| ||  __/ |  | | | |
 |_|\___|\___|\__\___|_|  |_| |_|`
