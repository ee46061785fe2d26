// Package constants provides shared constants used across seqfilter components.
package constants

import "time"

// Filter files
const (
	// GlobalFilterFile is the file name of the filters applied in every zone
	GlobalFilterFile = "global.xml"

	// ZoneFilterExt is appended to a zone's short name to form its filter file
	ZoneFilterExt = ".xml"

	// ConfigDirName is the directory under the user config dir holding filter files
	ConfigDirName = "seqfilter"
)

// DefaultFilterTypes are the categories every filter manager registers, in
// registration (and therefore bit) order.
var DefaultFilterTypes = []string{
	"Hunt",
	"Caution",
	"Danger",
	"Locate",
	"Alert",
	"Filtered",
	"Tracer",
}

// Watcher timing
const (
	// WatchPollInterval is the fallback polling interval when fsnotify is unavailable
	WatchPollInterval = 1 * time.Second

	// WatchDebounce coalesces the burst of events a single save produces
	WatchDebounce = 100 * time.Millisecond
)

// DiagnosticsBufferSize is the number of diagnostics kept for --diagnostics output
const DiagnosticsBufferSize = 1000

// SignalChannelBuffer is the buffer size of the signal notification channel
const SignalChannelBuffer = 1
