package edi

import (
	"io"
	"log"
)

// debugLog is the process-wide, initialize-once logging subscriber. It is
// nil (discarding every call) until SetDebugLog is called: set once at
// startup, read-only after.
var debugLog *log.Logger

// SetDebugLog installs w as the destination for Debugf output. Passing nil
// disables debug logging (the default).
func SetDebugLog(w io.Writer) {
	if w == nil {
		debugLog = nil
		return
	}
	debugLog = log.New(w, "", log.LstdFlags)
}

// Debugf appends a formatted line to the debug log, if one is installed.
func Debugf(format string, args ...any) {
	if debugLog == nil {
		return
	}
	debugLog.Printf(format, args...)
}
