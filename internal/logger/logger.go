// Package logger is the askdocs verbose trace channel. Commands run
// silent by default; --verbose turns on stderr tracing so a user can
// watch ingestion and retrieval decisions as they happen (which files
// were skipped, how many chunks survived the score floor, why an
// answer was downgraded).
//
// Everything here is gated on the verbose flag, so call sites never
// need to guard their own logging.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose toggles tracing. Wired to the root command's --verbose flag.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether tracing is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects the trace stream away from os.Stderr. Tests use
// this to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug traces a low-level detail, e.g. per-chunk scores or batch sizes.
func Debug(format string, args ...any) {
	emit("[DEBUG] ", format, args...)
}

// Section marks the start of a pipeline stage in the trace, e.g.
// "Ingestion", "Retrieval" or "Grounding".
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info traces a progress line, e.g. a document finishing ingestion.
func Info(format string, args ...any) {
	emit("[INFO] ", format, args...)
}

// Warn traces a recoverable problem, e.g. a provider left unconfigured
// or a document that failed extraction.
func Warn(format string, args ...any) {
	emit("[WARN] ", format, args...)
}

func emit(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}
