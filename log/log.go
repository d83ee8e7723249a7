// Package log is sv-bugpoint's leveled, colorized logger. Its call
// convention (DEBUG/TRACE/INFO/WARN/ERROR, each printf-style) mirrors
// github.com/wayneeseguin/graft/log, as used throughout the teacher's
// evaluator and operator packages.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
)

// Level is a logging verbosity threshold.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var tagColor = map[Level]string{
	LevelError: "r",
	LevelWarn:  "y",
	LevelInfo:  "c",
	LevelDebug: "g",
	LevelTrace: "w",
}

var tagName = map[Level]string{
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
	LevelTrace: "TRACE",
}

var (
	mu       sync.Mutex
	level    = LevelInfo
	out      io.Writer = os.Stderr
	useColor           = isatty.IsTerminal(os.Stderr.Fd())
)

// SetLevel sets the global verbosity threshold.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetOutput redirects log output (tests use this to capture lines).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetColor forces color on/off, overriding the terminal auto-detection.
func SetColor(on bool) {
	mu.Lock()
	defer mu.Unlock()
	useColor = on
}

func logf(l Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if l > level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if useColor {
		fmt.Fprintln(out, ansi.Sprintf("@%s{[%s]} %s", tagColor[l], tagName[l], msg))
		return
	}
	fmt.Fprintf(out, "[%s] %s\n", tagName[l], msg)
}

// ERROR logs an error-level message.
func ERROR(format string, args ...interface{}) { logf(LevelError, format, args...) }

// WARN logs a warning-level message.
func WARN(format string, args ...interface{}) { logf(LevelWarn, format, args...) }

// INFO logs an info-level message.
func INFO(format string, args ...interface{}) { logf(LevelInfo, format, args...) }

// DEBUG logs a debug-level message.
func DEBUG(format string, args ...interface{}) { logf(LevelDebug, format, args...) }

// TRACE logs a trace-level message (most verbose).
func TRACE(format string, args ...interface{}) { logf(LevelTrace, format, args...) }
