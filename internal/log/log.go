// Package log provides categorized, levelled logging for the view engine.
// Logging is off until Init or SetOutput is called.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatRender    Category = "render"    // template compilation and element caching
	CatBind      Category = "bind"      // model property bindings
	CatEvent     Category = "event"     // native listeners and delegation
	CatLifecycle Category = "lifecycle" // construction and destroy
	CatTemplate  Category = "template"  // template loading and watching
	CatCLI       Category = "cli"       // wadeview command
)

type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	file     *os.File
	enabled  bool
	minLevel Level
	now      func() time.Time
}

var defaultLogger = &Logger{now: time.Now}

// Init opens path for appending and enables logging to it.
// Returns a cleanup function closing the file.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // debug log path comes from the user
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	defaultLogger.mu.Lock()
	defaultLogger.file = f
	defaultLogger.writer = f
	defaultLogger.enabled = true
	defaultLogger.mu.Unlock()

	return func() {
		defaultLogger.mu.Lock()
		defer defaultLogger.mu.Unlock()
		defaultLogger.enabled = false
		defaultLogger.writer = nil
		defaultLogger.file = nil
		_ = f.Close()
	}, nil
}

// SetOutput routes log lines to w; a nil writer disables logging.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.writer = w
	defaultLogger.enabled = w != nil
}

func SetMinLevel(level Level) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.minLevel = level
}

// Enabled reports whether a message at level would be written, so callers
// can skip building expensive fields.
func Enabled(level Level) bool {
	l := defaultLogger
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled && l.writer != nil && level >= l.minLevel
}

func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

func Error(cat Category, msg string, fields ...any) {
	log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	l := defaultLogger
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || l.writer == nil || level < l.minLevel {
		return
	}

	// Format: 2026-01-02T15:04:05 [DEBUG] [render] message key=value
	entry := fmt.Sprintf("%s [%s] [%s] %s", l.now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		entry += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		entry += fmt.Sprintf(" %v=", fields[len(fields)-1])
	}

	_, _ = fmt.Fprintln(l.writer, entry)
}
