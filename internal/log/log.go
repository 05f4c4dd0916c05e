// Package log provides categorised, levelled logging for scriptedit.
//
// Logging is off until Init enables it (the --debug flag, SCRIPTEDIT_DEBUG
// or editor.log_level). Records go through log/slog with a text handler by
// default and a JSON handler on request; every record carries its category
// and the session attribute set with SetSession.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents log severity.
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

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ParseLevel parses a level name. Unknown names map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevel reports whether s names a level.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Category groups related log messages.
type Category string

const (
	CatHighlight Category = "highlight" // line lexing and re-highlight passes
	CatCaret     Category = "caret"     // caret overlay and multi-caret lifecycle
	CatOps       Category = "ops"       // multi-cursor edit operations
	CatKeys      Category = "keys"      // key dispatch
	CatPalette   Category = "palette"   // palette loading, caching and reload
	CatConfig    Category = "config"    // configuration loading/watching
	CatSession   Category = "session"   // editor session wiring
	CatLua       Category = "lua"       // macro execution
	CatCLI       Category = "cli"
)

// Format selects the record encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures Init.
type Options struct {
	Output io.Writer // defaults to os.Stderr
	Format Format
	Level  Level
}

type logger struct {
	mu      sync.RWMutex
	handler *slog.Logger
	level   *slog.LevelVar
	enabled bool
}

var std = &logger{level: new(slog.LevelVar)}

// Init enables logging with the given options and returns a function that
// disables it again.
func Init(opts Options) func() {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	std.level.Set(opts.Level.slog())
	hopts := &slog.HandlerOptions{Level: std.level}

	var h slog.Handler
	if opts.Format == FormatJSON {
		h = slog.NewJSONHandler(out, hopts)
	} else {
		h = slog.NewTextHandler(out, hopts)
	}

	std.mu.Lock()
	std.handler = slog.New(h)
	std.enabled = true
	std.mu.Unlock()

	return func() { SetEnabled(false) }
}

// SetEnabled toggles logging on/off. It has no effect before Init.
func SetEnabled(enabled bool) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.enabled = enabled && std.handler != nil
}

// Enabled reports whether records at level would be written.
func Enabled(level Level) bool {
	std.mu.RLock()
	defer std.mu.RUnlock()
	return std.enabled && std.handler.Enabled(context.Background(), level.slog())
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	std.level.Set(level.slog())
}

// SetSession attaches a session attribute to every following record.
func SetSession(id string) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if std.handler != nil {
		std.handler = std.handler.With(slog.String("session", id))
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(LevelError, cat, msg, fields...)
}

func write(level Level, cat Category, msg string, fields ...any) {
	std.mu.RLock()
	h, enabled := std.handler, std.enabled
	std.mu.RUnlock()
	if !enabled {
		return
	}
	// orphan key, slog would print it as !BADKEY
	if len(fields)%2 != 0 {
		fields = append(fields, "<missing>")
	}
	args := append([]any{slog.String("cat", string(cat))}, fields...)
	h.Log(context.Background(), level.slog(), msg, args...)
}
