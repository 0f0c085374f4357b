package flog

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the severity of a log record. Lower values are more urgent.
// The eight levels and their names follow the syslog/PSR-3 convention.
type Level int

// Log level constants, ordered from most to least urgent.
// A record is written when its level is less than or equal to the logger threshold.
const (
	LevelEmergency Level = iota // system is unusable
	LevelAlert                  // action must be taken immediately
	LevelCritical               // critical conditions
	LevelError                  // runtime errors that do not require immediate action
	LevelWarning                // exceptional occurrences that are not errors
	LevelNotice                 // normal but significant events
	LevelInfo                   // interesting events
	LevelDebug                  // detailed debug information
)

// ErrUnknownLevel is reported when a level outside LevelEmergency..LevelDebug is used.
var ErrUnknownLevel = errors.New("unknown log level")

var levelNames = [...]string{
	LevelEmergency: "emergency",
	LevelAlert:     "alert",
	LevelCritical:  "critical",
	LevelError:     "error",
	LevelWarning:   "warning",
	LevelNotice:    "notice",
	LevelInfo:      "info",
	LevelDebug:     "debug",
}

// Valid reports whether l is one of the eight recognized levels.
func (l Level) Valid() bool {
	return l >= LevelEmergency && l <= LevelDebug
}

// String returns the lowercase level name written into log records.
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("unknown(%d)", int(l))
	}
	return levelNames[l]
}

// Enabled reports whether a record at level l passes the threshold.
func (l Level) Enabled(threshold Level) bool {
	return l <= threshold
}

// MarshalText implements encoding.TextMarshaler so levels serialize by name in TOML and JSON.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting any name ParseLevel accepts.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel converts level string to the corresponding Level.
// Matching is case-insensitive; common short forms (warn, err, crit, emerg) are accepted.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "emergency", "emerg":
		return LevelEmergency, nil
	case "alert":
		return LevelAlert, nil
	case "critical", "crit":
		return LevelCritical, nil
	case "error", "err":
		return LevelError, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "notice":
		return LevelNotice, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
}

// Interface is the leveled logging surface. Every severity method is a thin
// alias of Log with a fixed level.
type Interface interface {
	Emergency(msg string, args ...any)
	Alert(msg string, args ...any)
	Critical(msg string, args ...any)
	Error(msg string, args ...any)
	Warning(msg string, args ...any)
	Notice(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Log(level Level, msg string, args ...any)
}

var _ Interface = (*Logger)(nil)
