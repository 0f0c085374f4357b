package quick

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LixenWraith/flog"
)

// Package level state: the shared logger and the options it was built with.
var (
	current  atomic.Pointer[flog.Logger]
	disabled atomic.Bool
	initMu   sync.Mutex
	options  []flog.Option
)

// Init replaces the shared logger with one built from cfg. A nil cfg uses
// flog.DefaultConfig. The options are kept and reapplied by Config, where
// explicit statements override them.
func Init(cfg *flog.Config, opts ...flog.Option) error {
	initMu.Lock()
	defer initMu.Unlock()
	return initLocked(cfg, opts)
}

// initLocked builds and installs the shared logger; extra options are applied
// once and not kept for later reconfiguration.
func initLocked(cfg *flog.Config, opts []flog.Option, extra ...flog.Option) error {
	all := append(append([]flog.Option{}, opts...), extra...)
	l, err := flog.NewFromConfig(cfg, all...)
	if err != nil {
		return err
	}
	options = opts
	current.Store(l)
	disabled.Store(false)
	return nil
}

// EnsureInitialized checks if the shared logger exists and initializes it
// with defaults if not. It returns false if initialization failed; later
// calls then drop records silently until Init succeeds.
func EnsureInitialized() bool {
	if current.Load() != nil {
		return true
	}
	if disabled.Load() {
		return false
	}

	initMu.Lock()
	defer initMu.Unlock()

	// Double check both conditions after lock
	if current.Load() != nil {
		return true
	}
	if disabled.Load() {
		return false
	}

	l, err := flog.NewFromConfig(flog.DefaultConfig())
	if err != nil {
		disabled.Store(true)
		return false
	}
	current.Store(l)
	return true
}

// Logger returns the shared logger, initializing it with defaults on first use.
// It returns nil if initialization failed.
func Logger() *flog.Logger {
	if !EnsureInitialized() {
		return nil
	}
	return current.Load()
}

// Emergency logs an emergency message.
func Emergency(msg string, args ...any) {
	Log(flog.LevelEmergency, msg, args...)
}

// Alert logs an alert message.
func Alert(msg string, args ...any) {
	Log(flog.LevelAlert, msg, args...)
}

// Critical logs a critical message.
func Critical(msg string, args ...any) {
	Log(flog.LevelCritical, msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Log(flog.LevelError, msg, args...)
}

// Warning logs a warning message.
func Warning(msg string, args ...any) {
	Log(flog.LevelWarning, msg, args...)
}

// Notice logs a notice message.
func Notice(msg string, args ...any) {
	Log(flog.LevelNotice, msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	Log(flog.LevelInfo, msg, args...)
}

// Debug logs a debug message.
// Message is dropped if the threshold is lower than debug.
func Debug(msg string, args ...any) {
	Log(flog.LevelDebug, msg, args...)
}

// Log writes a record at level through the shared logger.
func Log(level flog.Level, msg string, args ...any) {
	if !EnsureInitialized() {
		return
	}
	current.Load().Log(level, msg, args...)
}

// SetLevel changes the threshold of the shared logger.
func SetLevel(level flog.Level) {
	if !EnsureInitialized() {
		return
	}
	current.Load().SetThreshold(level)
}

// Config changes the shared logger configuration with string statements.
// e.g. quick.Config("level=warning", "max_file_size=1048576")
// Keys not given keep their current value.
func Config(args ...string) error {
	if !EnsureInitialized() {
		return fmt.Errorf("logger initialization failed")
	}

	if len(args) == 0 {
		return fmt.Errorf("no config provided")
	}

	initMu.Lock()
	defer initMu.Unlock()

	prior := current.Load()
	base := prior.Config()
	cfg, err := config(base, args...)
	if err != nil {
		return err
	}

	// Options kept from Init run before these, so statements win over them.
	// The running zone is kept unless time_zone was given; it may be a fixed
	// zone that has no loadable name.
	loc := prior.Location()
	if cfg.TimeZone != base.TimeZone {
		if loc, err = time.LoadLocation(cfg.TimeZone); err != nil {
			return fmt.Errorf("config error: time zone %q: %w", cfg.TimeZone, err)
		}
	}
	cfg.TimeZone = ""
	extra := []flog.Option{
		flog.WithMaxFileSize(cfg.MaxFileSize),
		flog.WithTimeZone(loc),
	}
	return initLocked(cfg, options, extra...)
}
