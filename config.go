package flog

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultMaxFileSize is the rotation threshold used when none is configured (10 MiB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// ErrInvalidConfig is returned for configuration values that cannot be used.
var ErrInvalidConfig = errors.New("invalid logger configuration")

// Config defines the logger configuration parameters.
// All fields can be configured via JSON or TOML configuration files.
type Config struct {
	Path        string `json:"path" toml:"path"`                   // Target log file, parent directories are created
	Level       Level  `json:"level" toml:"level"`                 // Threshold: emergency, alert, critical, error, warning, notice, info, debug
	MaxFileSize int64  `json:"max_file_size" toml:"max_file_size"` // Size in bytes that triggers rotation, 0 disables rotation
	TimeZone    string `json:"time_zone" toml:"time_zone"`         // IANA zone name for timestamps, "Local" for the host zone
}

// DefaultConfig returns the configuration used for unset values.
func DefaultConfig() *Config {
	return &Config{
		Path:        "./logs/app.log",
		Level:       LevelDebug,
		MaxFileSize: DefaultMaxFileSize,
		TimeZone:    "UTC",
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys absent from the
// file keep their default, so "max_file_size = 0" explicitly disables rotation.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the logger cannot run with.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: empty log file path", ErrInvalidConfig)
	}
	if !c.Level.Valid() {
		return fmt.Errorf("%w: %w: %d", ErrInvalidConfig, ErrUnknownLevel, int(c.Level))
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("%w: negative max file size %d", ErrInvalidConfig, c.MaxFileSize)
	}
	if _, err := c.location(); err != nil {
		return err
	}
	return nil
}

// location resolves TimeZone, treating an empty value as UTC.
func (c *Config) location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: time zone %q: %w", ErrInvalidConfig, c.TimeZone, err)
	}
	return loc, nil
}

// Option adjusts a Logger at construction.
type Option func(*Logger)

// WithMaxFileSize sets the rotation threshold in bytes. Zero disables rotation.
func WithMaxFileSize(size int64) Option {
	return func(l *Logger) {
		l.maxFileSize = size
	}
}

// WithTimeZone sets the location timestamps are rendered in.
func WithTimeZone(loc *time.Location) Option {
	return func(l *Logger) {
		if loc != nil {
			l.location = loc
		}
	}
}

// WithErrorSink routes write path failures to sink instead of stderr.
func WithErrorSink(sink ErrorSink) Option {
	return func(l *Logger) {
		if sink != nil {
			l.sink = sink
		}
	}
}

// WithClock replaces time.Now as the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}
