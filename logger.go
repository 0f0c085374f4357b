package flog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// Logger appends formatted records to a single file, rotating it by size.
// Every accepted record is written synchronously with its own open, write and
// close; a Logger holds no file handle between calls.
type Logger struct {
	path        string // target file as given
	directory   string // resolved parent directory, scanned for archives
	baseName    string // target file name, matched against archive names
	maxFileSize int64

	threshold atomic.Int64
	lastLine  atomic.Value // stores string

	location *time.Location
	now      func() time.Time
	sink     ErrorSink
}

// New creates a Logger writing to path. The parent directory is created if
// missing; the log file itself is not created until the first write.
// Rotation defaults to DefaultMaxFileSize and timestamps to UTC.
func New(path string, threshold Level, opts ...Option) (*Logger, error) {
	cfg := DefaultConfig()
	cfg.Path = path
	cfg.Level = threshold
	return NewFromConfig(cfg, opts...)
}

// NewFromConfig creates a Logger from cfg. Options are applied after the
// configuration and override it.
func NewFromConfig(cfg *Config, opts ...Option) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.location()
	if err != nil {
		return nil, err
	}

	l := &Logger{
		path:        cfg.Path,
		directory:   filepath.Dir(cfg.Path),
		baseName:    filepath.Base(cfg.Path),
		maxFileSize: cfg.MaxFileSize,
		location:    loc,
		now:         time.Now,
		sink:        StderrSink(os.Stderr),
	}
	l.threshold.Store(int64(cfg.Level))
	l.lastLine.Store("")

	for _, opt := range opts {
		opt(l)
	}
	if l.maxFileSize < 0 {
		return nil, fmt.Errorf("%w: negative max file size %d", ErrInvalidConfig, l.maxFileSize)
	}

	if err := ensureDirectory(l.directory); err != nil {
		return nil, err
	}
	return l, nil
}

// SetThreshold changes the least urgent level that is written. It affects
// subsequent calls only. An unknown level is reported to the error sink and
// the current threshold is kept.
func (l *Logger) SetThreshold(level Level) {
	if !level.Valid() {
		l.report(fmt.Errorf("%w: threshold %d rejected, keeping %s", ErrUnknownLevel, int(level), l.Threshold()))
		return
	}
	l.threshold.Store(int64(level))
}

// Write appends line to the log as is, without timestamp, level or threshold
// check. Rotation applies as for any record and a missing line terminator is
// added. The trimmed line becomes the last written line.
func (l *Logger) Write(line string) {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	l.lastLine.Store(strings.TrimSpace(line))
	l.process(line)
}

// Threshold returns the current threshold.
func (l *Logger) Threshold() Level {
	return Level(l.threshold.Load())
}

// TargetPath returns the file the logger writes to.
func (l *Logger) TargetPath() string {
	return l.path
}

// MaxFileSize returns the rotation threshold in bytes, 0 when rotation is disabled.
func (l *Logger) MaxFileSize() int64 {
	return l.maxFileSize
}

// Location returns the time zone timestamps are rendered in.
func (l *Logger) Location() *time.Location {
	return l.location
}

// Config returns the configuration the logger currently runs with.
func (l *Logger) Config() *Config {
	return &Config{
		Path:        l.path,
		Level:       l.Threshold(),
		MaxFileSize: l.maxFileSize,
		TimeZone:    l.location.String(),
	}
}

// LastWrittenLine returns the most recent record that passed the threshold, or
// the last line given to Write, trimmed of surrounding whitespace. It is
// updated even if the write failed.
func (l *Logger) LastWrittenLine() string {
	return l.lastLine.Load().(string)
}

// Emergency logs at LevelEmergency.
func (l *Logger) Emergency(msg string, args ...any) {
	l.Log(LevelEmergency, msg, args...)
}

// Alert logs at LevelAlert.
func (l *Logger) Alert(msg string, args ...any) {
	l.Log(LevelAlert, msg, args...)
}

// Critical logs at LevelCritical.
func (l *Logger) Critical(msg string, args ...any) {
	l.Log(LevelCritical, msg, args...)
}

// Error logs at LevelError.
func (l *Logger) Error(msg string, args ...any) {
	l.Log(LevelError, msg, args...)
}

// Warning logs at LevelWarning.
func (l *Logger) Warning(msg string, args ...any) {
	l.Log(LevelWarning, msg, args...)
}

// Notice logs at LevelNotice.
func (l *Logger) Notice(msg string, args ...any) {
	l.Log(LevelNotice, msg, args...)
}

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, args ...any) {
	l.Log(LevelInfo, msg, args...)
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) {
	l.Log(LevelDebug, msg, args...)
}
