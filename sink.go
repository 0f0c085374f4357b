package flog

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// ErrorSink receives write path failures. The logger never returns these
// errors to the caller.
type ErrorSink func(err error)

// WriteError describes a failed file operation on the write path.
type WriteError struct {
	Op   string // stat, scan, rotate, open, write, close
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("flog: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// StderrSink prints each failure as one line to w, typically os.Stderr.
func StderrSink(w io.Writer) ErrorSink {
	return func(err error) {
		fmt.Fprintf(w, "Logger error: %v\n", err)
	}
}

// ZapSink reports failures as warnings through a zap logger.
func ZapSink(z *zap.Logger) ErrorSink {
	return func(err error) {
		fields := []zap.Field{zap.Error(err)}
		var we *WriteError
		if errors.As(err, &we) {
			fields = append(fields, zap.String("op", we.Op), zap.String("path", we.Path))
		}
		z.Warn("log write failed", fields...)
	}
}

// report hands err to the configured sink
func (l *Logger) report(err error) {
	if err != nil {
		l.sink(err)
	}
}
