package flog

import (
	"fmt"
	"strings"
)

const (
	badKey       = "!BADKEY"
	missingValue = "!MISSING"
)

// Field is a single key-value pair of record context.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Fields is ordered record context. Keys render in slice order.
type Fields []Field

// Log writes a record at level if it passes the threshold. args carry the
// record context as alternating key, value pairs, Field values or Fields
// slices, in any mix; their order is preserved in the output.
//
// Log never returns an error. An unknown level or any I/O failure is
// reported to the logger's error sink and the call returns normally.
func (l *Logger) Log(level Level, msg string, args ...any) {
	if !level.Valid() {
		l.report(fmt.Errorf("%w: %d, record %q dropped", ErrUnknownLevel, int(level), msg))
		return
	}
	if !level.Enabled(l.Threshold()) {
		return
	}

	record := formatRecord(l.now().In(l.location), level, msg, collectFields(args))
	l.lastLine.Store(strings.TrimSpace(record))
	l.process(record)
}

// collectFields flattens variadic context arguments into ordered fields.
func collectFields(args []any) Fields {
	if len(args) == 0 {
		return nil
	}

	fields := make(Fields, 0, len(args)/2+1)
	for i := 0; i < len(args); i++ {
		switch arg := args[i].(type) {
		case Field:
			fields = append(fields, arg)
		case Fields:
			fields = append(fields, arg...)
		case []Field:
			fields = append(fields, arg...)
		case string:
			if i+1 >= len(args) {
				fields = append(fields, Field{Key: arg, Value: missingValue})
				continue
			}
			fields = append(fields, Field{Key: arg, Value: args[i+1]})
			i++
		default:
			fields = append(fields, Field{Key: badKey, Value: arg})
		}
	}
	return fields
}
