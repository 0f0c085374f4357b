package flog

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// indent prefixes every context line relative to the message line.
const indent = "    "

// dumper renders composite context values. Map keys are sorted and pointer
// addresses and capacities omitted so identical input renders identically.
var dumper = spew.ConfigState{
	Indent:                  indent,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// serializer builds one formatted record in a reusable buffer
type serializer struct {
	buf []byte
}

// newSerializer creates a serializer with room for a typical record
func newSerializer() *serializer {
	return &serializer{
		buf: make([]byte, 0, 256),
	}
}

// formatRecord renders a record in the on-disk layout:
//
//	[2024-07-26 9:05:01.000123] [info] message
//	    key: value
//
// The context block is omitted when there are no fields.
func formatRecord(ts time.Time, level Level, msg string, fields Fields) string {
	s := newSerializer()
	s.serializeText(ts, level, msg, fields)
	return string(s.buf)
}

// serializeText appends header line and indented context block
func (s *serializer) serializeText(ts time.Time, level Level, msg string, fields Fields) {
	s.buf = append(s.buf, '[')
	s.buf = appendTimestamp(s.buf, ts)
	s.buf = append(s.buf, "] ["...)
	s.buf = append(s.buf, level.String()...)
	s.buf = append(s.buf, "] "...)
	s.buf = append(s.buf, msg...)
	s.buf = append(s.buf, '\n')

	for _, f := range fields {
		s.buf = append(s.buf, indent...)
		s.buf = append(s.buf, f.Key...)
		s.buf = append(s.buf, ": "...)
		s.writeIndented(textValue(f.Value))
		s.buf = append(s.buf, '\n')
	}
}

// writeIndented appends a possibly multi-line value, continuing every line at the block indent
func (s *serializer) writeIndented(str string) {
	for {
		i := strings.IndexByte(str, '\n')
		if i < 0 {
			s.buf = append(s.buf, str...)
			return
		}
		s.buf = append(s.buf, str[:i+1]...)
		s.buf = append(s.buf, indent...)
		str = str[i+1:]
	}
}

// appendTimestamp writes ts as "YYYY-MM-DD H:MM:SS.uuuuuu". The hour has no
// leading zero, which no time layout expresses, so it is appended separately.
func appendTimestamp(buf []byte, ts time.Time) []byte {
	buf = ts.AppendFormat(buf, "2006-01-02 ")
	buf = strconv.AppendInt(buf, int64(ts.Hour()), 10)
	return ts.AppendFormat(buf, ":04:05.000000")
}

// textValue converts any context value to its text representation.
// Scalars print plainly, composites through the structural dumper. A panicking
// Error or String method renders as "!PANIC(...)" instead of crashing the caller.
func textValue(v any) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = fmt.Sprintf("!PANIC(%v)", r)
		}
	}()

	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.Pointer, reflect.Interface:
		return strings.TrimRight(dumper.Sdump(v), "\n")
	default:
		return fmt.Sprintf("%+v", v)
	}
}
