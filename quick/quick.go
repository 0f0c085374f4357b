package quick

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/LixenWraith/flog"
)

// config applies "key=value" statements to a copy of base.
// Keys match the toml tags of flog.Config, case-insensitively.
func config(base *flog.Config, args ...string) (*flog.Config, error) {
	cfg := *base
	for _, arg := range args {
		key, value, err := parseKeyValue(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid config format: %s", arg)
		}

		if err := setValue(&cfg, key, value); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}
	return &cfg, nil
}

// parseKeyValue splits a configuration string into key and value parts.
// Input format must be "key=value". Leading and trailing spaces are removed from both parts.
// Returns error if format is invalid.
func parseKeyValue(arg string) (string, string, error) {
	key, value, ok := strings.Cut(strings.TrimSpace(arg), "=")
	if !ok || strings.Contains(value, "=") {
		return "", "", fmt.Errorf("invalid format")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("invalid format")
	}
	return key, strings.TrimSpace(value), nil
}

// setValue updates a Config field using reflection.
// Fields implementing encoding.TextUnmarshaler (the level) parse their own text;
// other values are converted to the field kind.
func setValue(cfg *flog.Config, key, value string) error {
	key = strings.ToLower(key)

	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if tag := field.Tag.Get("toml"); tag != key {
			continue
		}
		f := v.Field(i)

		if u, ok := f.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(value))
		}

		switch f.Kind() {
		case reflect.Int64:
			val, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int64 value for %s: %s", key, value)
			}
			f.SetInt(val)

		case reflect.String:
			f.SetString(value)

		case reflect.Bool:
			val, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid bool value for %s: %s", key, value)
			}
			f.SetBool(val)

		default:
			return fmt.Errorf("unsupported config type for %s", key)
		}
		return nil
	}
	return fmt.Errorf("unknown config key: %s", key)
}
