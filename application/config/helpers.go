package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
)

// Config is free-form connector configuration as decoded from YAML or JSON.
// Keys passed to the getters may address nested maps with dots, e.g. "tls.ca_file".
type Config = map[string]any

// lookup resolves a dotted key.
func lookup(config Config, key string) (any, bool) {
	var cur any = config
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetString extracts a string from config, returning (value, found).
func GetString(config Config, key string) (string, bool) {
	v, _ := lookup(config, key)
	s, ok := v.(string)
	return s, ok
}

// GetInt extracts an integer. Floats and json.Number count only when integral.
func GetInt(config Config, key string) (int, bool) {
	v, _ := lookup(config, key)
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), n <= math.MaxInt
	case float64:
		return int(n), n == math.Trunc(n)
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

// GetFloat extracts a number as float64.
func GetFloat(config Config, key string) (float64, bool) {
	v, _ := lookup(config, key)
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// GetBool extracts a bool from config, returning (value, found).
func GetBool(config Config, key string) (bool, bool) {
	v, _ := lookup(config, key)
	b, ok := v.(bool)
	return b, ok
}

// GetStringSlice extracts a list of strings. YAML and JSON sequences decode as
// []any; every element must be a string.
func GetStringSlice(config Config, key string) ([]string, bool) {
	v, _ := lookup(config, key)
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		result := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			result = append(result, s)
		}
		return result, true
	default:
		return nil, false
	}
}

// GetDuration extracts a duration given as a Go duration string ("30s") or as a
// whole number of seconds.
func GetDuration(config Config, key string) (time.Duration, bool) {
	if s, ok := GetString(config, key); ok {
		d, err := time.ParseDuration(s)
		return d, err == nil
	}
	if n, ok := GetInt(config, key); ok {
		return time.Duration(n) * time.Second, true
	}
	return 0, false
}

// GetRisk extracts a risk level by its wire name.
func GetRisk(config Config, key string) (entities.Risk, bool) {
	s, ok := GetString(config, key)
	if !ok {
		return entities.RiskLow, false
	}
	r, err := entities.ParseRisk(s)
	return r, err == nil
}

func must[T any](config Config, key, kind string, get func(Config, string) (T, bool)) (T, error) {
	v, ok := get(config, key)
	if !ok {
		var zero T
		return zero, &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required %s field '%s' is missing or malformed", kind, key),
		}
	}
	return v, nil
}

func orDefault[T any](config Config, key string, def T, get func(Config, string) (T, bool)) T {
	if v, ok := get(config, key); ok {
		return v
	}
	return def
}

// MustGetString extracts a required string from config or returns a ConfigError.
func MustGetString(config Config, key string) (string, error) {
	return must(config, key, "string", GetString)
}

// MustGetInt extracts a required integer.
func MustGetInt(config Config, key string) (int, error) {
	return must(config, key, "int", GetInt)
}

// MustGetBool extracts a required bool.
func MustGetBool(config Config, key string) (bool, error) {
	return must(config, key, "bool", GetBool)
}

// MustGetDuration extracts a required duration.
func MustGetDuration(config Config, key string) (time.Duration, error) {
	return must(config, key, "duration", GetDuration)
}

// MustGetRisk extracts a required risk level.
func MustGetRisk(config Config, key string) (entities.Risk, error) {
	return must(config, key, "risk", GetRisk)
}

// GetStringDefault extracts a string from config or returns the default value.
func GetStringDefault(config Config, key, defaultValue string) string {
	return orDefault(config, key, defaultValue, GetString)
}

// GetIntDefault extracts an int from config or returns the default value.
func GetIntDefault(config Config, key string, defaultValue int) int {
	return orDefault(config, key, defaultValue, GetInt)
}

// GetBoolDefault extracts a bool from config or returns the default value.
func GetBoolDefault(config Config, key string, defaultValue bool) bool {
	return orDefault(config, key, defaultValue, GetBool)
}

// GetDurationDefault extracts a duration from config or returns the default value.
func GetDurationDefault(config Config, key string, defaultValue time.Duration) time.Duration {
	return orDefault(config, key, defaultValue, GetDuration)
}
