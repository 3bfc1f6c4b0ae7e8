// Package env reads typed configuration values from the process
// environment. A set but malformed value is an error; an unset one
// falls back to the default.
package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func String(key string, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func Duration(key string, def time.Duration) (time.Duration, error) {
	return parse(key, def, time.ParseDuration)
}

func Bool(key string, def bool) (bool, error) {
	return parse(key, def, strconv.ParseBool)
}

func Int(key string, def int) (int, error) {
	return parse(key, def, strconv.Atoi)
}

// CSV splits a comma separated value, trimming items and dropping empty
// ones. An unset or blank variable yields def.
func CSV(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parse[T any](key string, def T, fn func(string) (T, error)) (T, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	out, err := fn(strings.TrimSpace(v))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}
