package extended

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	ParamExtended     = "extended"
	ParamExtendFields = "extend_fields"
)

var ErrInvalidExtended = errors.New("invalid extended parameter")

// Params is the per-request shaping choice.
type Params struct {
	Extended bool
	// Fields restricts the upgrade to these keys. Empty means every key.
	Fields []string
}

// ParseParams reads extended and extend_fields from a query string.
// Repeated keys resolve to their last value.
func ParseParams(query url.Values) (Params, error) {
	on, err := parseFlag(query)
	if err != nil {
		return Params{}, err
	}
	if !on {
		return Params{}, nil
	}
	return Params{Extended: true, Fields: parseFields(query)}, nil
}

func parseFlag(query url.Values) (bool, error) {
	raw, ok := lastValue(query, ParamExtended)
	if !ok {
		return false, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return true, nil
		}
		return false, fmt.Errorf("%w: %w", ErrInvalidExtended, err)
	}
	return n != 0, nil
}

func parseFields(query url.Values) []string {
	raw, _ := lastValue(query, ParamExtendFields)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func lastValue(query url.Values, key string) (string, bool) {
	values, ok := query[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}
