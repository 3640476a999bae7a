package registry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errValueRequired = errors.New("value is required")

// normToken lowercases and trims a token for case-insensitive matching.
func normToken(v any) string {
	return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", v)))
}

// normalizeEnum matches the raw value against the alias map first, then
// against the canonical values themselves, both case-insensitively.
func normalizeEnum(value any, mapping map[string]string) (any, error) {
	if value == nil {
		return nil, errValueRequired
	}
	key := normToken(value)
	for k, canon := range mapping {
		if normToken(k) == key {
			return canon, nil
		}
	}
	for _, canon := range mapping {
		if value == canon || normToken(canon) == key {
			return canon, nil
		}
	}
	return nil, fmt.Errorf("invalid value: %v", value)
}

// normalizeBool accepts y/yes/true/1 and n/no/false/0 in any case, plus the
// canonical "Yes"/"No" strings directly.
func normalizeBool(value any) (any, error) {
	if value == nil {
		return nil, errValueRequired
	}
	if s, ok := value.(string); ok && (s == "Yes" || s == "No") {
		return s, nil
	}
	switch normToken(value) {
	case "y", "yes", "true", "1":
		return "Yes", nil
	case "n", "no", "false", "0":
		return "No", nil
	}
	return nil, fmt.Errorf("invalid boolean: %v", value)
}

func normalizeInt(value any, minVal, maxVal *float64) (any, error) {
	if value == nil || value == "" {
		return nil, errValueRequired
	}
	var iv int
	switch v := value.(type) {
	case int:
		iv = v
	case int64:
		iv = int(v)
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("expected integer, got: %v", value)
		}
		iv = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("expected integer, got: %v", value)
		}
		iv = parsed
	default:
		return nil, fmt.Errorf("expected integer, got: %v", value)
	}
	if minVal != nil && float64(iv) < *minVal {
		return nil, fmt.Errorf("minimum is %s", formatBound(*minVal))
	}
	if maxVal != nil && float64(iv) > *maxVal {
		return nil, fmt.Errorf("maximum is %s", formatBound(*maxVal))
	}
	return iv, nil
}

func normalizeNumber(value any, minVal, maxVal *float64) (any, error) {
	if value == nil || value == "" {
		return nil, errValueRequired
	}
	var fv float64
	switch v := value.(type) {
	case int:
		fv = float64(v)
	case int64:
		fv = float64(v)
	case float64:
		fv = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("expected number, got: %v", value)
		}
		fv = parsed
	default:
		return nil, fmt.Errorf("expected number, got: %v", value)
	}
	if minVal != nil && fv < *minVal {
		return nil, fmt.Errorf("minimum is %s", formatBound(*minVal))
	}
	if maxVal != nil && fv > *maxVal {
		return nil, fmt.Errorf("maximum is %s", formatBound(*maxVal))
	}
	return fv, nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
