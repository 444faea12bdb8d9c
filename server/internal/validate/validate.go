package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidScalar reports a value that is not a bounded integer.
	ErrInvalidScalar = errors.New("invalid integer")

	// ErrInvalidArray reports a value that is not a bounded integer array.
	ErrInvalidArray = errors.New("invalid integer array")
)

// ParseBoundedInteger coerces v to an integer in [min, max].
func ParseBoundedInteger(v any, min, max int64) (int64, error) {
	n, err := toInteger(v)
	if err != nil {
		return 0, err
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%w: %d is outside [%d, %d]", ErrInvalidScalar, n, min, max)
	}
	return n, nil
}

// ParseBoundedIntegerArray coerces v to a non-empty slice of at most maxLen
// integers, each with absolute value at most maxMagnitude. Any bad element
// fails the whole array. Order and duplicates are preserved.
func ParseBoundedIntegerArray(v any, maxLen int, maxMagnitude int64) ([]int64, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s, want array", ErrInvalidArray, typeName(v))
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: array is empty", ErrInvalidArray)
	}
	if len(items) > maxLen {
		return nil, fmt.Errorf("%w: %d elements exceeds limit %d", ErrInvalidArray, len(items), maxLen)
	}

	out := make([]int64, len(items))
	for i, item := range items {
		n, err := ParseBoundedInteger(item, -maxMagnitude, maxMagnitude)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrInvalidArray, i, err)
		}
		out[i] = n
	}
	return out, nil
}

// IsNonEmptyBoundedString reports whether v is a string with non-blank
// content and at most maxLen characters (Unicode code points).
func IsNonEmptyBoundedString(v any, maxLen int) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) != "" && utf8.RuneCountInString(s) <= maxLen
}

// toInteger extracts an exact integer from the supported value shapes.
func toInteger(v any) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		return numberToInteger(x)
	case string:
		return stringToInteger(x)
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrInvalidScalar, x)
		}
		return int64(x), nil
	case float64:
		return floatToInteger(x)
	default:
		return 0, fmt.Errorf("%w: got %s, want integer or numeric string", ErrInvalidScalar, typeName(v))
	}
}

// numberToInteger accepts JSON numbers with an integral value, including
// forms such as 5.0 or 1e2 that decode to an integer.
func numberToInteger(n json.Number) (int64, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidScalar, n.String())
	}
	return floatToInteger(f)
}

// floatToInteger only accepts floats in the range where every integer is
// exactly representable.
func floatToInteger(f float64) (int64, error) {
	const exact = 1 << 53
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > exact {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidScalar, f)
	}
	return int64(f), nil
}

func stringToInteger(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != trimmed {
		return 0, fmt.Errorf("%w: %q is not a canonical integer", ErrInvalidScalar, s)
	}
	return n, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, int, int32, int64, uint32, uint64, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
