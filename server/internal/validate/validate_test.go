package validate

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseBoundedInteger_Accepts(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"json number", json.Number("5"), 5},
		{"json number zero", json.Number("0"), 0},
		{"json number integral float", json.Number("5.0"), 5},
		{"json number exponent", json.Number("1e2"), 100},
		{"int", 7, 7},
		{"int64", int64(1000), 1000},
		{"float64 integral", float64(42), 42},
		{"string", "12", 12},
		{"string surrounded by spaces", "  12 ", 12},
		{"negative string", "-3", -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBoundedInteger(tt.in, -1000, 1000)
			if err != nil {
				t.Fatalf("ParseBoundedInteger(%v): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseBoundedInteger_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"leading zero", "012"},
		{"plus sign", "+5"},
		{"negative zero", "-0"},
		{"whitespace only", "   "},
		{"empty string", ""},
		{"partial parse", "12abc"},
		{"exponent string", "1e2"},
		{"decimal string", "1.0"},
		{"fractional number", json.Number("1.5")},
		{"fractional float", 2.5},
		{"bool", true},
		{"null", nil},
		{"array", []any{json.Number("1")}},
		{"object", map[string]any{}},
		{"above max", json.Number("1001")},
		{"below min", json.Number("-1001")},
		{"string above max", "1001"},
		{"huge number", json.Number("1e300")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBoundedInteger(tt.in, -1000, 1000)
			if !errors.Is(err, ErrInvalidScalar) {
				t.Errorf("ParseBoundedInteger(%#v): got err %v, want ErrInvalidScalar", tt.in, err)
			}
		})
	}
}

func TestParseBoundedInteger_Bounds(t *testing.T) {
	for _, n := range []int64{0, 1000} {
		if _, err := ParseBoundedInteger(n, 0, 1000); err != nil {
			t.Errorf("bound %d should be inclusive: %v", n, err)
		}
	}
	if _, err := ParseBoundedInteger(int64(-1), 0, 1000); err == nil {
		t.Error("expected -1 to be rejected for [0, 1000]")
	}
}

func TestParseBoundedIntegerArray_Accepts(t *testing.T) {
	in := []any{json.Number("2"), "3", json.Number("-4"), json.Number("2"), json.Number("100000")}
	got, err := ParseBoundedIntegerArray(in, 1000, 100000)
	if err != nil {
		t.Fatalf("ParseBoundedIntegerArray: %v", err)
	}
	if diff := cmp.Diff([]int64{2, 3, -4, 2, 100000}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBoundedIntegerArray_Rejects(t *testing.T) {
	tooLong := make([]any, 1001)
	for i := range tooLong {
		tooLong[i] = json.Number("1")
	}
	tests := []struct {
		name string
		in   any
	}{
		{"not array", json.Number("5")},
		{"string", "[1,2]"},
		{"null", nil},
		{"empty", []any{}},
		{"too long", tooLong},
		{"magnitude exceeded", []any{json.Number("100001")}},
		{"negative magnitude exceeded", []any{json.Number("-100001")}},
		{"bad element", []any{json.Number("1"), "x"}},
		{"nested array", []any{[]any{json.Number("1")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBoundedIntegerArray(tt.in, 1000, 100000)
			if !errors.Is(err, ErrInvalidArray) {
				t.Errorf("got err %v, want ErrInvalidArray", err)
			}
			if got != nil {
				t.Errorf("expected no partial result, got %v", got)
			}
		})
	}
}

func TestParseBoundedIntegerArray_ElementCause(t *testing.T) {
	_, err := ParseBoundedIntegerArray([]any{json.Number("1"), json.Number("100001")}, 1000, 100000)
	if !errors.Is(err, ErrInvalidScalar) {
		t.Errorf("element failure should wrap ErrInvalidScalar, got %v", err)
	}
	if !strings.Contains(err.Error(), "element 1") {
		t.Errorf("error should name the element index: %v", err)
	}
}

func TestParseBoundedIntegerArray_MaxLenInclusive(t *testing.T) {
	in := make([]any, 1000)
	for i := range in {
		in[i] = json.Number("7")
	}
	got, err := ParseBoundedIntegerArray(in, 1000, 100000)
	if err != nil {
		t.Fatalf("1000 elements should be accepted: %v", err)
	}
	if len(got) != 1000 {
		t.Errorf("len: got %d, want 1000", len(got))
	}
}

func TestIsNonEmptyBoundedString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"plain", "What is the capital of France?", true},
		{"blank", "   ", false},
		{"empty", "", false},
		{"not string", json.Number("5"), false},
		{"nil", nil, false},
		{"at limit", strings.Repeat("a", 500), true},
		{"over limit", strings.Repeat("a", 501), false},
		{"multibyte at limit", strings.Repeat("é", 500), true},
		{"padding counts toward length", " " + strings.Repeat("a", 500), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNonEmptyBoundedString(tt.in, 500); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
