package compute

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsPrime(t *testing.T) {
	tests := []struct {
		k    int64
		want bool
	}{
		{-7, false},
		{0, false},
		{1, false},
		{2, true},
		{3, true},
		{4, false},
		{9, false},
		{25, false},
		{29, true},
		{49, false},
		{97, true},
		{7919, true},
		{99991, true},
		{100000, false},
		{99989 * 3, false},
	}
	for _, tt := range tests {
		if got := IsPrime(tt.k); got != tt.want {
			t.Errorf("IsPrime(%d): got %v, want %v", tt.k, got, tt.want)
		}
	}
}

// naivePrime is the reference used to cross-check IsPrime.
func naivePrime(k int64) bool {
	if k < 2 {
		return false
	}
	for d := int64(2); d < k; d++ {
		if k%d == 0 {
			return false
		}
	}
	return true
}

func TestIsPrime_MatchesNaive(t *testing.T) {
	for k := int64(-5); k <= 2000; k++ {
		if got, want := IsPrime(k), naivePrime(k); got != want {
			t.Fatalf("IsPrime(%d): got %v, want %v", k, got, want)
		}
	}
}

func TestFilterPrimes(t *testing.T) {
	tests := []struct {
		name string
		in   []int64
		want []int64
	}{
		{"mixed", []int64{2, 3, 4, 5, 6}, []int64{2, 3, 5}},
		{"order preserved", []int64{13, 4, 2, 11}, []int64{13, 2, 11}},
		{"duplicates kept", []int64{7, 7, 8, 7}, []int64{7, 7, 7}},
		{"none", []int64{1, 4, 6, 0, -3}, []int64{}},
		{"empty", []int64{}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPrimes(tt.in)
			if got == nil {
				t.Fatal("FilterPrimes returned nil")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
