package compute

import (
	"math"
	"math/big"
)

// GCD returns the greatest common divisor of |a| and |b| using the iterative
// Euclidean algorithm. GCD(a, 0) == |a| and GCD(0, 0) == 0.
//
// math.MinInt64 has no int64 absolute value; its result wraps like the unary
// minus does. Validated input is far inside that range.
func GCD(a, b int64) int64 {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b, computed as |a/gcd*b| so
// the intermediate stays as small as the result. It returns 0 if either
// operand is 0. ok is false when the result does not fit in int64.
func LCM(a, b int64) (lcm int64, ok bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	q := abs(a / GCD(a, b))
	m := abs(b)
	if q > math.MaxInt64/m {
		return 0, false
	}
	return q * m, true
}

// ReduceGCD folds GCD over xs from left to right and stops as soon as the
// running result reaches 1. A single element yields its absolute value.
// xs must not be empty.
func ReduceGCD(xs []int64) int64 {
	result := abs(xs[0])
	for _, x := range xs[1:] {
		result = GCD(result, x)
		if result == 1 {
			return 1
		}
	}
	return result
}

// ReduceLCM folds LCM over xs from left to right. The fold runs over
// arbitrary precision so the result is exact for any input length. A single
// element is returned as is. xs must not be empty.
func ReduceLCM(xs []int64) *big.Int {
	result := big.NewInt(xs[0])
	if len(xs) == 1 {
		return result
	}
	var g, x big.Int
	for _, v := range xs[1:] {
		if result.Sign() == 0 || v == 0 {
			result.SetInt64(0)
			continue
		}
		x.SetInt64(v)
		g.GCD(nil, nil, new(big.Int).Abs(result), new(big.Int).Abs(&x))
		result.Quo(result, &g)
		result.Mul(result, &x)
		result.Abs(result)
	}
	return result
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
