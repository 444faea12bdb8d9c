package compute

import "math/big"

// Fibonacci returns the first n terms of the sequence 0, 1, 1, 2, 3, ...
// n <= 0 yields an empty, non-nil slice; n == 1 yields [0].
func Fibonacci(n int) []*big.Int {
	if n <= 0 {
		return []*big.Int{}
	}
	out := make([]*big.Int, n)
	out[0] = big.NewInt(0)
	if n == 1 {
		return out
	}
	out[1] = big.NewInt(1)
	for i := 2; i < n; i++ {
		out[i] = new(big.Int).Add(out[i-1], out[i-2])
	}
	return out
}
