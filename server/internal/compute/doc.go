// Package compute is the deterministic numeric engine behind the bfhl
// operations.
//
// sequence.go generates Fibonacci terms. Terms are *big.Int because the
// sequence leaves int64 range after index 92 and callers may request up to the
// configured sequence limit.
//
// prime.go provides IsPrime (trial division by odd numbers up to floor(sqrt(k)))
// and the order-preserving FilterPrimes.
//
// divisor.go provides GCD/LCM and their left-fold reductions ReduceGCD and
// ReduceLCM. ReduceLCM folds over arbitrary precision so bounded inputs never
// overflow; LCM on int64 reports overflow instead of wrapping.
//
// Every function is pure and never blocks. Callers are expected to validate
// input first: the reductions assume a non-empty slice.
package compute
