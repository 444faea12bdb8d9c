package compute

// IsPrime reports whether k is prime.
func IsPrime(k int64) bool {
	switch {
	case k < 2:
		return false
	case k == 2:
		return true
	case k%2 == 0:
		return false
	}
	// i <= k/i is i*i <= k without the multiplication overflowing.
	for i := int64(3); i <= k/i; i += 2 {
		if k%i == 0 {
			return false
		}
	}
	return true
}

// FilterPrimes returns the prime elements of xs in order.
// Duplicates are kept. The result is never nil.
func FilterPrimes(xs []int64) []int64 {
	out := make([]int64, 0, len(xs))
	for _, x := range xs {
		if IsPrime(x) {
			out = append(out, x)
		}
	}
	return out
}
