package crypto

// CtEq is a constant-time byte compare. A length mismatch returns false,
// but the comparison still walks max(len(a), len(b)) bytes so the running
// time does not leak which input was shorter (spec.md §4.1) — unlike
// crypto/subtle.ConstantTimeCompare, which returns immediately on a length
// mismatch.
func CtEq(a, b []byte) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	var diff byte
	for i := 0; i < n; i++ {
		var x, y byte
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		diff |= x ^ y
	}
	return diff == 0 && len(a) == len(b)
}
