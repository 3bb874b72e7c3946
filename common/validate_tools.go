package common

import "errors"

// ValidateNil returns an error naming msg if data is nil. Used by the
// program loader to reject JSON sections missing a required field.
func ValidateNil(data interface{}, msg string) error {
	if data == nil {
		return errors.New(msg + ` must be specified`)
	}
	return nil
}

// ByteSliceEqual reports whether a and b hold the same bytes.
func ByteSliceEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if (a == nil) != (b == nil) {
		return false
	}
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}

// CloneBytes returns an independent copy of b, or nil if b is nil.
func CloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// MaskAndNot returns a &^ b, bit by bit, over equal-length byte-enable masks.
// Used by WAW resolution: an older write's enable is masked wherever a
// younger write's enable is set.
func MaskAndNot(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		var bb byte
		if i < len(b) {
			bb = b[i]
		}
		out[i] = a[i] &^ bb
	}
	return out
}

// MaskOr returns a | b, bit by bit, over equal-length byte-enable masks.
func MaskOr(a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		var av, bv byte
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		out[i] = av | bv
	}
	return out
}

// AllOnes returns an n-byte mask with every bit set.
func AllOnes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = 0xFF
	}
	return out
}
