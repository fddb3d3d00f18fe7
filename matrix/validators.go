// Package matrix: canonical validators. Pure, deterministic, allocation-free;
// kernels delegate their shape/nil checks here and wrap the plain sentinels
// at the facade.

package matrix

import "math"

// ValidateNotNil ensures the matrix reference is non-nil.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return ErrNilMatrix
	}

	return nil
}

// ValidateVecLen ensures x is non-nil and has exactly n entries.
func ValidateVecLen(x []float64, n int) error {
	if x == nil {
		return ErrNilMatrix
	}
	if len(x) != n {
		return ErrDimensionMismatch
	}

	return nil
}

// ValidateFinite ensures every entry of x is finite. Shape checks run first
// at call sites; this is the numeric-policy gate before a factorization.
func ValidateFinite(x []float64) error {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNaNInf
		}
	}

	return nil
}
