// Package matrix: sentinel error set. All kernels return these sentinels,
// wrapped with an operation tag at the facade; tests match via errors.Is.
// Panics are reserved for programmer errors in private helpers.

package matrix

import (
	"errors"
	"fmt"
)

// Operation name constants for unified error wrapping.
const (
	opNew         = "New"
	opAt          = "At"
	opSet         = "Set"
	opAddDiagonal = "AddDiagonal"
	opScale       = "Scale"
	opSolve       = "Solve"
	opGradient    = "Gradient"
)

var (
	// ErrNilMatrix indicates a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrDimensionMismatch indicates incompatible sizes between operands,
	// e.g. a scale vector shorter than the matrix order.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrBadBandwidth indicates a negative bandwidth, or kl/ku not smaller
	// than the matrix order.
	ErrBadBandwidth = errors.New("matrix: invalid bandwidth")

	// ErrOutOfBand indicates a write to an entry outside the declared band.
	// Reads outside the band are legal and return zero.
	ErrOutOfBand = errors.New("matrix: entry outside band")

	// ErrOutOfRange indicates a row or column index outside [0, N).
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrSingular is returned when a zero pivot is encountered during the
	// band factorization, or when the dense LU reports a singular system.
	ErrSingular = errors.New("matrix: singular matrix")

	// ErrNaNInf signals a NaN or ±Inf value where finite input is required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")
)

// matrixErrorf wraps err with an operation tag, preserving the sentinel for
// errors.Is. Call only with err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
