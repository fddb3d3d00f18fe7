package matrix

import (
	"gonum.org/v1/gonum/mat"

	"github.com/vadosezone/cryosolve/core"
)

// Matrix is a square Jacobian in one of the two storage forms. Reads outside
// a band are legal and return zero; writes outside a band fail with
// ErrOutOfBand so a builder bug cannot silently vanish.
type Matrix interface {
	// Order returns N for the N×N matrix.
	Order() int

	// Form reports the storage scheme.
	Form() core.MatrixForm

	// At returns entry (i,j); zero for in-range entries outside the band.
	At(i, j int) (float64, error)

	// Set writes entry (i,j).
	Set(i, j int, v float64) error

	// Clone returns a deep copy with the same form and bandwidths.
	Clone() Matrix
}

// Dense is the full-form Jacobian, backed by gonum's mat.Dense so the Newton
// solve can use its pivoted LU directly.
type Dense struct {
	n int
	m *mat.Dense
}

// NewDense creates an N×N zero Jacobian in full storage.
func NewDense(n int) (*Dense, error) {
	if n <= 0 {
		return nil, matrixErrorf(opNew, ErrDimensionMismatch)
	}

	return &Dense{n: n, m: mat.NewDense(n, n, nil)}, nil
}

// Order returns N.
func (d *Dense) Order() int { return d.n }

// Form reports core.FullMatrix.
func (d *Dense) Form() core.MatrixForm { return core.FullMatrix }

// At returns entry (i,j).
func (d *Dense) At(i, j int) (float64, error) {
	if i < 0 || i >= d.n || j < 0 || j >= d.n {
		return 0, matrixErrorf(opAt, ErrOutOfRange)
	}

	return d.m.At(i, j), nil
}

// Set writes entry (i,j).
func (d *Dense) Set(i, j int, v float64) error {
	if i < 0 || i >= d.n || j < 0 || j >= d.n {
		return matrixErrorf(opSet, ErrOutOfRange)
	}
	d.m.Set(i, j, v)

	return nil
}

// Clone returns a deep copy.
func (d *Dense) Clone() Matrix {
	return &Dense{n: d.n, m: mat.DenseCopyOf(d.m)}
}

// Raw exposes the backing gonum matrix for the dense solve path.
// Callers must not resize it.
func (d *Dense) Raw() *mat.Dense { return d.m }

// Band is the banded-form Jacobian with kl sub- and ku super-diagonals.
// Entry (i,j) with -ku <= i-j <= kl is stored at data[(ku+i-j)*n + j];
// everything else is structurally zero. The no-pivot factorization keeps all
// fill inside the declared band.
type Band struct {
	n, kl, ku int
	data      []float64 // (kl+ku+1) rows of length n, row-major
}

// NewBand creates an N×N zero Jacobian with the given bandwidths.
func NewBand(n, kl, ku int) (*Band, error) {
	if n <= 0 {
		return nil, matrixErrorf(opNew, ErrDimensionMismatch)
	}
	if kl < 0 || ku < 0 || kl >= n || ku >= n {
		return nil, matrixErrorf(opNew, ErrBadBandwidth)
	}

	return &Band{
		n:    n,
		kl:   kl,
		ku:   ku,
		data: make([]float64, (kl+ku+1)*n),
	}, nil
}

// Order returns N.
func (b *Band) Order() int { return b.n }

// Form reports core.BandMatrix.
func (b *Band) Form() core.MatrixForm { return core.BandMatrix }

// Bandwidths returns (kl, ku).
func (b *Band) Bandwidths() (kl, ku int) { return b.kl, b.ku }

// inBand reports whether (i,j) lies inside the declared band.
func (b *Band) inBand(i, j int) bool {
	d := i - j

	return d >= -b.ku && d <= b.kl
}

// At returns entry (i,j); in-range entries outside the band read as zero.
func (b *Band) At(i, j int) (float64, error) {
	if i < 0 || i >= b.n || j < 0 || j >= b.n {
		return 0, matrixErrorf(opAt, ErrOutOfRange)
	}
	if !b.inBand(i, j) {
		return 0, nil
	}

	return b.data[(b.ku+i-j)*b.n+j], nil
}

// Set writes entry (i,j); writes outside the band fail with ErrOutOfBand.
func (b *Band) Set(i, j int, v float64) error {
	if i < 0 || i >= b.n || j < 0 || j >= b.n {
		return matrixErrorf(opSet, ErrOutOfRange)
	}
	if !b.inBand(i, j) {
		return matrixErrorf(opSet, ErrOutOfBand)
	}
	b.data[(b.ku+i-j)*b.n+j] = v

	return nil
}

// Clone returns a deep copy with identical bandwidths.
func (b *Band) Clone() Matrix {
	cp := &Band{n: b.n, kl: b.kl, ku: b.ku, data: make([]float64, len(b.data))}
	copy(cp.data, b.data)

	return cp
}

// New allocates a zero Jacobian in the requested form. Bandwidths are only
// consulted for core.BandMatrix.
func New(form core.MatrixForm, n, kl, ku int) (Matrix, error) {
	switch form {
	case core.FullMatrix:
		return NewDense(n)
	case core.BandMatrix:
		return NewBand(n, kl, ku)
	default:
		return nil, matrixErrorf(opNew, ErrDimensionMismatch)
	}
}
