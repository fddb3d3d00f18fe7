package matrix

import (
	"gonum.org/v1/gonum/mat"
)

// Solve computes the Newton step x from m·x = rhs without mutating m.
//
// Implementation:
//   - Full form: gonum LU with partial pivoting (mat.LU). A singular or
//     numerically unusable factorization surfaces as ErrSingular.
//   - Band form: in-package band elimination WITHOUT pivoting on a clone of
//     the band storage. No pivoting means no fill outside the declared band
//     and fully deterministic results; a zero pivot fails with ErrSingular.
//     The Jacobians solved here carry the mass-matrix diagonal and are
//     strongly diagonally dominant, the regime where the no-pivot scheme is
//     sound.
//
// Inputs:
//   - m:   N×N scaled Jacobian (either form), read-only.
//   - rhs: scaled negative residual, length N.
//
// Returns:
//   - []float64: the scaled Newton step (fresh slice).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf, ErrSingular.
//
// Complexity: O(N³) full form, O(N·kl·ku) band form.
func Solve(m Matrix, rhs []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	n := m.Order()
	if err := ValidateVecLen(rhs, n); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	if err := ValidateFinite(rhs); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	switch t := m.(type) {
	case *Dense:
		return solveDense(t, rhs)
	case *Band:
		return solveBand(t, rhs)
	default:
		return nil, matrixErrorf(opSolve, ErrNilMatrix)
	}
}

// solveDense factorizes with gonum's pivoted LU and back-substitutes.
func solveDense(d *Dense, rhs []float64) ([]float64, error) {
	var lu mat.LU
	lu.Factorize(d.m)

	x := make([]float64, d.n)
	xv := mat.NewVecDense(d.n, x)
	if err := lu.SolveVecTo(xv, false, mat.NewVecDense(d.n, rhs)); err != nil {
		// gonum reports both exact singularity and hopeless conditioning
		// through the solve; either way the Newton step is unusable.
		return nil, matrixErrorf(opSolve, ErrSingular)
	}

	return x, nil
}

// solveBand runs Doolittle-style elimination restricted to the band, then
// forward/backward substitution. Works on a clone; b is read-only.
func solveBand(b *Band, rhs []float64) ([]float64, error) {
	f := b.Clone().(*Band)
	n, kl, ku := f.n, f.kl, f.ku

	// at/set address the band storage directly; (i,j) must be in band.
	at := func(i, j int) float64 { return f.data[(ku+i-j)*n+j] }
	set := func(i, j int, v float64) { f.data[(ku+i-j)*n+j] = v }

	// Elimination: for each pivot column k, clear the kl rows below it.
	// Updates touch only (i,j) with i-k <= kl and j-k <= ku, all in band.
	for k := 0; k < n; k++ {
		pivot := at(k, k)
		if pivot == 0 {
			return nil, matrixErrorf(opSolve, ErrSingular)
		}
		iMax := min(k+kl, n-1)
		jMax := min(k+ku, n-1)
		for i := k + 1; i <= iMax; i++ {
			mult := at(i, k) / pivot
			set(i, k, mult) // store the multiplier in place of the eliminated entry
			if mult == 0 {
				continue
			}
			for j := k + 1; j <= jMax; j++ {
				set(i, j, at(i, j)-mult*at(k, j))
			}
		}
	}

	// Forward substitution with the unit lower factor (multipliers).
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := rhs[i]
		for k := max(0, i-kl); k < i; k++ {
			sum -= at(i, k) * y[k]
		}
		y[i] = sum
	}

	// Backward substitution with the upper factor.
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for k := i + 1; k <= min(i+ku, n-1); k++ {
			sum -= at(i, k) * x[k]
		}
		x[i] = sum / at(i, i)
	}

	return x, nil
}
