package matrix

import (
	"gonum.org/v1/gonum/mat"
)

// AddDiagonal folds the mass-matrix diagonal into the Jacobian in place:
// m[i,i] += d[i]. The diagonal is always inside the band (ku+i-i is a valid
// band row), so this never fails for a well-formed matrix.
//
// Inputs:
//   - m: N×N Jacobian (either form), mutated.
//   - d: diagonal contribution, length N.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity: O(N).
func AddDiagonal(m Matrix, d []float64) error {
	if err := ValidateNotNil(m); err != nil {
		return matrixErrorf(opAddDiagonal, err)
	}
	if err := ValidateVecLen(d, m.Order()); err != nil {
		return matrixErrorf(opAddDiagonal, err)
	}

	// Fast path for both concrete forms; the diagonal is contiguous in band
	// storage (row ku) and strided in dense storage.
	switch t := m.(type) {
	case *Dense:
		for i := 0; i < t.n; i++ {
			t.m.Set(i, i, t.m.At(i, i)+d[i])
		}
	case *Band:
		base := t.ku * t.n
		for i := 0; i < t.n; i++ {
			t.data[base+i] += d[i]
		}
	default:
		var v float64
		var err error
		for i := 0; i < m.Order(); i++ {
			if v, err = m.At(i, i); err != nil {
				return matrixErrorf(opAddDiagonal, err)
			}
			if err = m.Set(i, i, v+d[i]); err != nil {
				return matrixErrorf(opAddDiagonal, err)
			}
		}
	}

	return nil
}

// Scale returns a fresh, form-preserving copy with entries
// rowScale[i] * m[i,j] * colScale[j]. This nondimensionalizes the Newton
// linear system: rowScale is the function-scale vector, colScale the
// variable-scale vector. Inputs are never mutated.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf (non-finite scale entry).
//
// Complexity: O(N²) full form, O((kl+ku+1)·N) band form.
func Scale(m Matrix, rowScale, colScale []float64) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	n := m.Order()
	for _, s := range [][]float64{rowScale, colScale} {
		if err := ValidateVecLen(s, n); err != nil {
			return nil, matrixErrorf(opScale, err)
		}
		if err := ValidateFinite(s); err != nil {
			return nil, matrixErrorf(opScale, err)
		}
	}

	switch t := m.(type) {
	case *Dense:
		out := &Dense{n: n, m: mat.NewDense(n, n, nil)}
		for i := 0; i < n; i++ {
			ri := rowScale[i]
			for j := 0; j < n; j++ {
				out.m.Set(i, j, ri*t.m.At(i, j)*colScale[j])
			}
		}

		return out, nil
	case *Band:
		out := &Band{n: n, kl: t.kl, ku: t.ku, data: make([]float64, len(t.data))}
		// Band row r holds diagonal i-j = r-ku: entry (j+r-ku, j).
		for r := 0; r <= t.kl+t.ku; r++ {
			off := r * n
			for j := 0; j < n; j++ {
				i := j + r - t.ku
				if i < 0 || i >= n {
					continue
				}
				out.data[off+j] = rowScale[i] * t.data[off+j] * colScale[j]
			}
		}

		return out, nil
	default:
		return nil, matrixErrorf(opScale, ErrNilMatrix)
	}
}

// ScaleResidual returns the scaled right-hand side of the Newton system:
// rhs[i] = -fScale[i] * resid[i]. A fresh slice is allocated; inputs are
// read-only.
func ScaleResidual(fScale, resid []float64) ([]float64, error) {
	if fScale == nil || resid == nil {
		return nil, matrixErrorf(opScale, ErrNilMatrix)
	}
	if len(fScale) != len(resid) {
		return nil, matrixErrorf(opScale, ErrDimensionMismatch)
	}
	rhs := make([]float64, len(resid))
	for i := range resid {
		rhs[i] = -fScale[i] * resid[i]
	}

	return rhs, nil
}

// Gradient computes g = Jᵀ·r for the scaled Jacobian and scaled residual:
// the gradient of the line-search objective f = ½‖r‖² in scaled step units.
//
// Complexity: O(N²) full form, O((kl+ku+1)·N) band form.
func Gradient(m Matrix, r []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opGradient, err)
	}
	n := m.Order()
	if err := ValidateVecLen(r, n); err != nil {
		return nil, matrixErrorf(opGradient, err)
	}

	g := make([]float64, n)
	switch t := m.(type) {
	case *Dense:
		gv := mat.NewVecDense(n, g)
		gv.MulVec(t.m.T(), mat.NewVecDense(n, r))
	case *Band:
		// g[j] = sum over in-band i of a(i,j)*r[i].
		for r0 := 0; r0 <= t.kl+t.ku; r0++ {
			off := r0 * t.n
			for j := 0; j < t.n; j++ {
				i := j + r0 - t.ku
				if i < 0 || i >= t.n {
					continue
				}
				g[j] += t.data[off+j] * r[i]
			}
		}
	default:
		var v float64
		var err error
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if v, err = m.At(i, j); err != nil {
					return nil, matrixErrorf(opGradient, err)
				}
				g[j] += v * r[i]
			}
		}
	}

	return g, nil
}
