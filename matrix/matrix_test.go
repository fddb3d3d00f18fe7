package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadosezone/cryosolve/core"
	"github.com/vadosezone/cryosolve/matrix"
)

// TestNewDense_BadOrder verifies that non-positive orders are rejected.
func TestNewDense_BadOrder(t *testing.T) {
	_, err := matrix.NewDense(0)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch, "order 0 must be rejected")

	_, err = matrix.NewDense(-3)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch, "negative order must be rejected")
}

// TestNewBand_BadBandwidth verifies bandwidth validation against the order.
func TestNewBand_BadBandwidth(t *testing.T) {
	_, err := matrix.NewBand(4, -1, 1)
	assert.ErrorIs(t, err, matrix.ErrBadBandwidth, "negative kl must be rejected")

	_, err = matrix.NewBand(4, 1, 4)
	assert.ErrorIs(t, err, matrix.ErrBadBandwidth, "ku >= n must be rejected")
}

// TestDense_AtSet covers round-trip access and range checks on the full form.
func TestDense_AtSet(t *testing.T) {
	d, err := matrix.NewDense(3)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Order())
	assert.Equal(t, core.FullMatrix, d.Form())

	require.NoError(t, d.Set(1, 2, 4.5))
	v, err := d.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	_, err = d.At(3, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, d.Set(0, -1, 1), matrix.ErrOutOfRange)
}

// TestBand_AtSet covers in-band round-trips, zero reads outside the band,
// and rejected writes outside the band.
func TestBand_AtSet(t *testing.T) {
	b, err := matrix.NewBand(5, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, core.BandMatrix, b.Form())

	kl, ku := b.Bandwidths()
	assert.Equal(t, 1, kl)
	assert.Equal(t, 2, ku)

	// Diagonal, sub- and super-diagonal entries are storable.
	require.NoError(t, b.Set(2, 2, 1.0))
	require.NoError(t, b.Set(3, 2, -0.5)) // first subdiagonal
	require.NoError(t, b.Set(1, 3, 2.0))  // second superdiagonal

	v, err := b.At(3, 2)
	require.NoError(t, err)
	assert.Equal(t, -0.5, v)

	// Outside the band: reads are zero, writes fail.
	v, err = b.At(4, 0)
	require.NoError(t, err)
	assert.Zero(t, v, "out-of-band read must be structurally zero")
	assert.ErrorIs(t, b.Set(4, 0, 1.0), matrix.ErrOutOfBand)
}

// TestBand_Clone verifies deep-copy semantics.
func TestBand_Clone(t *testing.T) {
	b, err := matrix.NewBand(3, 1, 1)
	require.NoError(t, err)
	require.NoError(t, b.Set(0, 0, 7.0))

	cp := b.Clone()
	require.NoError(t, cp.Set(0, 0, 9.0))

	v, err := b.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v, "mutating the clone must not touch the original")
}

// TestAddDiagonal_BothForms verifies the mass-diagonal fold on both forms.
func TestAddDiagonal_BothForms(t *testing.T) {
	diag := []float64{1, 2, 3}

	d, err := matrix.NewDense(3)
	require.NoError(t, err)
	require.NoError(t, d.Set(1, 1, 0.5))
	require.NoError(t, matrix.AddDiagonal(d, diag))
	v, err := d.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	b, err := matrix.NewBand(3, 1, 1)
	require.NoError(t, err)
	require.NoError(t, matrix.AddDiagonal(b, diag))
	v, err = b.At(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	assert.ErrorIs(t, matrix.AddDiagonal(d, []float64{1}), matrix.ErrDimensionMismatch)
	assert.ErrorIs(t, matrix.AddDiagonal(nil, diag), matrix.ErrNilMatrix)
}

// TestScale_Full verifies rowScale[i]*a[i,j]*colScale[j] on the full form and
// that the input is untouched.
func TestScale_Full(t *testing.T) {
	d, err := matrix.NewDense(2)
	require.NoError(t, err)
	require.NoError(t, d.Set(0, 0, 1))
	require.NoError(t, d.Set(0, 1, 2))
	require.NoError(t, d.Set(1, 0, 3))
	require.NoError(t, d.Set(1, 1, 4))

	s, err := matrix.Scale(d, []float64{2, 10}, []float64{1, 0.5})
	require.NoError(t, err)

	want := [][]float64{{2, 2}, {30, 20}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			v, err := s.At(i, j)
			require.NoError(t, err)
			assert.Equal(t, want[i][j], v, "scaled entry (%d,%d)", i, j)
		}
	}

	// Original untouched.
	v, err := d.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

// TestScale_BandMatchesFull checks that band scaling agrees with dense scaling
// on the entries inside the band.
func TestScale_BandMatchesFull(t *testing.T) {
	n := 4
	b, err := matrix.NewBand(n, 1, 1)
	require.NoError(t, err)
	d, err := matrix.NewDense(n)
	require.NoError(t, err)

	vals := []float64{4, -1, -1, 4, -1, -1, 4, -1, -1, 4}
	k := 0
	for i := 0; i < n; i++ {
		for j := max(0, i-1); j <= min(n-1, i+1); j++ {
			require.NoError(t, b.Set(i, j, vals[k]))
			require.NoError(t, d.Set(i, j, vals[k]))
			k++
		}
	}

	row := []float64{1, 2, 3, 4}
	col := []float64{0.5, 1, 1.5, 2}
	sb, err := matrix.Scale(b, row, col)
	require.NoError(t, err)
	sd, err := matrix.Scale(d, row, col)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			vb, err := sb.At(i, j)
			require.NoError(t, err)
			vd, err := sd.At(i, j)
			require.NoError(t, err)
			assert.InDelta(t, vd, vb, 1e-15, "entry (%d,%d)", i, j)
		}
	}
}

// TestScaleResidual verifies rhs = -fScale*resid.
func TestScaleResidual(t *testing.T) {
	rhs, err := matrix.ScaleResidual([]float64{2, 0.5}, []float64{3, -4})
	require.NoError(t, err)
	assert.Equal(t, []float64{-6, 2}, rhs)

	_, err = matrix.ScaleResidual([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestGradient_BothForms compares g = J^T r between forms and against a
// hand-computed value.
func TestGradient_BothForms(t *testing.T) {
	// J = [[2, 1], [0, 3]], r = [1, 2] -> g = [2, 7].
	d, err := matrix.NewDense(2)
	require.NoError(t, err)
	require.NoError(t, d.Set(0, 0, 2))
	require.NoError(t, d.Set(0, 1, 1))
	require.NoError(t, d.Set(1, 1, 3))

	g, err := matrix.Gradient(d, []float64{1, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 7}, g, 1e-15)

	b, err := matrix.NewBand(2, 0, 1)
	require.NoError(t, err)
	require.NoError(t, b.Set(0, 0, 2))
	require.NoError(t, b.Set(0, 1, 1))
	require.NoError(t, b.Set(1, 1, 3))

	g, err = matrix.Gradient(b, []float64{1, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 7}, g, 1e-15)
}
