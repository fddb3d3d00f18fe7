package converge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadosezone/cryosolve/converge"
	"github.com/vadosezone/cryosolve/core"
)

func fullLayout() core.Layout {
	return core.Layout{
		NState:       8,
		CanairEnergy: 0,
		VegEnergy:    1,
		VegWater:     2,
		SnowEnergy:   []int{3},
		SnowWater:    []int{4},
		SoilEnergy:   []int{5},
		MatricHead:   []int{6},
		Aquifer:      7,
	}
}

func fullAux() *core.Aux {
	return &core.Aux{
		CanopyDepth: 0.05,
		SoilDepth:   []float64{0.25},
	}
}

func looseTol() converge.Tolerances {
	return converge.Tolerances{Liquid: 1e-2, Matric: 1e-3, Energy: 1e-1}
}

func zeros(n int) []float64 { return make([]float64, n) }

// TestCheck_AllSatisfied: tiny residuals and increments converge every
// criterion.
func TestCheck_AllSatisfied(t *testing.T) {
	lay, aux := fullLayout(), fullAux()
	resid := []float64{1e-6, 1e-6, 1e-6, 1e-6, 1e-6, 1e-6, 1e-6, 1e-6}
	incr := zeros(8)
	state := []float64{283, 280, 1, 270, 50, 278, -2, 100}

	r, err := converge.Check(lay, aux, resid, incr, state, looseTol(), false)
	require.NoError(t, err)
	assert.True(t, r.Converged)
	assert.Equal(t, converge.Result{
		CanopyWater: true, Energy: true, LiquidWater: true,
		MatricHead: true, SoilWater: true, Aquifer: true, Converged: true,
	}, r)
}

// TestCheck_EnergyBlocks: one bad energy residual fails only the energy
// criterion.
func TestCheck_EnergyBlocks(t *testing.T) {
	lay, aux := fullLayout(), fullAux()
	resid := zeros(8)
	resid[3] = 0.5 // snow energy residual above Energy=1e-1
	state := zeros(8)

	r, err := converge.Check(lay, aux, resid, zeros(8), state, looseTol(), false)
	require.NoError(t, err)
	assert.False(t, r.Energy)
	assert.False(t, r.Converged)
	assert.True(t, r.CanopyWater)
	assert.True(t, r.LiquidWater)
}

// TestCheck_AbsentCategoriesVacuouslyTrue: an energy-only layout must report
// every water criterion satisfied no matter the residual values.
func TestCheck_AbsentCategoriesVacuouslyTrue(t *testing.T) {
	lay := core.Layout{
		NState:       2,
		CanairEnergy: core.Absent,
		VegEnergy:    core.Absent,
		VegWater:     core.Absent,
		SoilEnergy:   []int{0, 1},
		Aquifer:      core.Absent,
	}
	aux := &core.Aux{}
	resid := []float64{1e-3, -1e-3}

	r, err := converge.Check(lay, aux, resid, zeros(2), zeros(2), looseTol(), false)
	require.NoError(t, err)
	assert.True(t, r.CanopyWater, "absent canopy water must be vacuously satisfied")
	assert.True(t, r.LiquidWater, "absent hydrology must be vacuously satisfied")
	assert.True(t, r.MatricHead)
	assert.True(t, r.SoilWater)
	assert.True(t, r.Aquifer)
	assert.True(t, r.Energy)
	assert.True(t, r.Converged)
}

// TestCheck_ScalarTightening: a residual between 0.1·Liquid and Liquid passes
// a vector solve but fails a scalar solve.
func TestCheck_ScalarTightening(t *testing.T) {
	lay := core.Layout{
		NState:       1,
		CanairEnergy: core.Absent,
		VegEnergy:    core.Absent,
		VegWater:     core.Absent,
		MatricHead:   []int{0},
		Aquifer:      core.Absent,
	}
	aux := &core.Aux{SoilDepth: []float64{1e-3}}
	tol := looseTol() // Liquid = 1e-2
	resid := []float64{5e-3}
	state := []float64{-1.0}

	r, err := converge.Check(lay, aux, resid, zeros(1), state, tol, false)
	require.NoError(t, err)
	assert.True(t, r.LiquidWater, "5e-3 < 1e-2 must pass untightened")

	r, err = converge.Check(lay, aux, resid, zeros(1), state, tol, true)
	require.NoError(t, err)
	assert.False(t, r.LiquidWater, "5e-3 > 0.1*1e-2 must fail tightened")
}

// TestCheck_MatricRelativeIncrement: the matric criterion is increment-based
// and scales with the head magnitude.
func TestCheck_MatricRelativeIncrement(t *testing.T) {
	lay, aux := fullLayout(), fullAux()
	incr := zeros(8)
	state := zeros(8)
	incr[6] = 1e-2

	// Large head: 1e-2 / 20 = 5e-4 < Matric=1e-3, passes.
	state[6] = -20.0
	r, err := converge.Check(lay, aux, zeros(8), incr, state, looseTol(), false)
	require.NoError(t, err)
	assert.True(t, r.MatricHead)

	// Small head: 1e-2 / ~1 = 1e-2 > 1e-3, fails.
	state[6] = -1.0
	r, err = converge.Check(lay, aux, zeros(8), incr, state, looseTol(), false)
	require.NoError(t, err)
	assert.False(t, r.MatricHead)
	assert.False(t, r.Converged)
}

// TestCheck_SoilWaterDepthWeighting: the balance criterion weights residuals
// by layer depth, so a thin layer tolerates a larger residual.
func TestCheck_SoilWaterDepthWeighting(t *testing.T) {
	lay, aux := fullLayout(), fullAux()
	resid := zeros(8)
	resid[6] = 0.03 // 0.03 * 0.25 = 7.5e-3 < Liquid=1e-2

	r, err := converge.Check(lay, aux, resid, zeros(8), zeros(8), looseTol(), false)
	require.NoError(t, err)
	assert.True(t, r.SoilWater)
	assert.False(t, r.LiquidWater, "the raw residual still fails the content criterion")

	aux.SoilDepth[0] = 1.0 // 0.03 * 1.0 = 3e-2 > 1e-2
	r, err = converge.Check(lay, aux, resid, zeros(8), zeros(8), looseTol(), false)
	require.NoError(t, err)
	assert.False(t, r.SoilWater)
}

// TestCheck_Validation covers the eager fatal checks.
func TestCheck_Validation(t *testing.T) {
	lay, aux := fullLayout(), fullAux()

	_, err := converge.Check(lay, aux, zeros(7), zeros(8), zeros(8), looseTol(), false)
	assert.ErrorIs(t, err, core.ErrBadStateLength)

	_, err = converge.Check(lay, nil, zeros(8), zeros(8), zeros(8), looseTol(), false)
	assert.ErrorIs(t, err, converge.ErrNilAux)

	_, err = converge.Check(lay, &core.Aux{}, zeros(8), zeros(8), zeros(8), looseTol(), false)
	assert.ErrorIs(t, err, converge.ErrBadAux)

	bad := looseTol()
	bad.Energy = 0
	_, err = converge.Check(lay, aux, zeros(8), zeros(8), zeros(8), bad, false)
	assert.ErrorIs(t, err, converge.ErrBadTolerance)
}
