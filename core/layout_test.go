package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

// TestLayout_Validate accepts the full layout and rejects the usual defects.
func TestLayout_Validate(t *testing.T) {
	require.NoError(t, fullLayout().Validate())

	dup := fullLayout()
	dup.Aquifer = 0 // already claimed by canopy air
	assert.ErrorIs(t, dup.Validate(), core.ErrBadLayout)

	oob := fullLayout()
	oob.SoilEnergy = []int{8}
	assert.ErrorIs(t, oob.Validate(), core.ErrBadLayout)

	neg := fullLayout()
	neg.VegEnergy = -2
	assert.ErrorIs(t, neg.Validate(), core.ErrBadLayout)

	empty := core.Layout{
		NState: 1, CanairEnergy: core.Absent, VegEnergy: core.Absent,
		VegWater: core.Absent, Aquifer: core.Absent,
	}
	assert.ErrorIs(t, empty.Validate(), core.ErrBadLayout)

	assert.ErrorIs(t, core.Layout{NState: 0}.Validate(), core.ErrBadLayout)
}

// TestLayout_IndexGroups checks the accessor ordering and Absent skipping.
func TestLayout_IndexGroups(t *testing.T) {
	lay := fullLayout()
	assert.Equal(t, []int{0, 1, 3, 5}, lay.EnergyIndices())
	assert.Equal(t, []int{2, 4, 6, 7}, lay.HydrologyIndices())

	lay.CanairEnergy = core.Absent
	lay.Aquifer = core.Absent
	assert.Equal(t, []int{1, 3, 5}, lay.EnergyIndices())
	assert.Equal(t, []int{2, 4, 6}, lay.HydrologyIndices())
}

// TestLayout_ScalarAndCheckLen covers the small predicates.
func TestLayout_ScalarAndCheckLen(t *testing.T) {
	lay := fullLayout()
	assert.False(t, lay.Scalar())
	assert.NoError(t, lay.CheckLen(make([]float64, 8)))
	assert.ErrorIs(t, lay.CheckLen(make([]float64, 7)), core.ErrBadStateLength)

	one := core.Layout{
		NState: 1, CanairEnergy: core.Absent, VegEnergy: core.Absent,
		VegWater: core.Absent, Aquifer: core.Absent, MatricHead: []int{0},
	}
	assert.True(t, one.Scalar())
}

// TestCritSoilTemp: the freezing point is Tfreeze at saturation and linearly
// depressed below it.
func TestCritSoilTemp(t *testing.T) {
	assert.Equal(t, core.Tfreeze, core.CritSoilTemp(0))
	assert.Equal(t, core.Tfreeze, core.CritSoilTemp(2.5))

	got := core.CritSoilTemp(-10)
	want := core.Tfreeze + core.Gravity*core.Tfreeze/core.LatentHeatFusion*(-10)
	assert.Equal(t, want, got)
	assert.Less(t, got, core.Tfreeze)

	// Twice the suction, twice the depression.
	d1 := core.Tfreeze - core.CritSoilTemp(-1)
	d2 := core.Tfreeze - core.CritSoilTemp(-2)
	assert.InDelta(t, 2*d1, d2, 1e-12)
}

// TestMatrixForm_String names both storage schemes.
func TestMatrixForm_String(t *testing.T) {
	assert.Equal(t, "full", core.FullMatrix.String())
	assert.Equal(t, "band", core.BandMatrix.String())
	assert.Equal(t, "unknown", core.MatrixForm(9).String())
}
