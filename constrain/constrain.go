package constrain

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/vadosezone/cryosolve/core"
)

// Apply projects the proposed increment onto the feasible region and returns
// a fresh, admissible increment. The trial state and Aux snapshot are
// read-only; the input increment is never mutated.
//
// Implementation:
//   - Stage 1: validate layout, vector lengths, and Aux alignment (fatal).
//   - Stage 2: copy the increment and run the seven projection rules in the
//     documented order (see package doc). Rule 1 rescales the whole vector;
//     the rest clip individual entries.
//
// Inputs:
//   - lay:   state-vector layout (validated eagerly).
//   - aux:   trial-point physical snapshot aligned with lay.
//   - state: trial state vector, length lay.NState.
//   - incr:  proposed increment in physical units, length lay.NState.
//
// Returns:
//   - []float64: the projected increment (fresh slice).
//
// Errors:
//   - core.ErrBadLayout, core.ErrBadStateLength, ErrNilAux, ErrBadAux.
//
// Determinism: fixed rule order and fixed per-layer loops; no data-dependent
// ordering.
//
// Complexity: O(N) time, O(N) space for the copy.
func Apply(lay core.Layout, aux *core.Aux, state, incr []float64, opts ...Option) ([]float64, error) {
	if err := lay.Validate(); err != nil {
		return nil, err
	}
	if err := lay.CheckLen(state); err != nil {
		return nil, err
	}
	if err := lay.CheckLen(incr); err != nil {
		return nil, err
	}
	if err := validateAux(lay, aux); err != nil {
		return nil, err
	}
	o := gatherOptions(opts...)

	out := make([]float64, len(incr))
	copy(out, incr)

	capTemperature(lay, out, o.maxTempStep)
	clipVegEnergy(lay, aux, out, o.crossEpsilon)
	clipVegWater(lay, aux, out)
	clipSnowEnergy(lay, aux, out)
	clipSnowWater(lay, aux, state, out)
	// The head cap runs before the soil crossing clip so the clip sees the
	// final hydrology increment; the reverse order is not idempotent.
	capMatricHead(lay, state, out, o.maxMatricStep)
	clipSoilEnergy(lay, aux, state, out, o.crossEpsilon)

	return out, nil
}

// validateAux checks the per-layer Aux slices line up with the layout groups.
func validateAux(lay core.Layout, aux *core.Aux) error {
	if aux == nil {
		return ErrNilAux
	}
	if len(aux.SnowTemp) != len(lay.SnowEnergy) {
		return ErrBadAux
	}
	if len(aux.SnowFracLiq) != len(lay.SnowWater) || len(aux.SnowWatStored) != len(lay.SnowWater) {
		return ErrBadAux
	}
	if len(aux.SoilTemp) != len(lay.SoilEnergy) || len(aux.SoilMatric) != len(lay.SoilEnergy) {
		return ErrBadAux
	}
	if len(aux.SoilDepth) != len(lay.MatricHead) {
		return ErrBadAux
	}

	return nil
}

// capTemperature rescales the WHOLE increment vector when any energy entry
// exceeds the cap, by exactly cap/worst so the offender lands on the cap.
func capTemperature(lay core.Layout, incr []float64, cap float64) {
	worst := 0.0
	for _, ix := range lay.EnergyIndices() {
		if a := math.Abs(incr[ix]); a > worst {
			worst = a
		}
	}
	if worst > cap {
		floats.Scale(cap/worst, incr)
	}
}

// clipVegEnergy clips a canopy-energy increment that would cross the
// freezing point, landing eps short of the crossing from either side.
func clipVegEnergy(lay core.Layout, aux *core.Aux, incr []float64, eps float64) {
	ix := lay.VegEnergy
	if ix == core.Absent {
		return
	}
	t, dt := aux.VegTemp, incr[ix]
	switch {
	case t > core.Tfreeze && t+dt < core.Tfreeze:
		incr[ix] = core.Tfreeze - t + eps
	case t < core.Tfreeze && t+dt > core.Tfreeze:
		incr[ix] = core.Tfreeze - t - eps
	}
}

// clipVegWater replaces an increment that would drive canopy storage
// negative with the bisecting increment.
func clipVegWater(lay core.Layout, aux *core.Aux, incr []float64) {
	ix := lay.VegWater
	if ix == core.Absent {
		return
	}
	if aux.VegWatStored+incr[ix] < 0 {
		incr[ix] = -0.5 * aux.VegWatStored
	}
}

// clipSnowEnergy bisects any increment that would push a snow layer above
// the freezing point.
func clipSnowEnergy(lay core.Layout, aux *core.Aux, incr []float64) {
	for k, ix := range lay.SnowEnergy {
		if aux.SnowTemp[k]+incr[ix] > core.Tfreeze {
			incr[ix] = 0.5 * (core.Tfreeze - aux.SnowTemp[k])
		}
	}
}

// clipSnowWater bounds drainage by the liquid water actually present:
// directly for liquid-water states, via the liquid fraction of total water
// otherwise.
func clipSnowWater(lay core.Layout, aux *core.Aux, state, incr []float64) {
	for k, ix := range lay.SnowWater {
		avail := aux.SnowFracLiq[k] * aux.SnowWatStored[k]
		if aux.SnowLiquidState {
			avail = state[ix]
		}
		if incr[ix] < -avail {
			incr[ix] = -0.5 * avail
		}
	}
}

// clipSoilEnergy clips energy increments that would cross the soil-specific
// freezing point, which is depressed by the matric potential. The potential
// is the trial head plus the co-located hydrology increment when the
// hydrology subset is active for every soil layer, and the last known head
// otherwise.
func clipSoilEnergy(lay core.Layout, aux *core.Aux, state, incr []float64, eps float64) {
	coupled := len(lay.MatricHead) == len(lay.SoilEnergy)
	for k, ix := range lay.SoilEnergy {
		psi := aux.SoilMatric[k]
		if coupled {
			ixh := lay.MatricHead[k]
			psi = state[ixh] + incr[ixh]
		}
		tcrit := core.CritSoilTemp(psi)
		t, dt := aux.SoilTemp[k], incr[ix]
		switch {
		case t > tcrit && t+dt < tcrit:
			incr[ix] = tcrit - t + eps
		case t < tcrit && t+dt > tcrit:
			incr[ix] = tcrit - t - eps
		}
	}
}

// capMatricHead caps positive head increments near saturation.
func capMatricHead(lay core.Layout, state, incr []float64, cap float64) {
	for _, ix := range lay.MatricHead {
		if state[ix] > 0 && incr[ix] > cap {
			incr[ix] = cap
		}
	}
}
