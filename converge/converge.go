package converge

import (
	"errors"
	"math"

	"github.com/vadosezone/cryosolve/core"
)

// ScalarTighten multiplies the liquid tolerance for single-unknown solves,
// where the only unknown must be pinned down harder than one state among many.
const ScalarTighten = 0.1

// headOffset pads the denominator of the relative matric-head criterion so a
// near-zero head does not turn the criterion into an absolute one.
const headOffset = 1e-8

// Sentinel errors.
var (
	// ErrBadTolerance indicates a tolerance that is not finite and positive.
	ErrBadTolerance = errors.New("converge: tolerance must be finite, positive")

	// ErrNilAux indicates a nil Aux snapshot.
	ErrNilAux = errors.New("converge: aux snapshot is nil")

	// ErrBadAux indicates Aux slices misaligned with the Layout's per-layer
	// index groups.
	ErrBadAux = errors.New("converge: aux snapshot misaligned with layout")
)

// Tolerances holds the per-category convergence thresholds. They are supplied
// by the driver and constant for the duration of a solve.
type Tolerances struct {
	// Liquid bounds the water-balance criteria (canopy, liquid content, soil
	// balance, aquifer) [mass units].
	Liquid float64

	// Matric bounds the relative matric-head increment [-].
	Matric float64

	// Energy bounds the max absolute energy residual [energy units].
	Energy float64
}

// Validate reports ErrBadTolerance unless every threshold is finite and
// positive.
func (t Tolerances) Validate() error {
	for _, v := range []float64{t.Liquid, t.Matric, t.Energy} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return ErrBadTolerance
		}
	}

	return nil
}

// Result carries the six per-criterion verdicts plus their AND. Absent
// categories report true.
type Result struct {
	CanopyWater bool
	Energy      bool
	LiquidWater bool
	MatricHead  bool
	SoilWater   bool
	Aquifer     bool

	// Converged is the AND of all six criteria.
	Converged bool
}

// Check evaluates the six convergence criteria at one iterate.
//
// Implementation: eager shape validation, then one pass per criterion over
// the relevant index group. No state is kept between calls and nothing is
// mutated; the same inputs always produce the same Result.
//
// Inputs:
//   - lay:         state-vector layout (validated eagerly).
//   - aux:         trial-point snapshot (CanopyDepth, SoilDepth weights).
//   - resid:       residual vector at the iterate, length lay.NState.
//   - incr:        accepted increment that produced the iterate.
//   - state:       the iterate itself (denominator of the matric criterion).
//   - tol:         per-category thresholds.
//   - scalarSolve: tightens the liquid criterion by ScalarTighten.
//
// Returns:
//   - Result: per-criterion verdicts and the overall AND.
//
// Errors:
//   - core.ErrBadLayout, core.ErrBadStateLength, ErrNilAux, ErrBadAux,
//     ErrBadTolerance.
//
// Complexity: O(N) time, O(1) space.
func Check(lay core.Layout, aux *core.Aux, resid, incr, state []float64, tol Tolerances, scalarSolve bool) (Result, error) {
	if err := lay.Validate(); err != nil {
		return Result{}, err
	}
	for _, v := range [][]float64{resid, incr, state} {
		if err := lay.CheckLen(v); err != nil {
			return Result{}, err
		}
	}
	if err := tol.Validate(); err != nil {
		return Result{}, err
	}
	if aux == nil {
		return Result{}, ErrNilAux
	}
	if len(aux.SoilDepth) != len(lay.MatricHead) {
		return Result{}, ErrBadAux
	}

	r := Result{
		CanopyWater: canopyWaterOK(lay, aux, resid, tol),
		Energy:      energyOK(lay, resid, tol),
		LiquidWater: liquidWaterOK(lay, resid, tol, scalarSolve),
		MatricHead:  matricHeadOK(lay, incr, state, tol),
		SoilWater:   soilWaterOK(lay, aux, resid, tol),
		Aquifer:     aquiferOK(lay, resid, tol),
	}
	r.Converged = r.CanopyWater && r.Energy && r.LiquidWater &&
		r.MatricHead && r.SoilWater && r.Aquifer

	return r, nil
}

// canopyWaterOK converts the canopy water residual to mass units.
func canopyWaterOK(lay core.Layout, aux *core.Aux, resid []float64, tol Tolerances) bool {
	if lay.VegWater == core.Absent {
		return true
	}

	return math.Abs(resid[lay.VegWater])*core.WaterDensity*aux.CanopyDepth < tol.Liquid
}

// energyOK checks the max absolute residual over all energy states.
func energyOK(lay core.Layout, resid []float64, tol Tolerances) bool {
	ixs := lay.EnergyIndices()
	if len(ixs) == 0 {
		return true
	}
	worst := 0.0
	for _, ix := range ixs {
		if a := math.Abs(resid[ix]); a > worst {
			worst = a
		}
	}

	return worst < tol.Energy
}

// liquidWaterOK checks the max absolute residual over all hydrology states,
// with scalar tightening.
func liquidWaterOK(lay core.Layout, resid []float64, tol Tolerances, scalarSolve bool) bool {
	ixs := lay.HydrologyIndices()
	if len(ixs) == 0 {
		return true
	}
	bound := tol.Liquid
	if scalarSolve {
		bound *= ScalarTighten
	}
	worst := 0.0
	for _, ix := range ixs {
		if a := math.Abs(resid[ix]); a > worst {
			worst = a
		}
	}

	return worst < bound
}

// matricHeadOK checks the max relative increment over matric-head states.
func matricHeadOK(lay core.Layout, incr, state []float64, tol Tolerances) bool {
	if len(lay.MatricHead) == 0 {
		return true
	}
	worst := 0.0
	for _, ix := range lay.MatricHead {
		if a := math.Abs(incr[ix]) / (math.Abs(state[ix]) + headOffset); a > worst {
			worst = a
		}
	}

	return worst < tol.Matric
}

// soilWaterOK checks the depth-weighted residual sum over the soil hydrology
// states.
func soilWaterOK(lay core.Layout, aux *core.Aux, resid []float64, tol Tolerances) bool {
	if len(lay.MatricHead) == 0 {
		return true
	}
	sum := 0.0
	for k, ix := range lay.MatricHead {
		sum += resid[ix] * aux.SoilDepth[k]
	}

	return math.Abs(sum) < tol.Liquid
}

// aquiferOK converts the aquifer residual to mass units.
func aquiferOK(lay core.Layout, resid []float64, tol Tolerances) bool {
	if lay.Aquifer == core.Absent {
		return true
	}

	return math.Abs(resid[lay.Aquifer])*core.WaterDensity < tol.Liquid
}
