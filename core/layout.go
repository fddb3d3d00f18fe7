package core

import "errors"

// Absent marks a scalar category that is not part of the active state subset.
const Absent = -1

// Sentinel errors for state-vector bookkeeping.
var (
	// ErrBadStateLength indicates a vector whose length disagrees with the
	// Layout's total active state count.
	ErrBadStateLength = errors.New("core: state vector length mismatch")

	// ErrBadLayout indicates an index mapping that is out of range, duplicated,
	// or empty (no active state at all).
	ErrBadLayout = errors.New("core: invalid state layout")

	// ErrNilEvaluator indicates a nil Evaluator was passed to a solver entry.
	ErrNilEvaluator = errors.New("core: evaluator is nil")
)

// Layout records where each physical category lives inside the state vector.
//
// Scalar categories use Absent (-1) when excluded from the active subset;
// per-layer categories use empty slices. Positions are indices into the state
// vector, externally assigned, fixed for the whole solve.
//
// The same Layout describes the residual vector: residual i is the balance
// imbalance of state i.
type Layout struct {
	// NState is the total number of active states (vector length).
	NState int

	// CanairEnergy is the canopy-air-space energy state, or Absent.
	CanairEnergy int

	// VegEnergy is the vegetation canopy energy state, or Absent.
	VegEnergy int

	// VegWater is the vegetation canopy water-mass state, or Absent.
	VegWater int

	// SnowEnergy holds the energy state index of each snow layer, top down.
	SnowEnergy []int

	// SoilEnergy holds the energy state index of each soil layer, top down.
	SoilEnergy []int

	// SnowWater holds the water state index of each snow layer. The state may
	// be total water or liquid water; Aux.SnowLiquidState says which.
	SnowWater []int

	// MatricHead holds the matric-head state index of each soil layer in the
	// active hydrology subset (empty when hydrology is solved elsewhere).
	MatricHead []int

	// Aquifer is the aquifer storage state, or Absent.
	Aquifer int
}

// Scalar reports whether the layout describes a single-unknown solve, which
// selects the safeguarded scalar solution path instead of line search.
func (l Layout) Scalar() bool { return l.NState == 1 }

// EnergyIndices returns every active energy state index in vector order:
// canopy air space, canopy, then snow and soil layers.
func (l Layout) EnergyIndices() []int {
	out := make([]int, 0, 2+len(l.SnowEnergy)+len(l.SoilEnergy))
	if l.CanairEnergy != Absent {
		out = append(out, l.CanairEnergy)
	}
	if l.VegEnergy != Absent {
		out = append(out, l.VegEnergy)
	}
	out = append(out, l.SnowEnergy...)
	out = append(out, l.SoilEnergy...)

	return out
}

// HydrologyIndices returns every active water state index: canopy water,
// snow-layer water, soil matric head, then aquifer storage.
func (l Layout) HydrologyIndices() []int {
	out := make([]int, 0, 2+len(l.SnowWater)+len(l.MatricHead))
	if l.VegWater != Absent {
		out = append(out, l.VegWater)
	}
	out = append(out, l.SnowWater...)
	out = append(out, l.MatricHead...)
	if l.Aquifer != Absent {
		out = append(out, l.Aquifer)
	}

	return out
}

// Validate checks the layout is internally consistent: NState positive, every
// index in [0, NState), no index claimed by two categories, and at least one
// active state. Shape errors are always fatal and detected before any
// numeric work (solvers call Validate eagerly).
func (l Layout) Validate() error {
	if l.NState <= 0 {
		return ErrBadLayout
	}

	seen := make([]bool, l.NState)
	claim := func(ix int) error {
		if ix < 0 || ix >= l.NState {
			return ErrBadLayout
		}
		if seen[ix] {
			return ErrBadLayout
		}
		seen[ix] = true

		return nil
	}

	total := 0
	for _, ix := range []int{l.CanairEnergy, l.VegEnergy, l.VegWater, l.Aquifer} {
		if ix == Absent {
			continue
		}
		if err := claim(ix); err != nil {
			return err
		}
		total++
	}
	for _, group := range [][]int{l.SnowEnergy, l.SoilEnergy, l.SnowWater, l.MatricHead} {
		for _, ix := range group {
			if err := claim(ix); err != nil {
				return err
			}
			total++
		}
	}
	if total == 0 {
		return ErrBadLayout
	}

	return nil
}

// CheckLen validates that v has exactly Layout.NState entries.
func (l Layout) CheckLen(v []float64) error {
	if len(v) != l.NState {
		return ErrBadStateLength
	}

	return nil
}
