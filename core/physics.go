package core

// Physical constants shared by the projection and convergence rules.
// Units follow the host model: temperatures in kelvin, water in kg and m,
// matric head in m.
const (
	// Tfreeze is the freezing point of water at standard pressure [K].
	Tfreeze = 273.16

	// WaterDensity converts water-balance residuals to mass units [kg m-3].
	WaterDensity = 1000.0

	// Gravity is the gravitational acceleration [m s-2].
	Gravity = 9.80665

	// LatentHeatFusion is the latent heat of fusion of water [J kg-1].
	LatentHeatFusion = 333700.0
)

// CritSoilTemp returns the soil freezing point depressed by the matric
// potential psi [m]: Tcrit = Tfreeze + (g·Tfreeze/Lf)·psi for psi < 0, and
// Tfreeze at or above saturation. Energy increments that would cross this
// temperature are clipped by the constraint layer.
func CritSoilTemp(psi float64) float64 {
	if psi >= 0 {
		return Tfreeze
	}

	return Tfreeze + Gravity*Tfreeze/LatentHeatFusion*psi
}

// Aux is the snapshot of trial-point physical quantities that the projection
// and convergence rules need beyond the raw state vector. All slices are
// per-layer, top down, aligned with the corresponding Layout index slices.
// Aux is read-only during a solve; the caller refreshes it between outer
// iterations.
type Aux struct {
	// VegWatStored is the canopy water storage at the trial point [kg m-2].
	VegWatStored float64

	// VegTemp is the vegetation canopy temperature at the trial point [K].
	VegTemp float64

	// CanopyDepth converts the canopy water residual to mass units [m].
	CanopyDepth float64

	// SnowTemp is the trial temperature of each snow layer [K].
	SnowTemp []float64

	// SnowFracLiq is the liquid fraction of total water in each snow layer,
	// used to bound how much liquid an increment may drain when the snow
	// water state is total water.
	SnowFracLiq []float64

	// SnowWatStored is the total water of each snow layer in state units.
	SnowWatStored []float64

	// SnowLiquidState is true when the snow water state is liquid water
	// directly, false when it is total water (liquid derived via SnowFracLiq).
	SnowLiquidState bool

	// SoilTemp is the trial temperature of each soil layer [K].
	SoilTemp []float64

	// SoilMatric is the last known matric head of each soil layer [m]; used
	// for the freezing-point depression when hydrology is not in the active
	// subset.
	SoilMatric []float64

	// SoilDepth is the depth of each soil layer [m], the weights of the soil
	// water balance criterion.
	SoilDepth []float64
}

// Control carries the solve-scoped flags that the source model kept as
// process-wide globals. Every field is explicit: no package in this module
// reads ambient state.
type Control struct {
	// Iter is the outer Newton iteration index, starting at 1. The scalar
	// solver resets its brackets when Iter == 1.
	Iter int

	// FirstSubStep is true during the first sub-step of the surrounding
	// time step.
	FirstSubStep bool

	// FirstFluxCall is true until the evaluator has been called once in the
	// current sub-step; the solver passes it through and clears it.
	FirstFluxCall bool

	// VegFlux is true when vegetation fluxes are part of the computation
	// (canopy states present and the canopy is exposed).
	VegFlux bool

	// ScalarSolve is true for single-unknown solves. Kept alongside
	// Layout.Scalar() so drivers can assert their intent; solvers validate
	// the two agree.
	ScalarSolve bool
}

// Evaluation is the result of one flux/residual evaluation at a trial state.
type Evaluation struct {
	// Flux is the model flux vector at the trial state.
	Flux []float64

	// Resid is the residual of the governing equations, one entry per state.
	Resid []float64

	// Objective is the scalar objective (half the scaled residual norm)
	// minimized by the line search.
	Objective float64

	// Feasible reports whether the trial state satisfies the evaluator's
	// physical bounds. Inside the line search an infeasible result is a
	// normal backtracking signal; immediately after constraint projection it
	// is fatal.
	Feasible bool
}

// Evaluator is the external flux/residual physics. Implementations must be
// callable repeatedly with different trial vectors; the only sanctioned
// call-order dependence is the firstCall flag, which the solver manages.
type Evaluator interface {
	Evaluate(state []float64, firstCall bool) (Evaluation, error)
}

// MatrixForm selects the Jacobian storage scheme.
type MatrixForm int

const (
	// FullMatrix stores the Jacobian as a dense N×N matrix.
	FullMatrix MatrixForm = iota

	// BandMatrix stores the Jacobian in banded form with fixed sub- and
	// super-diagonal bandwidths.
	BandMatrix
)

// String returns the storage-scheme name for diagnostics.
func (f MatrixForm) String() string {
	switch f {
	case FullMatrix:
		return "full"
	case BandMatrix:
		return "band"
	default:
		return "unknown"
	}
}
