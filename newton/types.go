// Package newton: configuration, sentinel errors, problem description.
package newton

import (
	"errors"
	"fmt"
	"math"

	"github.com/vadosezone/cryosolve/converge"
	"github.com/vadosezone/cryosolve/core"
	"github.com/vadosezone/cryosolve/matrix"
	"github.com/vadosezone/cryosolve/scalar"
	"github.com/vadosezone/cryosolve/trace"
)

// DEFAULTS — single source of truth for zero-value behavior.
const (
	// DefaultMaxBacktracks caps the damping-factor ladder of one line search.
	DefaultMaxBacktracks = 5

	// DefaultSufficientDecrease is the Armijo slope fraction α in the
	// acceptance test f < f0 + α·slope·λ.
	DefaultSufficientDecrease = 1e-4

	// DefaultFDEpsilon is the relative perturbation of the finite-difference
	// Jacobian cross-check.
	DefaultFDEpsilon = 1e-8
)

// Damping-factor clip bounds: each backtrack shrinks λ into
// [minShrink·λ, maxShrink·λ], so the ladder is strictly monotone and the
// cubic model cannot explode.
const (
	minShrink = 0.1
	maxShrink = 0.5
)

// Operation name constants for unified error wrapping.
const (
	opSolve       = "Solve"
	opJacobian    = "BuildJacobian"
	opLineSearch  = "lineSearch"
	opTrustRegion = "trustRegion"
)

// Internal panic messages for option constructors (programmer errors).
const (
	panicMethodInvalid     = "newton: WithMethod: unknown refinement method"
	panicBacktracksInvalid = "newton: WithMaxBacktracks: count must be positive"
	panicAlphaInvalid      = "newton: WithSufficientDecrease: alpha must be in (0, 1)"
	panicFDEpsilonInvalid  = "newton: WithFDEpsilon: epsilon must be finite, positive"
)

// Sentinel errors.
var (
	// ErrBacktrackedToTrial is the module's only soft failure: the line
	// search exhausted its attempt cap without accepting a candidate. Solve
	// reacts by re-running the search once with refinement disabled; it
	// escapes Solve only when that pass cannot accept either (every attempt
	// infeasible).
	ErrBacktrackedToTrial = errors.New("newton: line search backtracked to trial point")

	// ErrNotImplemented is the trust-region contract: shapes validate, the
	// refinement does not run.
	ErrNotImplemented = errors.New("newton: trust region refinement not implemented")

	// ErrNilBuilder indicates a Problem without a JacobianBuilder.
	ErrNilBuilder = errors.New("newton: jacobian builder is nil")

	// ErrBadProblem indicates an inconsistent Problem: scalar flag
	// disagreeing with the layout, or a builder returning a Jacobian of the
	// wrong order.
	ErrBadProblem = errors.New("newton: inconsistent problem description")
)

// newtonErrorf wraps err with an operation tag, preserving the sentinel for
// errors.Is. Call only with err != nil.
func newtonErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// JacobianBuilder supplies the analytic Jacobian at a trial state, in the
// requested storage form, plus the mass-matrix diagonal contribution to fold
// onto it. Implementations typically read derivative caches written by the
// most recent evaluator call.
type JacobianBuilder interface {
	BuildJacobian(state []float64, form core.MatrixForm) (matrix.Matrix, []float64, error)
}

// Method selects the vector refinement strategy.
type Method int

const (
	// LineSearchMethod is the default backtracking line search.
	LineSearchMethod Method = iota

	// TrustRegionMethod is the stubbed trust-region extension point.
	TrustRegionMethod
)

// String returns the method name for diagnostics.
func (m Method) String() string {
	switch m {
	case LineSearchMethod:
		return "line-search"
	case TrustRegionMethod:
		return "trust-region"
	default:
		return "unknown"
	}
}

// Problem bundles the collaborators of one Newton iteration. All fields are
// caller-owned and read-only to Solve except Brackets, which the scalar path
// tightens across iterations.
type Problem struct {
	// Layout describes the active state vector.
	Layout core.Layout

	// Aux is the trial-point physical snapshot for projection and
	// convergence.
	Aux *core.Aux

	// Eval is the external flux/residual physics.
	Eval core.Evaluator

	// Jac builds the analytic Jacobian once per iteration.
	Jac JacobianBuilder

	// Form selects full or banded Jacobian storage. Bandwidths for the
	// banded form live with the JacobianBuilder, which owns the matrix
	// construction.
	Form core.MatrixForm

	// FScale nondimensionalizes residuals (one entry per residual); XScale
	// converts scaled step units to physical units (one entry per state).
	FScale, XScale []float64

	// Tol holds the per-category convergence thresholds.
	Tol converge.Tolerances

	// Brackets is the persistent scalar safeguard; required only when the
	// layout is single-unknown.
	Brackets *scalar.Brackets

	// Control carries the iteration index and flux-call flags.
	Control core.Control
}

// Result is the outcome of one Newton iteration.
type Result struct {
	// State is the accepted candidate.
	State []float64

	// Flux and Resid are the evaluator outputs at the candidate.
	Flux  []float64
	Resid []float64

	// Objective is the evaluator objective at the candidate.
	Objective float64

	// Lambda is the accepted damping factor (1 on the scalar and
	// refinement-disabled paths).
	Lambda float64

	// Converged reports the convergence verdict at the candidate.
	Converged bool

	// Backtracks counts rejected line-search attempts before acceptance.
	Backtracks int

	// Bisected reports a scalar-path safeguard override.
	Bisected bool
}

// Options stores the effective orchestration configuration.
type Options struct {
	method        Method
	maxBacktracks int
	alpha         float64
	checkJacobian bool
	fdEps         float64
	rec           *trace.Recorder
}

// Option mutates Options; constructors panic only on nonsensical values.
type Option func(*Options)

// WithMethod selects the vector refinement strategy.
func WithMethod(m Method) Option {
	if m != LineSearchMethod && m != TrustRegionMethod {
		panic(panicMethodInvalid)
	}

	return func(o *Options) { o.method = m }
}

// WithMaxBacktracks overrides the line-search attempt cap.
func WithMaxBacktracks(n int) Option {
	if n <= 0 {
		panic(panicBacktracksInvalid)
	}

	return func(o *Options) { o.maxBacktracks = n }
}

// WithSufficientDecrease overrides the Armijo slope fraction.
func WithSufficientDecrease(alpha float64) Option {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		panic(panicAlphaInvalid)
	}

	return func(o *Options) { o.alpha = alpha }
}

// WithJacobianCheck enables the finite-difference cross-check of the
// analytic Jacobian. Results go to the recorder; mismatches are never fatal.
func WithJacobianCheck() Option {
	return func(o *Options) { o.checkJacobian = true }
}

// WithFDEpsilon overrides the cross-check perturbation size.
func WithFDEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps <= 0 {
		panic(panicFDEpsilonInvalid)
	}

	return func(o *Options) { o.fdEps = eps }
}

// WithRecorder attaches a diagnostics sink. A nil recorder records nothing.
func WithRecorder(r *trace.Recorder) Option {
	return func(o *Options) { o.rec = r }
}

// gatherOptions resolves setters against the documented defaults,
// last-writer-wins.
func gatherOptions(user ...Option) Options {
	o := Options{
		method:        LineSearchMethod,
		maxBacktracks: DefaultMaxBacktracks,
		alpha:         DefaultSufficientDecrease,
		fdEps:         DefaultFDEpsilon,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
