// Package scalar: configuration, sentinel errors, problem description.
package scalar

import (
	"errors"
	"fmt"
	"math"

	"github.com/vadosezone/cryosolve/converge"
	"github.com/vadosezone/cryosolve/core"
)

// DEFAULTS — single source of truth for zero-value behavior.
const (
	// DefaultEdgeBand is the relative width of the forced-bisection band at
	// each bracket edge: a candidate within 0.5% of the bracket width from
	// either bound is replaced by the midpoint.
	DefaultEdgeBand = 0.005

	// DefaultMaxBracketTries bounds the unit-step walks of bracket
	// acquisition before the solve is declared stuck.
	DefaultMaxBracketTries = 100
)

// Operation name constants for unified error wrapping.
const (
	opSolve   = "Solve"
	opAcquire = "acquireBrackets"
)

// Internal panic messages for option constructors (programmer errors).
const (
	panicEdgeBandInvalid = "scalar: WithEdgeBand: band must be in (0, 0.5)"
	panicTriesInvalid    = "scalar: WithMaxBracketTries: count must be positive"
)

// Sentinel errors.
var (
	// ErrInfeasibleAfterProjection indicates the evaluator rejected a state
	// that had already passed constraint projection. That is a defect in the
	// projection or the evaluator's bounds, never a backtracking signal.
	ErrInfeasibleAfterProjection = errors.New("scalar: infeasible state after constraint projection")

	// ErrBracketExhausted indicates bracket acquisition ran out of tries
	// without observing both residual signs.
	ErrBracketExhausted = errors.New("scalar: bracket acquisition exhausted")

	// ErrNotScalar indicates a layout with more than one active state.
	ErrNotScalar = errors.New("scalar: layout is not single-unknown")

	// ErrNilBrackets indicates a Problem without a Brackets instance.
	ErrNilBrackets = errors.New("scalar: brackets are nil")

	// ErrBadStep indicates a NaN or infinite Newton step.
	ErrBadStep = errors.New("scalar: step is not finite")
)

// scalarErrorf wraps err with an operation tag, preserving the sentinel for
// errors.Is. Call only with err != nil.
func scalarErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Problem bundles the collaborators of one scalar solve. All fields are
// caller-owned; Brackets is the only piece that persists across iterations.
type Problem struct {
	// Layout describes the single-state vector (NState must be 1).
	Layout core.Layout

	// Aux is the trial-point physical snapshot for projection and
	// convergence.
	Aux *core.Aux

	// Eval is the external flux/residual physics.
	Eval core.Evaluator

	// XScale converts the scaled Newton step to physical units.
	XScale []float64

	// Tol holds the convergence thresholds (the liquid criterion is
	// tightened by converge.ScalarTighten on this path).
	Tol converge.Tolerances

	// Brackets is the persistent safeguard state for this solve.
	Brackets *Brackets

	// Control carries the iteration index and flux-call flags.
	Control core.Control
}

// Result is the outcome of one scalar Newton iteration.
type Result struct {
	// State is the accepted candidate (length 1).
	State []float64

	// Flux and Resid are the evaluator outputs at the candidate.
	Flux  []float64
	Resid []float64

	// Objective is the evaluator objective at the candidate.
	Objective float64

	// Converged reports the convergence verdict at the candidate.
	Converged bool

	// Bisected reports whether the safeguard overrode the Newton candidate.
	Bisected bool
}

// Options stores the effective safeguard configuration.
type Options struct {
	edgeBand float64
	maxTries int
}

// Option mutates Options; constructors panic only on nonsensical values.
type Option func(*Options)

// WithEdgeBand overrides the relative forced-bisection band. Must lie in
// (0, 0.5): at 0.5 the bands meet at the midpoint and every candidate would
// bisect.
func WithEdgeBand(band float64) Option {
	if math.IsNaN(band) || band <= 0 || band >= 0.5 {
		panic(panicEdgeBandInvalid)
	}

	return func(o *Options) { o.edgeBand = band }
}

// WithMaxBracketTries overrides the bracket-acquisition retry cap.
func WithMaxBracketTries(n int) Option {
	if n <= 0 {
		panic(panicTriesInvalid)
	}

	return func(o *Options) { o.maxTries = n }
}

// gatherOptions resolves setters against the documented defaults,
// last-writer-wins.
func gatherOptions(user ...Option) Options {
	o := Options{
		edgeBand: DefaultEdgeBand,
		maxTries: DefaultMaxBracketTries,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
