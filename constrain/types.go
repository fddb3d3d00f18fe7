// Package constrain: configuration and sentinel errors.
package constrain

import (
	"errors"
	"math"
)

// DEFAULTS — single source of truth for zero-value behavior.
const (
	// DefaultMaxTempStep caps the magnitude of a single temperature
	// increment [K]. Exceeding it rescales the whole increment vector.
	DefaultMaxTempStep = 1.0

	// DefaultMaxMatricStep caps a positive matric-head increment [m] when
	// the current head is positive (near saturation).
	DefaultMaxMatricStep = 1.0

	// DefaultCrossEpsilon is the offset short of a phase-change crossing
	// [K]; the clipped state lands this far from the exact freezing point.
	DefaultCrossEpsilon = 1e-4
)

// Internal panic messages for option constructors (programmer errors).
const (
	panicTempStepInvalid   = "constrain: WithMaxTempStep: step must be finite, positive"
	panicMatricStepInvalid = "constrain: WithMaxMatricStep: step must be finite, positive"
	panicEpsilonInvalid    = "constrain: WithCrossEpsilon: epsilon must be finite, positive"
)

// Sentinel errors.
var (
	// ErrBadAux indicates Aux slices misaligned with the Layout's per-layer
	// index groups.
	ErrBadAux = errors.New("constrain: aux snapshot misaligned with layout")

	// ErrNilAux indicates a nil Aux snapshot.
	ErrNilAux = errors.New("constrain: aux snapshot is nil")
)

// Options stores the effective projection configuration.
type Options struct {
	maxTempStep   float64
	maxMatricStep float64
	crossEpsilon  float64
}

// Option mutates Options; constructors panic only on nonsensical values.
type Option func(*Options)

// WithMaxTempStep overrides the temperature-increment cap.
func WithMaxTempStep(step float64) Option {
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		panic(panicTempStepInvalid)
	}

	return func(o *Options) { o.maxTempStep = step }
}

// WithMaxMatricStep overrides the positive matric-head increment cap.
func WithMaxMatricStep(step float64) Option {
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		panic(panicMatricStepInvalid)
	}

	return func(o *Options) { o.maxMatricStep = step }
}

// WithCrossEpsilon overrides the offset short of phase-change crossings.
func WithCrossEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps <= 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.crossEpsilon = eps }
}

// gatherOptions resolves setters against the documented defaults,
// last-writer-wins.
func gatherOptions(user ...Option) Options {
	o := Options{
		maxTempStep:   DefaultMaxTempStep,
		maxMatricStep: DefaultMaxMatricStep,
		crossEpsilon:  DefaultCrossEpsilon,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
