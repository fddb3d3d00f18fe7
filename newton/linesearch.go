package newton

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/vadosezone/cryosolve/constrain"
	"github.com/vadosezone/cryosolve/converge"
	"github.com/vadosezone/cryosolve/trace"
)

// lineSearch walks the damping-factor ladder for one Newton step.
//
// Each attempt forms the physical increment λ·step·xScale, projects it
// through the constraint layer, evaluates the candidate, and climbs the
// acceptance ladder in order: infeasible ⇒ backtrack; convergence ⇒ done;
// refinement disabled ⇒ accept as-is; Armijo sufficient decrease ⇒ accept.
// Rejection shrinks λ with a quadratic model on the first modeled backtrack
// and a cubic model from the two most recent (λ, f) pairs afterwards, both
// clipped to [minShrink·λ, maxShrink·λ]. Infeasible attempts carry no
// objective, so they halve λ and leave the model history untouched.
//
// Exhausting the cap returns the soft ErrBacktrackedToTrial.
func lineSearch(p Problem, trial, step, grad []float64, f0 float64, refine bool, o Options) (Result, error) {
	n := p.Layout.NState
	slope := floats.Dot(grad, step)
	lambda := 1.0
	firstCall := p.Control.FirstFluxCall

	// Most recent modeled (λ, f) pair for the cubic.
	var prevLambda, prevF float64
	havePrev := false

	incr := make([]float64, n)
	for attempt := 1; attempt <= o.maxBacktracks; attempt++ {
		for i := range incr {
			incr[i] = lambda * step[i] * p.XScale[i]
		}
		proj, err := constrain.Apply(p.Layout, p.Aux, trial, incr)
		if err != nil {
			return Result{}, newtonErrorf(opLineSearch, err)
		}
		cand := make([]float64, n)
		floats.AddTo(cand, trial, proj)

		ev, err := p.Eval.Evaluate(cand, firstCall)
		firstCall = false
		if err != nil {
			return Result{}, newtonErrorf(opLineSearch, err)
		}

		if !ev.Feasible {
			o.rec.Record(trace.Step{
				Iter: p.Control.Iter, Attempt: attempt, Lambda: lambda,
				Objective: math.NaN(), Note: "infeasible",
			})
			lambda *= maxShrink

			continue
		}

		norm := floats.Norm(ev.Resid, math.Inf(1))
		chk, err := converge.Check(p.Layout, p.Aux, ev.Resid, proj, cand, p.Tol, p.Control.ScalarSolve)
		if err != nil {
			return Result{}, newtonErrorf(opLineSearch, err)
		}

		accept := chk.Converged || !refine ||
			ev.Objective < f0+o.alpha*slope*lambda
		o.rec.Record(trace.Step{
			Iter: p.Control.Iter, Attempt: attempt, Lambda: lambda,
			Objective: ev.Objective, ResidNorm: norm, Accepted: accept,
		})
		if accept {
			return Result{
				State:      cand,
				Flux:       ev.Flux,
				Resid:      ev.Resid,
				Objective:  ev.Objective,
				Lambda:     lambda,
				Converged:  chk.Converged,
				Backtracks: attempt - 1,
			}, nil
		}

		var next float64
		if !havePrev {
			next = quadraticLambda(lambda, f0, ev.Objective, slope)
		} else {
			next = cubicLambda(lambda, ev.Objective, prevLambda, prevF, f0, slope)
		}
		prevLambda, prevF = lambda, ev.Objective
		havePrev = true
		lambda = clamp(next, minShrink*lambda, maxShrink*lambda)
	}

	return Result{}, newtonErrorf(opLineSearch, ErrBacktrackedToTrial)
}

// quadraticLambda minimizes the quadratic interpolant through f(0)=f0,
// f'(0)=slope, f(λ)=fNew.
func quadraticLambda(lambda, f0, fNew, slope float64) float64 {
	return -slope * lambda * lambda / (2 * (fNew - f0 - slope*lambda))
}

// cubicLambda minimizes the cubic interpolant through f(0), f'(0), and the
// two most recent (λ, f) samples. A negative discriminant means the cubic
// has no interior minimum; fall back to the half step.
func cubicLambda(l2, f2, l1, f1, f0, slope float64) float64 {
	r1 := f2 - f0 - l2*slope
	r2 := f1 - f0 - l1*slope
	d := l2 - l1
	a := (r1/(l2*l2) - r2/(l1*l1)) / d
	b := (-l1*r1/(l2*l2) + l2*r2/(l1*l1)) / d
	if a == 0 {
		return -slope / (2 * b)
	}
	disc := b*b - 3*a*slope
	if disc < 0 {
		return 0.5 * l2
	}

	return (-b + math.Sqrt(disc)) / (3 * a)
}

// clamp restricts v to [lo, hi]; NaN maps to lo so a degenerate model can
// never widen the step.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
