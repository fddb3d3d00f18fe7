package scalar

import (
	"math"

	"github.com/vadosezone/cryosolve/constrain"
	"github.com/vadosezone/cryosolve/converge"
	"github.com/vadosezone/cryosolve/core"
)

// Solve performs one safeguarded Newton iteration on a single unknown.
//
// Implementation:
//   - Stage 1: validate the problem shape eagerly (fatal on any mismatch).
//   - Stage 2: reset the brackets at iteration 1, then tighten them with the
//     incoming (trial, residual) sample.
//   - Stage 3: form the physical increment from the scaled step. A step whose
//     sign agrees with the residual is pointing the wrong way: ensure the
//     brackets exist (acquiring them if needed) and bisect instead.
//   - Stage 4: project the increment, then force bisection when both bounds
//     are finite and the candidate falls outside the open bracket or inside
//     the edge band of either bound.
//   - Stage 5: evaluate the candidate (infeasible here is fatal) and run the
//     convergence check with scalar tightening.
//
// Inputs:
//   - p:     the solve collaborators; p.Brackets persists across iterations.
//   - trial: current state, length 1.
//   - resid: residual at trial, length 1 (from the orchestrator's evaluator
//     call).
//   - step:  scaled Newton step for the single unknown.
//
// Returns:
//   - Result: the accepted candidate with its evaluation and verdict.
//
// Errors:
//   - ErrNotScalar, ErrNilBrackets, ErrBadStep, core.ErrBadStateLength,
//     core.ErrNilEvaluator, ErrInfeasibleAfterProjection,
//     ErrBracketExhausted, plus evaluator and projection errors. All fatal.
//
// Determinism: fixed safeguard order; no randomness.
func Solve(p Problem, trial, resid []float64, step float64, opts ...Option) (Result, error) {
	if err := validate(p, trial, resid, step); err != nil {
		return Result{}, err
	}
	o := gatherOptions(opts...)

	if p.Control.Iter <= 1 {
		p.Brackets.Reset()
	}
	p.Brackets.Update(trial[0], resid[0])

	firstCall := p.Control.FirstFluxCall
	bisected := false

	incr := step * p.XScale[0]
	if wrongDirection(incr, resid[0]) {
		if !p.Brackets.Defined() {
			if err := acquireBrackets(p, trial, resid[0], &firstCall, o); err != nil {
				return Result{}, err
			}
		}
		incr = p.Brackets.Mid() - trial[0]
		bisected = true
	}

	proj, err := constrain.Apply(p.Layout, p.Aux, trial, []float64{incr})
	if err != nil {
		return Result{}, scalarErrorf(opSolve, err)
	}
	cand := trial[0] + proj[0]

	if p.Brackets.Defined() {
		band := o.edgeBand * (p.Brackets.Hi() - p.Brackets.Lo())
		if !p.Brackets.contains(cand) || cand < p.Brackets.Lo()+band || cand > p.Brackets.Hi()-band {
			incr = p.Brackets.Mid() - trial[0]
			if proj, err = constrain.Apply(p.Layout, p.Aux, trial, []float64{incr}); err != nil {
				return Result{}, scalarErrorf(opSolve, err)
			}
			cand = trial[0] + proj[0]
			bisected = true
		}
	}

	state := []float64{cand}
	ev, err := p.Eval.Evaluate(state, firstCall)
	if err != nil {
		return Result{}, scalarErrorf(opSolve, err)
	}
	if !ev.Feasible {
		return Result{}, scalarErrorf(opSolve, ErrInfeasibleAfterProjection)
	}

	chk, err := converge.Check(p.Layout, p.Aux, ev.Resid, proj, state, p.Tol, true)
	if err != nil {
		return Result{}, scalarErrorf(opSolve, err)
	}

	return Result{
		State:     state,
		Flux:      ev.Flux,
		Resid:     ev.Resid,
		Objective: ev.Objective,
		Converged: chk.Converged,
		Bisected:  bisected,
	}, nil
}

// validate runs the eager shape checks shared by every entry path.
func validate(p Problem, trial, resid []float64, step float64) error {
	if err := p.Layout.Validate(); err != nil {
		return scalarErrorf(opSolve, err)
	}
	if !p.Layout.Scalar() {
		return scalarErrorf(opSolve, ErrNotScalar)
	}
	for _, v := range [][]float64{trial, resid, p.XScale} {
		if err := p.Layout.CheckLen(v); err != nil {
			return scalarErrorf(opSolve, err)
		}
	}
	if p.Eval == nil {
		return scalarErrorf(opSolve, core.ErrNilEvaluator)
	}
	if p.Brackets == nil {
		return scalarErrorf(opSolve, ErrNilBrackets)
	}
	if err := p.Tol.Validate(); err != nil {
		return scalarErrorf(opSolve, err)
	}
	if math.IsNaN(step) || math.IsInf(step, 0) {
		return scalarErrorf(opSolve, ErrBadStep)
	}

	return nil
}

// wrongDirection reports the pathological case of a Newton increment pointing
// the same way as the residual.
func wrongDirection(incr, resid float64) bool {
	return incr != 0 && resid != 0 && (incr > 0) == (resid > 0)
}

// acquireBrackets walks unit increments signed opposite the residual, each
// re-projected through the constraint layer, until both residual signs have
// been observed. The walk assumes the residual is monotone in the trial
// direction; a non-monotone evaluator can exhaust the try cap.
func acquireBrackets(p Problem, trial []float64, resid float64, firstCall *bool, o Options) error {
	x := []float64{trial[0]}
	r := resid
	for try := 0; try < o.maxTries; try++ {
		if p.Brackets.Defined() {
			return nil
		}
		unit := 1.0
		if r >= 0 {
			unit = -1.0
		}
		proj, err := constrain.Apply(p.Layout, p.Aux, x, []float64{unit})
		if err != nil {
			return scalarErrorf(opAcquire, err)
		}
		x[0] += proj[0]

		ev, err := p.Eval.Evaluate(x, *firstCall)
		*firstCall = false
		if err != nil {
			return scalarErrorf(opAcquire, err)
		}
		if !ev.Feasible {
			return scalarErrorf(opAcquire, ErrInfeasibleAfterProjection)
		}
		r = ev.Resid[0]
		p.Brackets.Update(x[0], r)
	}
	if p.Brackets.Defined() {
		return nil
	}

	return scalarErrorf(opAcquire, ErrBracketExhausted)
}
