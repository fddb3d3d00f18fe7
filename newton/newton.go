package newton

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/vadosezone/cryosolve/core"
	"github.com/vadosezone/cryosolve/matrix"
	"github.com/vadosezone/cryosolve/scalar"
	"github.com/vadosezone/cryosolve/trace"
)

// Solve runs one damped Newton iteration.
//
// Implementation:
//   - Stage 1: validate the problem shape eagerly (fatal on any mismatch).
//   - Stage 2: build the analytic Jacobian, fold in the mass-matrix
//     diagonal, and optionally cross-check against finite differences
//     (diagnostic only).
//   - Stage 3: form the scaled linear system rhs = −fScale·resid,
//     Js = fScale·J·xScale, and solve Js·Δx = rhs.
//   - Stage 4: dispatch. A single unknown goes to the safeguarded scalar
//     solver. Otherwise the configured Method runs; when the line search
//     reports the soft ErrBacktrackedToTrial it is re-run with refinement
//     disabled, accepting the full Newton step.
//
// Inputs:
//   - p:     the iteration collaborators; the Jacobian is rebuilt here, not
//     inside the refinement loop.
//   - trial: current state, length p.Layout.NState.
//   - resid: un-scaled residual at trial from the previous evaluation.
//
// Returns:
//   - Result: the accepted candidate with its evaluation, damping factor,
//     and convergence verdict.
//
// Errors:
//   - ErrNilBuilder, ErrBadProblem, ErrNotImplemented, core and matrix
//     sentinels, and evaluator errors. All fatal; the soft
//     ErrBacktrackedToTrial never escapes.
//
// Determinism: one Jacobian build, a fixed refinement ladder, no randomness.
func Solve(p Problem, trial, resid []float64, opts ...Option) (Result, error) {
	if err := validate(p, trial, resid); err != nil {
		return Result{}, err
	}
	o := gatherOptions(opts...)

	jac, diag, err := p.Jac.BuildJacobian(trial, p.Form)
	if err != nil {
		return Result{}, newtonErrorf(opJacobian, err)
	}
	if jac == nil || jac.Order() != p.Layout.NState {
		return Result{}, newtonErrorf(opJacobian, ErrBadProblem)
	}
	if err = matrix.AddDiagonal(jac, diag); err != nil {
		return Result{}, newtonErrorf(opJacobian, err)
	}
	if o.checkJacobian {
		checkJacobian(p, trial, resid, jac, o)
	}

	rhs, err := matrix.ScaleResidual(p.FScale, resid)
	if err != nil {
		return Result{}, newtonErrorf(opSolve, err)
	}
	scaled, err := matrix.Scale(jac, p.FScale, p.XScale)
	if err != nil {
		return Result{}, newtonErrorf(opSolve, err)
	}
	step, err := matrix.Solve(scaled, rhs)
	if err != nil {
		return Result{}, newtonErrorf(opSolve, err)
	}

	if p.Layout.Scalar() {
		sres, err := scalar.Solve(scalar.Problem{
			Layout:   p.Layout,
			Aux:      p.Aux,
			Eval:     p.Eval,
			XScale:   p.XScale,
			Tol:      p.Tol,
			Brackets: p.Brackets,
			Control:  p.Control,
		}, trial, resid, step[0])
		if err != nil {
			return Result{}, newtonErrorf(opSolve, err)
		}

		return Result{
			State:     sres.State,
			Flux:      sres.Flux,
			Resid:     sres.Resid,
			Objective: sres.Objective,
			Lambda:    1,
			Converged: sres.Converged,
			Bisected:  sres.Bisected,
		}, nil
	}

	switch o.method {
	case LineSearchMethod:
		// The search objective is f = ½‖fScale·resid‖²; its gradient in
		// scaled step units is Jsᵀ·(fScale·resid) = −Jsᵀ·rhs.
		sr := make([]float64, len(rhs))
		for i, v := range rhs {
			sr[i] = -v
		}
		grad, err := matrix.Gradient(scaled, sr)
		if err != nil {
			return Result{}, newtonErrorf(opSolve, err)
		}
		f0 := 0.5 * floats.Dot(sr, sr)

		res, err := lineSearch(p, trial, step, grad, f0, true, o)
		if errors.Is(err, ErrBacktrackedToTrial) {
			o.rec.Record(trace.Step{
				Iter: p.Control.Iter, Lambda: 1,
				Note: "backtracked to trial, retrying with refinement disabled",
			})

			return lineSearch(p, trial, step, grad, f0, false, o)
		}

		return res, err
	case TrustRegionMethod:
		return Result{}, trustRegion(p, trial, resid, step)
	default:
		return Result{}, newtonErrorf(opSolve, ErrBadProblem)
	}
}

// validate runs the eager shape checks shared by every refinement path.
func validate(p Problem, trial, resid []float64) error {
	if err := p.Layout.Validate(); err != nil {
		return newtonErrorf(opSolve, err)
	}
	for _, v := range [][]float64{trial, resid, p.FScale, p.XScale} {
		if err := p.Layout.CheckLen(v); err != nil {
			return newtonErrorf(opSolve, err)
		}
	}
	if p.Eval == nil {
		return newtonErrorf(opSolve, core.ErrNilEvaluator)
	}
	if p.Jac == nil {
		return newtonErrorf(opSolve, ErrNilBuilder)
	}
	if err := p.Tol.Validate(); err != nil {
		return newtonErrorf(opSolve, err)
	}
	if p.Control.ScalarSolve != p.Layout.Scalar() {
		return newtonErrorf(opSolve, ErrBadProblem)
	}

	return nil
}
