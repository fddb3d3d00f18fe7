package newton

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/vadosezone/cryosolve/matrix"
	"github.com/vadosezone/cryosolve/trace"
)

// checkJacobian compares the analytic Jacobian (mass diagonal included)
// against a forward-difference approximation and reports the worst entry
// through the recorder. Diagnostic only: a comparison failure is recorded,
// never returned.
func checkJacobian(p Problem, trial, resid []float64, analytic matrix.Matrix, o Options) {
	fd, err := fdJacobian(p, trial, resid, o.fdEps)
	if err != nil {
		o.rec.RecordJacobianCheck(trace.JacobianCheck{
			Iter: p.Control.Iter,
			Note: "finite-difference build failed: " + err.Error(),
		})

		return
	}

	n := p.Layout.NState
	worst, wi, wj := 0.0, 0, 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a, err := analytic.At(i, j)
			if err != nil {
				continue
			}
			if d := math.Abs(a - fd.At(i, j)); d > worst {
				worst, wi, wj = d, i, j
			}
		}
	}
	o.rec.RecordJacobianCheck(trace.JacobianCheck{
		Iter:         p.Control.Iter,
		MaxDeviation: worst,
		Row:          wi,
		Col:          wj,
	})
}

// fdJacobian builds the forward-difference Jacobian column by column, one
// evaluator call per state, perturbation scaled by the state magnitude. The
// evaluator residual already contains the storage term, so the result is
// comparable to the analytic Jacobian after AddDiagonal.
func fdJacobian(p Problem, trial, resid []float64, eps float64) (*mat.Dense, error) {
	n := p.Layout.NState
	out := mat.NewDense(n, n, nil)
	pert := make([]float64, n)
	for j := 0; j < n; j++ {
		copy(pert, trial)
		h := eps * math.Max(math.Abs(trial[j]), 1)
		pert[j] += h

		ev, err := p.Eval.Evaluate(pert, false)
		if err != nil {
			return nil, err
		}
		if err := p.Layout.CheckLen(ev.Resid); err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			out.Set(i, j, (ev.Resid[i]-resid[i])/h)
		}
	}

	return out, nil
}
