package trace

import (
	"errors"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoSteps is returned by Plot when the recorder holds nothing to draw.
var ErrNoSteps = errors.New("trace: no steps recorded")

// Step is one refinement attempt as seen by the solver.
type Step struct {
	// Iter is the outer Newton iteration index.
	Iter int

	// Attempt is the attempt counter within the refinement, starting at 1.
	Attempt int

	// Lambda is the damping factor tried.
	Lambda float64

	// Objective is the line-search objective at the candidate, NaN when the
	// evaluation was infeasible.
	Objective float64

	// ResidNorm is the max-abs residual at the candidate.
	ResidNorm float64

	// Accepted reports whether the candidate was taken.
	Accepted bool

	// Note carries free-form context (e.g. "infeasible", "bisection").
	Note string
}

// JacobianCheck is one analytic-versus-finite-difference comparison.
type JacobianCheck struct {
	// Iter is the outer Newton iteration index.
	Iter int

	// MaxDeviation is the largest absolute entry difference.
	MaxDeviation float64

	// Row, Col locate the worst entry.
	Row, Col int

	// Note carries context when the comparison itself failed.
	Note string
}

// Recorder accumulates solve diagnostics. The zero value is ready to use; a
// nil *Recorder is a valid no-op sink, so solvers never branch on verbosity.
type Recorder struct {
	steps  []Step
	checks []JacobianCheck
}

// Record appends one refinement attempt. No-op on a nil receiver.
func (r *Recorder) Record(s Step) {
	if r == nil {
		return
	}
	r.steps = append(r.steps, s)
}

// RecordJacobianCheck appends one cross-check report. No-op on a nil receiver.
func (r *Recorder) RecordJacobianCheck(c JacobianCheck) {
	if r == nil {
		return
	}
	r.checks = append(r.checks, c)
}

// Steps returns the recorded attempts in order. Nil on a nil receiver.
func (r *Recorder) Steps() []Step {
	if r == nil {
		return nil
	}

	return r.steps
}

// Checks returns the recorded Jacobian comparisons. Nil on a nil receiver.
func (r *Recorder) Checks() []JacobianCheck {
	if r == nil {
		return nil
	}

	return r.checks
}

// Plot renders the objective and residual-norm trajectories over attempts to
// a PNG at path. Infeasible attempts (NaN objective) are skipped on the
// objective line but kept on the residual line.
func (r *Recorder) Plot(path string) error {
	if r == nil || len(r.steps) == 0 {
		return ErrNoSteps
	}

	p := plot.New()
	p.Title.Text = "solve trajectory"
	p.X.Label.Text = "attempt"
	p.Y.Label.Text = "objective / max |resid|"

	obj := make(plotter.XYs, 0, len(r.steps))
	res := make(plotter.XYs, 0, len(r.steps))
	for i, s := range r.steps {
		x := float64(i)
		if !math.IsNaN(s.Objective) {
			obj = append(obj, plotter.XY{X: x, Y: s.Objective})
		}
		res = append(res, plotter.XY{X: x, Y: s.ResidNorm})
	}

	lo, err := plotter.NewLine(obj)
	if err != nil {
		return err
	}
	lo.Color = color.RGBA{R: 255, A: 255}

	lr, err := plotter.NewLine(res)
	if err != nil {
		return err
	}
	lr.Color = color.RGBA{B: 255, A: 255}

	p.Add(lo, lr)
	p.Legend.Add("objective", lo)
	p.Legend.Add("residual", lr)
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
