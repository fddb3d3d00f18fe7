// Package trace accumulates per-attempt solver diagnostics.
//
// A Recorder collects one Step per refinement attempt (iteration, damping
// factor, objective, residual norm, verdict) plus any Jacobian cross-check
// reports, and can render the objective and residual trajectories to a PNG.
//
// Every Recorder method is nil-safe: solvers call the recorder
// unconditionally and a nil *Recorder records nothing. There is no package
// state; recording is opt-in per solve.
package trace
