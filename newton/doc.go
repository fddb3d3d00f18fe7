// Package newton orchestrates one damped Newton iteration over the active
// state vector.
//
// Solve takes the trial state and its residual, builds the Jacobian through
// the caller's JacobianBuilder, folds in the mass-matrix diagonal,
// nondimensionalizes the linear system with the function- and variable-scale
// vectors, solves J·Δx = −r for the Newton step, and hands the step to a
// refinement strategy:
//
//   - a single unknown goes to the safeguarded scalar solver (package
//     scalar);
//   - otherwise the configured Method runs — backtracking line search by
//     default, or the trust-region extension point, which validates its
//     inputs and then reports ErrNotImplemented.
//
// The line search walks a bounded ladder of damping factors. Each attempt
// projects the increment through package constrain, evaluates the candidate,
// and accepts on convergence or on the Armijo sufficient-decrease test;
// otherwise it shrinks the damping factor with a quadratic model on the
// first backtrack and a cubic model afterwards. Exhausting the attempt cap
// is the one soft failure in the module: Solve reacts to
// ErrBacktrackedToTrial by re-running the search with refinement disabled so
// the full Newton step is accepted outright. Every other error is fatal and
// carries its component prefix up the call chain.
//
// The Jacobian is built once per call and reused by every refinement
// attempt; only the residual is re-evaluated inside the ladder. An optional
// finite-difference cross-check compares the analytic Jacobian entry by
// entry and reports the worst deviation through a trace.Recorder — a
// mismatch is diagnostic, never fatal.
package newton
