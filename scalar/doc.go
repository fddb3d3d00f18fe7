// Package scalar solves single-unknown Newton problems with a safeguarded
// bracket-and-bisect strategy.
//
// A plain damped Newton step is not safe for one unknown near a phase
// change: the residual's slope can invert and send the step the wrong way.
// The safeguard keeps persistent Brackets across the Newton iterations of
// one solve — a negative residual tightens the lower bound, a non-negative
// residual tightens the upper bound — and overrides the Newton candidate
// with the bracket midpoint whenever the step misbehaves:
//
//   - the step points the same way as the residual (wrong direction), or
//   - both bounds are finite and the candidate falls outside the open
//     bracket or inside a relative edge band of either bound.
//
// When the wrong-direction case hits before any bracket exists, bracket
// acquisition walks unit increments against the residual sign until both
// residual signs have been observed, bounded by a retry cap.
//
// Feasibility has sharper teeth here than in the vector line search: every
// candidate passes through constraint projection first, so an evaluator
// reporting infeasible afterwards means the projection itself is broken and
// the solve aborts with ErrInfeasibleAfterProjection.
package scalar
