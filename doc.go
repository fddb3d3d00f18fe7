// Package cryosolve is the implicit nonlinear solver core of a land-surface
// hydrology model: it advances the coupled energy/water state of a snow, soil
// and vegetation column by one implicit time-sub-step.
//
// Given a trial state vector with its residual and Jacobian, the solver
// computes a Newton step, safeguards it against numerical blow-up and
// physically infeasible states, and iterates acceptance criteria until a
// multi-criterion convergence test passes or the step is rejected.
//
// The repository is organized as one package per concern:
//
//	core/      — state-vector layout, physical constants, solve control flags,
//	             and the collaborator contracts (flux/residual evaluator)
//	matrix/    — Jacobian storage (full and banded), row/column scaling,
//	             LU solve and gradient kernels
//	constrain/ — feasibility projection of a proposed state increment
//	             (temperature caps, phase-change crossings, storage bounds)
//	converge/  — the six-criterion convergence predicate
//	newton/    — Newton step orchestration with damped line-search
//	             globalization (trust region reserved as an extension point)
//	scalar/    — safeguarded bracket-and-bisect solver for single-unknown
//	             solves
//	trace/     — explicit per-iteration diagnostics recording and plotting
//
// The core owns no I/O, no time-step control, and no physics
// parameterizations: it consumes residuals, Jacobians and scale vectors from
// the surrounding driver and returns a candidate state with a convergence
// verdict. All operations are synchronous call-and-return; concurrent solves
// must not share Problem state, brackets, or scale vectors.
package cryosolve
