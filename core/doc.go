// Package core defines the central state-vector types shared by every solver
// package: the Layout of physical categories inside the state vector, the
// Aux snapshot of trial-point physical quantities, the Control flags that are
// threaded explicitly through a solve, and the Evaluator contract that links
// the solver to the external flux/residual physics.
//
// The state vector is an ordered sequence of scalar states, heterogeneous by
// physical meaning:
//
//	canopy-air-space energy   (at most one entry)
//	vegetation canopy energy  (at most one entry)
//	vegetation canopy water   (at most one entry)
//	layer energy              (one entry per snow and soil layer)
//	snow-layer water          (total or liquid water, one entry per snow layer)
//	soil matric head          (one entry per soil layer in the hydrology subset)
//	aquifer storage           (at most one entry)
//
// Index mappings are externally assigned and fixed for the duration of a
// solve; core only records them. A Layout with every category absent is
// invalid; a Layout with exactly one active state selects the safeguarded
// scalar solution path.
//
// Everything in core is solve-scoped and caller-owned. There is no mutable
// package state: the source model's process-wide "first flux call" and print
// flags are explicit fields on Control and the trace recorder respectively.
//
// Errors:
//
//	ErrBadStateLength — a vector's length disagrees with Layout.NState.
//	ErrBadLayout      — index out of range, duplicated, or no active state.
//	ErrNilEvaluator   — a nil Evaluator was supplied to a solver entry point.
package core
