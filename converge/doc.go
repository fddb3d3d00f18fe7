// Package converge decides whether a Newton iterate is good enough to stop.
//
// Check is a pure predicate over six independent physical criteria:
//
//  1. Canopy water balance — residual converted to mass units, against the
//     liquid tolerance.
//  2. Energy — max absolute residual over all energy states, against the
//     energy tolerance.
//  3. Liquid water — max absolute residual over all hydrology states, against
//     the liquid tolerance, tightened by ScalarTighten for single-unknown
//     solves.
//  4. Matric head — max relative increment over matric-head states, against
//     the matric tolerance. Increment-based rather than residual-based so the
//     criterion does not over-tighten near zero storage.
//  5. Soil water balance — absolute depth-weighted residual sum over the soil
//     hydrology states, against the liquid tolerance.
//  6. Aquifer — residual converted to mass units, against the liquid
//     tolerance.
//
// A criterion whose state category is absent from the active subset is
// vacuously satisfied, so partial state subsets (energy-only, scalar, no
// snow) converge on exactly the criteria they can influence. The overall
// verdict is the AND of all six.
package converge
