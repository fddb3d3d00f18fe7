// Package matrix provides the linear-algebra backend of the solver core:
// Jacobian storage in full (dense) and banded form, elementwise row/column
// scaling, the Newton linear solve, and the gradient kernel used by the line
// search.
//
// Storage forms:
//
//   - Dense — N×N row-major storage backed by gonum's mat.Dense. The Newton
//     solve uses gonum's LU factorization with partial pivoting.
//   - Band  — LAPACK-style band storage with kl sub- and ku super-diagonals:
//     entry (i,j) lives at row ku+i-j of the band, column j. The Newton solve
//     uses an in-package band elimination WITHOUT pivoting: bandwidth never
//     grows, results are bit-for-bit deterministic, and a zero pivot surfaces
//     as ErrSingular. Jacobians here carry a mass-matrix diagonal and are
//     strongly diagonally dominant, which is what makes the no-pivot scheme
//     acceptable.
//
// All kernels validate shapes eagerly and return plain sentinel errors,
// wrapped with an operation tag at the facade (errors.Is still matches).
// Inputs are never mutated unless the function name says so (AddDiagonal).
//
// Errors:
//
//	ErrNilMatrix         — nil Matrix receiver or argument.
//	ErrDimensionMismatch — vector/matrix size disagreement.
//	ErrBadBandwidth      — negative bandwidth or band wider than the matrix.
//	ErrOutOfBand         — write outside the declared band.
//	ErrOutOfRange        — index outside [0, N).
//	ErrSingular          — zero pivot during factorization.
//	ErrNaNInf            — non-finite value where finite input is required.
package matrix
