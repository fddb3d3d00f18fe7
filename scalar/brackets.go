package scalar

import "math"

// Brackets holds the persistent scalar bounds (xMin, xMax). Undefined bounds
// are NaN; they survive across Newton iterations of one solve and are reset
// at iteration 1. Use NewBrackets — the zero value has defined zero bounds.
type Brackets struct {
	lo, hi float64
}

// NewBrackets returns brackets with both bounds undefined.
func NewBrackets() *Brackets {
	b := &Brackets{}
	b.Reset()

	return b
}

// Reset marks both bounds undefined. Called at iteration 1 of a new solve.
func (b *Brackets) Reset() {
	b.lo = math.NaN()
	b.hi = math.NaN()
}

// Lo returns the lower bound (NaN when undefined).
func (b *Brackets) Lo() float64 { return b.lo }

// Hi returns the upper bound (NaN when undefined).
func (b *Brackets) Hi() float64 { return b.hi }

// Defined reports whether both bounds are finite.
func (b *Brackets) Defined() bool {
	return !math.IsNaN(b.lo) && !math.IsNaN(b.hi)
}

// Update tightens the bracket with one (state, residual) sample: a negative
// residual raises the lower bound, a non-negative residual lowers the upper
// bound. Tightening is monotone — a sample looser than the current bound is
// ignored.
func (b *Brackets) Update(x, resid float64) {
	if resid < 0 {
		if math.IsNaN(b.lo) || x > b.lo {
			b.lo = x
		}

		return
	}
	if math.IsNaN(b.hi) || x < b.hi {
		b.hi = x
	}
}

// Mid returns the bracket midpoint. Only meaningful when Defined.
func (b *Brackets) Mid() float64 { return 0.5 * (b.lo + b.hi) }

// contains reports whether x lies strictly inside the open bracket.
func (b *Brackets) contains(x float64) bool {
	return x > b.lo && x < b.hi
}
