// Package constrain projects a proposed state increment onto the physically
// admissible region before any residual evaluation is trusted.
//
// Apply is a pure projection: it rescales or clips the INCREMENT (never the
// state) so that trial + increment remains feasible, and it never calls the
// flux/residual evaluator. The rules are position-independent — the same
// projection runs at every Newton iteration and every backtracking attempt:
//
//  1. Temperature cap — if any energy increment exceeds MaxTempStep in
//     magnitude, the ENTIRE increment vector is rescaled uniformly by the
//     ratio that brings the worst offender to the cap.
//  2. Vegetation energy — an increment crossing the freezing point from
//     either side is clipped to land CrossEpsilon short of the crossing,
//     avoiding the latent-heat discontinuity exactly at Tfreeze.
//  3. Canopy water — an increment that would drive storage negative is
//     replaced by the bisecting increment −½·storage.
//  4. Snow-layer energy — an increment pushing a snow layer above freezing is
//     replaced by the bisecting increment ½·(Tfreeze − T).
//  5. Snow-layer water — an increment draining more liquid than is present
//     (via the liquid-fraction relation for total-water states, directly for
//     liquid-water states) is replaced by −½·(available liquid).
//  6. Soil energy/matric coupling — the freezing point is depressed by the
//     matric potential (trial head plus any co-located hydrology increment,
//     or the last known head when hydrology is inactive); energy increments
//     crossing that soil-specific freezing point are clipped CrossEpsilon
//     short, from either direction.
//  7. Matric head — positive increments are capped at MaxMatricStep when the
//     current head is itself positive (near saturation).
//
// Apply is idempotent: reapplying it to its own output changes nothing. The
// epsilon offsets in rules 2 and 6 are what make the crossing clips stable
// under reapplication.
package constrain
