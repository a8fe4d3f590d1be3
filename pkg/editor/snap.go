package editor

import "math"

// applySnap applies the through-cut snapping and inward clamping rules
// to a candidate signed depth. Only inward pushes with a probed
// thickness are affected. It returns the adjusted depth and whether the
// candidate snapped to a clean through-cut.
//
// Within the snap band of the probed thickness, or anywhere beyond it,
// the depth snaps to exactly the probed thickness: cutting to within a
// hair of the far wall would leave an uncuttable membrane. Between the
// safe inward limit and the snap band the depth clamps to the safe
// limit, which is held back from the wall by its own wider margin so
// the clamp band stays non-empty.
func (cfg Config) applySnap(d, thickness float64, probed bool) (float64, bool) {
	if d >= 0 || !probed || thickness <= 0 {
		return d, false
	}
	depth := -d
	snapTol := math.Max(thickness*cfg.SnapFraction, cfg.MinSnapTolerance)
	margin := math.Max(thickness*cfg.SafeMarginFraction, cfg.MinSafeMargin)
	if margin <= snapTol {
		margin = 2 * snapTol
	}
	safe := thickness - margin

	if depth >= thickness-snapTol {
		return -thickness, true
	}
	if depth > safe {
		return -safe, false
	}
	return d, false
}

// throughDepth is the effective cut depth used when a through-cut was
// snapped: the probed thickness plus a margin that guarantees the
// cutter clears the far wall. The session's displayed depth stays at
// the clean thickness value.
func (cfg Config) throughDepth(thickness float64) float64 {
	margin := math.Max(thickness*cfg.ThroughMarginFraction, cfg.MinThroughMargin)
	return -(thickness + margin)
}
