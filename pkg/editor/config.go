package editor

// Config carries the empirically tuned constants of the edit
// controller. The snap and margin values are percentages of the probed
// wall thickness with absolute floors; they shape feel, not
// correctness, and are deliberately adjustable.
type Config struct {
	// SnapFraction of the probed thickness within which an inward push
	// snaps to a clean through-cut instead of leaving a near-zero
	// sliver of uncut material.
	SnapFraction float64

	// MinSnapTolerance is the absolute floor of the snap band.
	MinSnapTolerance float64

	// SafeMarginFraction of the probed thickness held back from the far
	// wall when an inward push stops short of the snap band. Must exceed
	// SnapFraction, or no depth would ever clamp instead of snapping.
	SafeMarginFraction float64

	// MinSafeMargin is the absolute floor of that held-back wall.
	MinSafeMargin float64

	// ThroughMarginFraction of the probed thickness by which a
	// through-cut overshoots the far wall, so the cutter fully clears
	// it.
	ThroughMarginFraction float64

	// MinThroughMargin is the absolute floor of that overshoot.
	MinThroughMargin float64

	// PreviewTriangleLimit skips live preview for targets above this
	// triangle count; commit still runs the full evaluation.
	PreviewTriangleLimit int

	// PreviewDepthEpsilon is the minimum candidate-depth change that
	// triggers a preview recompute.
	PreviewDepthEpsilon float64

	// ZeroDepthEpsilon is the band around the starting depth treated
	// as a no-op commit.
	ZeroDepthEpsilon float64
}

// DefaultConfig returns the tuning used by the interactive tool.
func DefaultConfig() Config {
	return Config{
		SnapFraction:          0.05,
		MinSnapTolerance:      1e-3,
		SafeMarginFraction:    0.10,
		MinSafeMargin:         2e-3,
		ThroughMarginFraction: 0.05,
		MinThroughMargin:      1e-3,
		PreviewTriangleLimit:  50000,
		PreviewDepthEpsilon:   1e-4,
		ZeroDepthEpsilon:      1e-4,
	}
}
