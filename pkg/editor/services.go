// Package editor implements the interactive push/pull edit controller:
// the state machine that owns an in-progress edit from face pick
// through thickness probing, rate-limited preview, snap-to-through
// handling, and commit or rollback.
//
// The controller is driven by an abstract input-event stream (pointer
// press/move/release/cancel, per-frame ticks, and numeric text commits)
// rather than any windowing system's capture semantics. The viewport
// and scene-query services it consumes are supplied by the embedding
// application.
package editor

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/solid"
)

// Errors surfaced to the embedding application. Geometry-level failures
// are never among them; those are recovered internally by falling back
// to the last-known-good mesh.
var (
	// ErrSessionActive rejects starting a new edit while one is in
	// progress. No state changes.
	ErrSessionActive = errors.New("editor: an edit session is already active")

	// ErrInvalidPick means the pointer hit nothing editable: no solid,
	// a helper object, or a point with no resolvable region.
	ErrInvalidPick = errors.New("editor: pick does not resolve to an editable face")

	// ErrNoSession means a drag/commit event arrived with no session.
	ErrNoSession = errors.New("editor: no active edit session")
)

// Hit is one resolved ray/scene intersection, as produced by the
// embedding application's scene query service.
type Hit struct {
	Solid    *solid.Solid
	Point    mgl64.Vec3 // world
	Normal   mgl64.Vec3 // interpolated face normal, world
	Triangle int
}

// SceneQuery resolves rays against the scene, excluding non-pickable
// helper objects. The engine only ever needs the nearest editable hit.
type SceneQuery interface {
	Pick(origin, dir mgl64.Vec3) (Hit, bool)
}

// Viewport supplies the screen-space math needed to turn pointer pixel
// deltas into world-space pull distances: how much world travel along
// axis, at a world point, one pixel of pointer motion corresponds to.
type Viewport interface {
	DepthPerPixel(axis, at mgl64.Vec3) float64
}

// FixedViewport is a Viewport with a constant pixel scale, useful for
// headless runs and tests.
type FixedViewport float64

// DepthPerPixel returns the fixed scale regardless of axis or position.
func (f FixedViewport) DepthPerPixel(axis, at mgl64.Vec3) float64 {
	return float64(f)
}
