package editor

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/plane"
	"github.com/facet3d/facet/pkg/solid"
)

// State enumerates the lifecycle of an edit session.
type State int

const (
	StateIdle State = iota
	StateProbing
	StateDragging
	StateCommitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbing:
		return "probing"
	case StateDragging:
		return "dragging"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Session is the transient state of one user-driven edit. It is created
// on pointer-down over a valid face and destroyed on commit or cancel;
// only one may exist at a time.
type Session struct {
	state State

	target   *solid.Solid
	region   *plane.Region
	planeKey plane.Key

	hitPoint  mgl64.Vec3 // world
	hitNormal mgl64.Vec3 // world

	startDepth float64 // target's persisted pull depth at entry

	// Pre-edit boundary snapshots for rollback. Restoration is
	// all-or-nothing; cancel puts these back verbatim.
	preMesh *mesh.Mesh
	preFull *mesh.Mesh
	hadFull bool
	prePos  mgl64.Vec3

	thickness    float64
	hasThickness bool

	pending   float64 // candidate signed depth after snap/clamp
	previewed float64 // depth of the last applied preview
	through   bool    // pending snapped to a clean through-cut
	armed     bool    // first release arms free movement; second commits
	dirSign   float64 // sign of the last pointer travel, for text entry
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Target returns the solid under edit.
func (s *Session) Target() *solid.Solid {
	return s.target
}

// Depth returns the current candidate signed depth.
func (s *Session) Depth() float64 {
	return s.pending
}

// Through reports whether the candidate snapped to a through-cut.
func (s *Session) Through() bool {
	return s.through
}

// InputValue is the numeric affordance's display contract: the
// magnitude of the candidate depth with three decimals. The sign is
// carried by the drag direction, so a push of the full probed wall
// thickness 2.0 displays as "2.000".
func (s *Session) InputValue() string {
	return fmt.Sprintf("%.3f", math.Abs(s.pending))
}
