package editor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/internal/logging"
	"github.com/facet3d/facet/pkg/csg"
	"github.com/facet3d/facet/pkg/extrude"
	"github.com/facet3d/facet/pkg/kernel"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/plane"
)

// Controller owns at most one edit session and advances it through the
// Idle -> Probing -> Dragging -> (Committed | Cancelled) -> Idle
// lifecycle in response to the abstract input-event stream.
type Controller struct {
	cfg  Config
	kern kernel.MeshKernel
	eval *csg.Evaluator
	view Viewport

	session *Session
	raw     float64 // accumulated drag depth before snap/clamp
	hover   *HoverInfo
}

// New returns a controller over the given mesh-capable kernel and
// viewport with default tuning.
func New(k kernel.MeshKernel, view Viewport) *Controller {
	return NewWithConfig(k, view, DefaultConfig())
}

// NewWithConfig returns a controller with explicit tuning.
func NewWithConfig(k kernel.MeshKernel, view Viewport, cfg Config) *Controller {
	return &Controller{
		cfg:  cfg,
		kern: k,
		eval: csg.NewEvaluator(k),
		view: view,
	}
}

// Session returns the active session, or nil when idle.
func (c *Controller) Session() *Session {
	return c.session
}

// PointerDown starts an edit session from a face pick. It resolves the
// picked region, snapshots the pre-edit boundary for rollback, and for
// solid (non-parametric) targets probes the local wall thickness.
func (c *Controller) PointerDown(hit Hit) error {
	if c.session != nil {
		return ErrSessionActive
	}
	if hit.Solid == nil || hit.Normal.Len() == 0 {
		return ErrInvalidPick
	}
	normal := hit.Normal.Normalize()

	regions, key := hit.Solid.RegionsOn(normal, hit.Point)
	region := plane.Pick(regions, hit.Point)
	if region == nil {
		return ErrInvalidPick
	}

	s := &Session{
		state:      StateProbing,
		target:     hit.Solid,
		region:     region,
		planeKey:   key,
		hitPoint:   hit.Point,
		hitNormal:  normal,
		startDepth: hit.Solid.Params.PullDepth,
		preMesh:    hit.Solid.Mesh(),
		preFull:    hit.Solid.FullMesh(),
		hadFull:    hit.Solid.HasFullMesh(),
		prePos:     hit.Solid.Position,
	}
	if !hit.Solid.IsParametric() {
		s.thickness, s.hasThickness = probeThickness(hit.Solid, hit.Point, normal)
	}
	c.session = s
	c.raw = 0
	return nil
}

// PointerMove advances the drag by a pointer travel in pixels along the
// projected pull axis. Positive travel pulls outward, negative pushes
// in.
func (c *Controller) PointerMove(pixels float64) error {
	s := c.session
	if s == nil {
		return ErrNoSession
	}
	if s.state == StateProbing {
		s.state = StateDragging
	}
	c.raw += pixels * c.view.DepthPerPixel(s.hitNormal, s.hitPoint)
	c.setCandidate(c.raw)
	return nil
}

// SetDepth sets the candidate depth directly in world units, bypassing
// the pixel conversion. The same snap and clamp rules apply.
func (c *Controller) SetDepth(d float64) error {
	s := c.session
	if s == nil {
		return ErrNoSession
	}
	if s.state == StateProbing {
		s.state = StateDragging
	}
	c.raw = d
	c.setCandidate(d)
	return nil
}

func (c *Controller) setCandidate(raw float64) {
	s := c.session
	if raw != 0 {
		s.dirSign = math.Copysign(1, raw)
	}
	s.pending, s.through = c.cfg.applySnap(raw, s.thickness, s.hasThickness)
}

// Frame runs the rate-limited preview: at most one recompute per call,
// and none at all unless the candidate depth moved by more than the
// preview epsilon since the last applied preview. The embedding
// application calls this once per animation frame. A preview failure
// leaves the displayed mesh unchanged; a torn or empty mesh is never
// shown.
func (c *Controller) Frame() bool {
	s := c.session
	if s == nil || s.state != StateDragging {
		return false
	}
	if math.Abs(s.pending-s.previewed) <= c.cfg.PreviewDepthEpsilon {
		return false
	}

	if math.Abs(s.pending) <= c.cfg.ZeroDepthEpsilon {
		// Back at the starting depth: show the pre-edit boundary.
		s.target.SetMesh(s.preMesh)
		s.target.Position = s.prePos
		s.previewed = s.pending
		return true
	}

	if s.target.IsParametric() {
		m, _, delta, err := c.applyParametric(s, s.pending)
		if err != nil {
			logging.Logger().Debug("parametric preview skipped", "target", s.target.Name, "err", err)
			return false
		}
		s.target.SetMesh(m)
		s.target.Position = s.prePos.Add(delta)
		s.previewed = s.pending
		return true
	}

	if s.preFull.TriangleCount() > c.cfg.PreviewTriangleLimit {
		logging.Logger().Debug("preview skipped: triangle ceiling",
			"target", s.target.Name, "triangles", s.preFull.TriangleCount())
		return false
	}

	result, err := c.evaluateCut(s, s.pending)
	if err != nil {
		logging.Logger().Debug("preview skipped", "target", s.target.Name, "err", err)
		return false
	}
	s.target.SetMesh(result)
	s.previewed = s.pending
	return true
}

// evaluateCut builds the cutter for the candidate depth and runs the
// boolean against the pre-edit full boundary, returning the target's
// new local-space mesh.
func (c *Controller) evaluateCut(s *Session, depth float64) (*mesh.Mesh, error) {
	effective := depth
	if s.through {
		effective = c.cfg.throughDepth(s.thickness)
	}
	cutter, err := extrude.BuildCutter(c.kern, s.region, effective, s.hitNormal)
	if err != nil {
		return nil, err
	}
	return c.eval.Evaluate(s.target, cutter, effective, s.preFull)
}

// Release handles the two-click gesture: the first release arms free
// movement without committing, the second commits. It reports whether
// the session was committed.
func (c *Controller) Release() (bool, error) {
	s := c.session
	if s == nil {
		return false, ErrNoSession
	}
	if !s.armed {
		s.armed = true
		if s.state == StateProbing {
			s.state = StateDragging
		}
		return false, nil
	}
	return true, c.Commit()
}

// CommitText applies a numeric text entry and commits. The value's
// magnitude is the depth; an explicit leading minus forces a push,
// otherwise the sign follows the drag direction established so far
// (outward when there is none).
func (c *Controller) CommitText(text string) error {
	s := c.session
	if s == nil {
		return ErrNoSession
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return fmt.Errorf("editor: numeric entry %q: %w", text, err)
	}
	if s.state == StateProbing {
		s.state = StateDragging
	}
	if v >= 0 && s.dirSign != 0 {
		v = s.dirSign * v
	}
	c.raw = v
	c.setCandidate(v)
	return c.Commit()
}

// Commit finalizes the session: the full (non-preview) evaluation runs,
// cap stripping opens a through-void when the committed depth is
// negative and snapped through, the result becomes the target's new
// boundary and full-solid snapshot, and the persisted parameters are
// updated. Any geometry failure rolls back to the pre-edit mesh, never
// a partially-applied result.
func (c *Controller) Commit() error {
	s := c.session
	if s == nil {
		return ErrNoSession
	}
	defer func() { c.session = nil }()

	if math.Abs(s.pending) <= c.cfg.ZeroDepthEpsilon {
		// A zero-depth edit: indistinguishable from no edit at all.
		c.restore(s)
		s.state = StateCommitted
		return nil
	}

	if s.target.IsParametric() {
		return c.commitParametric(s)
	}
	return c.commitSolid(s)
}

func (c *Controller) commitSolid(s *Session) error {
	result, err := c.evaluateCut(s, s.pending)
	if errors.Is(err, csg.ErrDegenerate) && s.through && s.pending < 0 {
		// The cutter consumed the whole solid. That is a legitimate
		// outcome of a through-cut, not a failure: the target becomes
		// empty.
		result = mesh.New()
		err = nil
	}
	if err != nil {
		logging.Logger().Warn("commit rolled back", "target", s.target.Name, "err", err)
		c.restore(s)
		s.state = StateCancelled
		return nil
	}

	display := result
	var snapshot *mesh.Mesh
	if s.pending < 0 && s.through {
		// Open the void: strip triangles coincident with the cut
		// plane at the far wall. The unstripped result stays cached
		// as the CSG operand for future edits.
		pLocal, nLocal := worldPlaneToLocal(s.target.WorldMatrix(),
			s.hitPoint.Add(s.hitNormal.Mul(s.pending)), s.hitNormal)
		tol := math.Max(1e-4, mesh.BoundingDiagonal(result)*1e-4)
		stripped, removed := mesh.StripCap(result, pLocal, nLocal, tol)
		if removed > 0 && !stripped.IsEmpty() {
			mesh.RecomputeNormals(stripped)
			display = stripped
			snapshot = result
		}
	}

	s.target.SetMesh(display)
	s.target.SetFullMesh(snapshot)
	s.target.MarkBooleaned()
	s.target.Params.PullDepth = s.pending
	s.state = StateCommitted
	return nil
}

// Cancel abandons the session and restores the pre-edit boundary
// verbatim. Effective at any point before commit; no parameters are
// persisted.
func (c *Controller) Cancel() error {
	s := c.session
	if s == nil {
		return ErrNoSession
	}
	c.restore(s)
	s.state = StateCancelled
	c.session = nil
	return nil
}

// restore puts the pre-edit snapshots back, all or nothing.
func (c *Controller) restore(s *Session) {
	s.target.SetMesh(s.preMesh)
	if s.hadFull {
		s.target.SetFullMesh(s.preFull)
	} else {
		s.target.SetFullMesh(nil)
	}
	s.target.Position = s.prePos
}

// worldPlaneToLocal transforms a world-space plane (point, normal) into
// the local space of a solid with world matrix w. Normals transform by
// the transpose of the point transform's inverse.
func worldPlaneToLocal(w mgl64.Mat4, point, normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	inv := w.Inv()
	p := inv.Mul4x1(point.Vec4(1)).Vec3()
	n := w.Transpose().Mul4x1(normal.Vec4(0)).Vec3()
	if l := n.Len(); l > 1e-12 {
		n = n.Mul(1 / l)
	}
	return p, n
}
