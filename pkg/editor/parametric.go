package editor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/internal/logging"
	"github.com/facet3d/facet/pkg/extrude"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/shell"
	"github.com/facet3d/facet/pkg/solid"
)

// axialNormalThreshold separates a top/bottom face pick from a side
// face pick on a parametric extrusion, in the solid's local frame.
const axialNormalThreshold = 0.9

// minProfileDim is the smallest profile dimension or remaining extrude
// depth a parametric regeneration will produce.
const minProfileDim = 1e-3

// errNotParametric asks the caller to fall back to the CSG path; some
// picks on parametric solids (a lateral pull on a free-form polygon)
// cannot be expressed as a profile change.
var errNotParametric = errors.New("editor: edit not expressible as a profile change")

// applyParametric computes the regenerated mesh, updated parameters and
// position delta for an edit of signed depth d on a parametric target.
// Nothing on the target is mutated; previews and commits both apply the
// returned values themselves.
func (c *Controller) applyParametric(s *Session, d float64) (*mesh.Mesh, solid.Params, mgl64.Vec3, error) {
	params := s.target.Params
	nLocal := s.target.Rotation.Inverse().Rotate(s.hitNormal)
	var delta mgl64.Vec3

	switch {
	case nLocal.Y() > axialNormalThreshold:
		// Top face: the base stays put, the depth changes.
		params.PullDepth = s.startDepth + d

	case nLocal.Y() < -axialNormalThreshold:
		// Bottom face: the top stays put, the base moves.
		params.PullDepth = s.startDepth + d
		delta = s.target.Rotation.Rotate(mgl64.Vec3{0, -d, 0})

	default:
		// Side face: resize the profile in the pull direction. The
		// opposite side stays fixed, so the center shifts by half the
		// depth along the pull.
		p, err := resizeProfile(params.Profile, nLocal, d)
		if err != nil {
			return nil, params, delta, err
		}
		params.Profile = p
		delta = s.hitNormal.Mul(d / 2)
	}

	if params.PullDepth < minProfileDim {
		return nil, params, delta, fmt.Errorf("editor: depth %v collapses the solid", params.PullDepth)
	}

	m, err := c.regenerate(params)
	if err != nil {
		return nil, params, delta, err
	}
	return m, params, delta, nil
}

// resizeProfile grows the given profile by d along the local pull
// direction. Rects resize the dimension the face is perpendicular to;
// circles resize the radius regardless of which side was grabbed.
func resizeProfile(p solid.Profile, nLocal mgl64.Vec3, d float64) (solid.Profile, error) {
	switch prof := p.(type) {
	case solid.Rect:
		if math.Abs(nLocal.X()) >= math.Abs(nLocal.Z()) {
			prof.W += d
		} else {
			prof.L += d
		}
		if prof.W < minProfileDim || prof.L < minProfileDim {
			return nil, fmt.Errorf("editor: resize collapses profile to %vx%v", prof.W, prof.L)
		}
		return prof, nil
	case solid.Circle:
		prof.R += d
		if prof.R < minProfileDim {
			return nil, fmt.Errorf("editor: resize collapses radius to %v", prof.R)
		}
		return prof, nil
	default:
		return nil, errNotParametric
	}
}

// regenerate rebuilds the boundary mesh from parameters, hollow or not.
func (c *Controller) regenerate(params solid.Params) (*mesh.Mesh, error) {
	if params.Hollow {
		return shell.Build(c.kern, params.Profile, params.PullDepth,
			params.WallThickness, params.FloorThickness, params.ExtraCut)
	}
	return extrude.Profile(c.kern, params.Profile, params.PullDepth)
}

// commitParametric finalizes an edit on a parametric target: the mesh
// is regenerated from the updated parameters and the parameters
// themselves persist, so the solid remains parametric. Edits that
// cannot be expressed as a profile change fall back to the CSG path.
func (c *Controller) commitParametric(s *Session) error {
	m, params, delta, err := c.applyParametric(s, s.pending)
	if errors.Is(err, errNotParametric) {
		return c.commitSolid(s)
	}
	if err != nil {
		logging.Logger().Warn("parametric commit rolled back", "target", s.target.Name, "err", err)
		c.restore(s)
		s.state = StateCancelled
		return nil
	}

	s.target.SetMesh(m)
	s.target.SetFullMesh(nil)
	s.target.Position = s.prePos.Add(delta)
	s.target.Params = params
	s.state = StateCommitted
	return nil
}
