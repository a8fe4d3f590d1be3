package extrude

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/kernel"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/solid"
)

// Profile regenerates the boundary mesh of a simple parametric solid: a
// 2D profile extruded along +Y by the signed depth. A negative depth
// extrudes downward from the profile plane. There is only one face
// pair, so no CSG is involved; this is the light path the edit
// controller takes for parametric targets.
func Profile(k kernel.Kernel, p solid.Profile, depth float64) (*mesh.Mesh, error) {
	if p == nil {
		return nil, fmt.Errorf("extrude: nil profile")
	}
	h := math.Abs(depth)
	if h <= ZeroPullThreshold {
		return nil, fmt.Errorf("extrude: profile depth %v too small", depth)
	}
	s, err := k.Extrude(p.Ring(), nil, h)
	if err != nil {
		return nil, fmt.Errorf("extrude: profile: %w", err)
	}
	m, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("extrude: profile mesh: %w", err)
	}
	if depth < 0 {
		m.Translate(mgl64.Vec3{0, depth, 0})
	}
	mesh.RecomputeNormals(m)
	return m, nil
}
