// Package extrude converts picked regions and parametric profiles into
// closed extrusion solids. Its main product is the cutter: the second
// operand of a push/pull boolean, built in the region's plane-aligned
// frame and transformed back to world space.
package extrude

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/kernel"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/plane"
)

// ZeroPullThreshold is the pull magnitude below which an edit is a
// no-op. Callers restore the original geometry instead of building a
// cutter.
const ZeroPullThreshold = 1e-4

// Cutter epsilon bounds. The epsilon scales with the region extent and
// pull magnitude and must always exceed the weld tolerance applied
// downstream, or boolean results develop slivers along the seam.
const (
	epsilonScale = 1e-4
	minEpsilon   = 1e-4
	maxEpsilon   = 0.1
)

// BuildCutter converts a picked region plus a signed pull distance into
// a closed world-space extrusion solid. The cutter overshoots the cut
// plane by an epsilon on both ends so it fully penetrates the target's
// boundary regardless of floating-point noise at the seam.
//
// The region's basis fixes which way its aligned +Y points in world
// space; when the user clicked the far side of the plane the hit normal
// opposes it, and the pull sign is flipped so "outward under the
// cursor" stays outward.
func BuildCutter(k kernel.MeshKernel, region *plane.Region, pull float64, hitNormalWorld mgl64.Vec3) (*mesh.Mesh, error) {
	if math.Abs(pull) <= ZeroPullThreshold {
		return nil, fmt.Errorf("extrude: near-zero pull %v must be handled as a no-op by the caller", pull)
	}

	if region.Basis.UpWorld().Dot(hitNormalWorld) < 0 {
		pull = -pull
	}

	extX, extZ := region.Extent()
	eps := math.Max(extX, math.Max(extZ, math.Abs(pull))) * epsilonScale
	eps = math.Min(math.Max(eps, minEpsilon), maxEpsilon)

	// Profile centered on the region centroid keeps the extrusion
	// numerically well-behaved far from the world origin.
	ring := centerRing(region.Ring, region.Centroid)
	holes := make([][][2]float64, len(region.Holes))
	for i, h := range region.Holes {
		holes[i] = centerRing(h, region.Centroid)
	}

	y0 := math.Min(region.Basis.Height, region.Basis.Height+pull) - eps
	y1 := math.Max(region.Basis.Height, region.Basis.Height+pull) + eps

	s, err := k.Extrude(ring, holes, y1-y0)
	if err != nil {
		return nil, fmt.Errorf("extrude: cutter profile: %w", err)
	}
	m, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("extrude: cutter mesh: %w", err)
	}

	m.Translate(mgl64.Vec3{region.Centroid.X(), y0, region.Centroid.Y()})

	m = mesh.WeldVertices(m, math.Max(1e-5, eps/2))
	if m.IsEmpty() {
		return nil, fmt.Errorf("extrude: cutter welded away to nothing")
	}

	// Aligned frame back to world.
	m.Transform(region.Basis.Rotation.Inverse().Mat4())
	mesh.RecomputeNormals(m)
	return m, nil
}

func centerRing(r []mgl64.Vec2, c mgl64.Vec2) [][2]float64 {
	out := make([][2]float64, len(r))
	for i, p := range r {
		out[i] = [2]float64{p.X() - c.X(), p.Y() - c.Y()}
	}
	return out
}
