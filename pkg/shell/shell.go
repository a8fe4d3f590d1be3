// Package shell builds hollowed solids: an outer profile extrusion
// minus a scaled, vertically offset inner void, leaving walls and a
// floor of the requested thickness.
package shell

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/csg"
	"github.com/facet3d/facet/pkg/kernel"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/solid"
)

// Scale clamps for the inner void. The lower bound keeps the void from
// degenerating to nothing, the upper bound keeps it from intersecting
// the outer walls.
const (
	minVoidScale = 0.05
	maxVoidScale = 0.98
)

// minThickness is the smallest wall or floor the builder accepts.
const minThickness = 1e-3

// Build constructs a shelled solid from a 2D profile: an outer
// extrusion of the profile to depth, minus an inner void shrunk by
// 2*wall per in-plane dimension, lifted by floor so a solid floor
// remains, and overshooting the top by extra so the opening is not
// capped by a sliver.
func Build(k kernel.MeshKernel, profile solid.Profile, depth, wall, floor, extra float64) (*mesh.Mesh, error) {
	if profile == nil {
		return nil, fmt.Errorf("shell: nil profile")
	}
	if depth <= minThickness {
		return nil, fmt.Errorf("shell: depth %v too small", depth)
	}
	wall = clamp(wall, minThickness, depth)
	floor = clamp(floor, minThickness, depth)
	if extra < 0 {
		extra = 0
	}

	ring := profile.Ring()
	outerSolid, err := k.Extrude(ring, nil, depth)
	if err != nil {
		return nil, fmt.Errorf("shell: outer extrusion: %w", err)
	}
	outer, err := k.ToMesh(outerSolid)
	if err != nil {
		return nil, fmt.Errorf("shell: outer mesh: %w", err)
	}

	voidHeight := depth - floor + extra
	if voidHeight <= minThickness {
		return nil, fmt.Errorf("shell: floor %v leaves no room for a void in depth %v", floor, depth)
	}
	voidSolid, err := k.Extrude(shrinkRing(ring, wall), nil, voidHeight)
	if err != nil {
		return nil, fmt.Errorf("shell: void extrusion: %w", err)
	}
	voidMesh, err := k.ToMesh(voidSolid)
	if err != nil {
		return nil, fmt.Errorf("shell: void mesh: %w", err)
	}
	voidMesh.Translate(mgl64.Vec3{0, floor, 0})

	// Subtract through the boolean evaluator so shell seams get the
	// same tolerance treatment as interactive edits. The wrapper solid
	// has identity placement, so world space and local space coincide.
	tmp := solid.New("shell", outer)
	result, err := csg.NewEvaluator(k).Evaluate(tmp, voidMesh, -1, outer)
	if err != nil {
		return nil, fmt.Errorf("shell: subtract void: %w", err)
	}
	return result, nil
}

// shrinkRing scales the profile about its centroid so each linear
// dimension shrinks by 2*wall, with the scale factor clamped per axis.
func shrinkRing(ring [][2]float64, wall float64) [][2]float64 {
	minX, maxX := ring[0][0], ring[0][0]
	minZ, maxZ := ring[0][1], ring[0][1]
	var cx, cz float64
	for _, p := range ring {
		minX = math.Min(minX, p[0])
		maxX = math.Max(maxX, p[0])
		minZ = math.Min(minZ, p[1])
		maxZ = math.Max(maxZ, p[1])
		cx += p[0]
		cz += p[1]
	}
	cx /= float64(len(ring))
	cz /= float64(len(ring))

	sx := voidScale(maxX-minX, wall)
	sz := voidScale(maxZ-minZ, wall)

	out := make([][2]float64, len(ring))
	for i, p := range ring {
		out[i] = [2]float64{cx + (p[0]-cx)*sx, cz + (p[1]-cz)*sz}
	}
	return out
}

func voidScale(extent, wall float64) float64 {
	if extent <= 0 {
		return minVoidScale
	}
	return clamp(1-2*wall/extent, minVoidScale, maxVoidScale)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
