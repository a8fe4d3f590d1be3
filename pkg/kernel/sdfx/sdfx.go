// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. It is the alternate
// backend: primitives and profile extrusions come out as marching-cubes
// meshes, which is fine for inspection tooling but too coarse for the
// interactive editor, and SDFs cannot ingest existing boundary meshes.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/kernel"
	"github.com/facet3d/facet/pkg/mesh"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions and its minimum corner at
// the origin, matching the brep backend. sdf.Box3D centers the box at
// the origin, so we translate by half-dimensions.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Cylinder creates a cylinder along +Y with its base at y=0. The
// segments parameter is ignored since SDF surfaces are smooth.
// sdf.Cylinder3D runs along Z centered at the origin, so the solid is
// stood upright and lifted by half its height.
func (k *SdfxKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{Y: height / 2}).Mul(sdf.RotateX(-math.Pi / 2))
	return wrap(sdf.Transform3D(s, m))
}

// Extrude sweeps a 2D profile along +Y from y=0 to y=height. The
// profile's (x, z) coordinates map to sdfx's XY plane with z mirrored,
// so that rotating the Z-axis extrusion upright lands the profile back
// in the caller's frame.
func (k *SdfxKernel) Extrude(ring [][2]float64, holes [][][2]float64, height float64) (kernel.Solid, error) {
	if height <= 0 {
		return nil, fmt.Errorf("sdfx: extrude height %v must be positive", height)
	}
	profile, err := polygon2D(ring)
	if err != nil {
		return nil, err
	}
	for _, h := range holes {
		hole, err := polygon2D(h)
		if err != nil {
			return nil, err
		}
		profile = sdf.Difference2D(profile, hole)
	}

	s := sdf.Extrude3D(profile, height)
	m := sdf.Translate3d(v3.Vec{Y: height / 2}).Mul(sdf.RotateX(-math.Pi / 2))
	return wrap(sdf.Transform3D(s, m)), nil
}

// polygon2D builds a CCW sdf polygon from (x, z) ring coordinates,
// mirroring z into sdfx's Y.
func polygon2D(ring [][2]float64) (sdf.SDF2, error) {
	if len(ring) < 3 {
		return nil, fmt.Errorf("sdfx: profile ring needs at least 3 vertices, got %d", len(ring))
	}
	pts := make([]v2.Vec, len(ring))
	var area float64
	j := len(ring) - 1
	for i, p := range ring {
		pts[i] = v2.Vec{X: p[0], Y: -p[1]}
		area += ring[j][0]*-ring[i][1] - ring[i][0]*-ring[j][1]
		j = i
	}
	if area < 0 {
		for i, jj := 0, len(pts)-1; i < jj; i, jj = i+1, jj-1 {
			pts[i], pts[jj] = pts[jj], pts[i]
		}
	}
	s, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	return s, nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*mesh.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	out := mesh.New()
	for _, tri := range triangles {
		i0 := out.AddVertex(toVec3(tri[0]))
		i1 := out.AddVertex(toVec3(tri[1]))
		i2 := out.AddVertex(toVec3(tri[2]))
		out.AddTriangle(i0, i1, i2)
	}
	if out.IsEmpty() {
		return nil, fmt.Errorf("sdfx: marching cubes produced no triangles")
	}
	mesh.RecomputeNormals(out)
	return out, nil
}

func toVec3(v v3.Vec) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
