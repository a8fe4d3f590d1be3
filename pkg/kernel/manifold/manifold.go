//go:build manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library (https://github.com/elalish/manifold). Manifold
// guarantees manifold output from mesh booleans and can ingest existing
// boundary meshes, so unlike the sdfx backend it satisfies the full
// kernel.MeshKernel interface the interactive editor needs.
//
// This package requires the Manifold C library (manifoldc) to be
// installed. Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/kernel"
	"github.com/facet3d/facet/pkg/mesh"
)

// Compile-time interface checks.
var _ kernel.MeshKernel = (*ManifoldKernel)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)

// manifoldSolid wraps a C ManifoldManifold pointer and implements kernel.Solid.
type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *manifoldSolid) BoundingBox() (min, max [3]float64) {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)

	min[0] = float64(C.manifold_box_min_x(bbox))
	min[1] = float64(C.manifold_box_min_y(bbox))
	min[2] = float64(C.manifold_box_min_z(bbox))
	max[0] = float64(C.manifold_box_max_x(bbox))
	max[1] = float64(C.manifold_box_max_y(bbox))
	max[2] = float64(C.manifold_box_max_z(bbox))
	return min, max
}

// newSolid wraps a C ManifoldManifold pointer with Go-side finalizer
// for automatic memory management.
func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

// ManifoldKernel implements kernel.MeshKernel using the Manifold C library.
type ManifoldKernel struct{}

// New creates a new ManifoldKernel. Returns an error if the Manifold
// C library cannot be initialized.
func New() (kernel.MeshKernel, error) {
	return &ManifoldKernel{}, nil
}

// Box creates an axis-aligned box with the given dimensions and its
// minimum corner at the origin, matching the brep backend.
func (k *ManifoldKernel) Box(x, y, z float64) kernel.Solid {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cube(alloc,
		C.double(x), C.double(y), C.double(z),
		C.int(0), // center=false: min corner at origin
	)
	return newSolid(ptr)
}

// Cylinder creates a cylinder along +Y with its base at y=0 and the
// given height, radius, and number of circular segments. Manifold's
// cylinder runs along +Z from the origin, so it is stood upright.
func (k *ManifoldKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cylinder(alloc,
		C.double(height),
		C.double(radius), // radius_low
		C.double(radius), // radius_high (same = not tapered)
		C.int(segments),
		C.int(0), // center=false: base at z=0
	)
	rotAlloc := C.manifold_alloc_manifold()
	upright := C.manifold_rotate(rotAlloc, ptr, C.double(-90), C.double(0), C.double(0))
	C.manifold_delete_manifold(ptr)
	return newSolid(upright)
}

// Extrude sweeps a 2D profile along +Y from y=0 to y=height. The
// profile's (x, z) coordinates map to Manifold's XY cross-section plane
// with z mirrored, so that standing the +Z extrusion upright lands the
// profile back in the caller's frame. Hole rings are wound opposite the
// outer ring so Manifold's fill rule subtracts them.
func (k *ManifoldKernel) Extrude(ring [][2]float64, holes [][][2]float64, height float64) (kernel.Solid, error) {
	if len(ring) < 3 {
		return nil, fmt.Errorf("manifold: profile ring needs at least 3 vertices, got %d", len(ring))
	}
	if height <= 0 {
		return nil, fmt.Errorf("manifold: extrude height %v must be positive", height)
	}

	simple := make([]*C.ManifoldSimplePolygon, 0, 1+len(holes))
	simple = append(simple, simplePolygon(ring, true))
	for _, h := range holes {
		if len(h) < 3 {
			continue
		}
		simple = append(simple, simplePolygon(h, false))
	}

	polysAlloc := C.manifold_alloc_polygons()
	polys := C.manifold_polygons(polysAlloc,
		(**C.ManifoldSimplePolygon)(unsafe.Pointer(&simple[0])),
		C.size_t(len(simple)),
	)
	defer C.manifold_delete_polygons(polys)
	for _, sp := range simple {
		C.manifold_delete_simple_polygon(sp)
	}

	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_extrude(alloc, polys,
		C.double(height), C.int(0), C.double(0), C.double(1), C.double(1))

	rotAlloc := C.manifold_alloc_manifold()
	upright := C.manifold_rotate(rotAlloc, ptr, C.double(-90), C.double(0), C.double(0))
	C.manifold_delete_manifold(ptr)
	return newSolid(upright), nil
}

// simplePolygon builds a C simple polygon from (x, z) ring coordinates
// with z mirrored into Manifold's Y, wound CCW when ccw is true and CW
// otherwise.
func simplePolygon(ring [][2]float64, ccw bool) *C.ManifoldSimplePolygon {
	pts := make([]C.ManifoldVec2, len(ring))
	var area float64
	j := len(ring) - 1
	for i, p := range ring {
		pts[i] = C.ManifoldVec2{x: C.double(p[0]), y: C.double(-p[1])}
		area += ring[j][0]*-ring[i][1] - ring[i][0]*-ring[j][1]
		j = i
	}
	if (area < 0) == ccw {
		for i, jj := 0, len(pts)-1; i < jj; i, jj = i+1, jj-1 {
			pts[i], pts[jj] = pts[jj], pts[i]
		}
	}
	alloc := C.manifold_alloc_simple_polygon()
	return C.manifold_simple_polygon(alloc,
		(*C.ManifoldVec2)(unsafe.Pointer(&pts[0])), C.size_t(len(pts)))
}

// Union returns the boolean union of two solids.
func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_union(alloc, sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Difference returns the boolean difference (a minus b).
func (k *ManifoldKernel) Difference(a, b kernel.Solid) kernel.Solid {
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_difference(alloc, sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Intersection returns the boolean intersection of two solids.
func (k *ManifoldKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_intersection(alloc, sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Translate moves the solid by (x, y, z).
func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ms := s.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_translate(alloc, ms.ptr,
		C.double(x), C.double(y), C.double(z),
	)
	return newSolid(ptr)
}

// Rotate rotates the solid by Euler angles (in degrees) around the X, Y, Z axes.
func (k *ManifoldKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ms := s.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_rotate(alloc, ms.ptr,
		C.double(x), C.double(y), C.double(z),
	)
	return newSolid(ptr)
}

// FromMesh ingests an existing boundary mesh as a boolean operand.
// Manifold rejects meshes that are not watertight; the error surfaces
// here rather than at evaluation time.
func (k *ManifoldKernel) FromMesh(m *mesh.Mesh) (kernel.Solid, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("manifold: cannot ingest an empty mesh")
	}

	verts := make([]C.float, len(m.Positions))
	for i, v := range m.Positions {
		verts[i] = C.float(v)
	}
	tris := make([]C.uint32_t, len(m.Indices))
	for i, idx := range m.Indices {
		tris[i] = C.uint32_t(idx)
	}

	mgAlloc := C.manifold_alloc_meshgl()
	mg := C.manifold_meshgl(mgAlloc,
		(*C.float)(unsafe.Pointer(&verts[0])), C.size_t(m.VertexCount()), C.size_t(3),
		(*C.uint32_t)(unsafe.Pointer(&tris[0])), C.size_t(m.TriangleCount()),
	)
	defer C.manifold_delete_meshgl(mg)

	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_of_meshgl(alloc, mg)
	s := newSolid(ptr)
	if C.manifold_status(ptr) != C.MANIFOLD_NO_ERROR {
		return nil, fmt.Errorf("manifold: mesh is not a closed manifold")
	}
	return s, nil
}

// ToMesh extracts a triangle mesh from the solid using Manifold's
// MeshGL format. MeshGL interleaves vertex properties with positions
// always the first three; normals are recomputed from the faces so the
// output matches the other backends.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*mesh.Mesh, error) {
	ms := s.(*manifoldSolid)

	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, ms.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return mesh.New(), nil
	}

	numProp := int(C.manifold_meshgl_num_prop(meshGL))
	propData := make([]C.float, numVert*numProp)
	C.manifold_meshgl_vert_properties(
		(*C.float)(unsafe.Pointer(&propData[0])),
		meshGL,
	)

	indices := make([]C.uint32_t, numTri*3)
	C.manifold_meshgl_tri_verts(
		(*C.uint32_t)(unsafe.Pointer(&indices[0])),
		meshGL,
	)

	out := mesh.New()
	for i := 0; i < numVert; i++ {
		base := i * numProp
		out.AddVertex(mgl64.Vec3{
			float64(propData[base+0]),
			float64(propData[base+1]),
			float64(propData[base+2]),
		})
	}
	for t := 0; t < numTri; t++ {
		out.AddTriangle(uint32(indices[t*3]), uint32(indices[t*3+1]), uint32(indices[t*3+2]))
	}
	mesh.RecomputeNormals(out)
	if out.VertexCount() != numVert {
		return nil, fmt.Errorf("manifold: vertex count mismatch: got %d, expected %d",
			out.VertexCount(), numVert)
	}
	return out, nil
}
