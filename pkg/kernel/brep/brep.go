// Package brep implements the kernel.Kernel interface directly on
// boundary triangle meshes: exact prism extrusions with tessellated
// caps, and boolean evaluation on BSP trees built from the boundary
// polygons. Unlike the sdfx backend it can ingest arbitrary existing
// meshes, which is what interactive push/pull editing requires.
package brep

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	libtess2 "github.com/hajimehoshi/go-libtess2"

	"github.com/facet3d/facet/pkg/kernel"
	"github.com/facet3d/facet/pkg/mesh"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*Kernel)(nil)
var _ kernel.MeshImporter = (*Kernel)(nil)

// defaultSegments is the circle resolution used when a caller passes a
// non-positive segment count.
const defaultSegments = 32

// outputWeld merges exactly-duplicated vertices produced by fan
// triangulation; real tolerance welding is the caller's concern.
const outputWeld = 1e-9

// brepSolid wraps a boundary polygon soup to implement kernel.Solid.
type brepSolid struct {
	polys []bspPolygon
}

// BoundingBox returns the axis-aligned bounding box.
func (s *brepSolid) BoundingBox() (min, max [3]float64) {
	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range s.polys {
		for _, v := range p.verts {
			for a := 0; a < 3; a++ {
				min[a] = math.Min(min[a], v[a])
				max[a] = math.Max(max[a], v[a])
			}
		}
	}
	if len(s.polys) == 0 {
		return [3]float64{}, [3]float64{}
	}
	return min, max
}

// Kernel implements kernel.Kernel on boundary meshes.
type Kernel struct{}

// New returns a new brep Kernel.
func New() *Kernel {
	return &Kernel{}
}

func unwrap(s kernel.Solid) *brepSolid {
	return s.(*brepSolid)
}

// FromMesh ingests an existing triangle mesh as a solid. Degenerate
// triangles are skipped; an error is returned if nothing remains.
func (k *Kernel) FromMesh(m *mesh.Mesh) (kernel.Solid, error) {
	var polys []bspPolygon
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		if p, ok := newPolygon([]mgl64.Vec3{a, b, c}); ok {
			polys = append(polys, p)
		}
	}
	if len(polys) == 0 {
		return nil, fmt.Errorf("brep: mesh has no usable triangles")
	}
	return &brepSolid{polys: polys}, nil
}

// ToMesh triangulates the boundary polygons into an indexed mesh with
// shared vertices and freshly computed normals.
func (k *Kernel) ToMesh(s kernel.Solid) (*mesh.Mesh, error) {
	bs := unwrap(s)
	out := mesh.New()
	for _, p := range bs.polys {
		// Fan triangulation; BSP clipping only produces convex faces.
		for i := 2; i < len(p.verts); i++ {
			i0 := out.AddVertex(p.verts[0])
			i1 := out.AddVertex(p.verts[i-1])
			i2 := out.AddVertex(p.verts[i])
			out.AddTriangle(i0, i1, i2)
		}
	}
	if out.IsEmpty() {
		return nil, fmt.Errorf("brep: solid has no boundary")
	}
	out = mesh.WeldVertices(out, outputWeld)
	mesh.RecomputeNormals(out)
	return out, nil
}

// Box creates a box with the given dimensions, minimum corner at the
// origin as in the other backends.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	min := mgl64.Vec3{0, 0, 0}
	max := mgl64.Vec3{x, y, z}
	v := func(ix, iy, iz int) mgl64.Vec3 {
		p := min
		if ix == 1 {
			p[0] = max[0]
		}
		if iy == 1 {
			p[1] = max[1]
		}
		if iz == 1 {
			p[2] = max[2]
		}
		return p
	}
	quads := [][4]mgl64.Vec3{
		{v(0, 0, 0), v(0, 0, 1), v(0, 1, 1), v(0, 1, 0)}, // -x
		{v(1, 0, 0), v(1, 1, 0), v(1, 1, 1), v(1, 0, 1)}, // +x
		{v(0, 0, 0), v(1, 0, 0), v(1, 0, 1), v(0, 0, 1)}, // -y
		{v(0, 1, 0), v(0, 1, 1), v(1, 1, 1), v(1, 1, 0)}, // +y
		{v(0, 0, 0), v(0, 1, 0), v(1, 1, 0), v(1, 0, 0)}, // -z
		{v(0, 0, 1), v(1, 0, 1), v(1, 1, 1), v(0, 1, 1)}, // +z
	}
	var polys []bspPolygon
	for _, q := range quads {
		if p, ok := newPolygon([]mgl64.Vec3{q[0], q[1], q[2], q[3]}); ok {
			polys = append(polys, p)
		}
	}
	return &brepSolid{polys: polys}
}

// Cylinder creates a cylinder along +Y with its base at y=0, centered
// in the XZ plane.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if segments <= 2 {
		segments = defaultSegments
	}
	ring := make([][2]float64, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		ring[i] = [2]float64{radius * math.Cos(a), radius * math.Sin(a)}
	}
	s, err := k.Extrude(ring, nil, height)
	if err != nil {
		panic(fmt.Sprintf("brep.Cylinder: %v", err))
	}
	return s
}

// Extrude sweeps a 2D profile along +Y from y=0 to y=height. The outer
// ring is normalized to counter-clockwise winding and holes to
// clockwise, caps are tessellated with libtess2 (odd winding rule, so
// hole rings need no bridging), and side walls are emitted per edge
// with outward orientation.
func (k *Kernel) Extrude(ring [][2]float64, holes [][][2]float64, height float64) (kernel.Solid, error) {
	if len(ring) < 3 {
		return nil, fmt.Errorf("brep: extrude profile needs at least 3 vertices, got %d", len(ring))
	}
	if height <= 0 {
		return nil, fmt.Errorf("brep: extrude height must be positive, got %v", height)
	}

	outer := normalizeWinding(dedupRing(ring), true)
	if len(outer) < 3 {
		return nil, fmt.Errorf("brep: extrude profile is degenerate")
	}
	hs := make([][][2]float64, 0, len(holes))
	for _, h := range holes {
		h = normalizeWinding(dedupRing(h), false)
		if len(h) >= 3 {
			hs = append(hs, h)
		}
	}

	capTris, err := tessellateCaps(outer, hs)
	if err != nil {
		return nil, err
	}

	var polys []bspPolygon
	addPoly := func(verts ...mgl64.Vec3) {
		if p, ok := newPolygon(verts); ok {
			polys = append(polys, p)
		}
	}

	at := func(p [2]float64, y float64) mgl64.Vec3 {
		return mgl64.Vec3{p[0], y, p[1]}
	}

	// Caps. A triangle wound counter-clockwise in (x, z) has a -Y
	// normal in 3D, so the bottom cap takes CCW triangles and the top
	// cap the reverse.
	for _, tri := range capTris {
		addPoly(at(tri[0], 0), at(tri[1], 0), at(tri[2], 0))
		addPoly(at(tri[2], height), at(tri[1], height), at(tri[0], height))
	}

	// Side walls, outward-facing given the normalized windings.
	walls := func(r [][2]float64) {
		n := len(r)
		for i := 0; i < n; i++ {
			a, b := r[i], r[(i+1)%n]
			addPoly(at(a, 0), at(a, height), at(b, height), at(b, 0))
		}
	}
	walls(outer)
	for _, h := range hs {
		walls(h)
	}

	if len(polys) == 0 {
		return nil, fmt.Errorf("brep: extrusion produced no faces")
	}
	return &brepSolid{polys: polys}, nil
}

// tessellateCaps triangulates the profile with libtess2 and snaps the
// result back onto the input vertices, returning CCW (x, z) triangles.
func tessellateCaps(outer [][2]float64, holes [][][2]float64) ([][3][2]float64, error) {
	toContour := func(r [][2]float64) libtess2.Contour {
		c := make(libtess2.Contour, len(r))
		for i, p := range r {
			c[i] = libtess2.Vertex{X: float32(p[0]), Y: float32(p[1])}
		}
		return c
	}
	contours := []libtess2.Contour{toContour(outer)}
	for _, h := range holes {
		contours = append(contours, toContour(h))
	}

	elements, verts, err := libtess2.Tesselate(contours, libtess2.WindingRuleOdd)
	if err != nil {
		return nil, fmt.Errorf("brep: cap tessellation: %w", err)
	}

	// Tessellation runs in float32; snap output vertices back to the
	// exact input coordinates so cap and wall vertices weld cleanly.
	snap := newVertexSnapper(outer, holes)
	pts := make([][2]float64, len(verts))
	for i, v := range verts {
		pts[i] = snap.lookup(float64(v.X), float64(v.Y))
	}

	var tris [][3][2]float64
	for i := 0; i+2 < len(elements); i += 3 {
		tri := [3][2]float64{pts[elements[i]], pts[elements[i+1]], pts[elements[i+2]]}
		if triArea2(tri) < 0 {
			tri[1], tri[2] = tri[2], tri[1]
		}
		if triArea2(tri) == 0 {
			continue
		}
		tris = append(tris, tri)
	}
	return tris, nil
}

// vertexSnapper maps tessellator float32 output back to exact profile
// coordinates.
type vertexSnapper struct {
	exact [][2]float64
	tol   float64
}

func newVertexSnapper(outer [][2]float64, holes [][][2]float64) *vertexSnapper {
	s := &vertexSnapper{}
	extent := 1.0
	add := func(r [][2]float64) {
		for _, p := range r {
			s.exact = append(s.exact, p)
			extent = math.Max(extent, math.Max(math.Abs(p[0]), math.Abs(p[1])))
		}
	}
	add(outer)
	for _, h := range holes {
		add(h)
	}
	// float32 round-trip error grows with coordinate magnitude.
	s.tol = extent * 1e-6
	return s
}

func (s *vertexSnapper) lookup(x, y float64) [2]float64 {
	for _, p := range s.exact {
		if math.Abs(p[0]-x) <= s.tol && math.Abs(p[1]-y) <= s.tol {
			return p
		}
	}
	return [2]float64{x, y}
}

func triArea2(t [3][2]float64) float64 {
	return (t[1][0]-t[0][0])*(t[2][1]-t[0][1]) - (t[2][0]-t[0][0])*(t[1][1]-t[0][1])
}

// dedupRing strips consecutive duplicate vertices and a repeated
// closing vertex.
func dedupRing(r [][2]float64) [][2]float64 {
	out := make([][2]float64, 0, len(r))
	for _, p := range r {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// normalizeWinding forces counter-clockwise (ccw=true) or clockwise
// winding in the (x, z) plane.
func normalizeWinding(r [][2]float64, ccw bool) [][2]float64 {
	var area float64
	j := len(r) - 1
	for i := 0; i < len(r); i++ {
		area += r[j][0]*r[i][1] - r[i][0]*r[j][1]
		j = i
	}
	if (area > 0) == ccw {
		return r
	}
	out := make([][2]float64, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	na := newBSPNode(clonePolys(unwrap(a).polys))
	nb := newBSPNode(clonePolys(unwrap(b).polys))
	return &brepSolid{polys: csgUnion(na, nb)}
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	na := newBSPNode(clonePolys(unwrap(a).polys))
	nb := newBSPNode(clonePolys(unwrap(b).polys))
	return &brepSolid{polys: csgDifference(na, nb)}
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	na := newBSPNode(clonePolys(unwrap(a).polys))
	nb := newBSPNode(clonePolys(unwrap(b).polys))
	return &brepSolid{polys: csgIntersection(na, nb)}
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	d := mgl64.Vec3{x, y, z}
	out := make([]bspPolygon, 0, len(unwrap(s).polys))
	for _, p := range unwrap(s).polys {
		verts := make([]mgl64.Vec3, len(p.verts))
		for i, v := range p.verts {
			verts[i] = v.Add(d)
		}
		if np, ok := newPolygon(verts); ok {
			out = append(out, np)
		}
	}
	return &brepSolid{polys: out}
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes,
// applied in X, Y, Z order as in the sdfx backend.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := mgl64.HomogRotate3DZ(mgl64.DegToRad(z)).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(y))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(x)))
	out := make([]bspPolygon, 0, len(unwrap(s).polys))
	for _, p := range unwrap(s).polys {
		verts := make([]mgl64.Vec3, len(p.verts))
		for i, v := range p.verts {
			verts[i] = m.Mul4x1(v.Vec4(1)).Vec3()
		}
		if np, ok := newPolygon(verts); ok {
			out = append(out, np)
		}
	}
	return &brepSolid{polys: out}
}

// clonePolys deep-copies polygons so BSP construction cannot alias the
// source solid's boundary.
func clonePolys(polys []bspPolygon) []bspPolygon {
	out := make([]bspPolygon, len(polys))
	for i, p := range polys {
		out[i] = bspPolygon{
			verts: append([]mgl64.Vec3(nil), p.verts...),
			plane: p.plane,
		}
	}
	return out
}
