package mesh

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// unitTetra returns a small closed tetrahedron.
func unitTetra() *Mesh {
	m := New()
	a := m.AddVertex(mgl64.Vec3{0, 0, 0})
	b := m.AddVertex(mgl64.Vec3{1, 0, 0})
	c := m.AddVertex(mgl64.Vec3{0, 1, 0})
	d := m.AddVertex(mgl64.Vec3{0, 0, 1})
	m.AddTriangle(a, c, b)
	m.AddTriangle(a, b, d)
	m.AddTriangle(a, d, c)
	m.AddTriangle(b, c, d)
	return m
}

// quadXZ returns two triangles spanning the unit square in the y=0
// plane with +Y facing normals.
func quadXZ() *Mesh {
	m := New()
	a := m.AddVertex(mgl64.Vec3{0, 0, 0})
	b := m.AddVertex(mgl64.Vec3{1, 0, 0})
	c := m.AddVertex(mgl64.Vec3{1, 0, 1})
	d := m.AddVertex(mgl64.Vec3{0, 0, 1})
	m.AddTriangle(a, c, b)
	m.AddTriangle(a, d, c)
	return m
}

func TestCounts(t *testing.T) {
	m := unitTetra()
	if got := m.VertexCount(); got != 4 {
		t.Errorf("VertexCount() = %d, want 4", got)
	}
	if got := m.TriangleCount(); got != 4 {
		t.Errorf("TriangleCount() = %d, want 4", got)
	}
	if m.IsEmpty() {
		t.Error("IsEmpty() = true for tetra, want false")
	}
	if !New().IsEmpty() {
		t.Error("IsEmpty() = false for fresh mesh, want true")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := unitTetra()
	c := m.Clone()
	if !m.Equal(c) {
		t.Fatal("clone differs from original")
	}
	c.SetPosition(0, mgl64.Vec3{9, 9, 9})
	if m.Equal(c) {
		t.Error("mutating clone changed the original")
	}
}

func TestTransformTranslate(t *testing.T) {
	m := unitTetra()
	m.Translate(mgl64.Vec3{10, 20, 30})
	got := m.Position(0)
	want := mgl64.Vec3{10, 20, 30}
	if !got.ApproxEqualThreshold(want, 1e-12) {
		t.Errorf("Position(0) after translate = %v, want %v", got, want)
	}
}

func TestTransformRotation(t *testing.T) {
	m := New()
	m.AddVertex(mgl64.Vec3{1, 0, 0})
	m.Transform(mgl64.HomogRotate3DZ(math.Pi / 2))
	got := m.Position(0)
	want := mgl64.Vec3{0, 1, 0}
	if got.Sub(want).Len() > 1e-12 {
		t.Errorf("rotated position = %v, want %v", got, want)
	}
}

func TestWeldVertices(t *testing.T) {
	m := New()
	// Two triangles sharing an edge but with duplicated vertices.
	a1 := m.AddVertex(mgl64.Vec3{0, 0, 0})
	b1 := m.AddVertex(mgl64.Vec3{1, 0, 0})
	c1 := m.AddVertex(mgl64.Vec3{0, 1, 0})
	m.AddTriangle(a1, b1, c1)
	b2 := m.AddVertex(mgl64.Vec3{1, 1e-7, 0})
	c2 := m.AddVertex(mgl64.Vec3{0, 1 + 1e-7, 0})
	d := m.AddVertex(mgl64.Vec3{1, 1, 0})
	m.AddTriangle(b2, d, c2)

	welded := WeldVertices(m, 1e-5)
	if got := welded.VertexCount(); got != 4 {
		t.Errorf("welded vertex count = %d, want 4", got)
	}
	if got := welded.TriangleCount(); got != 2 {
		t.Errorf("welded triangle count = %d, want 2", got)
	}
}

func TestWeldVerticesIdempotent(t *testing.T) {
	m := unitTetra()
	once := WeldVertices(m, 1e-5)
	twice := WeldVertices(once, 1e-5)
	if !once.Equal(twice) {
		t.Error("welding twice at the same tolerance changed the mesh")
	}
}

func TestRemoveDegenerateTriangles(t *testing.T) {
	m := unitTetra()
	// A sliver: two coincident corners.
	a := m.AddVertex(mgl64.Vec3{5, 5, 5})
	b := m.AddVertex(mgl64.Vec3{5, 5, 5})
	c := m.AddVertex(mgl64.Vec3{6, 5, 5})
	m.AddTriangle(a, b, c)

	cleaned := RemoveDegenerateTriangles(m)
	if got := cleaned.TriangleCount(); got != 4 {
		t.Errorf("cleaned triangle count = %d, want 4", got)
	}
}

func TestRecomputeNormals(t *testing.T) {
	m := quadXZ()
	RecomputeNormals(m)
	if len(m.Normals) != len(m.Positions) {
		t.Fatalf("normals length = %d, want %d", len(m.Normals), len(m.Positions))
	}
	for i := 0; i < m.VertexCount(); i++ {
		n := mgl64.Vec3{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
		if !n.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-9) {
			t.Errorf("normal[%d] = %v, want +Y", i, n)
		}
	}
}

func TestVolumeTetra(t *testing.T) {
	// Tetra (0,0,0),(1,0,0),(0,1,0),(0,0,1) has volume 1/6.
	got := math.Abs(Volume(unitTetra()))
	if math.Abs(got-1.0/6.0) > 1e-12 {
		t.Errorf("Volume = %v, want 1/6", got)
	}
}

func TestComputeBounds(t *testing.T) {
	b := ComputeBounds(unitTetra())
	if !b.Min.ApproxEqualThreshold(mgl64.Vec3{0, 0, 0}, 1e-12) {
		t.Errorf("Bounds.Min = %v, want origin", b.Min)
	}
	if !b.Max.ApproxEqualThreshold(mgl64.Vec3{1, 1, 1}, 1e-12) {
		t.Errorf("Bounds.Max = %v, want (1,1,1)", b.Max)
	}
	if d := BoundingDiagonal(unitTetra()); math.Abs(d-math.Sqrt(3)) > 1e-12 {
		t.Errorf("BoundingDiagonal = %v, want sqrt(3)", d)
	}
}

func TestRaycast(t *testing.T) {
	m := quadXZ()
	RecomputeNormals(m)

	hits := Raycast(m, mgl64.Vec3{0.5, 2, 0.5}, mgl64.Vec3{0, -1, 0})
	if len(hits) != 1 {
		t.Fatalf("Raycast hit count = %d, want 1", len(hits))
	}
	h := hits[0]
	if math.Abs(h.Distance-2) > 1e-9 {
		t.Errorf("hit distance = %v, want 2", h.Distance)
	}
	if !h.Point.ApproxEqualThreshold(mgl64.Vec3{0.5, 0, 0.5}, 1e-9) {
		t.Errorf("hit point = %v, want (0.5,0,0.5)", h.Point)
	}
}

func TestRaycastSeamCountsOnce(t *testing.T) {
	m := quadXZ()
	RecomputeNormals(m)

	// The quad's shared diagonal runs (0,0,0) to (1,0,1); both triangles
	// intersect a ray through it, but one surface crossing must report
	// one hit.
	hits := Raycast(m, mgl64.Vec3{0.25, 3, 0.25}, mgl64.Vec3{0, -1, 0})
	if len(hits) != 1 {
		t.Fatalf("seam hit count = %d, want 1", len(hits))
	}
	if math.Abs(hits[0].Distance-3) > 1e-9 {
		t.Errorf("seam hit distance = %v, want 3", hits[0].Distance)
	}
}

func TestRaycastNearestMinDist(t *testing.T) {
	m := unitTetra()
	RecomputeNormals(m)

	// From inside-out along +X: skip the immediate hit with minDist.
	origin := mgl64.Vec3{-1, 0.2, 0.2}
	h, ok := RaycastNearest(m, origin, mgl64.Vec3{1, 0, 0}, 0)
	if !ok {
		t.Fatal("expected a hit")
	}
	h2, ok := RaycastNearest(m, origin, mgl64.Vec3{1, 0, 0}, h.Distance+1e-9)
	if !ok {
		t.Fatal("expected a second, farther hit")
	}
	if h2.Distance <= h.Distance {
		t.Errorf("second hit distance %v not beyond first %v", h2.Distance, h.Distance)
	}
}

func TestRaycastMiss(t *testing.T) {
	m := quadXZ()
	if hits := Raycast(m, mgl64.Vec3{5, 2, 5}, mgl64.Vec3{0, -1, 0}); len(hits) != 0 {
		t.Errorf("Raycast miss returned %d hits", len(hits))
	}
}

func TestStripCap(t *testing.T) {
	m := quadXZ()
	// A second quad at y=1 facing up.
	a := m.AddVertex(mgl64.Vec3{0, 1, 0})
	b := m.AddVertex(mgl64.Vec3{1, 1, 0})
	c := m.AddVertex(mgl64.Vec3{1, 1, 1})
	d := m.AddVertex(mgl64.Vec3{0, 1, 1})
	m.AddTriangle(a, c, b)
	m.AddTriangle(a, d, c)
	RecomputeNormals(m)

	stripped, removed := StripCap(m, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, 1e-4)
	if removed != 2 {
		t.Fatalf("StripCap removed %d triangles, want 2", removed)
	}
	if got := stripped.TriangleCount(); got != 2 {
		t.Errorf("remaining triangle count = %d, want 2", got)
	}
	// The y=0 quad survives.
	for t2 := 0; t2 < stripped.TriangleCount(); t2++ {
		va, vb, vc := stripped.Triangle(t2)
		for _, v := range []mgl64.Vec3{va, vb, vc} {
			if math.Abs(v.Y()) > 1e-12 {
				t.Errorf("surviving triangle touches y=%v, want y=0", v.Y())
			}
		}
	}
}

func TestDropUnusedVertices(t *testing.T) {
	m := quadXZ()
	m.AddVertex(mgl64.Vec3{9, 9, 9})
	if removed := m.DropUnusedVertices(); removed != 1 {
		t.Errorf("DropUnusedVertices removed %d, want 1", removed)
	}
	if got := m.VertexCount(); got != 4 {
		t.Errorf("compact vertex count = %d, want 4", got)
	}
	if got := m.TriangleCount(); got != 2 {
		t.Errorf("compact triangle count = %d, want 2", got)
	}
}
