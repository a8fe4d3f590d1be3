//go:build manifold

package manifold

import (
	"math"
	"testing"

	"github.com/facet3d/facet/pkg/kernel"
)

func mustNew(t *testing.T) kernel.MeshKernel {
	t.Helper()
	k, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return k
}

func TestBox(t *testing.T) {
	k := mustNew(t)
	s := k.Box(10, 20, 30)
	if s == nil {
		t.Fatal("Box() returned nil")
	}
	min, max := s.BoundingBox()

	// Min corner at the origin.
	wantMin := [3]float64{0, 0, 0}
	wantMax := [3]float64{10, 20, 30}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > 1e-6 {
			t.Errorf("Box min[%d] = %f, want %f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > 1e-6 {
			t.Errorf("Box max[%d] = %f, want %f", i, max[i], wantMax[i])
		}
	}
}

func TestCylinder(t *testing.T) {
	k := mustNew(t)
	s := k.Cylinder(20, 5, 32)
	if s == nil {
		t.Fatal("Cylinder() returned nil")
	}
	min, max := s.BoundingBox()

	// Base at y=0, height 20 along +Y.
	if math.Abs(min[1]) > 1e-6 {
		t.Errorf("Cylinder min Y = %f, want 0", min[1])
	}
	if math.Abs(max[1]-20) > 1e-6 {
		t.Errorf("Cylinder max Y = %f, want 20", max[1])
	}

	// X/Z bounds within the radius (polygon inscribed in circle).
	for _, i := range []int{0, 2} {
		if min[i] > -4.5 {
			t.Errorf("Cylinder min[%d] = %f, want <= -4.5", i, min[i])
		}
		if max[i] < 4.5 {
			t.Errorf("Cylinder max[%d] = %f, want >= 4.5", i, max[i])
		}
	}
}

func TestExtrude(t *testing.T) {
	k := mustNew(t)
	ring := [][2]float64{{0, 0}, {4, 0}, {4, 3}, {0, 3}}
	s, err := k.Extrude(ring, nil, 2)
	if err != nil {
		t.Fatalf("Extrude() error = %v", err)
	}
	min, max := s.BoundingBox()
	wantMin := [3]float64{0, 0, 0}
	wantMax := [3]float64{4, 2, 3}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > 1e-6 {
			t.Errorf("Extrude min[%d] = %f, want %f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > 1e-6 {
			t.Errorf("Extrude max[%d] = %f, want %f", i, max[i], wantMax[i])
		}
	}
}

func TestDifference(t *testing.T) {
	k := mustNew(t)
	box := k.Box(10, 10, 10)
	hole := k.Translate(k.Cylinder(20, 3, 32), 5, -5, 5)
	result := k.Difference(box, hole)
	if result == nil {
		t.Fatal("Difference() returned nil")
	}

	// The hole is inside the box footprint, so the bounds are unchanged.
	min, max := result.BoundingBox()
	wantMin := [3]float64{0, 0, 0}
	wantMax := [3]float64{10, 10, 10}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > 1e-6 {
			t.Errorf("Difference min[%d] = %f, want %f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > 1e-6 {
			t.Errorf("Difference max[%d] = %f, want %f", i, max[i], wantMax[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	k := mustNew(t)
	box := k.Box(10, 10, 10)
	moved := k.Translate(box, 100, 200, 300)
	if moved == nil {
		t.Fatal("Translate() returned nil")
	}

	min, max := moved.BoundingBox()
	wantMin := [3]float64{100, 200, 300}
	wantMax := [3]float64{110, 210, 310}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > 1e-6 {
			t.Errorf("Translate min[%d] = %f, want %f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > 1e-6 {
			t.Errorf("Translate max[%d] = %f, want %f", i, max[i], wantMax[i])
		}
	}
}

func TestMeshRoundTrip(t *testing.T) {
	k := mustNew(t)
	box := k.Box(10, 10, 10)
	m, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("ToMesh() returned empty mesh for a box")
	}
	if m.TriangleCount() < 12 {
		t.Errorf("ToMesh() triangle count = %d, want >= 12", m.TriangleCount())
	}
	if len(m.Normals) != len(m.Positions) {
		t.Errorf("ToMesh() normals length = %d, positions length = %d, want equal",
			len(m.Normals), len(m.Positions))
	}

	s, err := k.FromMesh(m)
	if err != nil {
		t.Fatalf("FromMesh() error = %v", err)
	}
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]) > 1e-5 || math.Abs(max[i]-10) > 1e-5 {
			t.Errorf("round-trip bounds axis %d = [%f, %f], want [0, 10]", i, min[i], max[i])
		}
	}
}
