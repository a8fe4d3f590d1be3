package csg

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/kernel/brep"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/solid"
)

func boxSolid(t *testing.T, x, y, z float64) *solid.Solid {
	t.Helper()
	k := brep.New()
	m, err := k.ToMesh(k.Box(x, y, z))
	if err != nil {
		t.Fatal(err)
	}
	return solid.New("target", m)
}

func boxCutter(t *testing.T, min, size mgl64.Vec3) *mesh.Mesh {
	t.Helper()
	k := brep.New()
	m, err := k.ToMesh(k.Translate(k.Box(size.X(), size.Y(), size.Z()), min.X(), min.Y(), min.Z()))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestEvaluateSubtract(t *testing.T) {
	e := NewEvaluator(brep.New())
	target := boxSolid(t, 4, 4, 4)
	// Square shaft through the middle of the top face.
	cutter := boxCutter(t, mgl64.Vec3{1, 2, 1}, mgl64.Vec3{2, 3, 2})

	before := mesh.Volume(target.Mesh())
	got, err := e.Evaluate(target, cutter, -2, nil)
	if err != nil {
		t.Fatal(err)
	}
	removed := before - mesh.Volume(got)
	if math.Abs(removed-8) > 0.1 {
		t.Errorf("removed volume = %v, want 8", removed)
	}
	// Evaluate never mutates the target.
	if mesh.Volume(target.Mesh()) != before {
		t.Error("target mesh changed")
	}
}

func TestEvaluateUnion(t *testing.T) {
	e := NewEvaluator(brep.New())
	target := boxSolid(t, 4, 4, 4)
	cutter := boxCutter(t, mgl64.Vec3{1, 3, 1}, mgl64.Vec3{2, 3, 2})

	got, err := e.Evaluate(target, cutter, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	added := mesh.Volume(got) - mesh.Volume(target.Mesh())
	// Cutter overlaps the target for 1 unit of its height, so 2x2x2
	// of new material appears above the top face.
	if math.Abs(added-8) > 0.1 {
		t.Errorf("added volume = %v, want 8", added)
	}
}

func TestEvaluateLocalSpaceResult(t *testing.T) {
	// The target sits away from the origin; the result must come back
	// in its local frame.
	e := NewEvaluator(brep.New())
	target := boxSolid(t, 4, 4, 4)
	target.Position = mgl64.Vec3{100, 0, 0}
	cutter := boxCutter(t, mgl64.Vec3{101, 2, 1}, mgl64.Vec3{2, 3, 2})

	got, err := e.Evaluate(target, cutter, -2, nil)
	if err != nil {
		t.Fatal(err)
	}
	b := mesh.ComputeBounds(got)
	if b.Min.X() < -0.01 || b.Max.X() > 4.01 {
		t.Errorf("result x range [%v, %v], want local [0, 4]", b.Min.X(), b.Max.X())
	}
}

func TestEvaluateUsesBaseOverDisplayed(t *testing.T) {
	// When a base mesh is supplied it is the operand, not the
	// displayed mesh.
	e := NewEvaluator(brep.New())
	target := boxSolid(t, 2, 2, 2)
	k := brep.New()
	bigger, err := k.ToMesh(k.Box(4, 4, 4))
	if err != nil {
		t.Fatal(err)
	}
	cutter := boxCutter(t, mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1.5, 6, 6})

	got, err := e.Evaluate(target, cutter, -1, bigger)
	if err != nil {
		t.Fatal(err)
	}
	// 4x4x4 minus a 0.5-deep slab across x=[0, 0.5].
	if v := mesh.Volume(got); math.Abs(v-(64-8)) > 0.1 {
		t.Errorf("volume = %v, want 56", v)
	}
}

func TestEvaluateEmptyOperands(t *testing.T) {
	e := NewEvaluator(brep.New())
	target := solid.New("t", mesh.New())
	cutter := boxCutter(t, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})

	if _, err := e.Evaluate(target, cutter, -1, nil); !errors.Is(err, ErrDegenerate) {
		t.Errorf("empty target error = %v, want ErrDegenerate", err)
	}

	target = boxSolid(t, 1, 1, 1)
	if _, err := e.Evaluate(target, mesh.New(), -1, nil); !errors.Is(err, ErrDegenerate) {
		t.Errorf("empty cutter error = %v, want ErrDegenerate", err)
	}
}

func TestEvaluateFullCutDegenerate(t *testing.T) {
	// A cutter that swallows the whole target leaves nothing behind.
	e := NewEvaluator(brep.New())
	target := boxSolid(t, 2, 2, 2)
	cutter := boxCutter(t, mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{4, 4, 4})

	if _, err := e.Evaluate(target, cutter, -3, nil); !errors.Is(err, ErrDegenerate) {
		t.Errorf("full cut error = %v, want ErrDegenerate", err)
	}
}

func TestResultWeldTolerance(t *testing.T) {
	k := brep.New()
	small, err := k.ToMesh(k.Box(0.01, 0.01, 0.01))
	if err != nil {
		t.Fatal(err)
	}
	if tol := resultWeldTolerance(small); tol != weldFloor {
		t.Errorf("small-model tolerance = %v, want floor %v", tol, weldFloor)
	}

	huge, err := k.ToMesh(k.Translate(k.Box(1, 1, 1), 1e6, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if tol := resultWeldTolerance(huge); tol <= weldFloor || tol > weldCap {
		t.Errorf("far-from-origin tolerance = %v, want in (%v, %v]", tol, weldFloor, weldCap)
	}
}
