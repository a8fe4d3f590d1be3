package shell

import (
	"math"
	"testing"

	"github.com/facet3d/facet/pkg/kernel/brep"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/solid"
)

func TestBuildRectTray(t *testing.T) {
	k := brep.New()
	m, err := Build(k, solid.Rect{W: 100, L: 60}, 40, 3, 3, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	outer := 100.0 * 60.0 * 40.0
	got := mesh.Volume(m)
	if got <= 0 {
		t.Fatalf("volume = %v, want positive", got)
	}
	if got >= outer {
		t.Errorf("shelled volume %v not below outer %v", got, outer)
	}
	// Expected material: outer minus a 94x54 void from y=3 through
	// the top.
	want := outer - 94*54*37
	if math.Abs(got-want)/want > 0.05 {
		t.Errorf("volume = %v, want about %v", got, want)
	}

	b := mesh.ComputeBounds(m)
	if math.Abs(b.Min.X()+50) > 1e-6 || math.Abs(b.Max.X()-50) > 1e-6 {
		t.Errorf("x range [%v, %v], want [-50, 50]", b.Min.X(), b.Max.X())
	}
	if math.Abs(b.Min.Y()) > 1e-6 || math.Abs(b.Max.Y()-40) > 1e-6 {
		t.Errorf("y range [%v, %v], want [0, 40]", b.Min.Y(), b.Max.Y())
	}
}

func TestBuildCircleCup(t *testing.T) {
	k := brep.New()
	m, err := Build(k, solid.Circle{R: 20}, 50, 2, 4, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	got := mesh.Volume(m)
	outer := math.Pi * 400 * 50
	if got <= 0 || got >= outer {
		t.Fatalf("volume = %v, want in (0, %v)", got, outer)
	}
	// Walls plus floor are a small fraction of the outer cylinder.
	if got > outer*0.5 {
		t.Errorf("volume = %v, more than half the outer cylinder", got)
	}
}

func TestBuildWallClampedToExtent(t *testing.T) {
	// A wall thicker than the profile allows still yields a usable
	// shell because the void scale is clamped.
	k := brep.New()
	m, err := Build(k, solid.Rect{W: 10, L: 10}, 20, 8, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := mesh.Volume(m)
	outer := 10.0 * 10.0 * 20.0
	if got <= 0 || got >= outer {
		t.Errorf("volume = %v, want in (0, %v)", got, outer)
	}
}

func TestBuildErrors(t *testing.T) {
	k := brep.New()
	if _, err := Build(k, nil, 40, 3, 3, 0); err == nil {
		t.Error("nil profile did not error")
	}
	if _, err := Build(k, solid.Rect{W: 10, L: 10}, 0, 3, 3, 0); err == nil {
		t.Error("zero depth did not error")
	}
	if _, err := Build(k, solid.Rect{W: 10, L: 10}, 5, 1, 5, 0); err == nil {
		t.Error("floor consuming the whole depth did not error")
	}
}
