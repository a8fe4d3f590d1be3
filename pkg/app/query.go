package app

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/editor"
	"github.com/facet3d/facet/pkg/mesh"
)

// Compile-time check that App is a usable scene query.
var _ editor.SceneQuery = (*App)(nil)

// Pick resolves the nearest editable hit along a world-space ray across
// every solid in the scene. Helper nodes (groups, transforms) carry no
// geometry and are skipped by construction.
func (a *App) Pick(origin, dir mgl64.Vec3) (editor.Hit, bool) {
	var best editor.Hit
	bestDist := 0.0
	found := false

	for _, n := range a.scene.Solids() {
		sol := n.Solid
		world := sol.WorldMesh(sol.Mesh())
		h, ok := mesh.RaycastNearest(world, origin, dir, 0)
		if !ok {
			continue
		}
		if !found || h.Distance < bestDist {
			found = true
			bestDist = h.Distance
			best = editor.Hit{
				Solid:    sol,
				Point:    h.Point,
				Normal:   h.Normal,
				Triangle: h.Triangle,
			}
		}
	}
	return best, found
}

// PointerDown routes a ray pick into the edit controller, starting a
// session on the nearest hit.
func (a *App) PointerDown(origin, dir mgl64.Vec3) error {
	hit, ok := a.Pick(origin, dir)
	if !ok {
		return editor.ErrInvalidPick
	}
	if err := a.ctrl.PointerDown(hit); err != nil {
		return err
	}
	a.scene.Touch()
	return nil
}
