package editor

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/solid"
)

// probeOffset keeps the probe ray origin off the surface it starts on,
// so the first intersection found is a genuine exit rather than the
// entry face re-detected.
const probeOffset = 1e-4

// probeThickness estimates the local wall thickness under a face pick
// by casting from the hit point along the negated face normal (into the
// material) and, failing that, along the normal itself. The exit-hit
// distance bounds how far an inward push may travel before it should be
// treated as all the way through.
func probeThickness(target *solid.Solid, hitPoint, hitNormal mgl64.Vec3) (float64, bool) {
	world := target.WorldMesh(target.FullMesh())
	if world.IsEmpty() {
		return 0, false
	}

	for _, dir := range []mgl64.Vec3{hitNormal.Mul(-1), hitNormal} {
		origin := hitPoint.Add(dir.Mul(probeOffset))
		if h, ok := mesh.RaycastNearest(world, origin, dir, 0); ok {
			return h.Distance + probeOffset, true
		}
	}
	return 0, false
}
