package plane

import "github.com/go-gl/mathgl/mgl64"

// pickPlaneTolerance bounds how far off a region's plane a world point
// may sit and still be considered for containment.
const pickPlaneTolerance = 1e-3

// Pick returns the region under a world point. When several regions
// contain the point (auto-splitting leaves nested or overlapping
// regions behind), the smallest-area one wins: it is the most specific
// and avoids resurrecting a deprecated parent region. When none
// contains the point, the region with the nearest 2D centroid is
// returned, so a pick on a seam or slightly outside a rim still
// resolves. Returns nil only for an empty region set.
func Pick(regions []*Region, world mgl64.Vec3) *Region {
	var best *Region
	bestArea := 0.0
	for _, r := range regions {
		if !r.ContainsWorld(world, pickPlaneTolerance) {
			continue
		}
		if a := r.Area(); best == nil || a < bestArea {
			best, bestArea = r, a
		}
	}
	if best != nil {
		return best
	}

	var nearest *Region
	nearestDist := 0.0
	for _, r := range regions {
		a := r.Basis.ToAligned(world)
		d := mgl64.Vec2{a.X(), a.Z()}.Sub(r.Centroid).Len()
		if nearest == nil || d < nearestDist {
			nearest, nearestDist = r, d
		}
	}
	return nearest
}
