package editor

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/plane"
)

// HoverInfo describes the region under the cursor for face
// highlighting. Outline is the region's outer ring lifted back into
// world space, ready to be drawn as a closed polyline.
type HoverInfo struct {
	Key     plane.Key
	Region  *plane.Region
	Outline []mgl64.Vec3
}

// Hover resolves the face region under a pick without starting a
// session. Consecutive hovers over the same region return the cached
// info, so moving the cursor within one face costs nothing. A nil
// return means nothing highlightable is under the cursor.
func (c *Controller) Hover(hit Hit) *HoverInfo {
	if hit.Solid == nil || hit.Normal.Len() == 0 {
		c.hover = nil
		return nil
	}
	regions, key := hit.Solid.RegionsOn(hit.Normal.Normalize(), hit.Point)
	region := plane.Pick(regions, hit.Point)
	if region == nil {
		c.hover = nil
		return nil
	}
	if c.hover != nil && c.hover.Key == key && c.hover.Region.ID == region.ID {
		return c.hover
	}

	outline := make([]mgl64.Vec3, len(region.Ring))
	for i, p := range region.Ring {
		outline[i] = region.Basis.ToWorld(mgl64.Vec3{p.X(), region.Basis.Height, p.Y()})
	}
	c.hover = &HoverInfo{Key: key, Region: region, Outline: outline}
	return c.hover
}
