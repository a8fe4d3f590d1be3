package plane

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the fixed axis plane-aligned frames rotate plane normals onto.
var Up = mgl64.Vec3{0, 1, 0}

// onEdgeTolerance is the distance within which a 2D point counts as
// lying on a polygon edge. Picked points frequently sit exactly on
// split seams, so containment tests are boundary-inclusive.
const onEdgeTolerance = 1e-9

// Basis is the plane-aligned frame a region's 2D coordinates live in:
// a rotation mapping the plane normal to Up, and the height of the
// plane along Up after rotation.
type Basis struct {
	Rotation mgl64.Quat
	Height   float64
}

// ToAligned transforms a world point into the aligned frame.
func (b Basis) ToAligned(p mgl64.Vec3) mgl64.Vec3 {
	return b.Rotation.Rotate(p)
}

// ToWorld transforms an aligned-frame point back to world space.
func (b Basis) ToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return b.Rotation.Inverse().Rotate(p)
}

// UpWorld returns the world-space direction the aligned +Y axis maps
// back to, i.e. the plane normal this basis was built from.
func (b Basis) UpWorld() mgl64.Vec3 {
	return b.Rotation.Inverse().Rotate(Up)
}

// NewBasis builds the aligned frame for a plane through point with the
// given (canonical) normal.
func NewBasis(normal, point mgl64.Vec3) Basis {
	n := normal.Normalize()
	rot := mgl64.QuatBetweenVectors(n, Up)
	return Basis{Rotation: rot, Height: rot.Rotate(point).Y()}
}

// Region is one planar face area: an outer ring plus zero or more hole
// rings, all expressed in the same aligned frame. Coordinates are the
// aligned frame's (X, Z) pair.
type Region struct {
	ID       string
	Ring     []mgl64.Vec2
	Holes    [][]mgl64.Vec2
	Centroid mgl64.Vec2
	Basis    Basis
}

// Area returns the region's area: the outer ring area minus hole areas.
func (r *Region) Area() float64 {
	a := math.Abs(signedArea(r.Ring))
	for _, h := range r.Holes {
		a -= math.Abs(signedArea(h))
	}
	return a
}

// Extent returns the width and depth of the outer ring's 2D bounding
// box.
func (r *Region) Extent() (x, z float64) {
	if len(r.Ring) == 0 {
		return 0, 0
	}
	minX, maxX := r.Ring[0].X(), r.Ring[0].X()
	minZ, maxZ := r.Ring[0].Y(), r.Ring[0].Y()
	for _, p := range r.Ring[1:] {
		minX = math.Min(minX, p.X())
		maxX = math.Max(maxX, p.X())
		minZ = math.Min(minZ, p.Y())
		maxZ = math.Max(maxZ, p.Y())
	}
	return maxX - minX, maxZ - minZ
}

// Contains reports whether the aligned-frame point (x, z) lies inside
// the region: inside or on the outer ring, and not strictly inside any
// hole. Points on a hole's rim still count as inside.
func (r *Region) Contains(x, z float64) bool {
	p := mgl64.Vec2{x, z}
	if !pointInRing(p, r.Ring) {
		return false
	}
	for _, h := range r.Holes {
		if pointInRing(p, h) && !pointOnRing(p, h) {
			return false
		}
	}
	return true
}

// ContainsWorld projects a world point into the region's basis and
// tests containment, requiring the point to lie near the plane itself.
func (r *Region) ContainsWorld(p mgl64.Vec3, planeTolerance float64) bool {
	a := r.Basis.ToAligned(p)
	if math.Abs(a.Y()-r.Basis.Height) > planeTolerance {
		return false
	}
	return r.Contains(a.X(), a.Z())
}

// pointInRing is a boundary-inclusive even-odd containment test.
func pointInRing(p mgl64.Vec2, ring []mgl64.Vec2) bool {
	if len(ring) < 3 {
		return false
	}
	if pointOnRing(p, ring) {
		return true
	}
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		a, b := ring[i], ring[j]
		if (a.Y() > p.Y()) != (b.Y() > p.Y()) {
			x := a.X() + (p.Y()-a.Y())/(b.Y()-a.Y())*(b.X()-a.X())
			if p.X() < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// pointOnRing reports whether p lies on any edge of the ring.
func pointOnRing(p mgl64.Vec2, ring []mgl64.Vec2) bool {
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		if distToSegment(p, ring[j], ring[i]) <= onEdgeTolerance {
			return true
		}
		j = i
	}
	return false
}

func distToSegment(p, a, b mgl64.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Sub(a.Add(ab.Mul(t))).Len()
}

// signedArea returns the shoelace area of a ring; positive for
// counter-clockwise winding in the (X, Z) plane.
func signedArea(ring []mgl64.Vec2) float64 {
	var a float64
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		a += ring[j].X()*ring[i].Y() - ring[i].X()*ring[j].Y()
		j = i
	}
	return a / 2
}

// ringCentroid returns the area centroid of a ring, falling back to the
// vertex average for near-zero areas.
func ringCentroid(ring []mgl64.Vec2) mgl64.Vec2 {
	var cx, cy, a float64
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		cross := ring[j].X()*ring[i].Y() - ring[i].X()*ring[j].Y()
		cx += (ring[j].X() + ring[i].X()) * cross
		cy += (ring[j].Y() + ring[i].Y()) * cross
		a += cross
		j = i
	}
	if math.Abs(a) < 1e-12 {
		var s mgl64.Vec2
		for _, p := range ring {
			s = s.Add(p)
		}
		return s.Mul(1 / float64(len(ring)))
	}
	return mgl64.Vec2{cx / (3 * a), cy / (3 * a)}
}
