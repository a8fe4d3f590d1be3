package solid

import "math"

// profileSegments is the circle tessellation used when a circular
// profile is regenerated as a polygon ring.
const profileSegments = 48

// Profile is the closed variant of 2D shapes a simple parametric solid
// can regenerate itself from. Carrying the variant explicitly on the
// solid removes any string-based kind inference.
type Profile interface {
	profile() // marker method restricting implementations to this package

	// Ring returns the profile outline as (x, z) coordinates centered
	// on the profile origin.
	Ring() [][2]float64
}

// Rect is a rectangular profile, width along x and length along z.
type Rect struct {
	W, L float64
}

func (Rect) profile() {}

// Ring returns the rectangle corners counter-clockwise.
func (r Rect) Ring() [][2]float64 {
	hw, hl := r.W/2, r.L/2
	return [][2]float64{{-hw, -hl}, {hw, -hl}, {hw, hl}, {-hw, hl}}
}

// Circle is a circular profile.
type Circle struct {
	R float64
}

func (Circle) profile() {}

// Ring returns a polygonal approximation of the circle.
func (c Circle) Ring() [][2]float64 {
	ring := make([][2]float64, profileSegments)
	for i := 0; i < profileSegments; i++ {
		a := 2 * math.Pi * float64(i) / float64(profileSegments)
		ring[i] = [2]float64{c.R * math.Cos(a), c.R * math.Sin(a)}
	}
	return ring
}

// Polygon is a free-form profile drawn by the user.
type Polygon struct {
	Verts [][2]float64
}

func (Polygon) profile() {}

// Ring returns the polygon vertices as drawn.
func (p Polygon) Ring() [][2]float64 {
	return p.Verts
}
