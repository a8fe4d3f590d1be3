package mesh

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// coincidentHitEps merges hits that land on a shared edge or vertex.
const coincidentHitEps = 1e-9

// Hit records one ray/triangle intersection.
type Hit struct {
	Distance float64    // along the ray direction, >= 0
	Point    mgl64.Vec3 // intersection point
	Triangle int        // triangle index
	Normal   mgl64.Vec3 // face normal of the hit triangle
}

// Raycast returns every intersection of the ray with the mesh, sorted
// near to far. Direction need not be normalized; distances are reported
// in units of its length. Back faces are reported too, since thickness
// probing needs exit hits. A ray through a shared edge or vertex is
// intersected by every incident triangle; such coincident hits collapse
// to the nearest one so surface crossings are counted once.
func Raycast(m *Mesh, origin, dir mgl64.Vec3) []Hit {
	var hits []Hit
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		if d, p, ok := rayTriangle(origin, dir, a, b, c); ok {
			hits = append(hits, Hit{Distance: d, Point: p, Triangle: t, Normal: m.FaceNormal(t)})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })

	out := hits[:0]
	for _, h := range hits {
		if n := len(out); n > 0 {
			prev := out[n-1]
			if math.Abs(h.Distance-prev.Distance) <= coincidentHitEps &&
				h.Point.Sub(prev.Point).Len() <= coincidentHitEps {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

// RaycastNearest returns the closest hit at distance >= minDist, or
// false when the ray misses.
func RaycastNearest(m *Mesh, origin, dir mgl64.Vec3, minDist float64) (Hit, bool) {
	for _, h := range Raycast(m, origin, dir) {
		if h.Distance >= minDist {
			return h, true
		}
	}
	return Hit{}, false
}

// rayTriangle is the Moller-Trumbore intersection test. It reports hits
// on both faces and rejects rays parallel to the triangle plane.
func rayTriangle(origin, dir, a, b, c mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	const eps = 1e-12

	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -eps && det < eps {
		return 0, mgl64.Vec3{}, false
	}
	inv := 1 / det
	s := origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, mgl64.Vec3{}, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, mgl64.Vec3{}, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, mgl64.Vec3{}, false
	}
	return t, origin.Add(dir.Mul(t)), true
}
