package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// StripCap removes every triangle lying in the plane through point with
// the given normal: all three vertices within tolerance of the plane and
// the face normal parallel to it. Used to open a void after a through
// cut, where the boolean result leaves a membrane coincident with the
// exit surface. Returns the stripped mesh and the number of triangles
// removed; callers treat a result stripped to nothing as a tolerance
// failure and keep the input instead.
func StripCap(m *Mesh, point, normal mgl64.Vec3, tolerance float64) (*Mesh, int) {
	n := normal.Normalize()
	w := n.Dot(point)

	onPlane := func(p mgl64.Vec3) bool {
		return math.Abs(n.Dot(p)-w) <= tolerance
	}

	out := &Mesh{Positions: append([]float64(nil), m.Positions...)}
	removed := 0
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		if onPlane(a) && onPlane(b) && onPlane(c) {
			// Guard against slivers that merely graze the plane.
			if math.Abs(m.FaceNormal(t).Dot(n)) > 0.99 {
				removed++
				continue
			}
		}
		out.AddTriangle(m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2])
	}
	out.DropUnusedVertices()
	return out, removed
}
