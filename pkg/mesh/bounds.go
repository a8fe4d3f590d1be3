package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max mgl64.Vec3
}

// Size returns the extent along each axis.
func (b Bounds) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box center.
func (b Bounds) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal returns the length of the box diagonal.
func (b Bounds) Diagonal() float64 {
	return b.Size().Len()
}

// ComputeBounds returns the axis-aligned bounding box of the mesh.
// An empty mesh yields a zero box.
func ComputeBounds(m *Mesh) Bounds {
	if m.VertexCount() == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		for a := 0; a < 3; a++ {
			b.Min[a] = math.Min(b.Min[a], p[a])
			b.Max[a] = math.Max(b.Max[a], p[a])
		}
	}
	return b
}

// BoundingDiagonal returns the diagonal length of the mesh bounds.
func BoundingDiagonal(m *Mesh) float64 {
	return ComputeBounds(m).Diagonal()
}

// MaxCoordinateMagnitude returns the largest absolute coordinate value
// in the mesh, used to scale weld tolerances for far-from-origin
// geometry.
func MaxCoordinateMagnitude(m *Mesh) float64 {
	max := 0.0
	for _, v := range m.Positions {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max
}

// Volume returns the signed volume enclosed by the mesh via the
// divergence theorem. The result is positive for a closed mesh with
// outward-facing winding; an open or inverted mesh gives a smaller or
// negative value, which makes this a useful containment diagnostic.
func Volume(m *Mesh) float64 {
	var v float64
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		v += a.Dot(b.Cross(c))
	}
	return v / 6
}
