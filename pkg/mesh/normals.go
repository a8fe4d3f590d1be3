package mesh

import "github.com/go-gl/mathgl/mgl64"

// RecomputeNormals rebuilds per-vertex normals from the current topology
// by area-weighted averaging of incident face normals. Boolean and weld
// operations leave stale or missing normals behind; callers run this as
// the final step of any such pipeline.
func RecomputeNormals(m *Mesh) {
	n := make([]float64, len(m.Positions))
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		// Unnormalized cross product weights by triangle area.
		fn := b.Sub(a).Cross(c.Sub(a))
		for _, vi := range []uint32{m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]} {
			n[vi*3] += fn.X()
			n[vi*3+1] += fn.Y()
			n[vi*3+2] += fn.Z()
		}
	}
	for i := 0; i < m.VertexCount(); i++ {
		v := mgl64.Vec3{n[i*3], n[i*3+1], n[i*3+2]}
		if l := v.Len(); l > 1e-12 {
			v = v.Mul(1 / l)
		}
		n[i*3] = v.X()
		n[i*3+1] = v.Y()
		n[i*3+2] = v.Z()
	}
	m.Normals = n
}

// FaceNormal returns the unit normal of triangle t, or the zero vector
// for a degenerate triangle.
func (m *Mesh) FaceNormal(t int) mgl64.Vec3 {
	a, b, c := m.Triangle(t)
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Len(); l > 1e-12 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec3{}
}
