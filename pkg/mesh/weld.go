package mesh

import "math"

// minTriangleArea is the area below which a triangle is considered
// degenerate and removed.
const minTriangleArea = 1e-12

// WeldVertices merges vertices that quantize to the same tolerance-sized
// grid cell, remapping triangle indices, then drops any triangles the
// merge collapsed. The quantization scheme makes welding idempotent:
// welding an already-welded mesh at the same tolerance changes nothing,
// because every surviving vertex already occupies its own cell.
func WeldVertices(m *Mesh, tolerance float64) *Mesh {
	if tolerance <= 0 || m.IsEmpty() {
		return m.Clone()
	}

	type cell struct{ x, y, z int64 }
	quant := func(v float64) int64 {
		return int64(math.Round(v / tolerance))
	}

	seen := make(map[cell]uint32, m.VertexCount())
	remap := make([]uint32, m.VertexCount())
	out := &Mesh{Positions: make([]float64, 0, len(m.Positions))}

	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		key := cell{quant(p.X()), quant(p.Y()), quant(p.Z())}
		if idx, ok := seen[key]; ok {
			remap[i] = idx
			continue
		}
		idx := out.AddVertex(p)
		seen[key] = idx
		remap[i] = idx
	}

	out.Indices = make([]uint32, 0, len(m.Indices))
	for t := 0; t < m.TriangleCount(); t++ {
		a := remap[m.Indices[t*3]]
		b := remap[m.Indices[t*3+1]]
		c := remap[m.Indices[t*3+2]]
		if a == b || b == c || c == a {
			continue
		}
		out.AddTriangle(a, b, c)
	}
	out.DropUnusedVertices()
	return out
}

// RemoveDegenerateTriangles drops triangles whose area falls below the
// degeneracy threshold, scaled by the mesh extent so large models do not
// lose legitimately thin triangles.
func RemoveDegenerateTriangles(m *Mesh) *Mesh {
	out := &Mesh{Positions: append([]float64(nil), m.Positions...)}
	threshold := minTriangleArea
	if d := BoundingDiagonal(m); d > 1 {
		threshold *= d
	}
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		area := b.Sub(a).Cross(c.Sub(a)).Len() / 2
		if area < threshold {
			continue
		}
		out.AddTriangle(m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2])
	}
	out.DropUnusedVertices()
	return out
}
