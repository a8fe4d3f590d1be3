// Package mesh defines the triangle-mesh boundary representation used
// throughout facet, along with the cleanup primitives every boolean
// result passes through: vertex welding, degenerate-triangle removal,
// normal recomputation and bound recomputation.
package mesh

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is an indexed triangle mesh. All buffers are flat: Positions has
// 3 float64 per vertex (x,y,z), Normals has 3 float64 per vertex and is
// optional (nil after boolean operations until recomputed), Indices has
// 3 uint32 per triangle. Positions are stored in the owning solid's
// local space unless stated otherwise.
type Mesh struct {
	Positions []float64 `json:"positions"`
	Normals   []float64 `json:"normals,omitempty"`
	Indices   []uint32  `json:"indices"`
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0 || len(m.Indices) == 0
}

// Position returns vertex i as a vector.
func (m *Mesh) Position(i int) mgl64.Vec3 {
	return mgl64.Vec3{m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]}
}

// SetPosition overwrites vertex i.
func (m *Mesh) SetPosition(i int, p mgl64.Vec3) {
	m.Positions[i*3] = p.X()
	m.Positions[i*3+1] = p.Y()
	m.Positions[i*3+2] = p.Z()
}

// Triangle returns the vertex positions of triangle t.
func (m *Mesh) Triangle(t int) (a, b, c mgl64.Vec3) {
	i0 := m.Indices[t*3]
	i1 := m.Indices[t*3+1]
	i2 := m.Indices[t*3+2]
	return m.Position(int(i0)), m.Position(int(i1)), m.Position(int(i2))
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(p mgl64.Vec3) uint32 {
	m.Positions = append(m.Positions, p.X(), p.Y(), p.Z())
	return uint32(m.VertexCount() - 1)
}

// AddTriangle appends a triangle by vertex indices.
func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// Clone returns a deep copy. The copy shares no buffers with the
// original, so the original may be swapped out or mutated freely.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Positions: make([]float64, len(m.Positions)),
		Indices:   make([]uint32, len(m.Indices)),
	}
	copy(c.Positions, m.Positions)
	copy(c.Indices, m.Indices)
	if m.Normals != nil {
		c.Normals = make([]float64, len(m.Normals))
		copy(c.Normals, m.Normals)
	}
	return c
}

// Equal reports whether two meshes are vertex-for-vertex identical.
// Normals are ignored; they are derived data.
func (m *Mesh) Equal(o *Mesh) bool {
	if m.VertexCount() != o.VertexCount() || m.TriangleCount() != o.TriangleCount() {
		return false
	}
	for i := range m.Positions {
		if m.Positions[i] != o.Positions[i] {
			return false
		}
	}
	for i := range m.Indices {
		if m.Indices[i] != o.Indices[i] {
			return false
		}
	}
	return true
}

// Transform applies a 4x4 transform to every vertex in place and drops
// any stored normals, since a non-uniform transform invalidates them.
func (m *Mesh) Transform(mat mgl64.Mat4) {
	for i := 0; i < m.VertexCount(); i++ {
		p := mat.Mul4x1(m.Position(i).Vec4(1))
		m.SetPosition(i, p.Vec3())
	}
	m.Normals = nil
}

// Translate shifts every vertex by d in place.
func (m *Mesh) Translate(d mgl64.Vec3) {
	for i := 0; i < m.VertexCount(); i++ {
		m.SetPosition(i, m.Position(i).Add(d))
	}
}

// DropUnusedVertices removes vertices not referenced by any triangle
// and remaps indices. Returns the number of vertices removed.
func (m *Mesh) DropUnusedVertices() int {
	used := make([]bool, m.VertexCount())
	for _, idx := range m.Indices {
		used[idx] = true
	}
	remap := make([]uint32, m.VertexCount())
	kept := 0
	positions := make([]float64, 0, len(m.Positions))
	for i := 0; i < m.VertexCount(); i++ {
		if !used[i] {
			continue
		}
		remap[i] = uint32(kept)
		positions = append(positions, m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2])
		kept++
	}
	removed := m.VertexCount() - kept
	if removed == 0 {
		return 0
	}
	for i, idx := range m.Indices {
		m.Indices[i] = remap[idx]
	}
	m.Positions = positions
	m.Normals = nil
	return removed
}
