// Package kernel defines the abstract geometry kernel interface.
// Implementations (brep, sdfx) provide solid construction and boolean
// operations behind this interface. The kernel abstraction allows
// swapping backends without changing the rest of the engine; the
// interactive editor requires a backend that additionally implements
// MeshImporter, since push/pull booleans consume existing boundary
// meshes as operands.
package kernel

import "github.com/facet3d/facet/pkg/mesh"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Extrude sweeps a 2D profile (outer ring minus hole rings, in
	// (x, z) coordinates) along +Y from y=0 to y=height.
	Extrude(ring [][2]float64, holes [][][2]float64, height float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*mesh.Mesh, error)
}

// MeshImporter is the capability of ingesting an existing triangle mesh
// as a boolean operand. SDF-style backends cannot provide it; the exact
// brep backend can.
type MeshImporter interface {
	FromMesh(m *mesh.Mesh) (Solid, error)
}

// MeshKernel is the combined interface the interactive editor needs: a
// full kernel that can also round-trip arbitrary boundary meshes.
type MeshKernel interface {
	Kernel
	MeshImporter
}
