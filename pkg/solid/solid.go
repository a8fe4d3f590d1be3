// Package solid defines the boundary-representation object push/pull
// editing operates on: a triangle mesh, a placement transform, the
// persisted push/pull parameter set, an optional fuller mesh snapshot
// used as the CSG operand when the displayed mesh has had a cap
// stripped for display, and the solid's per-plane region cache.
package solid

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/plane"
)

// regionPlaneTolerance is how far a vertex may sit off a picked plane
// and still contribute to that plane's regions.
const regionPlaneTolerance = 1e-5

// Params is the persisted parameter set of a solid. Field names match
// the persistence boundary contract; the serialization format itself
// belongs to the owner of the metadata store.
type Params struct {
	PullDepth      float64 `json:"pullDepth"`
	Hollow         bool    `json:"hollow"`
	WallThickness  float64 `json:"wallThickness"`
	FloorThickness float64 `json:"floorThickness"`
	ExtraCut       float64 `json:"extraCut"`
	Profile        Profile `json:"-"`
}

// Solid is a boundary-representation object: a triangle mesh plus
// placement and persisted push/pull parameters. It is created by an
// import or drawing tool, mutated exclusively by the edit controller's
// commit step, and destroyed with its owning scene node.
type Solid struct {
	Name string

	// Placement relative to the parent frame.
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3

	Params Params

	displayed *mesh.Mesh
	snapshot  *mesh.Mesh // full boundary kept when a display cap was stripped
	booleaned bool
	regions   *plane.Cache
}

// New creates a solid around an initial boundary mesh with identity
// placement.
func New(name string, m *mesh.Mesh) *Solid {
	return &Solid{
		Name:      name,
		Rotation:  mgl64.QuatIdent(),
		Scale:     mgl64.Vec3{1, 1, 1},
		displayed: m,
		regions:   plane.NewCache(),
	}
}

// Mesh returns the displayed boundary mesh. The reference is swapped
// atomically by commit; readers hold the value they got, never a
// half-replaced buffer.
func (s *Solid) Mesh() *mesh.Mesh {
	return s.displayed
}

// SetMesh replaces the displayed boundary mesh and invalidates every
// cached region, since all of them were derived from the old boundary.
func (s *Solid) SetMesh(m *mesh.Mesh) {
	s.displayed = m
	s.regions.Invalidate()
}

// FullMesh returns the mesh to use as a CSG operand: the cached full
// snapshot when one exists (a display cap was stripped), otherwise the
// displayed mesh itself.
func (s *Solid) FullMesh() *mesh.Mesh {
	if s.snapshot != nil {
		return s.snapshot
	}
	return s.displayed
}

// HasFullMesh reports whether a distinct full snapshot is cached.
func (s *Solid) HasFullMesh() bool {
	return s.snapshot != nil
}

// SetFullMesh caches the full boundary snapshot for future edits.
// Passing nil clears it, meaning the displayed mesh is complete.
func (s *Solid) SetFullMesh(m *mesh.Mesh) {
	s.snapshot = m
}

// MarkBooleaned records that the solid has accumulated boolean history
// and can no longer be regenerated from its simple profile.
func (s *Solid) MarkBooleaned() {
	s.booleaned = true
}

// IsParametric reports whether the solid is still a simple parametric
// profile (rect, circle or polygon with a single extrude depth). Such
// targets take the lighter regeneration path; everything else needs
// CSG.
func (s *Solid) IsParametric() bool {
	return !s.booleaned && s.Params.Profile != nil
}

// WorldMatrix returns the full placement transform including
// non-uniform scale.
func (s *Solid) WorldMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(s.Position.X(), s.Position.Y(), s.Position.Z())
	r := s.Rotation.Mat4()
	sc := mgl64.Scale3D(s.Scale.X(), s.Scale.Y(), s.Scale.Z())
	return t.Mul4(r).Mul4(sc)
}

// WorldMesh returns a copy of the given local-space mesh with the
// solid's world placement applied.
func (s *Solid) WorldMesh(m *mesh.Mesh) *mesh.Mesh {
	out := m.Clone()
	out.Transform(s.WorldMatrix())
	return out
}

// RegionsOn returns the solid's split regions for the plane through the
// given world point and normal, computing and caching them on first
// use. The regions are derived from the displayed world-space boundary.
func (s *Solid) RegionsOn(normal, point mgl64.Vec3) ([]*plane.Region, plane.Key) {
	_, key := plane.CanonicalKey(normal, point)
	if cached, ok := s.regions.Regions(key); ok {
		return cached, key
	}
	world := s.WorldMesh(s.displayed)
	regions, key := plane.BuildRegions(world, normal, point, regionPlaneTolerance)
	s.regions.Store(key, regions)
	return regions, key
}

// RegionCache exposes the per-solid region cache, mainly for tests and
// persistence.
func (s *Solid) RegionCache() *plane.Cache {
	return s.regions
}
