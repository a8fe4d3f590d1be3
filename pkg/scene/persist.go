package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/extrude"
	"github.com/facet3d/facet/pkg/kernel"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/shell"
	"github.com/facet3d/facet/pkg/solid"
)

// snapshotVersion guards the on-disk layout.
const snapshotVersion = 1

// nodeRecord is the serialized form of one scene node. Parametric
// solids persist only their parameter map and regenerate on load;
// solids with boolean history persist their boundary mesh verbatim.
type nodeRecord struct {
	ID       NodeID   `json:"id"`
	Kind     string   `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`

	Position  *[3]float64    `json:"position,omitempty"`
	Rotation  *[4]float64    `json:"rotation,omitempty"` // quaternion w,x,y,z
	Scale     *[3]float64    `json:"scale,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	Booleaned bool           `json:"booleaned,omitempty"`
	Positions []float64      `json:"positions,omitempty"`
	Indices   []uint32       `json:"indices,omitempty"`

	Translation *[3]float64 `json:"translation,omitempty"`
	EulerDeg    *[3]float64 `json:"eulerDeg,omitempty"`
}

type snapshot struct {
	Version int          `json:"version"`
	Roots   []NodeID     `json:"roots"`
	Nodes   []nodeRecord `json:"nodes"`
}

// Save writes the scene as JSON. Region caches and display-only state
// are derived, so only parameters, placements, and (for booleaned
// solids) boundary meshes are written.
func (s *Scene) Save(w io.Writer) error {
	snap := snapshot{Version: snapshotVersion, Roots: s.roots}
	for _, n := range s.Solids() {
		snap.Nodes = append(snap.Nodes, solidRecord(n))
	}
	var rest []*Node
	for _, n := range s.nodes {
		if n.Kind != NodeSolid {
			rest = append(rest, n)
		}
	}
	// Map iteration order is random; sort for stable snapshot diffs.
	sort.Slice(rest, func(i, j int) bool { return rest[i].ID < rest[j].ID })
	for _, n := range rest {
		rec := nodeRecord{ID: n.ID, Kind: n.Kind.String(), Name: n.Name, Children: n.Children}
		if n.Kind == NodeTransform {
			t := [3]float64{n.Translation.X(), n.Translation.Y(), n.Translation.Z()}
			r := [3]float64{n.Rotation.X(), n.Rotation.Y(), n.Rotation.Z()}
			rec.Translation = &t
			rec.EulerDeg = &r
		}
		snap.Nodes = append(snap.Nodes, rec)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("scene: save: %w", err)
	}
	return nil
}

func solidRecord(n *Node) nodeRecord {
	sol := n.Solid
	pos := [3]float64{sol.Position.X(), sol.Position.Y(), sol.Position.Z()}
	rot := [4]float64{sol.Rotation.W, sol.Rotation.V.X(), sol.Rotation.V.Y(), sol.Rotation.V.Z()}
	scale := [3]float64{sol.Scale.X(), sol.Scale.Y(), sol.Scale.Z()}
	rec := nodeRecord{
		ID:        n.ID,
		Kind:      n.Kind.String(),
		Name:      n.Name,
		Children:  n.Children,
		Position:  &pos,
		Rotation:  &rot,
		Scale:     &scale,
		Params:    sol.Params.ToMap(),
		Booleaned: !sol.IsParametric(),
	}
	if rec.Booleaned {
		full := sol.FullMesh()
		rec.Positions = full.Positions
		rec.Indices = full.Indices
	}
	return rec
}

// Load reads a snapshot written by Save, regenerating parametric solids
// through the given kernel.
func Load(r io.Reader, k kernel.MeshKernel) (*Scene, error) {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("scene: load: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("scene: unsupported snapshot version %d", snap.Version)
	}

	s := New()
	for _, rec := range snap.Nodes {
		n, err := loadNode(rec, k)
		if err != nil {
			return nil, err
		}
		// IDs must survive the round trip so child references hold.
		s.nodes[rec.ID] = n
		n.ID = rec.ID
		if n.Name != "" {
			s.nameIndex[n.Name] = n.ID
		}
	}
	s.roots = snap.Roots
	s.version = 1
	return s, nil
}

func loadNode(rec nodeRecord, k kernel.MeshKernel) (*Node, error) {
	switch rec.Kind {
	case NodeGroup.String():
		return &Node{Kind: NodeGroup, Name: rec.Name, Children: rec.Children}, nil

	case NodeTransform.String():
		n := &Node{Kind: NodeTransform, Name: rec.Name, Children: rec.Children}
		if rec.Translation != nil {
			n.Translation = mgl64.Vec3(*rec.Translation)
		}
		if rec.EulerDeg != nil {
			n.Rotation = mgl64.Vec3(*rec.EulerDeg)
		}
		return n, nil

	case NodeSolid.String():
		return loadSolidNode(rec, k)

	default:
		return nil, fmt.Errorf("scene: load: unknown node kind %q", rec.Kind)
	}
}

func loadSolidNode(rec nodeRecord, k kernel.MeshKernel) (*Node, error) {
	params, err := solid.ParamsFromMap(rec.Params)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", rec.ID, err)
	}

	var m *mesh.Mesh
	switch {
	case rec.Booleaned:
		m = &mesh.Mesh{Positions: rec.Positions, Indices: rec.Indices}
		mesh.RecomputeNormals(m)
	case params.Hollow:
		m, err = shell.Build(k, params.Profile, params.PullDepth,
			params.WallThickness, params.FloorThickness, params.ExtraCut)
	default:
		m, err = extrude.Profile(k, params.Profile, params.PullDepth)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: regenerate %s: %w", rec.ID, err)
	}

	sol := solid.New(rec.Name, m)
	sol.Params = params
	if rec.Booleaned {
		sol.MarkBooleaned()
	}
	if rec.Position != nil {
		sol.Position = mgl64.Vec3(*rec.Position)
	}
	if rec.Rotation != nil {
		sol.Rotation = mgl64.Quat{W: rec.Rotation[0], V: mgl64.Vec3{rec.Rotation[1], rec.Rotation[2], rec.Rotation[3]}}
	}
	if rec.Scale != nil {
		sol.Scale = mgl64.Vec3(*rec.Scale)
	}
	return &Node{Kind: NodeSolid, Name: rec.Name, Children: rec.Children, Solid: sol}, nil
}
