package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/mesh"
)

// colorPalette assigns distinct default colors to solids in traversal
// order.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// RenderMesh is the JSON-serializable mesh format handed to a frontend
// viewport. All arrays are flat: 3 floats per vertex, 3 uint32s per
// triangle.
type RenderMesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// transformStack accumulates transform-node offsets during traversal.
type transformStack struct {
	translations []mgl64.Vec3
	rotations    []mgl64.Vec3
}

func (ts *transformStack) push(translation, rotation mgl64.Vec3) {
	ts.translations = append(ts.translations, translation)
	ts.rotations = append(ts.rotations, rotation)
}

func (ts *transformStack) pop() {
	if len(ts.translations) > 0 {
		ts.translations = ts.translations[:len(ts.translations)-1]
	}
	if len(ts.rotations) > 0 {
		ts.rotations = ts.rotations[:len(ts.rotations)-1]
	}
}

// matrix returns the accumulated transform: summed translation applied
// after summed XYZ Euler rotation, matching the kernel's Rotate order.
func (ts *transformStack) matrix() mgl64.Mat4 {
	var t, r mgl64.Vec3
	for _, v := range ts.translations {
		t = t.Add(v)
	}
	for _, v := range ts.rotations {
		r = r.Add(v)
	}
	rot := mgl64.HomogRotate3DZ(mgl64.DegToRad(r.Z())).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(r.Y()))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(r.X())))
	return mgl64.Translate3D(t.X(), t.Y(), t.Z()).Mul4(rot)
}

// Render walks the scene and produces one render mesh per solid node,
// with transform-node offsets and each solid's own placement applied.
// The walk is read-only.
func (s *Scene) Render() ([]*RenderMesh, error) {
	var out []*RenderMesh
	ts := &transformStack{}

	for _, rootID := range s.roots {
		root := s.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := s.renderNode(root, ts)
		if err != nil {
			return nil, fmt.Errorf("scene: render %s: %w", rootID, err)
		}
		out = append(out, collected...)
	}

	for i, rm := range out {
		rm.Color = colorPalette[i%len(colorPalette)]
	}
	return out, nil
}

func (s *Scene) renderNode(n *Node, ts *transformStack) ([]*RenderMesh, error) {
	switch n.Kind {
	case NodeSolid:
		if n.Solid == nil {
			return nil, fmt.Errorf("solid node %s has no payload", n.ID)
		}
		world := n.Solid.WorldMesh(n.Solid.Mesh())
		world.Transform(ts.matrix())
		// Transform drops normals; the viewport needs them back.
		mesh.RecomputeNormals(world)
		rm := toRenderMesh(world)
		rm.PartName = n.Name
		if rm.PartName == "" {
			rm.PartName = string(n.ID)
		}
		return []*RenderMesh{rm}, nil

	case NodeTransform:
		ts.push(n.Translation, n.Rotation)
		defer ts.pop()
		return s.renderChildren(n, ts)

	case NodeGroup:
		return s.renderChildren(n, ts)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

func (s *Scene) renderChildren(n *Node, ts *transformStack) ([]*RenderMesh, error) {
	var out []*RenderMesh
	for _, child := range s.Children(n) {
		collected, err := s.renderNode(child, ts)
		if err != nil {
			return nil, err
		}
		out = append(out, collected...)
	}
	return out, nil
}

// toRenderMesh narrows a double-precision mesh to the float32 arrays a
// GPU frontend consumes.
func toRenderMesh(m *mesh.Mesh) *RenderMesh {
	rm := &RenderMesh{
		Vertices: make([]float32, len(m.Positions)),
		Normals:  make([]float32, len(m.Normals)),
		Indices:  make([]uint32, len(m.Indices)),
	}
	for i, v := range m.Positions {
		rm.Vertices[i] = float32(v)
	}
	for i, v := range m.Normals {
		rm.Normals[i] = float32(v)
	}
	copy(rm.Indices, m.Indices)
	return rm
}
