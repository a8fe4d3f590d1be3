package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/solid"
)

// Node is one element of the scene tree. Exactly one of Solid or the
// transform fields is meaningful, selected by Kind; groups carry
// neither.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Name     string
	Children []NodeID

	// Solid payload, set when Kind == NodeSolid.
	Solid *solid.Solid

	// Transform payload, set when Kind == NodeTransform. Rotation is
	// Euler angles in degrees about X, Y, Z, matching the kernel's
	// Rotate convention.
	Translation mgl64.Vec3
	Rotation    mgl64.Vec3
}

// NewSolidNode wraps a solid in a scene node.
func NewSolidNode(name string, s *solid.Solid) *Node {
	return &Node{Kind: NodeSolid, Name: name, Solid: s}
}

// NewGroupNode creates an empty group.
func NewGroupNode(name string) *Node {
	return &Node{Kind: NodeGroup, Name: name}
}

// NewTransformNode creates a transform applying translation and
// XYZ Euler rotation (degrees) to its children.
func NewTransformNode(name string, translation, rotation mgl64.Vec3) *Node {
	return &Node{Kind: NodeTransform, Name: name, Translation: translation, Rotation: rotation}
}

// AddChild appends a child ID.
func (n *Node) AddChild(id NodeID) {
	n.Children = append(n.Children, id)
}
