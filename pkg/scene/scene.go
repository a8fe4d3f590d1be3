// Package scene holds the editable object tree: solids, groups, and
// transform nodes. The edit controller mutates individual solids in
// place; the scene provides ownership, lookup by name, traversal for
// rendering, validation, and the persistence boundary for push/pull
// parameters.
package scene

import "fmt"

// NodeID identifies a node within one scene.
type NodeID string

// NodeKind enumerates the node types of the scene tree.
type NodeKind int

const (
	NodeSolid     NodeKind = iota // a boundary-representation solid
	NodeGroup                     // logical grouping (assembly)
	NodeTransform                 // spatial offset applied to children
)

func (k NodeKind) String() string {
	switch k {
	case NodeSolid:
		return "solid"
	case NodeGroup:
		return "group"
	case NodeTransform:
		return "transform"
	default:
		return "unknown"
	}
}

// Scene is the top-level object tree. It is not safe for concurrent
// mutation; the embedding application serializes edits, which the
// single-session edit controller already enforces.
type Scene struct {
	nodes     map[NodeID]*Node
	roots     []NodeID
	nameIndex map[string]NodeID
	version   uint64
	nextID    uint64
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		nodes:     make(map[NodeID]*Node),
		nameIndex: make(map[string]NodeID),
	}
}

// Version increments on every structural mutation, letting callers
// cheaply detect that cached derived state is stale.
func (s *Scene) Version() uint64 {
	return s.version
}

func (s *Scene) allocID(kind NodeKind) NodeID {
	s.nextID++
	return NodeID(fmt.Sprintf("%s-%04d", kind, s.nextID))
}

// AddNode adds a node to the scene, assigning its ID. Named nodes are
// indexed; a repeated name points the index at the newest node.
func (s *Scene) AddNode(n *Node) NodeID {
	n.ID = s.allocID(n.Kind)
	s.nodes[n.ID] = n
	if n.Name != "" {
		s.nameIndex[n.Name] = n.ID
	}
	s.version++
	return n.ID
}

// AddRoot registers a node ID as a root of the scene.
func (s *Scene) AddRoot(id NodeID) {
	s.roots = append(s.roots, id)
	s.version++
}

// Roots returns the root node IDs in insertion order.
func (s *Scene) Roots() []NodeID {
	return s.roots
}

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id NodeID) *Node {
	return s.nodes[id]
}

// Lookup returns the node with the given user-assigned name, or nil.
func (s *Scene) Lookup(name string) *Node {
	id, ok := s.nameIndex[name]
	if !ok {
		return nil
	}
	return s.nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (s *Scene) MustLookup(name string) *Node {
	n := s.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("scene: no node named %q", name))
	}
	return n
}

// Children returns the child nodes of the given node, skipping IDs that
// no longer resolve.
func (s *Scene) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := s.nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Solids returns all solid nodes in the scene in traversal order from
// the roots.
func (s *Scene) Solids() []*Node {
	var out []*Node
	seen := make(map[NodeID]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil || seen[n.ID] {
			return
		}
		seen[n.ID] = true
		if n.Kind == NodeSolid {
			out = append(out, n)
		}
		for _, c := range s.Children(n) {
			walk(c)
		}
	}
	for _, id := range s.roots {
		walk(s.nodes[id])
	}
	return out
}

// NodeCount returns the total number of nodes.
func (s *Scene) NodeCount() int {
	return len(s.nodes)
}

// Touch bumps the scene version without a structural change, for edits
// that mutate a solid in place.
func (s *Scene) Touch() {
	s.version++
}
