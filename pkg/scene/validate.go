package scene

import (
	"fmt"
	"math"
)

// Severity distinguishes blocking problems from advisory ones.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// ValidationIssue is one problem found by Validate.
type ValidationIssue struct {
	NodeID   NodeID
	Message  string
	Severity Severity
}

func (i ValidationIssue) Error() string {
	return fmt.Sprintf("%s: %s", i.NodeID, i.Message)
}

// Validate checks structural and geometric scene invariants. Errors
// block further editing of the offending node; warnings are advisory.
func (s *Scene) Validate() ([]ValidationIssue, []ValidationIssue) {
	var errs, warnings []ValidationIssue

	errs = append(errs, s.validateStructure()...)
	for _, n := range s.Solids() {
		e, w := validateSolidNode(n)
		errs = append(errs, e...)
		warnings = append(warnings, w...)
	}
	return errs, warnings
}

// validateStructure checks child references and cycles.
func (s *Scene) validateStructure() []ValidationIssue {
	var errs []ValidationIssue

	for id, n := range s.nodes {
		for _, cid := range n.Children {
			if _, exists := s.nodes[cid]; !exists {
				errs = append(errs, ValidationIssue{
					NodeID:   id,
					Message:  fmt.Sprintf("references non-existent child %s", cid),
					Severity: SeverityError,
				})
			}
		}
	}

	if cyclic := s.detectCycles(); len(cyclic) > 0 {
		errs = append(errs, ValidationIssue{
			NodeID:   cyclic[0],
			Message:  fmt.Sprintf("scene tree contains a cycle through %v", cyclic),
			Severity: SeverityError,
		})
	}
	return errs
}

// detectCycles reports nodes on a child cycle via three-color DFS.
func (s *Scene) detectCycles() []NodeID {
	const (
		white = iota
		gray
		black
	)
	color := make(map[NodeID]int, len(s.nodes))
	var cyclic []NodeID

	var visit func(id NodeID)
	visit = func(id NodeID) {
		color[id] = gray
		n := s.nodes[id]
		for _, cid := range n.Children {
			if _, exists := s.nodes[cid]; !exists {
				continue
			}
			switch color[cid] {
			case white:
				visit(cid)
			case gray:
				cyclic = append(cyclic, cid)
			}
		}
		color[id] = black
	}
	for id := range s.nodes {
		if color[id] == white {
			visit(id)
		}
	}
	return cyclic
}

// validateSolidNode checks one solid's boundary mesh: finite
// coordinates and a positive depth are errors, open boundary edges on a
// solid that will serve as a CSG operand are a warning since booleans
// against a non-watertight operand give undefined results.
func validateSolidNode(n *Node) ([]ValidationIssue, []ValidationIssue) {
	var errs, warnings []ValidationIssue
	sol := n.Solid

	m := sol.FullMesh()
	if m.IsEmpty() {
		errs = append(errs, ValidationIssue{
			NodeID:   n.ID,
			Message:  "solid has an empty boundary mesh",
			Severity: SeverityError,
		})
		return errs, warnings
	}

	for i := 0; i < len(m.Positions); i++ {
		if math.IsNaN(m.Positions[i]) || math.IsInf(m.Positions[i], 0) {
			errs = append(errs, ValidationIssue{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("boundary mesh has a non-finite coordinate at index %d", i),
				Severity: SeverityError,
			})
			break
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= m.VertexCount() {
			errs = append(errs, ValidationIssue{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("triangle index %d out of range for %d vertices", idx, m.VertexCount()),
				Severity: SeverityError,
			})
			return errs, warnings
		}
	}

	if sol.IsParametric() && sol.Params.PullDepth <= 0 {
		errs = append(errs, ValidationIssue{
			NodeID:   n.ID,
			Message:  fmt.Sprintf("parametric depth is %.4f, must be positive", sol.Params.PullDepth),
			Severity: SeverityError,
		})
	}

	if open := openEdgeCount(m.Indices); open > 0 {
		warnings = append(warnings, ValidationIssue{
			NodeID:   n.ID,
			Message:  fmt.Sprintf("boundary mesh has %d open edges; booleans against it may fail", open),
			Severity: SeverityWarning,
		})
	}
	return errs, warnings
}

// openEdgeCount counts directed edges without a matching opposite
// directed edge. A closed orientable boundary has none.
func openEdgeCount(indices []uint32) int {
	type edge struct{ a, b uint32 }
	count := make(map[edge]int)
	for t := 0; t+2 < len(indices); t += 3 {
		tri := [3]uint32{indices[t], indices[t+1], indices[t+2]}
		for i := 0; i < 3; i++ {
			count[edge{tri[i], tri[(i+1)%3]}]++
		}
	}
	open := 0
	for e, c := range count {
		if c != count[edge{e.b, e.a}] {
			open++
		}
	}
	return open
}
