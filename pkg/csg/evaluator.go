// Package csg evaluates push/pull booleans between a target solid and a
// cutter. Operands are placed into a common world space (the cutter
// already lives there), the backend result is brought back to the
// target's local space, and the seams are welded at a tolerance derived
// from the result's own extent.
package csg

import (
	"errors"
	"fmt"
	"math"

	"github.com/facet3d/facet/internal/logging"
	"github.com/facet3d/facet/pkg/kernel"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/solid"
)

// ErrDegenerate is returned when the boolean backend produces an empty
// or unusable result. Callers treat it as "edit had no effect" and keep
// the pre-edit mesh.
var ErrDegenerate = errors.New("csg: degenerate boolean result")

// Weld tolerance for boolean results: scale-relative with an absolute
// floor, capped so far-from-origin geometry cannot weld itself shut.
const (
	weldFloor      = 1e-4
	weldDiagScale  = 1e-5
	weldCoordScale = 2e-7
	weldCap        = 1e-2
)

// Evaluator runs boolean operations through a mesh-capable kernel.
type Evaluator struct {
	k kernel.MeshKernel
}

// NewEvaluator returns an evaluator over the given backend.
func NewEvaluator(k kernel.MeshKernel) *Evaluator {
	return &Evaluator{k: k}
}

// Evaluate applies the cutter to the target. A negative pull removes
// material (subtraction), a non-negative pull adds it (union). The
// base mesh is the caller-supplied full boundary, normally
// target.FullMesh(); using the possibly display-stripped current mesh
// would resurrect previously opened caps as false boundaries. The
// cutter is expected in world space.
//
// The returned mesh is in the target's local space, welded, with fresh
// normals. ErrDegenerate (or a wrapped backend error) means the edit
// had no effect; callers fall back to the pre-edit mesh.
func (e *Evaluator) Evaluate(target *solid.Solid, cutter *mesh.Mesh, pull float64, base *mesh.Mesh) (*mesh.Mesh, error) {
	if base == nil {
		base = target.FullMesh()
	}
	if base.IsEmpty() || cutter.IsEmpty() {
		return nil, ErrDegenerate
	}

	world := target.WorldMatrix()
	placed := base.Clone()
	placed.Transform(world)

	a, err := e.k.FromMesh(placed)
	if err != nil {
		return nil, fmt.Errorf("csg: target operand: %w", err)
	}
	b, err := e.k.FromMesh(cutter)
	if err != nil {
		return nil, fmt.Errorf("csg: cutter operand: %w", err)
	}

	var out kernel.Solid
	if pull < 0 {
		out = e.k.Difference(a, b)
	} else {
		out = e.k.Union(a, b)
	}

	result, err := e.k.ToMesh(out)
	if err != nil {
		logging.Logger().Warn("boolean backend produced no mesh", "target", target.Name, "err", err)
		return nil, ErrDegenerate
	}

	inv := world.Inv()
	result.Transform(inv)

	result = mesh.WeldVertices(result, resultWeldTolerance(result))
	result = mesh.RemoveDegenerateTriangles(result)
	if result.IsEmpty() {
		logging.Logger().Warn("boolean result welded away", "target", target.Name)
		return nil, ErrDegenerate
	}
	mesh.RecomputeNormals(result)
	return result, nil
}

// resultWeldTolerance derives the weld tolerance from the result's own
// bounding box, so huge and tiny models both weld sensibly.
func resultWeldTolerance(m *mesh.Mesh) float64 {
	tol := math.Max(weldFloor, mesh.BoundingDiagonal(m)*weldDiagScale)
	tol = math.Max(tol, mesh.MaxCoordinateMagnitude(m)*weldCoordScale)
	return math.Min(tol, weldCap)
}
