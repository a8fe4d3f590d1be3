package plane

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/mesh"
)

// minLoopArea discards boundary loops so small they are weld residue.
const minLoopArea = 1e-10

// BuildRegions derives the split regions lying on one infinite plane of
// a mesh. Triangles whose vertices all sit within tol of the plane are
// collected, their boundary edges (edges used by exactly one coplanar
// triangle) are chained into loops, and the loops are grouped by
// containment: even-nested loops become outer rings, odd-nested loops
// become holes of their smallest enclosing outer. Disjoint coplanar
// faces therefore come back as separate regions under the same key.
func BuildRegions(m *mesh.Mesh, normal, point mgl64.Vec3, tol float64) ([]*Region, Key) {
	cn, key := CanonicalKey(normal, point)
	basis := NewBasis(cn, point)

	w := cn.Dot(point)
	onPlane := func(p mgl64.Vec3) bool {
		return math.Abs(cn.Dot(p)-w) <= tol
	}

	// Quantize positions for connectivity so unwelded duplicates still
	// chain into one loop.
	grid := math.Max(tol/4, 1e-9)
	qkey := func(p mgl64.Vec3) [3]int64 {
		return [3]int64{
			int64(math.Round(p.X() / grid)),
			int64(math.Round(p.Y() / grid)),
			int64(math.Round(p.Z() / grid)),
		}
	}

	type edge struct{ a, b [3]int64 }
	pos := make(map[[3]int64]mgl64.Vec3)
	count := make(map[edge]int)
	directed := make(map[edge]bool)

	addEdge := func(pa, pb mgl64.Vec3) {
		ka, kb := qkey(pa), qkey(pb)
		if ka == kb {
			return
		}
		pos[ka], pos[kb] = pa, pb
		und := edge{ka, kb}
		if kb[0] < ka[0] || (kb[0] == ka[0] && (kb[1] < ka[1] || (kb[1] == ka[1] && kb[2] < ka[2]))) {
			und = edge{kb, ka}
		}
		count[und]++
		directed[edge{ka, kb}] = true
	}

	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		if !onPlane(a) || !onPlane(b) || !onPlane(c) {
			continue
		}
		addEdge(a, b)
		addEdge(b, c)
		addEdge(c, a)
	}

	// Boundary edges keep the orientation their triangle gave them.
	next := make(map[[3]int64][][3]int64)
	for und, n := range count {
		if n != 1 {
			continue
		}
		if directed[edge{und.a, und.b}] {
			next[und.a] = append(next[und.a], und.b)
		} else {
			next[und.b] = append(next[und.b], und.a)
		}
	}

	loops := chainLoops(next, pos, basis)
	if len(loops) == 0 {
		return nil, key
	}

	return groupLoops(loops, basis, key), key
}

// chainLoops walks directed boundary edges into closed 2D loops.
func chainLoops(next map[[3]int64][][3]int64, pos map[[3]int64]mgl64.Vec3, basis Basis) [][]mgl64.Vec2 {
	var loops [][]mgl64.Vec2

	// Deterministic iteration order keeps region IDs stable.
	starts := make([][3]int64, 0, len(next))
	for k := range next {
		starts = append(starts, k)
	}
	sort.Slice(starts, func(i, j int) bool {
		a, b := starts[i], starts[j]
		for k := 0; k < 3; k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})

	pop := func(from [3]int64) ([3]int64, bool) {
		outs := next[from]
		if len(outs) == 0 {
			return [3]int64{}, false
		}
		to := outs[len(outs)-1]
		next[from] = outs[:len(outs)-1]
		return to, true
	}

	for _, start := range starts {
		for {
			first, ok := pop(start)
			if !ok {
				break
			}
			loop := [][3]int64{start, first}
			cur := first
			closed := false
			for steps := 0; steps <= len(pos); steps++ {
				nxt, ok := pop(cur)
				if !ok {
					break
				}
				if nxt == start {
					closed = true
					break
				}
				loop = append(loop, nxt)
				cur = nxt
			}
			if !closed || len(loop) < 3 {
				continue
			}
			ring := make([]mgl64.Vec2, len(loop))
			for i, k := range loop {
				a := basis.ToAligned(pos[k])
				ring[i] = mgl64.Vec2{a.X(), a.Z()}
			}
			if math.Abs(signedArea(ring)) < minLoopArea {
				continue
			}
			loops = append(loops, ring)
		}
	}
	return loops
}

// classifiedLoop is a boundary loop annotated with its containment
// depth among the other loops of the same plane.
type classifiedLoop struct {
	ring  []mgl64.Vec2
	depth int
	area  float64
}

// groupLoops nests loops by containment and packages them as regions:
// even-nested loops are outer rings, odd-nested loops become holes of
// their smallest enclosing outer.
func groupLoops(loops [][]mgl64.Vec2, basis Basis, key Key) []*Region {
	cls := make([]classifiedLoop, len(loops))
	for i, ring := range loops {
		cls[i] = classifiedLoop{ring: ring, area: math.Abs(signedArea(ring))}
		probe := ringCentroid(ring)
		for j, other := range loops {
			if i == j {
				continue
			}
			if pointInRing(probe, other) && !pointOnRing(probe, other) {
				cls[i].depth++
			}
		}
	}

	var regions []*Region
	for i, c := range cls {
		if c.depth%2 != 0 {
			continue
		}
		r := &Region{
			ID:       fmt.Sprintf("%s#%d", key, i),
			Ring:     c.ring,
			Basis:    basis,
			Centroid: ringCentroid(c.ring),
		}
		for j, h := range cls {
			if h.depth%2 == 0 {
				continue
			}
			if smallestEnclosingOuter(cls, j) == i {
				r.Holes = append(r.Holes, h.ring)
			}
		}
		regions = append(regions, r)
	}
	return regions
}

// smallestEnclosingOuter returns the index of the smallest even-nested
// loop containing loop j, or -1 when nothing encloses it.
func smallestEnclosingOuter(cls []classifiedLoop, j int) int {
	probe := ringCentroid(cls[j].ring)
	best := -1
	for i, c := range cls {
		if i == j || c.depth%2 != 0 {
			continue
		}
		if !pointInRing(probe, c.ring) {
			continue
		}
		if best == -1 || c.area < cls[best].area {
			best = i
		}
	}
	return best
}
