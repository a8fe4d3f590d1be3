package brep

import "github.com/go-gl/mathgl/mgl64"

// planeEpsilon is the distance below which a point counts as lying on a
// BSP splitting plane. It must stay below the weld tolerances applied
// to boolean results, or welded seams reopen.
const planeEpsilon = 1e-5

// Point classifications against a splitting plane.
const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

// bspPlane is an oriented plane: unit normal plus offset (n . p = w).
type bspPlane struct {
	n mgl64.Vec3
	w float64
}

func planeFromPoints(a, b, c mgl64.Vec3) (bspPlane, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-12 {
		return bspPlane{}, false
	}
	n = n.Mul(1 / l)
	return bspPlane{n: n, w: n.Dot(a)}, true
}

func (p *bspPlane) flip() {
	p.n = p.n.Mul(-1)
	p.w = -p.w
}

// bspPolygon is a planar convex polygon with at least three vertices.
type bspPolygon struct {
	verts []mgl64.Vec3
	plane bspPlane
}

func newPolygon(verts []mgl64.Vec3) (bspPolygon, bool) {
	if len(verts) < 3 {
		return bspPolygon{}, false
	}
	pl, ok := planeFromPoints(verts[0], verts[1], verts[2])
	if !ok {
		return bspPolygon{}, false
	}
	return bspPolygon{verts: verts, plane: pl}, true
}

func (p bspPolygon) flipped() bspPolygon {
	verts := make([]mgl64.Vec3, len(p.verts))
	for i, v := range p.verts {
		verts[len(verts)-1-i] = v
	}
	pl := p.plane
	pl.flip()
	return bspPolygon{verts: verts, plane: pl}
}

// split classifies poly against the plane and routes it into the four
// output buckets, clipping spanning polygons into two pieces.
func (pl bspPlane) split(poly bspPolygon, coFront, coBack, f, b *[]bspPolygon) {
	polyType := 0
	types := make([]int, len(poly.verts))
	for i, v := range poly.verts {
		t := coplanar
		d := pl.n.Dot(v) - pl.w
		if d < -planeEpsilon {
			t = back
		} else if d > planeEpsilon {
			t = front
		}
		polyType |= t
		types[i] = t
	}

	switch polyType {
	case coplanar:
		if pl.n.Dot(poly.plane.n) > 0 {
			*coFront = append(*coFront, poly)
		} else {
			*coBack = append(*coBack, poly)
		}
	case front:
		*f = append(*f, poly)
	case back:
		*b = append(*b, poly)
	case spanning:
		var fv, bv []mgl64.Vec3
		n := len(poly.verts)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.verts[i], poly.verts[j]
			if ti != back {
				fv = append(fv, vi)
			}
			if ti != front {
				bv = append(bv, vi)
			}
			if (ti | tj) == spanning {
				t := (pl.w - pl.n.Dot(vi)) / pl.n.Dot(vj.Sub(vi))
				v := vi.Add(vj.Sub(vi).Mul(t))
				fv = append(fv, v)
				bv = append(bv, v)
			}
		}
		if len(fv) >= 3 {
			*f = append(*f, bspPolygon{verts: fv, plane: poly.plane})
		}
		if len(bv) >= 3 {
			*b = append(*b, bspPolygon{verts: bv, plane: poly.plane})
		}
	}
}

// bspNode is one node of a solid-leaf BSP tree over boundary polygons.
type bspNode struct {
	plane      *bspPlane
	frontChild *bspNode
	backChild  *bspNode
	polys      []bspPolygon
}

func newBSPNode(polys []bspPolygon) *bspNode {
	n := &bspNode{}
	n.build(polys)
	return n
}

// invert converts the tree between solid and empty space.
func (n *bspNode) invert() {
	for i := range n.polys {
		n.polys[i] = n.polys[i].flipped()
	}
	if n.plane != nil {
		n.plane.flip()
	}
	if n.frontChild != nil {
		n.frontChild.invert()
	}
	if n.backChild != nil {
		n.backChild.invert()
	}
	n.frontChild, n.backChild = n.backChild, n.frontChild
}

// clipPolygons removes the parts of the given polygons inside this
// tree's solid.
func (n *bspNode) clipPolygons(polys []bspPolygon) []bspPolygon {
	if n.plane == nil {
		return append([]bspPolygon(nil), polys...)
	}
	var f, b []bspPolygon
	for _, p := range polys {
		n.plane.split(p, &f, &b, &f, &b)
	}
	if n.frontChild != nil {
		f = n.frontChild.clipPolygons(f)
	}
	if n.backChild != nil {
		b = n.backChild.clipPolygons(b)
	} else {
		b = nil
	}
	return append(f, b...)
}

// clipTo removes the parts of this tree's polygons inside other's solid.
func (n *bspNode) clipTo(other *bspNode) {
	n.polys = other.clipPolygons(n.polys)
	if n.frontChild != nil {
		n.frontChild.clipTo(other)
	}
	if n.backChild != nil {
		n.backChild.clipTo(other)
	}
}

// allPolygons collects every polygon in the tree.
func (n *bspNode) allPolygons() []bspPolygon {
	out := append([]bspPolygon(nil), n.polys...)
	if n.frontChild != nil {
		out = append(out, n.frontChild.allPolygons()...)
	}
	if n.backChild != nil {
		out = append(out, n.backChild.allPolygons()...)
	}
	return out
}

// build inserts polygons into the tree, splitting as needed. The first
// polygon's plane seeds each node.
func (n *bspNode) build(polys []bspPolygon) {
	if len(polys) == 0 {
		return
	}
	if n.plane == nil {
		pl := polys[0].plane
		n.plane = &pl
	}
	var f, b []bspPolygon
	for _, p := range polys {
		n.plane.split(p, &n.polys, &n.polys, &f, &b)
	}
	if len(f) > 0 {
		if n.frontChild == nil {
			n.frontChild = &bspNode{}
		}
		n.frontChild.build(f)
	}
	if len(b) > 0 {
		if n.backChild == nil {
			n.backChild = &bspNode{}
		}
		n.backChild.build(b)
	}
}

// csgUnion returns polygons bounding the union of the two solids.
func csgUnion(a, b *bspNode) []bspPolygon {
	a.clipTo(b)
	b.clipTo(a)
	b.invert()
	b.clipTo(a)
	b.invert()
	a.build(b.allPolygons())
	return a.allPolygons()
}

// csgDifference returns polygons bounding a minus b.
func csgDifference(a, b *bspNode) []bspPolygon {
	a.invert()
	a.clipTo(b)
	b.clipTo(a)
	b.invert()
	b.clipTo(a)
	b.invert()
	a.build(b.allPolygons())
	a.invert()
	return a.allPolygons()
}

// csgIntersection returns polygons bounding the intersection.
func csgIntersection(a, b *bspNode) []bspPolygon {
	a.invert()
	b.clipTo(a)
	b.invert()
	a.clipTo(b)
	b.clipTo(a)
	a.build(b.allPolygons())
	a.invert()
	return a.allPolygons()
}
