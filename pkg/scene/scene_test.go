package scene

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facet3d/facet/pkg/extrude"
	"github.com/facet3d/facet/pkg/kernel/brep"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/solid"
)

func parametricSolid(t *testing.T, name string, w, l, depth float64) *solid.Solid {
	t.Helper()
	k := brep.New()
	m, err := extrude.Profile(k, solid.Rect{W: w, L: l}, depth)
	require.NoError(t, err)
	s := solid.New(name, m)
	s.Params = solid.Params{PullDepth: depth, Profile: solid.Rect{W: w, L: l}}
	return s
}

func TestAddAndLookup(t *testing.T) {
	s := New()
	require.Zero(t, s.NodeCount())

	id := s.AddNode(NewSolidNode("base", parametricSolid(t, "base", 4, 2, 1)))
	s.AddRoot(id)

	assert.Equal(t, 1, s.NodeCount())
	assert.Equal(t, []NodeID{id}, s.Roots())
	assert.NotNil(t, s.Get(id))
	assert.Equal(t, s.Get(id), s.Lookup("base"))
	assert.Nil(t, s.Lookup("missing"))
	assert.Panics(t, func() { s.MustLookup("missing") })
}

func TestVersionBumps(t *testing.T) {
	s := New()
	v0 := s.Version()
	id := s.AddNode(NewGroupNode("g"))
	assert.Greater(t, s.Version(), v0)
	v1 := s.Version()
	s.AddRoot(id)
	assert.Greater(t, s.Version(), v1)
	v2 := s.Version()
	s.Touch()
	assert.Greater(t, s.Version(), v2)
}

func TestSolidsTraversalOrder(t *testing.T) {
	s := New()
	a := s.AddNode(NewSolidNode("a", parametricSolid(t, "a", 1, 1, 1)))
	g := NewGroupNode("grp")
	b := s.AddNode(NewSolidNode("b", parametricSolid(t, "b", 1, 1, 1)))
	g.AddChild(b)
	gid := s.AddNode(g)
	s.AddRoot(a)
	s.AddRoot(gid)

	solids := s.Solids()
	require.Len(t, solids, 2)
	assert.Equal(t, "a", solids[0].Name)
	assert.Equal(t, "b", solids[1].Name)
}

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "solid", NodeSolid.String())
	assert.Equal(t, "group", NodeGroup.String())
	assert.Equal(t, "transform", NodeTransform.String())
}

func TestRenderAppliesTransformChain(t *testing.T) {
	s := New()
	sid := s.AddNode(NewSolidNode("part", parametricSolid(t, "part", 2, 2, 1)))
	tn := NewTransformNode("offset", mgl64.Vec3{10, 0, 0}, mgl64.Vec3{})
	tn.AddChild(sid)
	tid := s.AddNode(tn)
	s.AddRoot(tid)

	rms, err := s.Render()
	require.NoError(t, err)
	require.Len(t, rms, 1)
	rm := rms[0]
	assert.Equal(t, "part", rm.PartName)
	assert.NotEmpty(t, rm.Color)
	require.NotEmpty(t, rm.Vertices)
	require.Len(t, rm.Normals, len(rm.Vertices))
	n0 := math.Sqrt(float64(rm.Normals[0]*rm.Normals[0] +
		rm.Normals[1]*rm.Normals[1] + rm.Normals[2]*rm.Normals[2]))
	assert.InDelta(t, 1, n0, 1e-5, "render normals must be unit length")

	// Profile x spans [-1, 1]; the transform shifts it to [9, 11].
	minX, maxX := float32(math.Inf(1)), float32(math.Inf(-1))
	for i := 0; i < len(rm.Vertices); i += 3 {
		if rm.Vertices[i] < minX {
			minX = rm.Vertices[i]
		}
		if rm.Vertices[i] > maxX {
			maxX = rm.Vertices[i]
		}
	}
	assert.InDelta(t, 9, minX, 1e-5)
	assert.InDelta(t, 11, maxX, 1e-5)
}

func TestRenderCombinesSolidPlacement(t *testing.T) {
	s := New()
	sol := parametricSolid(t, "p", 2, 2, 1)
	sol.Position = mgl64.Vec3{0, 5, 0}
	sid := s.AddNode(NewSolidNode("p", sol))
	s.AddRoot(sid)

	rms, err := s.Render()
	require.NoError(t, err)
	require.Len(t, rms, 1)
	// y spans [0, 1] locally, [5, 6] placed.
	minY := float32(math.Inf(1))
	for i := 1; i < len(rms[0].Vertices); i += 3 {
		if rms[0].Vertices[i] < minY {
			minY = rms[0].Vertices[i]
		}
	}
	assert.InDelta(t, 5, minY, 1e-5)
}

func TestRenderColorsCycle(t *testing.T) {
	s := New()
	for i := 0; i < 3; i++ {
		id := s.AddNode(NewSolidNode("", parametricSolid(t, "", 1, 1, 1)))
		s.AddRoot(id)
	}
	rms, err := s.Render()
	require.NoError(t, err)
	require.Len(t, rms, 3)
	assert.NotEqual(t, rms[0].Color, rms[1].Color)
	// Anonymous solids fall back to their node ID.
	assert.NotEmpty(t, rms[0].PartName)
}

func TestSaveLoadParametricRoundTrip(t *testing.T) {
	s := New()
	sol := parametricSolid(t, "slab", 4, 2, 3)
	sol.Position = mgl64.Vec3{1, 2, 3}
	id := s.AddNode(NewSolidNode("slab", sol))
	s.AddRoot(id)

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	loaded, err := Load(&buf, brep.New())
	require.NoError(t, err)
	assert.Equal(t, s.Roots(), loaded.Roots())

	n := loaded.Lookup("slab")
	require.NotNil(t, n)
	require.NotNil(t, n.Solid)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, n.Solid.Position)
	assert.True(t, n.Solid.IsParametric())

	rect, ok := n.Solid.Params.Profile.(solid.Rect)
	require.True(t, ok)
	assert.Equal(t, 4.0, rect.W)
	assert.Equal(t, 2.0, rect.L)

	// The mesh regenerated from parameters matches the original.
	assert.InDelta(t, mesh.Volume(sol.Mesh()), mesh.Volume(n.Solid.Mesh()), 1e-9)
}

func TestSaveLoadBooleanedRoundTrip(t *testing.T) {
	k := brep.New()
	m, err := k.ToMesh(k.Difference(k.Box(4, 4, 4), k.Translate(k.Box(2, 6, 2), 1, -1, 1)))
	require.NoError(t, err)
	sol := solid.New("cut", m)
	sol.MarkBooleaned()
	sol.Params.PullDepth = -4

	s := New()
	id := s.AddNode(NewSolidNode("cut", sol))
	s.AddRoot(id)

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	loaded, err := Load(&buf, brep.New())
	require.NoError(t, err)

	n := loaded.Lookup("cut")
	require.NotNil(t, n)
	assert.False(t, n.Solid.IsParametric())
	assert.InDelta(t, mesh.Volume(m), mesh.Volume(n.Solid.Mesh()), 1e-6)
	assert.Equal(t, m.TriangleCount(), n.Solid.Mesh().TriangleCount())
	// Normals are recomputed, not persisted.
	assert.Len(t, n.Solid.Mesh().Normals, len(n.Solid.Mesh().Positions))
}

func TestSaveLoadTransformAndGroup(t *testing.T) {
	s := New()
	sid := s.AddNode(NewSolidNode("leaf", parametricSolid(t, "leaf", 1, 1, 1)))
	tn := NewTransformNode("lift", mgl64.Vec3{0, 7, 0}, mgl64.Vec3{0, 45, 0})
	tn.AddChild(sid)
	tid := s.AddNode(tn)
	g := NewGroupNode("asm")
	g.AddChild(tid)
	gid := s.AddNode(g)
	s.AddRoot(gid)

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	loaded, err := Load(&buf, brep.New())
	require.NoError(t, err)

	lg := loaded.Lookup("asm")
	require.NotNil(t, lg)
	assert.Equal(t, NodeGroup, lg.Kind)
	lt := loaded.Lookup("lift")
	require.NotNil(t, lt)
	assert.Equal(t, mgl64.Vec3{0, 7, 0}, lt.Translation)
	assert.Equal(t, mgl64.Vec3{0, 45, 0}, lt.Rotation)

	// Child references still resolve, so the render walk finds the
	// solid through the chain.
	rms, err := loaded.Render()
	require.NoError(t, err)
	assert.Len(t, rms, 1)
}

func TestSaveIsDeterministic(t *testing.T) {
	s := New()
	sid := s.AddNode(NewSolidNode("leaf", parametricSolid(t, "leaf", 1, 1, 1)))
	var tids []NodeID
	// Enough non-solid nodes that map iteration order would show.
	for _, name := range []string{"t1", "t2", "t3", "t4", "t5", "t6"} {
		tn := NewTransformNode(name, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})
		tids = append(tids, s.AddNode(tn))
	}
	g := NewGroupNode("asm")
	g.AddChild(sid)
	for _, id := range tids {
		g.AddChild(id)
	}
	s.AddRoot(s.AddNode(g))

	var first bytes.Buffer
	require.NoError(t, s.Save(&first))
	for i := 0; i < 5; i++ {
		var again bytes.Buffer
		require.NoError(t, s.Save(&again))
		assert.Equal(t, first.String(), again.String())
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	_, err := Load(bytes.NewBufferString(`{"version": 99, "roots": [], "nodes": []}`), brep.New())
	assert.Error(t, err)
}

func TestValidateCleanScene(t *testing.T) {
	s := New()
	id := s.AddNode(NewSolidNode("ok", parametricSolid(t, "ok", 2, 2, 2)))
	s.AddRoot(id)

	errs, warnings := s.Validate()
	assert.Empty(t, errs)
	assert.Empty(t, warnings)
}

func TestValidateMissingChild(t *testing.T) {
	s := New()
	g := NewGroupNode("g")
	g.AddChild("solid-9999")
	s.AddRoot(s.AddNode(g))

	errs, _ := s.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "solid-9999")
	assert.Equal(t, SeverityError, errs[0].Severity)
}

func TestValidateCycle(t *testing.T) {
	s := New()
	a := s.AddNode(NewGroupNode("a"))
	b := s.AddNode(NewGroupNode("b"))
	s.Get(a).AddChild(b)
	s.Get(b).AddChild(a)
	s.AddRoot(a)

	errs, _ := s.Validate()
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if len(e.Message) > 0 && e.Severity == SeverityError {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateEmptySolid(t *testing.T) {
	s := New()
	id := s.AddNode(NewSolidNode("hollow", solid.New("hollow", mesh.New())))
	s.AddRoot(id)

	errs, _ := s.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "empty")
}

func TestValidateNonFiniteCoordinate(t *testing.T) {
	m := mesh.New()
	a := m.AddVertex(mgl64.Vec3{0, 0, 0})
	b := m.AddVertex(mgl64.Vec3{1, 0, 0})
	c := m.AddVertex(mgl64.Vec3{0, math.NaN(), 0})
	m.AddTriangle(a, b, c)

	s := New()
	id := s.AddNode(NewSolidNode("nan", solid.New("nan", m)))
	s.AddRoot(id)

	errs, _ := s.Validate()
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "non-finite")
}

func TestValidateNonPositiveParametricDepth(t *testing.T) {
	sol := parametricSolid(t, "flat", 2, 2, 1)
	sol.Params.PullDepth = 0

	s := New()
	id := s.AddNode(NewSolidNode("flat", sol))
	s.AddRoot(id)

	errs, _ := s.Validate()
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "positive")
}

func TestValidateOpenBoundaryWarns(t *testing.T) {
	// A single triangle has three open edges: advisory, not blocking.
	m := mesh.New()
	a := m.AddVertex(mgl64.Vec3{0, 0, 0})
	b := m.AddVertex(mgl64.Vec3{1, 0, 0})
	c := m.AddVertex(mgl64.Vec3{0, 0, 1})
	m.AddTriangle(a, b, c)
	mesh.RecomputeNormals(m)

	s := New()
	id := s.AddNode(NewSolidNode("open", solid.New("open", m)))
	s.AddRoot(id)

	errs, warnings := s.Validate()
	assert.Empty(t, errs)
	require.Len(t, warnings, 1)
	assert.Equal(t, SeverityWarning, warnings[0].Severity)
	assert.Contains(t, warnings[0].Message, "open edges")
}
