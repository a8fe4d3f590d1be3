// Package app wires the engine together for an embedding frontend: a
// scene of solids, a mesh-capable geometry kernel, the interactive edit
// controller, and a ray-pick scene query. Frontends talk to App;
// everything below it stays frontend-agnostic.
package app

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/facet3d/facet/pkg/editor"
	"github.com/facet3d/facet/pkg/extrude"
	"github.com/facet3d/facet/pkg/kernel"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/scene"
	"github.com/facet3d/facet/pkg/shell"
	"github.com/facet3d/facet/pkg/solid"
)

// cylinderSegments is the tessellation used for cylinder creation.
const cylinderSegments = 32

// App is the embedding surface. It owns the scene and the single edit
// controller.
type App struct {
	kern  kernel.MeshKernel
	scene *scene.Scene
	ctrl  *editor.Controller
}

// New creates an App over the given kernel and viewport with an empty
// scene.
func New(k kernel.MeshKernel, view editor.Viewport) *App {
	return &App{
		kern:  k,
		scene: scene.New(),
		ctrl:  editor.New(k, view),
	}
}

// Scene returns the owned scene.
func (a *App) Scene() *scene.Scene {
	return a.scene
}

// Controller returns the edit controller for direct event routing.
func (a *App) Controller() *editor.Controller {
	return a.ctrl
}

// CreateBox adds a box solid with its minimum corner at the origin. The
// box is recorded as a parametric rectangle profile extruded by y, so
// it stays on the light regeneration path until a boolean touches it.
func (a *App) CreateBox(name string, x, y, z float64) (*solid.Solid, error) {
	m, err := a.kern.ToMesh(a.kern.Box(x, y, z))
	if err != nil {
		return nil, fmt.Errorf("app: create box: %w", err)
	}
	sol := solid.New(name, m)
	sol.Params = solid.Params{
		PullDepth: y,
		Profile:   solid.Rect{W: x, L: z},
	}
	// Profile rings are centered on the origin; the box mesh is not.
	sol.Position = mgl64.Vec3{x / 2, 0, z / 2}
	m.Translate(mgl64.Vec3{-x / 2, 0, -z / 2})
	a.addSolid(name, sol)
	return sol, nil
}

// CreateCylinder adds a cylinder solid with its base centered on the
// origin, recorded as a parametric circle profile.
func (a *App) CreateCylinder(name string, height, radius float64) (*solid.Solid, error) {
	m, err := a.kern.ToMesh(a.kern.Cylinder(height, radius, cylinderSegments))
	if err != nil {
		return nil, fmt.Errorf("app: create cylinder: %w", err)
	}
	sol := solid.New(name, m)
	sol.Params = solid.Params{
		PullDepth: height,
		Profile:   solid.Circle{R: radius},
	}
	a.addSolid(name, sol)
	return sol, nil
}

// CreateProfile adds a solid extruded from an arbitrary profile.
func (a *App) CreateProfile(name string, p solid.Profile, depth float64) (*solid.Solid, error) {
	m, err := extrude.Profile(a.kern, p, depth)
	if err != nil {
		return nil, fmt.Errorf("app: create profile: %w", err)
	}
	sol := solid.New(name, m)
	sol.Params = solid.Params{PullDepth: depth, Profile: p}
	a.addSolid(name, sol)
	return sol, nil
}

// CreateShell adds a hollowed solid: the profile extruded to depth with
// walls and a floor of the given thickness.
func (a *App) CreateShell(name string, p solid.Profile, depth, wall, floor float64) (*solid.Solid, error) {
	m, err := shell.Build(a.kern, p, depth, wall, floor, 0)
	if err != nil {
		return nil, fmt.Errorf("app: create shell: %w", err)
	}
	sol := solid.New(name, m)
	sol.Params = solid.Params{
		PullDepth:      depth,
		Hollow:         true,
		WallThickness:  wall,
		FloorThickness: floor,
		Profile:        p,
	}
	a.addSolid(name, sol)
	return sol, nil
}

// ImportMesh adds a solid around an existing boundary mesh, e.g. one
// read from a file. Imported solids carry no profile, so every edit on
// them takes the CSG path.
func (a *App) ImportMesh(name string, m *mesh.Mesh) *solid.Solid {
	sol := solid.New(name, m)
	a.addSolid(name, sol)
	return sol
}

func (a *App) addSolid(name string, sol *solid.Solid) {
	n := scene.NewSolidNode(name, sol)
	id := a.scene.AddNode(n)
	a.scene.AddRoot(id)
}

// Render produces one render mesh per scene solid for the frontend.
func (a *App) Render() ([]*scene.RenderMesh, error) {
	return a.scene.Render()
}

// Save writes the scene snapshot.
func (a *App) Save(w io.Writer) error {
	return a.scene.Save(w)
}

// LoadScene replaces the scene with a snapshot written by Save.
func (a *App) LoadScene(r io.Reader) error {
	s, err := scene.Load(r, a.kern)
	if err != nil {
		return err
	}
	a.scene = s
	return nil
}
