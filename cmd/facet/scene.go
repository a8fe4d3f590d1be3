package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facet3d/facet/pkg/kernel/brep"
	"github.com/facet3d/facet/pkg/mesh"
	"github.com/facet3d/facet/pkg/scene"
)

var sceneCmd = &cobra.Command{
	Use:   "scene [file]",
	Short: "Load a scene snapshot, validate it, and print its contents",
	Args:  cobra.ExactArgs(1),
	Run:   runScene,
}

func init() {
	rootCmd.AddCommand(sceneCmd)
}

func runScene(cmd *cobra.Command, args []string) {
	f, err := os.Open(args[0])
	if err != nil {
		fatal(err)
	}
	defer f.Close()

	s, err := scene.Load(f, brep.New())
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%s: %d nodes, %d solids\n\n", args[0], s.NodeCount(), len(s.Solids()))
	for _, n := range s.Solids() {
		sol := n.Solid
		fmt.Printf("%s (%s)\n", n.Name, n.ID)
		fmt.Printf("  Triangles: %d\n", sol.Mesh().TriangleCount())
		fmt.Printf("  Volume:    %.6f\n", mesh.Volume(sol.FullMesh()))
		fmt.Printf("  Depth:     %.4f  hollow=%v  parametric=%v\n",
			sol.Params.PullDepth, sol.Params.Hollow, sol.IsParametric())
	}

	errs, warnings := s.Validate()
	for _, w := range warnings {
		fmt.Printf("warning: %v\n", w)
	}
	for _, e := range errs {
		fmt.Printf("error: %v\n", e)
	}
	if len(errs) > 0 {
		os.Exit(1)
	}
}
