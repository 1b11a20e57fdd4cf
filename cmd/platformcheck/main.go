// Command platformcheck validates a platform project file and reports
// its structure without opening the editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"pontoon-planner/internal/grid"
	"pontoon-planner/internal/project"
	"pontoon-planner/internal/spatial"
	"pontoon-planner/internal/validation"
)

func main() {
	projectPath := flag.String("project", "", "Path to project file (.ponproj)")
	verbose := flag.Bool("v", false, "List every pontoon")
	flag.Parse()

	if *projectPath == "" {
		fmt.Println("Usage: platformcheck -project <path> [-v]")
		os.Exit(1)
	}

	proj, err := project.Load(*projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load project: %v\n", err)
		os.Exit(1)
	}

	g, err := proj.RestoreGrid()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Project grid is invalid: %v\n", err)
		os.Exit(1)
	}

	dims := g.Dimensions()
	fmt.Printf("Project: %s (version %d)\n", proj.Name, proj.Version)
	fmt.Printf("Platform: %s\n", proj.PlatformType)
	fmt.Printf("Grid: %dx%d, levels %d..%d\n",
		dims.Width, dims.Height, dims.MinLevel, dims.MaxLevel())
	fmt.Printf("Pontoons: %d\n", len(g.Pontoons()))

	idx := spatial.NewIndex()
	idx.RebuildFrom(g)
	engine := validation.NewEngine(g, idx)

	// Re-validate every placement against the rest of the structure.
	failures := 0
	for _, p := range g.Pontoons() {
		res := engine.CanPlace(p.Position, p.Type, p.ID)
		if !res.OK() {
			failures++
			for _, msg := range res.Messages() {
				fmt.Printf("  INVALID %s at %s: %s\n", p.ID, p.Position, msg)
			}
		}
	}
	if failures == 0 {
		fmt.Println("All placements valid")
	} else {
		fmt.Printf("%d invalid placements\n", failures)
	}

	conn := engine.ValidateConnectivity()
	if conn.OK() {
		fmt.Println("Structure is contiguous")
	} else {
		for _, msg := range conn.Messages() {
			fmt.Printf("  %s\n", msg)
		}
	}

	if *verbose {
		fmt.Println("\nPontoons:")
		for _, p := range sortedByPosition(g.Pontoons()) {
			fmt.Printf("  %-10s %-7s %s at %s facing %s\n",
				shortID(p.ID), p.Type, p.Color, p.Position, p.Rotation)
		}
	}

	if failures > 0 || !conn.OK() {
		os.Exit(2)
	}
}

func sortedByPosition(ps []grid.Pontoon) []grid.Pontoon {
	out := make([]grid.Pontoon, len(ps))
	copy(out, ps)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Position, out[j].Position
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return out
}

func shortID(id grid.ID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
