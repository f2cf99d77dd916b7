// meshtool is a CLI utility for inspecting meshes and distance fields and
// for generating test meshes.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/sdfgen/pkg/formats"
	"github.com/Faultbox/sdfgen/pkg/meshgen"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(os.Stdout, args)
	case "gen", "generate":
		err = cmdGen(os.Stdout, args)
	case "inspect":
		err = cmdInspect(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - mesh and distance field utility

Usage:
  meshtool <command> [options]

Commands:
  info <mesh.obj|mesh.stl>                   Show counts, bounds and edge audit
  gen <shape> <out.obj|out.stl> [-size s] [-cells n]
                                             Generate box, sphere, cylinder or rounded-box
  inspect <file.sdf>                         Show grid and value range of a field

Examples:
  meshtool info bunny.obj
  meshtool gen sphere sphere.stl -size 2 -cells 48
  meshtool inspect bunny.sdf`)
}

type usageError string

func (e usageError) Error() string { return "usage: meshtool " + string(e) }

func cmdInfo(w io.Writer, args []string) error {
	if len(args) != 1 {
		return usageError("info <mesh.obj|mesh.stl>")
	}

	m, info, err := formats.ReadMeshFile(args[0])
	if err != nil {
		return err
	}
	audit := m.Audit()
	size := m.Bounds.Size()

	fmt.Fprintf(w, "File:      %s\n", args[0])
	fmt.Fprintf(w, "Format:    %s\n", info.Format)
	switch info.Format {
	case formats.FormatOBJ:
		fmt.Fprintf(w, "Polygons:  %d (ignored lines: %d)\n", info.OBJ.Polygons, info.OBJ.IgnoredLines)
	case formats.FormatSTL:
		kind := "ascii"
		if info.STL.Binary {
			kind = "binary"
		}
		fmt.Fprintf(w, "STL:       %s, solid %q\n", kind, info.STL.Name)
	}
	fmt.Fprintf(w, "Vertices:  %d\n", m.VertexCount())
	fmt.Fprintf(w, "Triangles: %d\n", m.FaceCount())
	fmt.Fprintf(w, "Bounds:    %v .. %v\n", m.Bounds.Min, m.Bounds.Max)
	fmt.Fprintf(w, "Size:      %.6g x %.6g x %.6g\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "Area:      %.6g\n", m.SurfaceArea())
	fmt.Fprintf(w, "Edges:     %d (open: %d, non-manifold: %d, flipped: %d)\n",
		audit.Edges, audit.BoundaryEdges, audit.NonManifoldEdges, audit.OrientationConflict)
	if audit.DegenerateFaces > 0 {
		fmt.Fprintf(w, "Degenerate faces: %d\n", audit.DegenerateFaces)
	}
	if audit.Closed() {
		fmt.Fprintln(w, "Closed:    yes")
	} else {
		fmt.Fprintln(w, "Closed:    no (inside/outside signs will be unreliable)")
	}
	return nil
}

func cmdGen(w io.Writer, args []string) error {
	if len(args) < 2 {
		return usageError("gen <shape> <out.obj|out.stl> [-size s] [-cells n]")
	}
	shape, out := args[0], args[1]

	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(w)
	size := fs.Float64("size", 1, "Edge length or diameter")
	cells := fs.Int("cells", meshgen.DefaultCells, "Marching cubes cells along the longest axis")
	if err := fs.Parse(args[2:]); err != nil {
		return err
	}
	if _, err := formats.FormatForPath(out); err != nil {
		return err
	}

	m, err := meshgen.Generate(shape, *size, *cells)
	if err != nil {
		return err
	}
	if err := formats.WriteMeshFile(out, m); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s: %d vertices, %d triangles\n", out, m.VertexCount(), m.FaceCount())
	return nil
}

func cmdInspect(w io.Writer, args []string) error {
	if len(args) != 1 {
		return usageError("inspect <file.sdf>")
	}

	f, err := formats.ParseSDFFile(args[0])
	if err != nil {
		return err
	}
	lo, hi := f.Range()
	unreached := 0
	for _, v := range f.Values {
		if v > hi {
			unreached++
		}
	}

	fmt.Fprintf(w, "File:      %s\n", args[0])
	fmt.Fprintf(w, "Grid:      %d x %d x %d (%d nodes)\n", f.NI, f.NJ, f.NK, f.Len())
	fmt.Fprintf(w, "Origin:    %v\n", f.Origin)
	fmt.Fprintf(w, "Spacing:   %v\n", f.Spacing)
	fmt.Fprintf(w, "Range:     %.6g .. %.6g\n", lo, hi)
	fmt.Fprintf(w, "Inside:    %d\n", f.InsideCount())
	if unreached > 0 {
		fmt.Fprintf(w, "Unreached: %d\n", unreached)
	}
	return nil
}
