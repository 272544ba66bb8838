// terraingen builds terrain meshes from heightmaps without opening a window.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gpr300/terrainlab/internal/config"
	"github.com/gpr300/terrainlab/internal/engine/terrain"
	"github.com/gpr300/terrainlab/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(os.Stdout, args)
	case "build":
		err = cmdBuild(os.Stdout, args)
	case "obj":
		err = cmdOBJ(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `terraingen - heightmap terrain builder

Usage:
  terraingen <command> [options]

Commands:
  info <heightmap>                   Show heightmap size and value range
  build [options] <heightmap>        Build a mesh and print its statistics
  obj [options] <heightmap> <out>    Build a mesh and write it as Wavefront OBJ

Build options:
  -config <file>       Read terrain settings from a config file
  -resolution <n>      Cells per side
  -width <w>           World extent along X
  -length <l>          World extent along Z
  -min <h>             Height of red 0
  -max <h>             Height of red 255
  -exp <e>             Redistribution exponent
  -blur <sigma>        Gaussian pre-blur
  -flat                Ignore the heightmap and build a flat grid
  -debug               Log at debug level

OBJ options:
  -colors              Append a colour band RGB to each vertex line. Bands
                       come from the config's color_bands or the default palette

Examples:
  terraingen info assets/heightmap.png
  terraingen build -resolution 256 assets/heightmap.png
  terraingen obj -resolution 64 -max 40 assets/heightmap.png island.obj
  terraingen obj -colors -config config.example.yaml assets/heightmap.png island.obj`)
}

func cmdInfo(w io.Writer, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: terraingen info <heightmap>")
	}

	hm, err := terrain.LoadHeightmap(args[0], 0)
	if err != nil {
		return err
	}

	lo, hi := uint8(255), uint8(0)
	var sum int
	for _, r := range hm.Red {
		lo = min(lo, r)
		hi = max(hi, r)
		sum += int(r)
	}

	fmt.Fprintf(w, "Heightmap: %s\n", args[0])
	fmt.Fprintf(w, "Size:      %dx%d\n", hm.Width, hm.Height)
	fmt.Fprintf(w, "Red:       min %d, max %d, mean %.1f\n", lo, hi, float64(sum)/float64(len(hm.Red)))
	return nil
}

// build is a mesh plus the settings it was made from.
type build struct {
	mesh  *terrain.Mesh
	cfg   terrain.Config
	bands string // Palette file from -config, empty for the default palette
	args  []string
}

// buildFlags adds the shared build options to fs, parses args and builds
// the mesh.
func buildFlags(fs *flag.FlagSet, args []string, positional int) (*build, error) {
	configPath := fs.String("config", "", "Config file")
	resolution := fs.Int("resolution", 0, "Cells per side")
	width := fs.Float64("width", 0, "World extent along X")
	length := fs.Float64("length", 0, "World extent along Z")
	minHeight := fs.Float64("min", 0, "Height of red 0")
	maxHeight := fs.Float64("max", 0, "Height of red 255")
	exp := fs.Float64("exp", -1, "Redistribution exponent")
	blur := fs.Float64("blur", -1, "Gaussian pre-blur")
	flat := fs.Bool("flat", false, "Build a flat grid")
	debug := fs.Bool("debug", false, "Log at debug level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < positional {
		return nil, fmt.Errorf("expected %d argument(s), got %d", positional, fs.NArg())
	}

	level := "warn"
	if *debug {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		return nil, err
	}
	defer logger.Sync()

	cfg := config.Default().Terrain.Config
	var bands string
	if *configPath != "" {
		full, err := config.LoadFile(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = full.Terrain.Config
		bands = full.Terrain.ColorBands
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["resolution"] {
		cfg.Resolution = *resolution
	}
	if set["width"] {
		cfg.Width = float32(*width)
	}
	if set["length"] {
		cfg.Length = float32(*length)
	}
	if set["min"] {
		cfg.MinHeight = float32(*minHeight)
	}
	if set["max"] {
		cfg.MaxHeight = float32(*maxHeight)
	}
	if set["exp"] {
		cfg.Redistribution = float32(*exp)
	}
	if set["blur"] {
		cfg.Blur = float32(*blur)
	}

	var source terrain.HeightmapSource
	if !*flat {
		source = terrain.FileSource(fs.Arg(0))
	}
	mesh, err := terrain.NewGenerator(source).Regenerate(cfg)
	if err != nil {
		return nil, err
	}
	return &build{mesh: mesh, cfg: cfg, bands: bands, args: fs.Args()}, nil
}

func cmdBuild(w io.Writer, args []string) error {
	start := time.Now()
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	res, err := buildFlags(fs, args, 1)
	if err != nil {
		return err
	}
	mesh := res.mesh

	b := mesh.Bounds
	fmt.Fprintf(w, "Heightmap: %s\n", res.args[0])
	fmt.Fprintf(w, "Vertices:  %d\n", len(mesh.Vertices))
	fmt.Fprintf(w, "Indices:   %d\n", len(mesh.Indices))
	fmt.Fprintf(w, "Triangles: %d\n", mesh.TriangleCount())
	fmt.Fprintf(w, "Bounds:    (%.2f, %.2f, %.2f) - (%.2f, %.2f, %.2f)\n",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
	fmt.Fprintf(w, "Took:      %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func cmdOBJ(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("obj", flag.ContinueOnError)
	colors := fs.Bool("colors", false, "Write per-vertex colour band RGB")
	res, err := buildFlags(fs, args, 2)
	if err != nil {
		return err
	}
	mesh, path := res.mesh, res.args[1]

	write := mesh.WriteOBJ
	if *colors {
		bands := terrain.DefaultColorBands()
		if res.bands != "" {
			if bands, err = terrain.LoadColorBands(res.bands); err != nil {
				return err
			}
		}
		write = func(w io.Writer) error { return mesh.WriteColoredOBJ(w, res.cfg, bands) }
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote %s (%d vertices, %d triangles)\n", path, len(mesh.Vertices), mesh.TriangleCount())
	return nil
}
