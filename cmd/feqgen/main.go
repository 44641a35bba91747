// Command feqgen is a small batch CLI around the feq conversion: it
// reads a skeleton description, runs GraphToFEQ (or GraphToFEQRadius
// when a radius is given), and writes the result as an OBJ file. No
// window, no GL context — this is a headless geometry tool, not a
// renderer.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"feq/internal/config"
	"feq/internal/frame"
	"feq/internal/meshio"
	"feq/internal/profiling"
	"feq/internal/skeleton"
	"feq/internal/trace"

	"github.com/xlab/closer"

	"feq"
)

func main() {
	in := flag.String("in", "", "skeleton description file (required)")
	out := flag.String("out", "out.obj", "output OBJ path")
	radius := flag.Float64("radius", 0, "uniform radius override (0 = 0.5*average edge length)")
	ghostPolicy := flag.String("ghost", "single", "ghost-point policy for 3-arc junctions: single or triple")
	piLiteral := flag.Bool("pi-literal", true, "use the 22/7 angle-step approximation instead of math.Pi")
	verbose := flag.Bool("v", false, "log trace events emitted during conversion")
	profile := flag.Bool("profile", false, "print a per-stage timing report after conversion")
	flag.Parse()

	closer.Bind(func() {
		log.Println("feqgen: shutting down")
	})
	defer closer.Close()

	if *in == "" {
		log.Fatalf("feqgen: -in is required")
	}

	switch strings.ToLower(*ghostPolicy) {
	case "single":
		config.SetGhostPolicy(config.SingleGhost)
	case "triple":
		config.SetGhostPolicy(config.TripleGhost)
	default:
		log.Fatalf("feqgen: unknown -ghost value %q", *ghostPolicy)
	}
	config.SetPiApproximation(*piLiteral)

	g, err := readSkeleton(*in)
	if err != nil {
		log.Fatalf("feqgen: reading %s: %v", *in, err)
	}

	tr := trace.New()
	var radii []float64
	if *radius > 0 {
		radii = make([]float64, g.NumNodes())
		for i := range radii {
			radii[i] = *radius
		}
	}
	m := feq.GraphToFEQRadiusWithTrace(g, radii, tr)

	if *verbose {
		for _, ev := range tr.Events {
			log.Printf("feqgen: %s", ev)
		}
	}
	if *profile {
		log.Printf("feqgen: %s", profiling.Report())
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("feqgen: creating %s: %v", *out, err)
	}
	defer f.Close()

	if err := meshio.WriteOBJ(f, m); err != nil {
		log.Fatalf("feqgen: writing %s: %v", *out, err)
	}
	fmt.Printf("feqgen: wrote %s\n", *out)
}

// readSkeleton parses the tiny skeleton text format: blank lines and
// lines starting with # are ignored; "v x y z" appends a node at that
// position; "e a b" connects nodes a and b by their 0-based index in
// declaration order.
func readSkeleton(path string) (*skeleton.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g := skeleton.New()
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: expected 'v x y z'", lineNo)
			}
			x, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			y, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			z, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			g.AddNode(frame.Vec3{x, y, z})
		case "e":
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: expected 'e a b'", lineNo)
			}
			a, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			b, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			if a < 0 || a >= g.NumNodes() || b < 0 || b >= g.NumNodes() {
				return nil, fmt.Errorf("line %d: edge index out of range", lineNo)
			}
			g.AddEdge(skeleton.NodeID(a), skeleton.NodeID(b))
		default:
			return nil, fmt.Errorf("line %d: unknown record %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return g, nil
}
