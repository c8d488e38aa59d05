// Command shapec classifies the coordination geometry of a point set: it
// reads ligand coordinates relative to the central atom, computes the
// continuous shape measure against every library geometry of matching
// coordination number, and prints the candidates ranked by measure.
//
// The input format is deliberately minimal (one "x y z" triple per line,
// '#' comments allowed); extracting coordination spheres from structure
// files is a job for upstream tooling.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coordgeom/shape-core/internal/dispatch"
	"github.com/coordgeom/shape-core/pkg/config"
	"github.com/coordgeom/shape-core/pkg/logger"
	"github.com/coordgeom/shape-core/pkg/refgeom"
	"github.com/coordgeom/shape-core/pkg/shape"
)

func main() {
	var (
		configPath  string
		pointsPath  string
		modeFlag    string
		seed        int64
		workers     int
		logLevel    string
		listShapes  bool
		libraryPath string
		showAll     bool
	)

	flag.StringVar(&configPath, "config", "", "path to YAML config file")
	flag.StringVar(&pointsPath, "points", "", "path to ligand coordinates (one 'x y z' per line, '-' for stdin)")
	flag.StringVar(&modeFlag, "mode", "", "search effort: fast, default or intensive")
	flag.Int64Var(&seed, "seed", 0, "randomness seed (0 = fresh seed)")
	flag.IntVar(&workers, "workers", 0, "number of concurrent computations")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.BoolVar(&listShapes, "list", false, "list the reference geometry library and exit")
	flag.StringVar(&libraryPath, "library", "", "extra YAML geometry library file")
	flag.BoolVar(&showAll, "all", false, "print all candidates instead of the top five")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "shapec: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if modeFlag != "" {
		cfg.Mode = modeFlag
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if workers != 0 {
		cfg.Workers = workers
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if libraryPath != "" {
		cfg.Libraries = append(cfg.Libraries, libraryPath)
	}

	logger.SetDefault(logger.NewText(cfg.LogLevel, os.Stderr))

	mode, err := shape.ParseMode(cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shapec: %v\n", err)
		os.Exit(1)
	}

	library := append([]refgeom.Geometry(nil), refgeom.Builtin()...)
	for _, path := range cfg.Libraries {
		extra, err := refgeom.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "shapec: %v\n", err)
			os.Exit(1)
		}
		library = append(library, extra...)
	}

	if listShapes {
		printLibrary(library)
		return
	}
	if pointsPath == "" {
		fmt.Fprintln(os.Stderr, "shapec: -points is required (or -list)")
		flag.Usage()
		os.Exit(2)
	}

	ligands, err := readPoints(pointsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shapec: %v\n", err)
		os.Exit(1)
	}

	candidates := filterCN(library, len(ligands))
	if len(candidates) == 0 {
		fmt.Fprintf(os.Stderr, "shapec: no reference geometries for coordination number %d\n", len(ligands))
		os.Exit(1)
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := dispatch.New(mode).
		WithWorkers(cfg.Workers).
		WithSeed(cfg.Seed)
	if err := d.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "shapec: %v\n", err)
		os.Exit(1)
	}
	defer d.Stop()

	ranked, err := d.Rank(ctx, ligands, candidates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shapec: %v\n", err)
		os.Exit(1)
	}

	printRanking(ranked, showAll)
}

func readPoints(path string) ([]shape.Vec3, error) {
	var in *os.File
	if path == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open points file: %w", err)
		}
		defer f.Close()
		in = f
	}

	var out []shape.Vec3
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 coordinates, got %d", lineNo, len(fields))
		}
		var v [3]float64
		for i, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			v[i] = x
		}
		out = append(out, shape.Vec3{X: v[0], Y: v[1], Z: v[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read points: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no points found")
	}
	return out, nil
}

func filterCN(library []refgeom.Geometry, cn int) []refgeom.Geometry {
	var out []refgeom.Geometry
	for _, g := range library {
		if g.CN == cn {
			out = append(out, g)
		}
	}
	return out
}

func printLibrary(library []refgeom.Geometry) {
	fmt.Printf("%-12s %-4s %s\n", "CODE", "CN", "NAME")
	for _, g := range library {
		fmt.Printf("%-12s %-4d %s\n", g.Code, g.CN, g.Name)
	}
}

func printRanking(ranked []dispatch.Ranked, showAll bool) {
	limit := len(ranked)
	if !showAll && limit > 5 {
		limit = 5
	}
	fmt.Printf("%-12s %-12s %s\n", "CODE", "MEASURE", "NAME")
	for _, r := range ranked[:limit] {
		if r.Err != nil {
			fmt.Printf("%-12s %-12s %s (%v)\n", r.Geometry.Code, "-", r.Geometry.Name, r.Err)
			continue
		}
		fmt.Printf("%-12s %-12.4f %s\n", r.Geometry.Code, r.Result.Measure, r.Geometry.Name)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", "error", err)
	}
}
