// Package main provides an offline report tool for the clustered marker layer.
// It loads places from a SQLite store, attaches a layer to an in-memory map at
// the requested viewport, and compares grid and DBSCAN clustering of the
// visible places.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/banshee-data/mapcluster/internal/cluster"
	"github.com/banshee-data/mapcluster/internal/config"
	"github.com/banshee-data/mapcluster/internal/layer"
	"github.com/banshee-data/mapcluster/internal/memmap"
	"github.com/banshee-data/mapcluster/internal/pointstore"
	"github.com/banshee-data/mapcluster/internal/version"
)

// Config holds the command-line configuration.
type Config struct {
	DBPath     string
	ConfigPath string
	OutputDir  string
	SeedCount  int
	Seed       int64
	Lat        float64
	Lng        float64
	Zoom       float64
	Width      int
	Height     int
	CellSize   float64
	Eps        float64
	MinPts     int
	Verbose    bool
	Version    bool
}

func main() {
	cfg := parseFlags()
	if cfg.Version {
		fmt.Println(version.String("cluster-report"))
		return
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	report, err := run(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Report failed: %v", err)
	}

	printReport(report)
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.DBPath, "db", "places.db", "Path to the SQLite place store")
	flag.StringVar(&cfg.ConfigPath, "config", "", "Optional layer config file (.json or .toml)")
	flag.StringVar(&cfg.OutputDir, "output", "report", "Output directory for charts and JSON")
	flag.IntVar(&cfg.SeedCount, "seed-count", 0, "Insert this many synthetic places before reporting")
	flag.Int64Var(&cfg.Seed, "seed", 1, "Random seed for synthetic places")
	flag.Float64Var(&cfg.Lat, "lat", 51.5074, "Viewport centre latitude")
	flag.Float64Var(&cfg.Lng, "lng", -0.1278, "Viewport centre longitude")
	flag.Float64Var(&cfg.Zoom, "zoom", 12, "Viewport zoom level")
	flag.IntVar(&cfg.Width, "width", 1024, "Viewport width in pixels")
	flag.IntVar(&cfg.Height, "height", 768, "Viewport height in pixels")
	flag.Float64Var(&cfg.CellSize, "cell", cluster.DefaultGridCellSize, "Grid cell size in pixels")
	flag.Float64Var(&cfg.Eps, "eps", cluster.DefaultDBSCANEps, "DBSCAN eps in pixels")
	flag.IntVar(&cfg.MinPts, "minpts", cluster.DefaultDBSCANMinPts, "DBSCAN minPts")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Log every layer recompute")
	flag.BoolVar(&cfg.Version, "version", false, "Print version and exit")

	flag.Parse()

	return cfg
}

func run(ctx context.Context, cfg Config) (*Report, error) {
	store, err := pointstore.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if cfg.SeedCount > 0 {
		places := syntheticPlaces(cfg.Seed, cfg.SeedCount, cluster.LatLng{Lat: cfg.Lat, Lng: cfg.Lng})
		if _, err := store.Insert(ctx, places...); err != nil {
			return nil, err
		}
		log.Printf("Inserted %d synthetic places", len(places))
	}

	places, err := store.All(ctx)
	if err != nil {
		return nil, err
	}

	m := memmap.New()
	m.SetView(memmap.Viewport{
		Center: cluster.LatLng{Lat: cfg.Lat, Lng: cfg.Lng},
		Zoom:   cfg.Zoom,
		Width:  cfg.Width,
		Height: cfg.Height,
	})

	opts := layer.Options[pointstore.Place]{
		Strategy: cluster.NewGridStrategy[pointstore.Place](cfg.CellSize),
		Debug:    cfg.Verbose,
	}
	if cfg.ConfigPath != "" {
		lc, err := config.LoadLayerConfig(cfg.ConfigPath)
		if err != nil {
			return nil, err
		}
		mergeLayerConfig(lc, &cfg)
		if err := opts.ApplyConfig(lc); err != nil {
			return nil, err
		}
		if cfg.Verbose {
			opts.Debug = true
		}
	}

	dispose, err := layer.Attach(m, places, opts)
	if err != nil {
		return nil, fmt.Errorf("attach layer: %w", err)
	}
	defer dispose()

	report, err := compare(m, places, cfg)
	if err != nil {
		return nil, err
	}
	report.LayerMarkers = len(m.Markers())

	if cfg.OutputDir != "" {
		if err := writeOutputs(cfg.OutputDir, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// mergeLayerConfig fills parameters the file leaves unset from the flags, then
// copies the result back so the comparison runs with the layer's parameters.
func mergeLayerConfig(lc *config.LayerConfig, cfg *Config) {
	if lc.CellSize == nil {
		lc.CellSize = &cfg.CellSize
	}
	if lc.Eps == nil {
		lc.Eps = &cfg.Eps
	}
	if lc.MinPts == nil {
		lc.MinPts = &cfg.MinPts
	}
	cfg.CellSize = lc.GetCellSize()
	cfg.Eps = lc.GetEps()
	cfg.MinPts = lc.GetMinPts()
}

// syntheticPlaces scatters n places around a handful of hotspots near centre.
func syntheticPlaces(seed int64, n int, centre cluster.LatLng) []pointstore.Place {
	rng := rand.New(rand.NewSource(seed))
	const hotspots = 6
	spots := make([]cluster.LatLng, hotspots)
	for i := range spots {
		spots[i] = cluster.LatLng{
			Lat: centre.Lat + (rng.Float64()-0.5)*0.08,
			Lng: centre.Lng + (rng.Float64()-0.5)*0.12,
		}
	}

	places := make([]pointstore.Place, n)
	for i := range places {
		// One in five places is background scatter rather than a hotspot member.
		if rng.Intn(5) == 0 {
			places[i] = pointstore.Place{
				Lat:    centre.Lat + (rng.Float64()-0.5)*0.1,
				Lng:    centre.Lng + (rng.Float64()-0.5)*0.15,
				Weight: 1,
				Label:  "scatter",
			}
			continue
		}
		s := spots[rng.Intn(hotspots)]
		places[i] = pointstore.Place{
			Lat:    s.Lat + rng.NormFloat64()*0.002,
			Lng:    s.Lng + rng.NormFloat64()*0.003,
			Weight: 1 + rng.Float64(),
			Label:  "hotspot",
		}
	}
	return places
}

func writeOutputs(dir string, report *Report) error {
	if err := writeScatterHTML(filepath.Join(dir, "clusters.html"), report); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	if err := writeScatterPNG(filepath.Join(dir, "clusters.png"), report); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "report.json"), data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func printReport(r *Report) {
	fmt.Printf("Places: %d total, %d visible\n", r.TotalPlaces, r.VisiblePlaces)
	fmt.Printf("Layer markers: %d\n", r.LayerMarkers)
	for _, s := range []StrategyStats{r.Grid, r.DBSCAN} {
		fmt.Printf("  %-7s clusters=%-4d largest=%-4d singles=%-4d noise=%-4d time=%dus\n",
			s.Name, s.Clusters, s.Largest, s.Singles, s.Noise, s.ElapsedUs)
	}
}
