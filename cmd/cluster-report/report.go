package main

import (
	"time"

	"github.com/banshee-data/mapcluster/internal/cluster"
	"github.com/banshee-data/mapcluster/internal/layer"
	"github.com/banshee-data/mapcluster/internal/pointstore"
)

// Report compares the clustering strategies over the visible places.
type Report struct {
	TotalPlaces   int               `json:"total_places"`
	VisiblePlaces int               `json:"visible_places"`
	LayerMarkers  int               `json:"layer_markers"`
	CellSize      float64           `json:"cell_size"`
	Eps           float64           `json:"eps"`
	MinPts        int               `json:"min_pts"`
	Grid          StrategyStats     `json:"grid"`
	DBSCAN        StrategyStats     `json:"dbscan"`
	Points        []cluster.Vector2 `json:"-"`
	GridCenters   []ClusterPoint    `json:"-"`
	DBSCANCenters []ClusterPoint    `json:"-"`
}

// StrategyStats summarises one strategy's output.
type StrategyStats struct {
	Name      string `json:"name"`
	Clusters  int    `json:"clusters"`
	Largest   int    `json:"largest"`
	Singles   int    `json:"singles"`
	Noise     int    `json:"noise"`
	ElapsedUs int64  `json:"elapsed_us"`
}

// ClusterPoint is a cluster centre in container pixels with its size.
type ClusterPoint struct {
	X, Y float64
	Size int
}

// compare runs grid and DBSCAN over the places visible on m.
func compare(m layer.Map, places []pointstore.Place, cfg Config) (*Report, error) {
	report := &Report{
		TotalPlaces: len(places),
		CellSize:    cfg.CellSize,
		Eps:         cfg.Eps,
		MinPts:      cfg.MinPts,
	}

	bounds, ok := m.Bounds()
	if !ok {
		return report, nil
	}
	var visible []pointstore.Place
	for _, p := range places {
		if bounds.Contains(p.Coord()) {
			visible = append(visible, p)
		}
	}
	report.VisiblePlaces = len(visible)

	project := func(p pointstore.Place) cluster.Vector2 { return m.Project(p.Coord()) }
	report.Points = make([]cluster.Vector2, len(visible))
	for i, p := range visible {
		report.Points[i] = project(p)
	}

	start := time.Now()
	grid, err := cluster.Grid(visible, cluster.GridOptions[pointstore.Place]{
		CellSize: cfg.CellSize,
		Vector:   project,
	})
	if err != nil {
		return nil, err
	}
	report.Grid = summarise("grid", grid, 0, time.Since(start))
	report.GridCenters = centres(m, grid)

	start = time.Now()
	res, err := cluster.RunDBSCAN(visible, cluster.DBSCANOptions[pointstore.Place]{
		Eps:    cfg.Eps,
		MinPts: cfg.MinPts,
		Vector: project,
		Coord:  pointstore.Place.Coord,
	})
	if err != nil {
		return nil, err
	}
	report.DBSCAN = summarise("dbscan", res.Clusters, len(res.Noise()), time.Since(start))
	report.DBSCANCenters = centres(m, res.Clusters)

	return report, nil
}

func summarise[T any](name string, clusters []cluster.Cluster[T], noise int, elapsed time.Duration) StrategyStats {
	s := StrategyStats{Name: name, Clusters: len(clusters), Noise: noise, ElapsedUs: elapsed.Microseconds()}
	for _, c := range clusters {
		if c.Size() > s.Largest {
			s.Largest = c.Size()
		}
		if c.Size() == 1 {
			s.Singles++
		}
	}
	return s
}

func centres(m layer.Map, clusters []cluster.Cluster[pointstore.Place]) []ClusterPoint {
	out := make([]ClusterPoint, len(clusters))
	for i, c := range clusters {
		v := m.Project(c.Center)
		out[i] = ClusterPoint{X: v.X, Y: v.Y, Size: c.Size()}
	}
	return out
}
