package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/mapcluster/internal/cluster"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		DBPath:    filepath.Join(dir, "places.db"),
		OutputDir: filepath.Join(dir, "out"),
		SeedCount: 400,
		Seed:      7,
		Lat:       51.5074,
		Lng:       -0.1278,
		Zoom:      12,
		Width:     1024,
		Height:    768,
		CellSize:  cluster.DefaultGridCellSize,
		Eps:       cluster.DefaultDBSCANEps,
		MinPts:    cluster.DefaultDBSCANMinPts,
	}
}

func TestRun_WritesReport(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0755))

	report, err := run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 400, report.TotalPlaces)
	assert.Greater(t, report.VisiblePlaces, 0)
	assert.LessOrEqual(t, report.VisiblePlaces, report.TotalPlaces)
	assert.Greater(t, report.LayerMarkers, 0)
	assert.Equal(t, report.Grid.Clusters, report.LayerMarkers)
	assert.Greater(t, report.Grid.Clusters, 0)
	assert.Greater(t, report.DBSCAN.Clusters, 0)

	for _, name := range []string{"clusters.html", "clusters.png", "report.json"} {
		info, err := os.Stat(filepath.Join(cfg.OutputDir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "report.json"))
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Grid, decoded.Grid)
	assert.Equal(t, report.DBSCAN, decoded.DBSCAN)
}

func TestRun_ReusesStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDir = ""

	_, err := run(context.Background(), cfg)
	require.NoError(t, err)

	cfg.SeedCount = 0
	report, err := run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 400, report.TotalPlaces)
}

func TestRun_LayerConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDir = ""
	cfg.ConfigPath = filepath.Join(t.TempDir(), "layer.json")
	require.NoError(t, os.WriteFile(cfg.ConfigPath, []byte(`{"strategy":"dbscan","eps":40,"min_pts":3}`), 0644))

	report, err := run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Greater(t, report.LayerMarkers, 0)
	assert.Equal(t, 40.0, report.Eps)
	assert.Equal(t, 3, report.MinPts)
	assert.Equal(t, cluster.DefaultGridCellSize, report.CellSize, "unset in the file, taken from the flag")
}

func TestRun_LayerConfigDrivesComparison(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDir = ""
	cfg.CellSize = 300
	cfg.ConfigPath = filepath.Join(t.TempDir(), "layer.toml")
	require.NoError(t, os.WriteFile(cfg.ConfigPath, []byte("strategy = \"grid\"\ncell_size = 80.0\n"), 0644))

	report, err := run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 80.0, report.CellSize)
	assert.Equal(t, report.Grid.Clusters, report.LayerMarkers, "comparison grid matches the attached layer")
}

func TestRun_BadLayerConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDir = ""
	cfg.ConfigPath = filepath.Join(t.TempDir(), "layer.json")
	require.NoError(t, os.WriteFile(cfg.ConfigPath, []byte(`{"strategy":"kmeans"}`), 0644))

	_, err := run(context.Background(), cfg)
	assert.Error(t, err)
}

func TestSummarise(t *testing.T) {
	clusters := []cluster.Cluster[cluster.LatLng]{
		{ID: "a", Points: make([]cluster.LatLng, 3)},
		{ID: "b", Points: make([]cluster.LatLng, 1)},
		{ID: "c", Points: make([]cluster.LatLng, 1)},
	}
	got := summarise("grid", clusters, 2, 0)
	assert.Equal(t, StrategyStats{Name: "grid", Clusters: 3, Largest: 3, Singles: 2, Noise: 2}, got)
}

func TestSyntheticPlaces_Deterministic(t *testing.T) {
	centre := cluster.LatLng{Lat: 10, Lng: 20}
	a := syntheticPlaces(3, 50, centre)
	b := syntheticPlaces(3, 50, centre)
	require.Len(t, a, 50)
	assert.Equal(t, a, b)
	for _, p := range a {
		assert.InDelta(t, centre.Lat, p.Lat, 0.1)
		assert.InDelta(t, centre.Lng, p.Lng, 0.15)
	}
}
