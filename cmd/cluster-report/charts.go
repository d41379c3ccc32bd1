package main

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// writeScatterHTML renders places and both strategies' centres as an
// interactive scatter chart. Y is negated so north stays up.
func writeScatterHTML(path string, r *Report) error {
	places := make([]opts.ScatterData, 0, len(r.Points))
	for _, p := range r.Points {
		places = append(places, opts.ScatterData{Value: []interface{}{p.X, -p.Y}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Marker Clusters", Theme: "dark", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Marker Clusters",
			Subtitle: fmt.Sprintf("visible=%d grid=%d dbscan=%d", r.VisiblePlaces, r.Grid.Clusters, r.DBSCAN.Clusters),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X (px)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y (px)", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("places", places, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	scatter.AddSeries("grid", centreData(r.GridCenters), charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}))
	scatter.AddSeries("dbscan", centreData(r.DBSCANCenters), charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func centreData(cs []ClusterPoint) []opts.ScatterData {
	out := make([]opts.ScatterData, 0, len(cs))
	for _, c := range cs {
		out = append(out, opts.ScatterData{Value: []interface{}{c.X, -c.Y, c.Size}})
	}
	return out
}

// writeScatterPNG renders the same comparison as a static image.
func writeScatterPNG(path string, r *Report) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Clusters: grid=%d dbscan=%d", r.Grid.Clusters, r.DBSCAN.Clusters)
	p.X.Label.Text = "X (px)"
	p.Y.Label.Text = "Y (px)"

	series := []struct {
		name   string
		pts    plotter.XYs
		colour color.Color
		radius vg.Length
	}{
		{"places", vectorXYs(r), color.RGBA{R: 120, G: 120, B: 120, A: 255}, vg.Points(1)},
		{"grid", centreXYs(r.GridCenters), color.RGBA{R: 31, G: 119, B: 180, A: 255}, vg.Points(5)},
		{"dbscan", centreXYs(r.DBSCANCenters), color.RGBA{R: 214, G: 39, B: 40, A: 255}, vg.Points(3)},
	}
	for _, s := range series {
		if len(s.pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(s.pts)
		if err != nil {
			return fmt.Errorf("%s scatter: %w", s.name, err)
		}
		sc.GlyphStyle.Color = s.colour
		sc.GlyphStyle.Radius = s.radius
		p.Add(sc)
		p.Legend.Add(s.name, sc)
	}
	p.Legend.Top = true
	p.Legend.Left = false

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

func vectorXYs(r *Report) plotter.XYs {
	pts := make(plotter.XYs, len(r.Points))
	for i, v := range r.Points {
		pts[i] = plotter.XY{X: v.X, Y: -v.Y}
	}
	return pts
}

func centreXYs(cs []ClusterPoint) plotter.XYs {
	pts := make(plotter.XYs, len(cs))
	for i, c := range cs {
		pts[i] = plotter.XY{X: c.X, Y: -c.Y}
	}
	return pts
}
