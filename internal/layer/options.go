package layer

import (
	"fmt"
	"time"

	"github.com/banshee-data/mapcluster/internal/cluster"
	"github.com/banshee-data/mapcluster/internal/config"
	"github.com/banshee-data/mapcluster/internal/monitoring"
	"github.com/banshee-data/mapcluster/internal/render"
	"github.com/banshee-data/mapcluster/internal/timeutil"
)

// Renderer turns custom marker markup into a Visual.
type Renderer func(markup string) (Visual, error)

// HTMLRenderer renders markup with render.HTMLRenderer.
func HTMLRenderer(markup string) (Visual, error) {
	el, err := render.HTMLRenderer{}.Render(markup)
	if err != nil {
		return nil, err
	}
	return el, nil
}

// Options configures a Controller. Zero values select the defaults.
type Options[T cluster.Locatable] struct {
	// Throttle is the minimum interval between executed recomputes.
	// Zero means DefaultThrottle; a negative value disables throttling.
	Throttle time.Duration

	// ClusterHTML returns custom marker markup for a cluster, or "" to use
	// the host's default marker. Defaults to DefaultClusterHTML.
	ClusterHTML func(points []T) string

	// Strategy clusters the visible points. Defaults to a grid strategy
	// with cluster.DefaultGridCellSize.
	Strategy cluster.Strategy[T]

	// Renderer parses ClusterHTML output. Defaults to HTMLRenderer.
	Renderer Renderer

	// Event is the host map event that triggers a recompute.
	Event string

	// Clock is used for throttling and timing. Defaults to timeutil.RealClock.
	Clock timeutil.Clock

	// OnError receives errors from event-triggered recomputes.
	// Defaults to logging through monitoring.Logf.
	OnError func(err error)

	// Debug logs a summary of every recompute.
	Debug bool
}

func (o Options[T]) withDefaults() Options[T] {
	if o.Throttle == 0 {
		o.Throttle = DefaultThrottle
	}
	if o.ClusterHTML == nil {
		o.ClusterHTML = DefaultClusterHTML[T]
	}
	if o.Strategy == nil {
		o.Strategy = cluster.NewDefaultGridStrategy[T]()
	}
	if o.Renderer == nil {
		o.Renderer = HTMLRenderer
	}
	if o.Event == "" {
		o.Event = DefaultEvent
	}
	if o.Clock == nil {
		o.Clock = timeutil.RealClock{}
	}
	if o.OnError == nil {
		o.OnError = func(err error) {
			monitoring.Logf("[layer] recompute failed: %v", err)
		}
	}
	return o
}

// ApplyConfig overrides the options with values from cfg. The strategy is
// replaced with one built from the configured name and parameters.
func (o *Options[T]) ApplyConfig(cfg *config.LayerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.Throttle = cfg.GetThrottle()
	if o.Throttle == 0 {
		o.Throttle = -1 // explicit zero in config disables throttling
	}
	o.Event = cfg.GetEvent()
	o.Debug = cfg.GetDebug()

	switch name := cfg.GetStrategy(); name {
	case config.StrategyGrid:
		o.Strategy = cluster.NewGridStrategy[T](cfg.GetCellSize())
	case config.StrategyDBSCAN:
		o.Strategy = cluster.NewDBSCANStrategy[T](cfg.GetEps(), cfg.GetMinPts(), nil)
	default:
		return fmt.Errorf("unknown strategy %q", name)
	}
	return nil
}

// DefaultClusterHTML renders a count badge for multi-point clusters and asks
// for the default marker for single points.
func DefaultClusterHTML[T any](points []T) string {
	n := len(points)
	if n <= 1 {
		return ""
	}
	size := "small"
	switch {
	case n >= 100:
		size = "large"
	case n >= 10:
		size = "medium"
	}
	return fmt.Sprintf(`<div class="marker-cluster marker-cluster-%s"><div><span>%d</span></div></div>`, size, n)
}
