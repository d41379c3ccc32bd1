package layer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/banshee-data/mapcluster/internal/cluster"
	"github.com/banshee-data/mapcluster/internal/monitoring"
)

// Controller keeps one clustered marker layer in sync with a host map.
// Recomputes on one Controller are serialised; the marker set is owned by the
// Controller and never shared.
type Controller[T cluster.Locatable] struct {
	mu       sync.Mutex
	m        Map
	points   []T
	opts     Options[T]
	limiter  *RateLimiter
	markers  []Marker
	listener ListenerID
	attached bool
}

// New creates a Controller without binding it to the map's events.
func New[T cluster.Locatable](m Map, points []T, opts Options[T]) (*Controller[T], error) {
	if m == nil {
		return nil, errors.New("layer: host map is required")
	}
	opts = opts.withDefaults()
	return &Controller[T]{
		m:       m,
		points:  points,
		opts:    opts,
		limiter: NewRateLimiter(opts.Throttle),
	}, nil
}

// Attach creates a Controller, binds it to the map's viewport event and runs
// the first recompute immediately. The returned func detaches the binding; it
// leaves rendered markers in place.
func Attach[T cluster.Locatable](m Map, points []T, opts Options[T]) (dispose func(), err error) {
	c, err := New(m, points, opts)
	if err != nil {
		return nil, err
	}
	if err := c.Attach(); err != nil {
		return nil, err
	}
	return c.Dispose, nil
}

// Attach binds the Controller to the map's viewport event and runs the first
// recompute. If that recompute fails the binding is removed again.
func (c *Controller[T]) Attach() error {
	c.mu.Lock()
	if c.attached {
		c.mu.Unlock()
		return errors.New("layer: controller already attached")
	}
	c.listener = c.m.On(c.opts.Event, c.onViewportChange)
	c.attached = true
	c.mu.Unlock()

	if _, err := c.throttled(); err != nil {
		c.Dispose()
		return err
	}
	return nil
}

// Dispose detaches the viewport event binding. Markers currently on the map
// are not removed. Calling Dispose more than once is a no-op.
func (c *Controller[T]) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.attached {
		return
	}
	c.m.Off(c.opts.Event, c.listener)
	c.attached = false
}

// Markers returns the markers created by the latest recompute.
func (c *Controller[T]) Markers() []Marker {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Marker, len(c.markers))
	copy(out, c.markers)
	return out
}

// Recompute rebuilds the marker layer now, bypassing the throttle.
func (c *Controller[T]) Recompute() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.run()
	return err
}

func (c *Controller[T]) onViewportChange() {
	if _, err := c.throttled(); err != nil {
		c.opts.OnError(err)
	}
}

// throttled runs a recompute if the rate limiter allows it and reports
// whether it ran. A recompute skipped for missing bounds does not count as a
// run, so the next viewport event is not throttled.
func (c *Controller[T]) throttled() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Clock.Now()
	if !c.limiter.ShouldRun(now) {
		return false, nil
	}
	ran, err := c.run()
	if ran {
		c.limiter.MarkRun(now)
	}
	return ran, err
}

// run recomputes the layer if the map has bounds and reports whether it did.
// Callers hold c.mu.
func (c *Controller[T]) run() (bool, error) {
	bounds, ok := c.m.Bounds()
	if !ok {
		if c.opts.Debug {
			monitoring.Logf("[layer] viewport bounds unavailable, skipping recompute")
		}
		return false, nil
	}
	return true, c.recomputeLocked(bounds)
}

func (c *Controller[T]) recomputeLocked(bounds Bounds) error {

	var done func(format string, v ...interface{})
	if c.opts.Debug {
		done = monitoring.Timed(c.opts.Clock, "layer")
	}

	visible := make([]T, 0, len(c.points))
	for _, p := range c.points {
		if bounds.Contains(p.Coord()) {
			visible = append(visible, p)
		}
	}

	project := func(p T) cluster.Vector2 { return c.m.Project(p.Coord()) }
	clusters, err := c.opts.Strategy.Cluster(visible, project)
	if err != nil {
		return fmt.Errorf("cluster visible points: %w", err)
	}

	// Render every visual before touching the map so a bad template leaves
	// the previous markers in place.
	visuals := make([]Visual, len(clusters))
	for i, cl := range clusters {
		markup := c.opts.ClusterHTML(cl.Points)
		if markup == "" {
			continue
		}
		v, err := c.opts.Renderer(markup)
		if err != nil {
			return fmt.Errorf("render cluster %s: %w", cl.ID, err)
		}
		visuals[i] = v
	}

	for _, mk := range c.markers {
		mk.Remove()
	}

	markers := make([]Marker, 0, len(clusters))
	for i, cl := range clusters {
		mk := c.m.NewMarker(visuals[i])
		mk.SetPosition(cl.Center)
		mk.AddTo(c.m)
		markers = append(markers, mk)
	}
	c.markers = markers

	if done != nil {
		done("visible=%d/%d clusters=%d", len(visible), len(c.points), len(clusters))
	}
	return nil
}
