package cluster

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Noise is the DBSCAN label of a point that belongs to no cluster.
const Noise = -1

// DBSCANOptions configures DBSCAN.
type DBSCANOptions[T any] struct {
	Eps      float64         // Neighbourhood radius, must be > 0
	MinPts   int             // Minimum neighbourhood size, counting the point itself
	Vector   VectorFunc[T]   // Used by the default Euclidean distance
	Coord    CoordFunc[T]    // Used for cluster centres
	Distance DistanceFunc[T] // Optional; overrides the Euclidean distance over Vector
}

func (o DBSCANOptions[T]) validate() error {
	if !(o.Eps > 0) {
		return fmt.Errorf("%w: eps must be > 0, got %g", ErrInvalidParameter, o.Eps)
	}
	if o.MinPts < 1 {
		return fmt.Errorf("%w: minPts must be >= 1, got %d", ErrInvalidParameter, o.MinPts)
	}
	if o.Coord == nil {
		return fmt.Errorf("%w: coord accessor is required", ErrInvalidParameter)
	}
	if o.Distance == nil && o.Vector == nil {
		return fmt.Errorf("%w: vector accessor is required without a custom distance", ErrInvalidParameter)
	}
	return nil
}

// DBSCANResult holds the per-point outcome of a DBSCAN run alongside the
// clusters built from it. Labels[i] is Noise or the index of the cluster
// containing point i; Core[i] reports whether point i is a core point.
type DBSCANResult[T any] struct {
	Clusters []Cluster[T]
	Labels   []int
	Core     []bool
}

// Noise returns the input indices of every noise point, in input order.
func (r *DBSCANResult[T]) Noise() []int {
	var idx []int
	for i, l := range r.Labels {
		if l == Noise {
			idx = append(idx, i)
		}
	}
	return idx
}

// IsBorder reports whether point i was absorbed into a cluster without being
// dense enough to be a core point itself.
func (r *DBSCANResult[T]) IsBorder(i int) bool {
	return r.Labels[i] != Noise && !r.Core[i]
}

// DBSCAN clusters points by density and drops noise from the output.
func DBSCAN[T any](points []T, opts DBSCANOptions[T]) ([]Cluster[T], error) {
	res, err := RunDBSCAN(points, opts)
	if err != nil {
		return nil, err
	}
	return res.Clusters, nil
}

// RunDBSCAN performs DBSCAN and returns labels and core flags as well as the
// clusters. Clusters are ordered by ascending cluster index and members keep
// their input order. Distance evaluations are O(n^2) in the worst case.
func RunDBSCAN[T any](points []T, opts DBSCANOptions[T]) (*DBSCANResult[T], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	run := newDBSCANRun(points, opts)
	n := len(points)
	next := 0
	for i := 0; i < n; i++ {
		if run.visited[i] {
			continue
		}
		run.visited[i] = true

		neighbors := run.regionQuery(i)
		if len(neighbors) < opts.MinPts {
			run.labels[i] = Noise // may still become a border point later
			continue
		}

		run.expand(i, neighbors, next)
		next++
	}

	return &DBSCANResult[T]{
		Clusters: run.buildClusters(next),
		Labels:   run.labels,
		Core:     run.core,
	}, nil
}

// dbscanRun is the state of a single DBSCAN call.
type dbscanRun[T any] struct {
	points    []T
	opts      DBSCANOptions[T]
	vectors   [][]float64 // nil when a custom distance is set
	neighbors [][]int     // memoised region queries
	queried   []bool
	visited   []bool
	labels    []int
	core      []bool
}

func newDBSCANRun[T any](points []T, opts DBSCANOptions[T]) *dbscanRun[T] {
	n := len(points)
	r := &dbscanRun[T]{
		points:    points,
		opts:      opts,
		neighbors: make([][]int, n),
		queried:   make([]bool, n),
		visited:   make([]bool, n),
		labels:    make([]int, n),
		core:      make([]bool, n),
	}
	for i := range r.labels {
		r.labels[i] = Noise
	}
	if opts.Distance == nil {
		r.vectors = make([][]float64, n)
		for i, p := range points {
			v := opts.Vector(p)
			r.vectors[i] = []float64{v.X, v.Y}
		}
	}
	return r
}

func (r *dbscanRun[T]) distance(i, j int) float64 {
	if r.opts.Distance != nil {
		return r.opts.Distance(r.points[i], r.points[j])
	}
	return floats.Distance(r.vectors[i], r.vectors[j], 2)
}

// regionQuery returns every j with distance(i, j) <= eps, i included.
func (r *dbscanRun[T]) regionQuery(i int) []int {
	if r.queried[i] {
		return r.neighbors[i]
	}
	var out []int
	for j := range r.points {
		if j == i {
			out = append(out, j)
			continue
		}
		d := r.distance(i, j)
		if !math.IsNaN(d) && d <= r.opts.Eps {
			out = append(out, j)
		}
	}
	r.neighbors[i] = out
	r.queried[i] = true
	return out
}

// expand grows cluster id breadth-first from the core point seed.
func (r *dbscanRun[T]) expand(seed int, neighbors []int, id int) {
	r.labels[seed] = id
	r.core[seed] = true

	queued := make(map[int]struct{}, len(neighbors))
	queued[seed] = struct{}{}
	queue := make([]int, 0, len(neighbors))
	enqueue := func(idx []int) {
		for _, j := range idx {
			if _, ok := queued[j]; ok {
				continue
			}
			queued[j] = struct{}{}
			queue = append(queue, j)
		}
	}
	enqueue(neighbors)

	for k := 0; k < len(queue); k++ {
		q := queue[k]
		if !r.visited[q] {
			r.visited[q] = true
			qn := r.regionQuery(q)
			if len(qn) >= r.opts.MinPts {
				r.core[q] = true
				enqueue(qn)
			}
		}
		if r.labels[q] == Noise {
			r.labels[q] = id
		}
	}
}

func (r *dbscanRun[T]) buildClusters(count int) []Cluster[T] {
	if count == 0 {
		return nil
	}
	members := make([][]T, count)
	for i, l := range r.labels {
		if l == Noise {
			continue
		}
		members[l] = append(members[l], r.points[i])
	}

	clusters := make([]Cluster[T], 0, count)
	for id, pts := range members {
		if len(pts) == 0 {
			continue
		}
		clusters = append(clusters, Cluster[T]{
			ID:     strconv.Itoa(id),
			Center: meanCenter(pts, r.opts.Coord),
			Points: pts,
		})
	}
	return clusters
}
