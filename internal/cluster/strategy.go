package cluster

// Strategy abstracts the clustering algorithm so the layer controller can
// swap grid and density clustering without changing its recompute loop.
type Strategy[T Locatable] interface {
	// Cluster groups points using vector as the projection for this pass.
	Cluster(points []T, vector VectorFunc[T]) ([]Cluster[T], error)

	// Params returns the current clustering parameters.
	Params() Params

	// SetParams updates the clustering parameters.
	SetParams(params Params)
}

// Params holds strategy parameters. Fields not used by a strategy are ignored.
type Params struct {
	CellSize float64 // Grid cell edge in vector units
	Eps      float64 // DBSCAN neighbourhood radius in vector units
	MinPts   int     // DBSCAN minimum neighbourhood size
}

// Default DBSCAN parameters for pixel-space clustering.
const (
	DefaultDBSCANEps    = 60.0
	DefaultDBSCANMinPts = 2
)

// GridStrategy implements Strategy using Grid.
type GridStrategy[T Locatable] struct {
	params Params
}

// NewGridStrategy creates a grid strategy with the given cell size.
func NewGridStrategy[T Locatable](cellSize float64) *GridStrategy[T] {
	return &GridStrategy[T]{params: Params{CellSize: cellSize}}
}

// NewDefaultGridStrategy creates a grid strategy with DefaultGridCellSize.
func NewDefaultGridStrategy[T Locatable]() *GridStrategy[T] {
	return NewGridStrategy[T](DefaultGridCellSize)
}

func (s *GridStrategy[T]) Cluster(points []T, vector VectorFunc[T]) ([]Cluster[T], error) {
	return Grid(points, GridOptions[T]{CellSize: s.params.CellSize, Vector: vector})
}

func (s *GridStrategy[T]) Params() Params { return s.params }

func (s *GridStrategy[T]) SetParams(params Params) { s.params = params }

// DBSCANStrategy implements Strategy using DBSCAN.
type DBSCANStrategy[T Locatable] struct {
	params   Params
	distance DistanceFunc[T]
}

// NewDBSCANStrategy creates a density strategy. distance may be nil to use
// Euclidean distance in the projected space.
func NewDBSCANStrategy[T Locatable](eps float64, minPts int, distance DistanceFunc[T]) *DBSCANStrategy[T] {
	return &DBSCANStrategy[T]{
		params:   Params{Eps: eps, MinPts: minPts},
		distance: distance,
	}
}

// NewDefaultDBSCANStrategy creates a density strategy with default parameters.
func NewDefaultDBSCANStrategy[T Locatable]() *DBSCANStrategy[T] {
	return NewDBSCANStrategy[T](DefaultDBSCANEps, DefaultDBSCANMinPts, nil)
}

func (s *DBSCANStrategy[T]) Cluster(points []T, vector VectorFunc[T]) ([]Cluster[T], error) {
	return DBSCAN(points, DBSCANOptions[T]{
		Eps:      s.params.Eps,
		MinPts:   s.params.MinPts,
		Vector:   vector,
		Coord:    coordOf[T],
		Distance: s.distance,
	})
}

func (s *DBSCANStrategy[T]) Params() Params { return s.params }

func (s *DBSCANStrategy[T]) SetParams(params Params) { s.params = params }

// Verify at compile time that both strategies implement Strategy.
var (
	_ Strategy[LatLng] = (*GridStrategy[LatLng])(nil)
	_ Strategy[LatLng] = (*DBSCANStrategy[LatLng])(nil)
)
