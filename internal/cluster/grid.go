package cluster

import (
	"fmt"
	"math"
	"strconv"
)

// DefaultGridCellSize is the grid cell edge in projected pixels.
const DefaultGridCellSize = 150.0

// GridOptions configures Grid.
type GridOptions[T any] struct {
	CellSize float64       // Cell edge length in vector units, must be > 0
	Vector   VectorFunc[T] // Point -> vector space (e.g. container pixels)
}

func (o GridOptions[T]) validate() error {
	if !(o.CellSize > 0) || math.IsInf(o.CellSize, 0) {
		return fmt.Errorf("%w: cell size must be a positive finite number, got %g", ErrInvalidParameter, o.CellSize)
	}
	if o.Vector == nil {
		return fmt.Errorf("%w: vector accessor is required", ErrInvalidParameter)
	}
	return nil
}

// CellID returns the grid cell key "{floor(x/cellSize)};{floor(y/cellSize)}".
// Indices are formatted from the floored float, so they never wrap for
// quotients beyond the int64 range.
func CellID(v Vector2, cellSize float64) string {
	return cellIndex(v.X, cellSize) + ";" + cellIndex(v.Y, cellSize)
}

func cellIndex(x, cellSize float64) string {
	// +0 folds -0 to 0.
	return strconv.FormatFloat(math.Floor(x/cellSize)+0, 'f', -1, 64)
}

// Grid buckets points by the grid cell their vector falls into and returns one
// cluster per non-empty cell. Cells are emitted in the order they were first
// seen and members keep their input order. Cluster IDs are the cell IDs.
func Grid[T Locatable](points []T, opts GridOptions[T]) ([]Cluster[T], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, nil
	}

	buckets := make(map[string][]T)
	order := make([]string, 0)
	for _, p := range points {
		id := CellID(opts.Vector(p), opts.CellSize)
		if _, ok := buckets[id]; !ok {
			order = append(order, id)
		}
		buckets[id] = append(buckets[id], p)
	}

	clusters := make([]Cluster[T], 0, len(order))
	for _, id := range order {
		members := buckets[id]
		clusters = append(clusters, Cluster[T]{
			ID:     id,
			Center: meanCenter(members, coordOf[T]),
			Points: members,
		})
	}
	return clusters, nil
}
