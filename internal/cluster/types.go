package cluster

import (
	"gonum.org/v1/gonum/stat"
)

// LatLng is a geographic coordinate in degrees. No wraparound correction is
// applied anywhere in this package.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Coord lets a bare LatLng be clustered directly.
func (ll LatLng) Coord() LatLng { return ll }

// Locatable is implemented by point payloads that carry their own coordinate.
type Locatable interface {
	Coord() LatLng
}

// Vector2 is a 2-D coordinate, usually a projected pixel position. It is only
// meaningful within one recompute pass.
type Vector2 struct {
	X, Y float64
}

// VectorFunc maps a point to the vector space used for clustering.
type VectorFunc[T any] func(T) Vector2

// CoordFunc maps a point to the coordinate used for the cluster centre.
type CoordFunc[T any] func(T) LatLng

// DistanceFunc measures the distance between two points.
type DistanceFunc[T any] func(a, b T) float64

// Cluster is a group of points presented as one marker.
// Points is never empty. ID is only stable within a single clustering pass.
type Cluster[T any] struct {
	ID     string
	Center LatLng
	Points []T
}

// Size returns the number of member points.
func (c Cluster[T]) Size() int {
	return len(c.Points)
}

// meanCenter returns the unweighted arithmetic mean of the member coordinates.
// Weights and geodesic correction are deliberately ignored.
func meanCenter[T any](points []T, coord CoordFunc[T]) LatLng {
	lats := make([]float64, len(points))
	lngs := make([]float64, len(points))
	for i, p := range points {
		ll := coord(p)
		lats[i] = ll.Lat
		lngs[i] = ll.Lng
	}
	return LatLng{
		Lat: stat.Mean(lats, nil),
		Lng: stat.Mean(lngs, nil),
	}
}

func coordOf[T Locatable](p T) LatLng {
	return p.Coord()
}
