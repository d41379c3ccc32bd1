package cluster

import (
	"math"
	"math/rand"
)

// testPoint is a payload with both a geographic and a projected position.
type testPoint struct {
	ID   int
	Lat  float64
	Lng  float64
	X, Y float64
}

func (p testPoint) Coord() LatLng { return LatLng{Lat: p.Lat, Lng: p.Lng} }

func vecOf(p testPoint) Vector2 { return Vector2{X: p.X, Y: p.Y} }

func euclid(a, b testPoint) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

// randomPoints generates n points spread over a size x size square.
func randomPoints(seed int64, n int, size float64) []testPoint {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]testPoint, n)
	for i := range pts {
		x := rng.Float64() * size
		y := rng.Float64() * size
		pts[i] = testPoint{ID: i, X: x, Y: y, Lat: y / 100, Lng: x / 100}
	}
	return pts
}

// blobs generates tight groups around each centre plus a few stragglers.
func blobs(seed int64, centres []Vector2, perBlob int, spread float64) []testPoint {
	rng := rand.New(rand.NewSource(seed))
	var pts []testPoint
	for _, c := range centres {
		for i := 0; i < perBlob; i++ {
			x := c.X + (rng.Float64()-0.5)*spread
			y := c.Y + (rng.Float64()-0.5)*spread
			pts = append(pts, testPoint{ID: len(pts), X: x, Y: y, Lat: y, Lng: x})
		}
	}
	return pts
}

func memberIDs(c Cluster[testPoint]) []int {
	ids := make([]int, len(c.Points))
	for i, p := range c.Points {
		ids[i] = p.ID
	}
	return ids
}
