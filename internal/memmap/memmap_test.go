package memmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/mapcluster/internal/cluster"
)

func testView() Viewport {
	return Viewport{Center: cluster.LatLng{Lat: 51.5, Lng: -0.12}, Zoom: 12, Width: 800, Height: 600}
}

func TestMap_BoundsUnavailableBeforeLoad(t *testing.T) {
	m := New()
	_, ok := m.Bounds()
	assert.False(t, ok)
}

func TestMap_ProjectCentre(t *testing.T) {
	m := New()
	m.SetView(testView())

	p := m.Project(testView().Center)
	assert.InDelta(t, 400, p.X, 1e-6)
	assert.InDelta(t, 300, p.Y, 1e-6)

	// East is +X, north is -Y.
	east := m.Project(cluster.LatLng{Lat: 51.5, Lng: -0.1})
	north := m.Project(cluster.LatLng{Lat: 51.51, Lng: -0.12})
	assert.Greater(t, east.X, p.X)
	assert.Less(t, north.Y, p.Y)
}

func TestMap_ProjectZoomDoublesDistance(t *testing.T) {
	m := New()
	v := testView()
	m.SetView(v)
	a := m.Project(cluster.LatLng{Lat: 51.5, Lng: -0.1})

	v.Zoom++
	m.SetView(v)
	b := m.Project(cluster.LatLng{Lat: 51.5, Lng: -0.1})

	assert.InDelta(t, 2*(a.X-400), b.X-400, 1e-6)
}

func TestMap_BoundsMatchContainer(t *testing.T) {
	m := New()
	m.SetView(testView())

	b, ok := m.Bounds()
	require.True(t, ok)
	bounds := b.(Bounds)

	sw := m.Project(bounds.SouthWest())
	ne := m.Project(bounds.NorthEast())
	assert.InDelta(t, 0, sw.X, 1e-6)
	assert.InDelta(t, 600, sw.Y, 1e-6)
	assert.InDelta(t, 800, ne.X, 1e-6)
	assert.InDelta(t, 0, ne.Y, 1e-6)

	assert.True(t, b.Contains(testView().Center))
	assert.False(t, b.Contains(cluster.LatLng{Lat: 48.85, Lng: 2.35}))
}

func TestMap_Events(t *testing.T) {
	m := New()
	var moves, ends int
	id := m.On(EventMove, func() { moves++ })
	m.On(EventMoveEnd, func() { ends++ })
	assert.Equal(t, 1, m.ListenerCount(EventMove))

	m.SetView(testView())
	assert.Equal(t, 1, moves)
	assert.Equal(t, 1, ends)

	m.Off(EventMove, id)
	assert.Equal(t, 0, m.ListenerCount(EventMove))
	m.SetView(testView())
	assert.Equal(t, 1, moves)
	assert.Equal(t, 2, ends)
}

func TestMap_Markers(t *testing.T) {
	m := New()
	a := m.NewMarker(nil)
	b := m.NewMarker("custom")
	a.SetPosition(cluster.LatLng{Lat: 1, Lng: 2})
	a.AddTo(m)
	b.AddTo(m)

	markers := m.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, cluster.LatLng{Lat: 1, Lng: 2}, markers[0].Position())
	assert.True(t, markers[0].IsDefault())
	assert.Equal(t, "custom", markers[1].Visual())
	assert.NotEqual(t, markers[0].ID(), markers[1].ID())

	a.Remove()
	a.Remove()
	require.Len(t, m.Markers(), 1)
	assert.Equal(t, markers[1].ID(), m.Markers()[0].ID())
}
