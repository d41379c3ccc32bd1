// Package memmap is an in-memory host map for the layer controller. It keeps
// a Web Mercator viewport, a marker set and a synchronous event bus, which is
// enough to drive the layer from tests and offline tools.
package memmap

import (
	"math"
	"sort"
	"sync"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"

	"github.com/banshee-data/mapcluster/internal/cluster"
	"github.com/banshee-data/mapcluster/internal/layer"
)

// TileSize is the edge of one Web Mercator tile in pixels.
const TileSize = 256

// Events fired by SetView, in order.
const (
	EventMove    = "move"
	EventMoveEnd = "moveend"
)

// maxLat is the Web Mercator latitude limit.
const maxLat = 85.0511287798

// Viewport describes what the map is showing.
type Viewport struct {
	Center cluster.LatLng
	Zoom   float64
	Width  int // container width in pixels
	Height int // container height in pixels
}

// Map implements layer.Map in memory.
type Map struct {
	mu        sync.Mutex
	view      Viewport
	loaded    bool
	markers   map[string]*Marker
	seq       uint64
	listeners map[string]map[layer.ListenerID]func()
	nextID    layer.ListenerID
}

// New creates a map with no viewport. Bounds reports unavailable until the
// first SetView.
func New() *Map {
	return &Map{
		markers:   make(map[string]*Marker),
		listeners: make(map[string]map[layer.ListenerID]func()),
	}
}

// SetView moves the viewport and fires EventMove then EventMoveEnd.
// Handlers run synchronously on the caller's goroutine.
func (m *Map) SetView(v Viewport) {
	m.mu.Lock()
	m.view = v
	m.loaded = true
	m.mu.Unlock()

	m.Fire(EventMove)
	m.Fire(EventMoveEnd)
}

// View returns the current viewport.
func (m *Map) View() Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Fire calls every handler subscribed to event.
func (m *Map) Fire(event string) {
	m.mu.Lock()
	subs := m.listeners[event]
	ids := make([]layer.ListenerID, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]func(), len(ids))
	for i, id := range ids {
		handlers[i] = subs[id]
	}
	m.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// On implements layer.Map.
func (m *Map) On(event string, fn func()) layer.ListenerID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if m.listeners[event] == nil {
		m.listeners[event] = make(map[layer.ListenerID]func())
	}
	m.listeners[event][m.nextID] = fn
	return m.nextID
}

// Off implements layer.Map.
func (m *Map) Off(event string, id layer.ListenerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listeners[event], id)
}

// ListenerCount returns the number of handlers subscribed to event.
func (m *Map) ListenerCount(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners[event])
}

// Bounds implements layer.Map.
func (m *Map) Bounds() (layer.Bounds, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return nil, false
	}

	origin := m.originLocked()
	nw := m.unprojectLocked(origin)
	se := m.unprojectLocked(cluster.Vector2{
		X: origin.X + float64(m.view.Width),
		Y: origin.Y + float64(m.view.Height),
	})
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(se.Lat, nw.Lng))
	rect = rect.AddPoint(s2.LatLngFromDegrees(nw.Lat, se.Lng))
	return Bounds{rect: rect}, true
}

// Project implements layer.Map. The result is in container pixels with the
// origin at the top-left corner of the viewport.
func (m *Map) Project(ll cluster.LatLng) cluster.Vector2 {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := worldPixel(ll, m.view.Zoom)
	origin := m.originLocked()
	return cluster.Vector2{X: p.X - origin.X, Y: p.Y - origin.Y}
}

// NewMarker implements layer.Map.
func (m *Map) NewMarker(visual layer.Visual) layer.Marker {
	return &Marker{id: uuid.NewString(), visual: visual}
}

// Markers returns the markers on the map in the order they were added.
func (m *Map) Markers() []*Marker {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Marker, 0, len(m.markers))
	for _, mk := range m.markers {
		out = append(out, mk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (m *Map) originLocked() cluster.Vector2 {
	c := worldPixel(m.view.Center, m.view.Zoom)
	return cluster.Vector2{
		X: c.X - float64(m.view.Width)/2,
		Y: c.Y - float64(m.view.Height)/2,
	}
}

func (m *Map) unprojectLocked(p cluster.Vector2) cluster.LatLng {
	size := worldSize(m.view.Zoom)
	x := p.X / size
	y := p.Y / size
	lng := math.Max(-180, math.Min(180, x*360-180))
	lat := math.Atan(math.Sinh(math.Pi*(1-2*y))) * 180 / math.Pi
	return cluster.LatLng{Lat: lat, Lng: lng}
}

func worldSize(zoom float64) float64 {
	return TileSize * math.Pow(2, zoom)
}

// worldPixel converts lat/lng to absolute Web Mercator pixels at zoom.
func worldPixel(ll cluster.LatLng, zoom float64) cluster.Vector2 {
	lat := math.Max(-maxLat, math.Min(maxLat, ll.Lat))
	sin := math.Sin(lat * math.Pi / 180)
	x := (ll.Lng + 180) / 360
	y := 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi
	size := worldSize(zoom)
	return cluster.Vector2{X: x * size, Y: y * size}
}

// Bounds is a viewport rectangle backed by an s2.Rect.
type Bounds struct {
	rect s2.Rect
}

// Contains implements layer.Bounds.
func (b Bounds) Contains(ll cluster.LatLng) bool {
	return b.rect.ContainsLatLng(s2.LatLngFromDegrees(ll.Lat, ll.Lng))
}

// SouthWest returns the lower-left corner.
func (b Bounds) SouthWest() cluster.LatLng {
	return cluster.LatLng{Lat: b.rect.Lo().Lat.Degrees(), Lng: b.rect.Lo().Lng.Degrees()}
}

// NorthEast returns the upper-right corner.
func (b Bounds) NorthEast() cluster.LatLng {
	return cluster.LatLng{Lat: b.rect.Hi().Lat.Degrees(), Lng: b.rect.Hi().Lng.Degrees()}
}

// Marker is a marker held by Map.
type Marker struct {
	id       string
	seq      uint64
	position cluster.LatLng
	visual   layer.Visual
	owner    *Map
}

// ID returns the marker's unique id.
func (mk *Marker) ID() string { return mk.id }

// Position returns the marker position.
func (mk *Marker) Position() cluster.LatLng { return mk.position }

// Visual returns the custom visual, or nil for the default marker.
func (mk *Marker) Visual() layer.Visual { return mk.visual }

// IsDefault reports whether the marker uses the host's default visual.
func (mk *Marker) IsDefault() bool { return mk.visual == nil }

// SetPosition implements layer.Marker.
func (mk *Marker) SetPosition(ll cluster.LatLng) { mk.position = ll }

// AddTo implements layer.Marker. Markers can only be added to a *Map.
func (mk *Marker) AddTo(lm layer.Map) {
	m, ok := lm.(*Map)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	mk.seq = m.seq
	mk.owner = m
	m.markers[mk.id] = mk
}

// Remove implements layer.Marker.
func (mk *Marker) Remove() {
	m := mk.owner
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.markers, mk.id)
	mk.owner = nil
}

var (
	_ layer.Map    = (*Map)(nil)
	_ layer.Marker = (*Marker)(nil)
	_ layer.Bounds = Bounds{}
)
