package layer

import (
	"github.com/banshee-data/mapcluster/internal/cluster"
	"github.com/banshee-data/mapcluster/internal/config"
)

// DefaultEvent is the host map event that signals a viewport change.
const DefaultEvent = config.DefaultEvent

// Bounds is the geographic rectangle currently visible on the host map.
type Bounds interface {
	Contains(ll cluster.LatLng) bool
}

// Visual is an opaque marker visual produced by a Renderer. A nil Visual asks
// the host for its default marker.
type Visual any

// ListenerID identifies an event subscription on a host map.
type ListenerID uint64

// Marker is a host map marker primitive.
type Marker interface {
	SetPosition(ll cluster.LatLng)
	AddTo(m Map)
	Remove()
}

// Map is the host map widget the layer is attached to.
type Map interface {
	// Bounds returns the visible bounds, or false while the map has no
	// viewport yet (for example before it has loaded).
	Bounds() (Bounds, bool)

	// Project maps a coordinate to container pixels at the current view.
	Project(ll cluster.LatLng) cluster.Vector2

	// NewMarker creates a detached marker with the given visual.
	NewMarker(visual Visual) Marker

	// On subscribes fn to event and returns an id for Off.
	On(event string, fn func()) ListenerID

	// Off removes a subscription created by On.
	Off(event string, id ListenerID)
}
