// Package layer keeps a clustered marker layer in sync with a host map's
// viewport.
//
// On every viewport change the Controller reads the visible bounds, projects
// the visible points to container pixels, clusters them with the configured
// Strategy, tears down the previous markers and adds one marker per cluster.
// Recomputes are rate limited with a leading-edge throttle; dropped triggers
// are never replayed.
//
// A Controller owns its markers. Only one Controller should be attached to a
// given host map.
package layer
