// Package cluster owns the clustering engine used by the map layer.
//
// Responsibilities: quantised-grid partitioning of projected points, DBSCAN
// density clustering, and the Strategy abstraction that lets the layer
// controller swap between them.
// Key types: LatLng, Vector2, Cluster, Strategy.
//
// Every call builds its own run state and discards it on return, so
// independent point sets may be clustered concurrently.
// No map, DOM, or database code is allowed in this package.
package cluster
