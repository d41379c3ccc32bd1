package cluster

import "errors"

// ErrInvalidParameter is returned when clustering options violate the caller
// contract (non-positive cell size or eps, minPts below one, missing accessors).
var ErrInvalidParameter = errors.New("invalid clustering parameter")
