// README: Map viewport (region) bookkeeping and bounds fitting.
package mapsync

import (
	"math"

	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

// Defaults match the mobile client's initial viewport: a latitude span of
// 0.0922 degrees with the longitude span scaled by the screen aspect ratio.
const (
	DefaultLatDelta    = 0.0922
	DefaultAspectRatio = 0.5625 // portrait 9:16
)

// Minimum span so fitting two near-identical points never collapses the
// viewport to a degenerate box.
const minDelta = 0.005

// fitPadding leaves room around the fitted endpoints.
const fitPadding = 1.4

// Region is a map viewport: a center point plus the visible span on each
// axis.
type Region struct {
	Lat      float64
	Lng      float64
	LatDelta float64
	LngDelta float64
}

// DefaultRegion centers the default viewport on the given point.
func DefaultRegion(lat, lng float64) Region {
	return Region{
		Lat:      lat,
		Lng:      lng,
		LatDelta: DefaultLatDelta,
		LngDelta: DefaultLatDelta * DefaultAspectRatio,
	}
}

// Center returns the region's center as a coordinate with no address.
func (r Region) Center() types.Coordinate {
	return types.Coordinate{Lat: r.Lat, Lng: r.Lng}
}

// Contains reports whether the point lies inside the viewport.
func (r Region) Contains(lat, lng float64) bool {
	return math.Abs(lat-r.Lat) <= r.LatDelta/2 && math.Abs(lng-r.Lng) <= r.LngDelta/2
}

// FitBounds returns a viewport covering both endpoints with padding. The fit
// is skipped (ok=false) when both endpoints are still at the 0,0 default:
// fitting an empty bounding box on first mount produced a nonsense viewport
// in the original client.
func FitBounds(src, dst types.Coordinate) (Region, bool) {
	if src.IsZero() && dst.IsZero() {
		return Region{}, false
	}
	latDelta := math.Abs(src.Lat-dst.Lat) * fitPadding
	lngDelta := math.Abs(src.Lng-dst.Lng) * fitPadding
	if latDelta < minDelta {
		latDelta = minDelta
	}
	if lngDelta < minDelta {
		lngDelta = minDelta
	}
	return Region{
		Lat:      (src.Lat + dst.Lat) / 2,
		Lng:      (src.Lng + dst.Lng) / 2,
		LatDelta: latDelta,
		LngDelta: lngDelta,
	}, true
}
