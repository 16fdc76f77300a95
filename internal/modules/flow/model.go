// README: Booking flow collaborator interfaces, active-target routing, and view model.
package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/TaggTeeM/taggteemflagg/internal/api"
	"github.com/TaggTeeM/taggteemflagg/internal/maps"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/booking"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/mapsync"
	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

var (
	ErrInvalidStage     = errors.New("invalid stage transition")
	ErrNoActiveTarget   = errors.New("no active location picker")
	ErrRouteIncomplete  = errors.New("both pickup and drop-off must be set")
	ErrAlreadyConfirmed = errors.New("locations already confirmed")
	ErrNoFlow           = errors.New("no active booking flow")
	ErrNoRecentFix      = errors.New("no recent location fix")
)

// Target is the location picker map drags apply to. The mobile client
// inferred this from which text input had focus; here it is explicit state
// set by user intent, so a transient focus loss cannot reroute a drag.
type Target int

const (
	TargetNone Target = iota
	TargetPickup
	TargetDropoff
)

func (t Target) String() string {
	switch t {
	case TargetPickup:
		return "pickup"
	case TargetDropoff:
		return "dropoff"
	default:
		return "none"
	}
}

func ParseTarget(s string) (Target, error) {
	switch s {
	case "none":
		return TargetNone, nil
	case "pickup":
		return TargetPickup, nil
	case "dropoff":
		return TargetDropoff, nil
	}
	return TargetNone, fmt.Errorf("unknown target %q", s)
}

// Geocoder resolves a point to a display address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// RoutePlanner produces the directions preview once both endpoints are
// confirmed.
type RoutePlanner interface {
	Preview(ctx context.Context, src, dst types.Coordinate) (maps.RoutePreview, error)
}

// Locator yields the device's current position.
type Locator interface {
	CurrentPosition(ctx context.Context) (types.Coordinate, error)
}

// RideAPI is the slice of the remote Flagg API the flow needs.
// *api.Client satisfies it.
type RideAPI interface {
	TripCostList(ctx context.Context, src, dst types.Coordinate) ([3]float64, error)
	PreferredDrivers(ctx context.Context, userID types.ID) ([]api.PreferredDriver, error)
}

// Snapshot is a point-in-time view of a flow for the transport layer.
type Snapshot struct {
	ID             types.ID
	Stage          booking.Stage
	Draft          booking.Draft
	Region         mapsync.Region
	Target         Target
	Tiers          booking.TierPrices
	TiersLoaded    bool
	Drivers        []api.PreferredDriver
	SelectedTier   *string
	SelectedDriver *types.ID
	Preview        *maps.RoutePreview
	LastError      string
}
