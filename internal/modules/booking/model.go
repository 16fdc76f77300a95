// README: Booking draft aggregate and flow stage definitions.
package booking

import (
	"time"

	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

type Stage string

const (
	StageIdle      Stage = "idle"
	StageSelecting Stage = "selecting_locations"
	StageConfirmed Stage = "confirmed"
	StageOptions   Stage = "options_selection"
	StagePickup    Stage = "pickup_confirmation"
	StageSubmitted Stage = "submitted"
	StageAbandoned Stage = "abandoned"
)

// Sentinels used by the remote API for not-yet-resolved fields.
const (
	PlaceholderID = types.ID("-1")
	Unresolved    = -1
)

// Draft accumulates a booking across the flow stages. Drafts move by value:
// every mutation returns a new copy, so no two stages ever alias the same
// draft.
type Draft struct {
	ID              types.ID
	Source          types.Coordinate
	Destination     types.Coordinate
	PreferredDriver *types.ID
	TripTier        *string
	DriverName      string
	TripRating      int
	Cost            int
}

// Booking is a draft frozen at submission time. The date is stamped when the
// ride is actually booked, not when the draft was first created.
type Booking struct {
	ID              types.ID
	Source          types.Coordinate
	Destination     types.Coordinate
	PreferredDriver *types.ID
	TripTier        string
	DriverName      string
	TripRating      int
	Cost            int
	Date            time.Time
}

// AllowedTransitions represents the booking flow (screen sequence) as code.
var AllowedTransitions = map[Stage][]Stage{
	StageIdle:      {StageSelecting, StageAbandoned},
	StageSelecting: {StageConfirmed, StageAbandoned},
	StageConfirmed: {StageOptions, StageAbandoned},
	StageOptions:   {StagePickup, StageAbandoned},
	StagePickup:    {StageSubmitted, StageAbandoned},
}

func CanTransition(from, to Stage) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// NewDraft returns a draft with the remote API's sentinel values.
func NewDraft() Draft {
	return Draft{
		ID:         PlaceholderID,
		DriverName: "NA",
		TripRating: Unresolved,
		Cost:       Unresolved,
	}
}

// WithSource returns a copy of d with the source coordinate replaced.
func (d Draft) WithSource(c types.Coordinate) Draft {
	d.Source = c
	return d
}

// WithDestination returns a copy of d with the destination coordinate
// replaced.
func (d Draft) WithDestination(c types.Coordinate) Draft {
	d.Destination = c
	return d
}

// WithOptions resolves tier, cost, and preferred driver in one step, the way
// the options screen commits its selections. A nil or malformed tier
// selector falls back to tier 0.
func (d Draft) WithOptions(tier *string, prices TierPrices, driver *types.ID) Draft {
	idx := prices.TierIndex(tier)
	sel := formatTierIndex(idx)
	d.TripTier = &sel
	d.Cost = prices.CostAt(idx)
	d.PreferredDriver = driver
	return d
}

// Freeze turns the draft into an immutable booking, stamping the date at
// submission time.
func (d Draft) Freeze(at time.Time) Booking {
	tier := ""
	if d.TripTier != nil {
		tier = *d.TripTier
	}
	return Booking{
		ID:              d.ID,
		Source:          d.Source,
		Destination:     d.Destination,
		PreferredDriver: d.PreferredDriver,
		TripTier:        tier,
		DriverName:      d.DriverName,
		TripRating:      d.TripRating,
		Cost:            d.Cost,
		Date:            at,
	}
}

// RouteComplete reports whether both endpoints have been picked. Guards the
// transition to the confirmed stage and the viewport auto-fit.
func (d Draft) RouteComplete() bool {
	return !d.Source.IsZero() && !d.Destination.IsZero()
}
