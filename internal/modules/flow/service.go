// README: Booking flow controller; drives a draft through the screen sequence.
package flow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TaggTeeM/taggteemflagg/internal/api"
	"github.com/TaggTeeM/taggteemflagg/internal/config"
	"github.com/TaggTeeM/taggteemflagg/internal/maps"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/booking"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/mapsync"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/session"
	"github.com/TaggTeeM/taggteemflagg/internal/observability"
	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

// addressLoading is shown while a reverse geocode is in flight. A failed
// geocode leaves it in place; the numeric coordinate is still accepted.
const addressLoading = "Loading..."

type Deps struct {
	Geocoder Geocoder
	Routes   RoutePlanner
	Locator  Locator
	API      RideAPI
	Sessions *session.Store
	Logger   *zap.Logger
}

// Controller owns one rider's booking flow: the current stage, the draft
// being accumulated, the live map region, and the active picker. All remote
// failures land in lastError and never abort the flow; in-flight work hangs
// off the flow context and dies with it on Close.
type Controller struct {
	mu   sync.Mutex
	deps Deps
	cfg  config.FlowConfig
	log  *zap.Logger

	id     types.ID
	userID types.ID

	stage  booking.Stage
	draft  booking.Draft
	region mapsync.Region
	target Target

	pickupSeq  mapsync.Sequencer
	dropoffSeq mapsync.Sequencer
	animator   *mapsync.RegionAnimator

	tiers          booking.TierPrices
	tiersLoaded    bool
	drivers        []api.PreferredDriver
	selectedTier   *string
	selectedDriver *types.ID
	preview        *maps.RoutePreview
	lastError      string

	ctx        context.Context
	cancel     context.CancelFunc
	pollCancel context.CancelFunc

	now func() time.Time
}

func New(deps Deps, cfg config.FlowConfig, userID types.ID) *Controller {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		deps:     deps,
		cfg:      cfg,
		log:      deps.Logger.With(zap.String("user_id", string(userID))),
		id:       types.ID(uuid.NewString()),
		userID:   userID,
		stage:    booking.StageIdle,
		draft:    booking.NewDraft(),
		animator: mapsync.NewRegionAnimator(cfg.AnimationDuration),
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}
}

func (c *Controller) ID() types.ID { return c.id }

// Start opens the location-selection stage. When the caller supplies a
// device fix it is used directly; otherwise the locator is asked, bounded by
// the geolocation timeout. Either way the pickup is seeded from the fix and
// reverse-geocoded once the region animation settles.
func (c *Controller) Start(fix *types.Coordinate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !booking.CanTransition(c.stage, booking.StageSelecting) {
		return ErrInvalidStage
	}
	c.stage = booking.StageSelecting
	observability.FlowsStarted.Inc()
	c.locateLocked(fix)
	return nil
}

// ResetMap re-issues the geolocation fix and geocode, the manual retry the
// original client offered after a failure.
func (c *Controller) ResetMap(fix *types.Coordinate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != booking.StageSelecting {
		return ErrInvalidStage
	}
	c.lastError = ""
	c.locateLocked(fix)
	return nil
}

func (c *Controller) locateLocked(fix *types.Coordinate) {
	var pos types.Coordinate
	switch {
	case fix != nil:
		pos = *fix
	case c.deps.Locator != nil:
		lctx, cancel := context.WithTimeout(c.ctx, c.cfg.GeolocationTimeout)
		p, err := c.deps.Locator.CurrentPosition(lctx)
		cancel()
		if err != nil {
			c.lastError = "could not determine current location"
			c.log.Warn("geolocation failed", zap.Error(err))
			return
		}
		pos = p
	default:
		c.lastError = "location unavailable"
		return
	}

	c.region = mapsync.DefaultRegion(pos.Lat, pos.Lng)
	c.draft = c.draft.WithSource(types.Coordinate{Lat: pos.Lat, Lng: pos.Lng, Address: addressLoading})
	token := c.pickupSeq.Next()
	ctx := c.ctx
	c.animator.Animate(ctx, func() {
		c.resolveAddress(ctx, TargetPickup, token, pos.Lat, pos.Lng)
	})
}

// SetTarget records which picker subsequent drags and place selections apply
// to.
func (c *Controller) SetTarget(t Target) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != booking.StageSelecting {
		return ErrInvalidStage
	}
	c.target = t
	return nil
}

// MapDragged applies a pan/zoom to the active picker. With no active picker
// the drag is logged and ignored; the viewport still follows the user. The
// address resolves asynchronously after both region animations settle, and a
// stale response can never overwrite a newer one.
func (c *Controller) MapDragged(r mapsync.Region) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != booking.StageSelecting {
		return ErrInvalidStage
	}
	c.region = r
	if c.target == TargetNone {
		observability.DragsIgnored.Inc()
		c.log.Debug("map drag ignored; no active picker",
			zap.Float64("lat", r.Lat), zap.Float64("lng", r.Lng))
		return nil
	}

	target := c.target
	c.setCoordinateLocked(target, types.Coordinate{Lat: r.Lat, Lng: r.Lng, Address: addressLoading})
	token := c.seqFor(target).Next()
	ctx := c.ctx
	c.animator.Animate(ctx, func() {
		c.resolveAddress(ctx, target, token, r.Lat, r.Lng)
	})
	return nil
}

// ApplyPlace sets the active picker from an autocomplete selection. The
// place already carries its address, so no geocode is needed; issuing a
// token anyway invalidates any drag geocode still in flight for the picker.
func (c *Controller) ApplyPlace(p maps.Place) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != booking.StageSelecting {
		return ErrInvalidStage
	}
	if c.target == TargetNone {
		return ErrNoActiveTarget
	}
	token := c.seqFor(c.target).Next()
	c.seqFor(c.target).Accept(token)
	c.setCoordinateLocked(c.target, types.Coordinate{Lat: p.Lat, Lng: p.Lng, Address: p.Address})
	c.region = mapsync.DefaultRegion(p.Lat, p.Lng)
	return nil
}

// ConfirmLocations fixes both endpoints, fits the viewport around them, and
// fetches the directions preview. Confirming twice is rejected; the button
// becomes "book" after the first press.
func (c *Controller) ConfirmLocations(ctx context.Context) error {
	c.mu.Lock()
	if c.stage == booking.StageConfirmed {
		c.mu.Unlock()
		return ErrAlreadyConfirmed
	}
	if !booking.CanTransition(c.stage, booking.StageConfirmed) {
		c.mu.Unlock()
		return ErrInvalidStage
	}
	if !c.draft.RouteComplete() {
		c.mu.Unlock()
		return ErrRouteIncomplete
	}
	c.stage = booking.StageConfirmed
	c.target = TargetNone
	if fitted, ok := mapsync.FitBounds(c.draft.Source, c.draft.Destination); ok {
		c.region = fitted
	}
	src, dst := c.draft.Source, c.draft.Destination
	routes := c.deps.Routes
	c.mu.Unlock()

	if routes == nil {
		return nil
	}
	preview, err := routes.Preview(ctx, src, dst)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastError = "could not load route preview"
		c.log.Warn("route preview failed", zap.Error(err))
		return nil
	}
	c.preview = &preview
	return nil
}

// OpenOptions enters the tier/driver selection stage. Tier prices and the
// preferred-driver list load immediately; prices keep refreshing on the poll
// interval until the options are locked in or the stage exits.
func (c *Controller) OpenOptions(ctx context.Context) error {
	c.mu.Lock()
	if !booking.CanTransition(c.stage, booking.StageOptions) {
		c.mu.Unlock()
		return ErrInvalidStage
	}
	c.stage = booking.StageOptions
	src, dst := c.draft.Source, c.draft.Destination
	userID := c.userID
	pctx, cancel := context.WithCancel(c.ctx)
	c.pollCancel = cancel
	c.mu.Unlock()

	c.refreshTiers(ctx, src, dst)
	c.loadDrivers(ctx, userID)
	go c.pollTiers(pctx)
	return nil
}

// RetryTiers re-fetches the tier price list on demand, the options screen's
// manual retry after a failed load. The poller keeps its own schedule.
func (c *Controller) RetryTiers(ctx context.Context) error {
	c.mu.Lock()
	if c.stage != booking.StageOptions {
		c.mu.Unlock()
		return ErrInvalidStage
	}
	src, dst := c.draft.Source, c.draft.Destination
	c.mu.Unlock()
	c.refreshTiers(ctx, src, dst)
	return nil
}

func (c *Controller) pollTiers(ctx context.Context) {
	if c.cfg.TierPollInterval <= 0 {
		return
	}
	ticker := time.NewTicker(c.cfg.TierPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.stage != booking.StageOptions {
				c.mu.Unlock()
				return
			}
			src, dst := c.draft.Source, c.draft.Destination
			c.mu.Unlock()
			c.refreshTiers(ctx, src, dst)
		}
	}
}

func (c *Controller) refreshTiers(ctx context.Context, src, dst types.Coordinate) {
	if c.deps.API == nil {
		return
	}
	costs, err := c.deps.API.TripCostList(ctx, src, dst)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastError = "could not load ride prices"
		c.log.Warn("trip cost list failed", zap.Error(err))
		return
	}
	c.tiers = booking.FormatTierPrices(costs)
	c.tiersLoaded = true
	observability.TierRefreshes.Inc()
}

func (c *Controller) loadDrivers(ctx context.Context, userID types.ID) {
	if c.deps.API == nil {
		return
	}
	drivers, err := c.deps.API.PreferredDrivers(ctx, userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastError = "could not load preferred drivers"
		c.log.Warn("preferred drivers failed", zap.Error(err))
		return
	}
	c.drivers = drivers
}

// SelectTier records the rider's tier choice. Validation happens at
// ConfirmOptions; an out-of-range selector falls back to tier 0 there.
func (c *Controller) SelectTier(selector string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != booking.StageOptions {
		return ErrInvalidStage
	}
	c.selectedTier = &selector
	return nil
}

func (c *Controller) SelectDriver(id *types.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != booking.StageOptions {
		return ErrInvalidStage
	}
	c.selectedDriver = id
	return nil
}

// ConfirmOptions locks tier, cost, and preferred driver into the draft and
// stops the price polling; a locked-in tier has nothing left to refresh.
func (c *Controller) ConfirmOptions() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !booking.CanTransition(c.stage, booking.StagePickup) {
		return ErrInvalidStage
	}
	c.stage = booking.StagePickup
	c.draft = c.draft.WithOptions(c.selectedTier, c.tiers, c.selectedDriver)
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
	return nil
}

// Submit freezes the draft into a booking, stamping the date now — at
// submission, not at draft creation — and hands it to the session.
func (c *Controller) Submit() (booking.Booking, error) {
	c.mu.Lock()
	if !booking.CanTransition(c.stage, booking.StageSubmitted) {
		c.mu.Unlock()
		return booking.Booking{}, ErrInvalidStage
	}
	c.stage = booking.StageSubmitted
	b := c.draft.Freeze(c.now())
	c.mu.Unlock()

	if c.deps.Sessions != nil {
		c.deps.Sessions.AddBooking(b)
	}
	observability.BookingsSubmitted.Inc()
	c.log.Info("booking submitted",
		zap.String("flow_id", string(c.id)),
		zap.String("tier", b.TripTier),
		zap.Int("cost", b.Cost))
	c.cancel()
	return b, nil
}

// Abandon ends the flow from any non-terminal stage and cancels everything
// still in flight.
func (c *Controller) Abandon() error {
	c.mu.Lock()
	if !booking.CanTransition(c.stage, booking.StageAbandoned) {
		c.mu.Unlock()
		return ErrInvalidStage
	}
	c.stage = booking.StageAbandoned
	c.mu.Unlock()
	observability.FlowsAbandoned.Inc()
	c.cancel()
	return nil
}

// Close cancels in-flight work without changing the stage; the unmount
// analogue.
func (c *Controller) Close() {
	c.cancel()
}

// Snapshot returns a copy of the flow state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		ID:             c.id,
		Stage:          c.stage,
		Draft:          c.draft,
		Region:         c.region,
		Target:         c.target,
		Tiers:          c.tiers,
		TiersLoaded:    c.tiersLoaded,
		SelectedTier:   c.selectedTier,
		SelectedDriver: c.selectedDriver,
		LastError:      c.lastError,
	}
	if len(c.drivers) > 0 {
		snap.Drivers = make([]api.PreferredDriver, len(c.drivers))
		copy(snap.Drivers, c.drivers)
	}
	if c.preview != nil {
		p := *c.preview
		snap.Preview = &p
	}
	return snap
}

func (c *Controller) resolveAddress(ctx context.Context, target Target, token uint64, lat, lng float64) {
	if c.deps.Geocoder == nil {
		return
	}
	gctx, cancel := context.WithTimeout(ctx, c.cfg.GeocodeTimeout)
	defer cancel()
	addr, err := c.deps.Geocoder.ReverseGeocode(gctx, lat, lng)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		// Previous address (or the Loading placeholder) stays; the numeric
		// coordinate is already in the draft.
		c.log.Warn("reverse geocode failed", zap.Error(err))
		return
	}
	if !c.seqFor(target).Accept(token) {
		observability.StaleGeocodesDropped.Inc()
		c.log.Debug("stale geocode response dropped", zap.Uint64("token", token))
		return
	}
	c.setAddressLocked(target, addr)
}

func (c *Controller) seqFor(t Target) *mapsync.Sequencer {
	if t == TargetDropoff {
		return &c.dropoffSeq
	}
	return &c.pickupSeq
}

func (c *Controller) setCoordinateLocked(t Target, coord types.Coordinate) {
	if t == TargetDropoff {
		c.draft = c.draft.WithDestination(coord)
		return
	}
	c.draft = c.draft.WithSource(coord)
}

func (c *Controller) setAddressLocked(t Target, addr string) {
	if t == TargetDropoff {
		c.draft = c.draft.WithDestination(c.draft.Destination.WithAddress(addr))
		return
	}
	c.draft = c.draft.WithSource(c.draft.Source.WithAddress(addr))
}
