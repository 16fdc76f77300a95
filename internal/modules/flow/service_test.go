package flow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaggTeeM/taggteemflagg/internal/api"
	"github.com/TaggTeeM/taggteemflagg/internal/config"
	"github.com/TaggTeeM/taggteemflagg/internal/maps"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/booking"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/mapsync"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/session"
	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

type stubGeocoder struct {
	calls int64
	fn    func(lat, lng float64) (string, error)
}

func (g *stubGeocoder) ReverseGeocode(_ context.Context, lat, lng float64) (string, error) {
	atomic.AddInt64(&g.calls, 1)
	if g.fn == nil {
		return "stubbed address", nil
	}
	return g.fn(lat, lng)
}

type stubAPI struct {
	costs     [3]float64
	drivers   []api.PreferredDriver
	costCalls int64

	mu  sync.Mutex
	err error
}

func (a *stubAPI) TripCostList(context.Context, types.Coordinate, types.Coordinate) ([3]float64, error) {
	atomic.AddInt64(&a.costCalls, 1)
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.costs, a.err
}

func (a *stubAPI) setErr(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

func (a *stubAPI) PreferredDrivers(context.Context, types.ID) ([]api.PreferredDriver, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.drivers, a.err
}

func testConfig() config.FlowConfig {
	return config.FlowConfig{
		AnimationDuration:  time.Millisecond,
		GeolocationTimeout: time.Second,
		GeocodeTimeout:     time.Second,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func startedController(t *testing.T, deps Deps) *Controller {
	t.Helper()
	c := New(deps, testConfig(), types.ID("user-1"))
	t.Cleanup(c.Close)
	fix := &types.Coordinate{Lat: 42.35, Lng: -71.05}
	require.NoError(t, c.Start(fix))
	return c
}

func TestStartSeedsPickupFromFix(t *testing.T) {
	geo := &stubGeocoder{fn: func(float64, float64) (string, error) {
		return "1 Main St", nil
	}}
	c := startedController(t, Deps{Geocoder: geo})

	waitFor(t, func() bool {
		return c.Snapshot().Draft.Source.Address == "1 Main St"
	})
	snap := c.Snapshot()
	assert.Equal(t, booking.StageSelecting, snap.Stage)
	assert.Equal(t, 42.35, snap.Draft.Source.Lat)
	assert.Equal(t, 42.35, snap.Region.Lat)
}

func TestMapDraggedWithoutTargetIsIgnored(t *testing.T) {
	geo := &stubGeocoder{}
	c := startedController(t, Deps{Geocoder: geo})
	waitFor(t, func() bool {
		return c.Snapshot().Draft.Source.Address == "stubbed address"
	})

	before := c.Snapshot().Draft
	require.NoError(t, c.MapDragged(mapsync.DefaultRegion(40.7, -74.0)))
	time.Sleep(20 * time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, before, snap.Draft, "drag with no active picker must not touch the draft")
	assert.Equal(t, 40.7, snap.Region.Lat, "viewport still follows the user")
	assert.Equal(t, int64(1), atomic.LoadInt64(&geo.calls))
}

func TestStaleGeocodeNeverOverwritesNewer(t *testing.T) {
	release := make(chan struct{})
	geo := &stubGeocoder{fn: func(lat, _ float64) (string, error) {
		if lat == 1 {
			<-release
			return "First Street", nil
		}
		return "Second Street", nil
	}}
	c := startedController(t, Deps{Geocoder: geo})
	require.NoError(t, c.SetTarget(TargetDropoff))

	require.NoError(t, c.MapDragged(mapsync.DefaultRegion(1, 1)))
	require.NoError(t, c.MapDragged(mapsync.DefaultRegion(2, 2)))

	waitFor(t, func() bool {
		return c.Snapshot().Draft.Destination.Address == "Second Street"
	})

	close(release)
	time.Sleep(50 * time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, "Second Street", snap.Draft.Destination.Address,
		"slow first response must be dropped, not applied")
	assert.Equal(t, 2.0, snap.Draft.Destination.Lat)
}

func TestApplyPlaceInvalidatesInFlightDrag(t *testing.T) {
	release := make(chan struct{})
	geo := &stubGeocoder{fn: func(lat, _ float64) (string, error) {
		if lat == 1 {
			<-release
			return "Dragged Address", nil
		}
		return "other", nil
	}}
	c := startedController(t, Deps{Geocoder: geo})
	require.NoError(t, c.SetTarget(TargetDropoff))

	require.NoError(t, c.MapDragged(mapsync.DefaultRegion(1, 1)))
	require.NoError(t, c.ApplyPlace(maps.Place{
		Name: "South Station", Address: "700 Atlantic Ave", Lat: 42.352, Lng: -71.055,
	}))

	close(release)
	time.Sleep(50 * time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, "700 Atlantic Ave", snap.Draft.Destination.Address)
	assert.Equal(t, 42.352, snap.Draft.Destination.Lat)
}

func TestApplyPlaceNeedsActiveTarget(t *testing.T) {
	c := startedController(t, Deps{Geocoder: &stubGeocoder{}})
	err := c.ApplyPlace(maps.Place{Address: "somewhere", Lat: 1, Lng: 1})
	assert.ErrorIs(t, err, ErrNoActiveTarget)
}

func TestConfirmLocations(t *testing.T) {
	c := startedController(t, Deps{Geocoder: &stubGeocoder{}})

	t.Run("requires both endpoints", func(t *testing.T) {
		err := c.ConfirmLocations(context.Background())
		assert.ErrorIs(t, err, ErrRouteIncomplete)
	})

	require.NoError(t, c.SetTarget(TargetDropoff))
	require.NoError(t, c.ApplyPlace(maps.Place{Address: "dest", Lat: 42.4, Lng: -71.1}))

	t.Run("fits viewport around both points", func(t *testing.T) {
		require.NoError(t, c.ConfirmLocations(context.Background()))
		snap := c.Snapshot()
		assert.Equal(t, booking.StageConfirmed, snap.Stage)
		assert.True(t, snap.Region.Contains(snap.Draft.Source.Lat, snap.Draft.Source.Lng))
		assert.True(t, snap.Region.Contains(snap.Draft.Destination.Lat, snap.Draft.Destination.Lng))
	})

	t.Run("second confirm is rejected", func(t *testing.T) {
		err := c.ConfirmLocations(context.Background())
		assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	})
}

func confirmedController(t *testing.T, deps Deps) *Controller {
	t.Helper()
	if deps.Geocoder == nil {
		deps.Geocoder = &stubGeocoder{}
	}
	c := startedController(t, deps)
	require.NoError(t, c.SetTarget(TargetDropoff))
	require.NoError(t, c.ApplyPlace(maps.Place{Address: "dest", Lat: 42.4, Lng: -71.1}))
	require.NoError(t, c.ConfirmLocations(context.Background()))
	return c
}

func TestOpenOptionsLoadsTiersAndDrivers(t *testing.T) {
	remote := &stubAPI{
		costs: [3]float64{8, 12.5, 20},
		drivers: []api.PreferredDriver{
			{InternalID: types.ID("d-1"), Name: "Morgan"},
		},
	}
	c := confirmedController(t, Deps{API: remote})

	require.NoError(t, c.OpenOptions(context.Background()))
	snap := c.Snapshot()
	assert.Equal(t, booking.StageOptions, snap.Stage)
	assert.True(t, snap.TiersLoaded)
	assert.Equal(t, booking.TierPrices{"$8", "$12.50", "$20"}, snap.Tiers)
	require.Len(t, snap.Drivers, 1)
	assert.Equal(t, "Morgan", snap.Drivers[0].Name)
}

func TestTierPollingRefreshesUntilLockIn(t *testing.T) {
	remote := &stubAPI{costs: [3]float64{8, 12, 20}}
	cfg := testConfig()
	cfg.TierPollInterval = 10 * time.Millisecond

	c := New(Deps{Geocoder: &stubGeocoder{}, API: remote}, cfg, types.ID("user-1"))
	t.Cleanup(c.Close)
	require.NoError(t, c.Start(&types.Coordinate{Lat: 42.35, Lng: -71.05}))
	require.NoError(t, c.SetTarget(TargetDropoff))
	require.NoError(t, c.ApplyPlace(maps.Place{Address: "dest", Lat: 42.4, Lng: -71.1}))
	require.NoError(t, c.ConfirmLocations(context.Background()))

	require.NoError(t, c.OpenOptions(context.Background()))
	waitFor(t, func() bool { return atomic.LoadInt64(&remote.costCalls) >= 3 })

	require.NoError(t, c.ConfirmOptions())
	// A tick already in flight at lock-in may still land; after that the
	// count must hold.
	time.Sleep(30 * time.Millisecond)
	settled := atomic.LoadInt64(&remote.costCalls)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, atomic.LoadInt64(&remote.costCalls),
		"no price refresh after tier lock-in")
}

func TestRetryTiersRecoversFailedLoad(t *testing.T) {
	remote := &stubAPI{costs: [3]float64{8, 12, 20}}
	remote.setErr(errors.New("pricing unavailable"))
	c := confirmedController(t, Deps{API: remote})

	require.NoError(t, c.OpenOptions(context.Background()))
	snap := c.Snapshot()
	assert.Equal(t, booking.StageOptions, snap.Stage, "screen is reachable despite the failed load")
	assert.False(t, snap.TiersLoaded)
	assert.NotEmpty(t, snap.LastError)

	remote.setErr(nil)
	require.NoError(t, c.RetryTiers(context.Background()))
	snap = c.Snapshot()
	assert.True(t, snap.TiersLoaded)
	assert.Equal(t, booking.TierPrices{"$8", "$12", "$20"}, snap.Tiers)
}

func TestRetryTiersOutsideOptions(t *testing.T) {
	c := startedController(t, Deps{Geocoder: &stubGeocoder{}})
	assert.ErrorIs(t, c.RetryTiers(context.Background()), ErrInvalidStage)
}

func TestConfirmOptionsDefaultsToFirstTier(t *testing.T) {
	c := confirmedController(t, Deps{API: &stubAPI{costs: [3]float64{8, 12, 20}}})
	require.NoError(t, c.OpenOptions(context.Background()))

	// No tier picked; the cheapest tier is the fallback.
	require.NoError(t, c.ConfirmOptions())
	snap := c.Snapshot()
	assert.Equal(t, booking.StagePickup, snap.Stage)
	require.NotNil(t, snap.Draft.TripTier)
	assert.Equal(t, "0", *snap.Draft.TripTier)
	assert.Equal(t, 8, snap.Draft.Cost)
}

func TestSubmitFreezesBookingIntoSession(t *testing.T) {
	sessions := session.NewStore()
	sessions.Login(session.User{ID: types.ID("user-1"), FirstName: "Pat", Phone: "+1 6175551234"})
	driver := types.ID("d-1")

	c := confirmedController(t, Deps{
		API:      &stubAPI{costs: [3]float64{8, 12, 20}},
		Sessions: sessions,
	})
	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return stamp }

	require.NoError(t, c.OpenOptions(context.Background()))
	require.NoError(t, c.SelectTier("1"))
	require.NoError(t, c.SelectDriver(&driver))
	require.NoError(t, c.ConfirmOptions())

	b, err := c.Submit()
	require.NoError(t, err)
	assert.Equal(t, "1", b.TripTier)
	assert.Equal(t, 12, b.Cost)
	assert.Equal(t, stamp, b.Date)
	require.NotNil(t, b.PreferredDriver)
	assert.Equal(t, driver, *b.PreferredDriver)

	got := sessions.Bookings()
	require.Len(t, got, 1)
	assert.Equal(t, b, got[0])

	_, err = c.Submit()
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestAbandonFromAnyActiveStage(t *testing.T) {
	c := startedController(t, Deps{Geocoder: &stubGeocoder{}})
	require.NoError(t, c.Abandon())
	assert.Equal(t, booking.StageAbandoned, c.Snapshot().Stage)
	assert.ErrorIs(t, c.Abandon(), ErrInvalidStage)
}

func TestManagerSingleActiveFlow(t *testing.T) {
	m := NewManager(Deps{Geocoder: &stubGeocoder{}}, testConfig())

	_, err := m.Current()
	assert.ErrorIs(t, err, ErrNoFlow)

	fix := &types.Coordinate{Lat: 1, Lng: 1}
	first, err := m.Start(types.ID("u"), fix)
	require.NoError(t, err)

	second, err := m.Start(types.ID("u"), fix)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, booking.StageAbandoned, first.Snapshot().Stage,
		"starting a new flow abandons the previous one")

	cur, err := m.Current()
	require.NoError(t, err)
	assert.Equal(t, second.ID(), cur.ID())

	require.NoError(t, m.Abandon())
	_, err = m.Current()
	assert.ErrorIs(t, err, ErrNoFlow)
}
