// README: Booking flow handlers; one route per flow operation.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TaggTeeM/taggteemflagg/internal/http/middleware"
	"github.com/TaggTeeM/taggteemflagg/internal/maps"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/booking"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/flow"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/mapsync"
	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

type FlowHandler struct {
	flows   *flow.Manager
	places  *maps.PlacesService
	locator *flow.ReportedLocator
}

func NewFlowHandler(flows *flow.Manager, places *maps.PlacesService, locator *flow.ReportedLocator) *FlowHandler {
	return &FlowHandler{flows: flows, places: places, locator: locator}
}

type locationReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ReportLocation records a device position fix. Flow starts without an
// inline fix fall back to the most recent report, as long as it is fresh.
func (h *FlowHandler) ReportLocation(c *gin.Context) {
	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	h.locator.Report(types.Coordinate{Lat: req.Lat, Lng: req.Lng})
	writeJSON(c, http.StatusAccepted, gin.H{"status": "recorded"})
}

type startFlowReq struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Start opens a new booking flow. A device fix in the body seeds the pickup;
// without one the server-side locator is consulted.
func (h *FlowHandler) Start(c *gin.Context) {
	var req startFlowReq
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	var fix *types.Coordinate
	if req.Lat != nil && req.Lng != nil {
		fix = &types.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
	}
	u, _ := middleware.CurrentUser(c)
	ctrl, err := h.flows.Start(u.ID, fix)
	if err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, snapshotBody(ctrl.Snapshot()))
}

func (h *FlowHandler) current(c *gin.Context) (*flow.Controller, bool) {
	ctrl, err := h.flows.Current()
	if err != nil {
		writeFlowError(c, err)
		return nil, false
	}
	return ctrl, true
}

func (h *FlowHandler) State(c *gin.Context) {
	ctrl, ok := h.current(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, snapshotBody(ctrl.Snapshot()))
}

type targetReq struct {
	Target string `json:"target"`
}

func (h *FlowHandler) SetTarget(c *gin.Context) {
	ctrl, ok := h.current(c)
	if !ok {
		return
	}
	var req targetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	target, err := flow.ParseTarget(req.Target)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ctrl.SetTarget(target); err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"target": target.String()})
}

type dragReq struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	LatDelta *float64 `json:"latDelta"`
	LngDelta *float64 `json:"lngDelta"`
}

func (h *FlowHandler) Drag(c *gin.Context) {
	ctrl, ok := h.current(c)
	if !ok {
		return
	}
	var req dragReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	region := mapsync.DefaultRegion(req.Lat, req.Lng)
	if req.LatDelta != nil && req.LngDelta != nil {
		region.LatDelta = *req.LatDelta
		region.LngDelta = *req.LngDelta
	}
	if err := ctrl.MapDragged(region); err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusAccepted, snapshotBody(ctrl.Snapshot()))
}

type placeReq struct {
	Query string `json:"query"`
}

// Place resolves an address search against the Places API and applies the
// top hit to the active picker.
func (h *FlowHandler) Place(c *gin.Context) {
	ctrl, ok := h.current(c)
	if !ok {
		return
	}
	var req placeReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		writeError(c, http.StatusBadRequest, "query required")
		return
	}
	snap := ctrl.Snapshot()
	results, err := h.places.Search(c.Request.Context(), req.Query, snap.Region.Lat, snap.Region.Lng)
	if err != nil {
		writeError(c, http.StatusBadGateway, "place search unavailable")
		return
	}
	if len(results) == 0 {
		writeError(c, http.StatusNotFound, "no places matched")
		return
	}
	if err := ctrl.ApplyPlace(results[0]); err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snapshotBody(ctrl.Snapshot()))
}

func (h *FlowHandler) Confirm(c *gin.Context) {
	ctrl, ok := h.current(c)
	if !ok {
		return
	}
	if err := ctrl.ConfirmLocations(c.Request.Context()); err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snapshotBody(ctrl.Snapshot()))
}

// Options enters the tier/driver selection screen, or re-renders it when
// already there. A failed initial price load is retried on each visit; the
// screen itself stays reachable.
func (h *FlowHandler) Options(c *gin.Context) {
	ctrl, ok := h.current(c)
	if !ok {
		return
	}
	snap := ctrl.Snapshot()
	if snap.Stage == booking.StageOptions {
		if !snap.TiersLoaded {
			if err := ctrl.RetryTiers(c.Request.Context()); err != nil {
				writeFlowError(c, err)
				return
			}
			snap = ctrl.Snapshot()
		}
		writeJSON(c, http.StatusOK, snapshotBody(snap))
		return
	}
	if err := ctrl.OpenOptions(c.Request.Context()); err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snapshotBody(ctrl.Snapshot()))
}

type optionsReq struct {
	Tier   *string `json:"tier"`
	Driver *string `json:"driver"`
}

// ConfirmOptions records selections and locks them in. Missing or malformed
// tiers fall back to the first tier downstream.
func (h *FlowHandler) ConfirmOptions(c *gin.Context) {
	ctrl, ok := h.current(c)
	if !ok {
		return
	}
	var req optionsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Tier != nil {
		if err := ctrl.SelectTier(*req.Tier); err != nil {
			writeFlowError(c, err)
			return
		}
	}
	if req.Driver != nil {
		id := types.ID(*req.Driver)
		if err := ctrl.SelectDriver(&id); err != nil {
			writeFlowError(c, err)
			return
		}
	}
	if err := ctrl.ConfirmOptions(); err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snapshotBody(ctrl.Snapshot()))
}

func (h *FlowHandler) Book(c *gin.Context) {
	ctrl, ok := h.current(c)
	if !ok {
		return
	}
	b, err := ctrl.Submit()
	if err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toBookingBody(b))
}

func (h *FlowHandler) Abandon(c *gin.Context) {
	if err := h.flows.Abandon(); err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "abandoned"})
}

func snapshotBody(s flow.Snapshot) gin.H {
	body := gin.H{
		"id":     s.ID,
		"stage":  s.Stage,
		"target": s.Target.String(),
		"region": gin.H{
			"lat":      s.Region.Lat,
			"lng":      s.Region.Lng,
			"latDelta": s.Region.LatDelta,
			"lngDelta": s.Region.LngDelta,
		},
		"pickup":  s.Draft.Source,
		"dropoff": s.Draft.Destination,
	}
	if s.TiersLoaded {
		body["tiers"] = s.Tiers
	}
	if len(s.Drivers) > 0 {
		body["preferredDrivers"] = s.Drivers
	}
	if s.SelectedTier != nil {
		body["selectedTier"] = *s.SelectedTier
	}
	if s.Preview != nil {
		body["route"] = gin.H{
			"polyline": s.Preview.Polyline,
			"duration": s.Preview.Duration.String(),
			"distance": s.Preview.Distance,
		}
	}
	if s.LastError != "" {
		body["lastError"] = s.LastError
	}
	return body
}
