// README: Profile, booking history, and driver signup handlers.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TaggTeeM/taggteemflagg/internal/api"
	"github.com/TaggTeeM/taggteemflagg/internal/http/middleware"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/booking"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/session"
	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

type ProfileHandler struct {
	api      *api.Client
	sessions *session.Store
}

func NewProfileHandler(client *api.Client, sessions *session.Store) *ProfileHandler {
	return &ProfileHandler{api: client, sessions: sessions}
}

func profileBody(u session.User) gin.H {
	body := gin.H{
		"id":        u.ID,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"email":     u.Email,
		"phone":     u.Phone,
	}
	if u.Driver != nil {
		body["driver"] = gin.H{"online": u.Driver.Online, "approved": u.Driver.Approved}
	}
	return body
}

func (h *ProfileHandler) Get(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	writeJSON(c, http.StatusOK, profileBody(u))
}

type bookingBody struct {
	ID              types.ID         `json:"id"`
	Source          types.Coordinate `json:"source"`
	Destination     types.Coordinate `json:"destination"`
	TripTier        string           `json:"tripTier"`
	Cost            int              `json:"cost"`
	DriverName      string           `json:"driverName"`
	PreferredDriver *types.ID        `json:"preferredDriver,omitempty"`
	Date            string           `json:"date"`
}

func toBookingBody(b booking.Booking) bookingBody {
	return bookingBody{
		ID:              b.ID,
		Source:          b.Source,
		Destination:     b.Destination,
		TripTier:        b.TripTier,
		Cost:            b.Cost,
		DriverName:      b.DriverName,
		PreferredDriver: b.PreferredDriver,
		Date:            b.Date.Format(time.RFC3339),
	}
}

// Bookings lists the rides booked in this session, newest last.
func (h *ProfileHandler) Bookings(c *gin.Context) {
	list := h.sessions.Bookings()
	out := make([]bookingBody, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingBody(b))
	}
	writeJSON(c, http.StatusOK, gin.H{"bookings": out})
}

// Booking returns one history entry by list position. The remote API has not
// assigned real IDs at this point (they are all the "-1" placeholder), so
// position is the only stable handle the client has.
func (h *ProfileHandler) Booking(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("id"))
	if err != nil || idx < 0 {
		writeError(c, http.StatusBadRequest, "invalid booking index")
		return
	}
	list := h.sessions.Bookings()
	if idx >= len(list) {
		writeError(c, http.StatusNotFound, "booking not found")
		return
	}
	writeJSON(c, http.StatusOK, toBookingBody(list[idx]))
}

// Drive renders the driving home screen. Approved drivers get their online
// state; everyone else enrolled sees that the application is under review.
func (h *ProfileHandler) Drive(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	if u.Driver == nil || !u.Driver.Approved {
		writeJSON(c, http.StatusOK, gin.H{"status": "under_review"})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"status": "approved",
		"online": u.Driver.Online,
	})
}

// DriverSignup enrolls the logged-in user as a driver and attaches the
// returned capability to the session profile.
func (h *ProfileHandler) DriverSignup(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	status, err := h.api.DriverSignup(c.Request.Context(), u.ID)
	if err != nil {
		writeRemoteError(c, err)
		return
	}
	h.sessions.SetDriverProfile(session.DriverProfile{
		Online:   status.Online,
		Approved: status.Approved,
	})
	writeJSON(c, http.StatusOK, gin.H{
		"online":   status.Online,
		"approved": status.Approved,
	})
}
