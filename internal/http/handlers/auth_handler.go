// README: Login, OTP, sign-up, and logout handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TaggTeeM/taggteemflagg/internal/api"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/session"
	"github.com/TaggTeeM/taggteemflagg/internal/validate"
)

type AuthHandler struct {
	api      *api.Client
	sessions *session.Store
	phones   session.PhoneStore
	log      *zap.Logger
}

func NewAuthHandler(client *api.Client, sessions *session.Store, phones session.PhoneStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{api: client, sessions: sessions, phones: phones, log: log}
}

type loginReq struct {
	Phone string `json:"phone"`
}

// Login validates the phone number locally, then asks the API to start the
// OTP exchange. The saved phone prefills the form on the next start.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if !validate.IsValidPhoneNumber(req.Phone) {
		writeError(c, http.StatusBadRequest, "invalid phone number")
		return
	}
	if err := h.api.ValidatePhone(c.Request.Context(), req.Phone); err != nil {
		writeRemoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "otp_sent"})
}

// Prefill returns the phone number from the last successful login, if any.
func (h *AuthHandler) Prefill(c *gin.Context) {
	phone, err := h.phones.LoadPhone(c.Request.Context())
	if err != nil {
		// A cold store is indistinguishable from an empty one to the form.
		h.log.Warn("phone prefill load failed", zap.Error(err))
		phone = ""
	}
	writeJSON(c, http.StatusOK, gin.H{"phone": phone})
}

type otpReq struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// OTP exchanges the code for a user profile, logs the session in, and
// persists the phone for prefill. The OTP shape is checked before any
// network call.
func (h *AuthHandler) OTP(c *gin.Context) {
	var req otpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if !validate.IsValidOTP(req.OTP) {
		writeError(c, http.StatusBadRequest, "otp must be six digits")
		return
	}
	user, err := h.api.ValidateOTP(c.Request.Context(), req.Phone, req.OTP)
	if err != nil {
		writeRemoteError(c, err)
		return
	}

	h.sessions.Login(toSessionUser(user))
	if err := h.phones.SavePhone(c.Request.Context(), req.Phone); err != nil {
		// Prefill is a convenience; the login itself already happened.
		h.log.Warn("phone prefill save failed", zap.Error(err))
	}
	h.log.Info("user logged in", zap.String("user_id", string(user.ID)))
	writeJSON(c, http.StatusOK, profileBody(toSessionUser(user)))
}

type signupReq struct {
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if !validate.IsValidPhoneNumber(req.Phone) {
		writeError(c, http.StatusBadRequest, "invalid phone number")
		return
	}
	if req.FirstName == "" {
		writeError(c, http.StatusBadRequest, "first name required")
		return
	}
	if err := h.api.SignUp(c.Request.Context(), req.Phone, req.FirstName); err != nil {
		writeRemoteError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"status": "otp_sent"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Logout()
	writeJSON(c, http.StatusOK, gin.H{"status": "logged_out"})
}

func toSessionUser(u api.AuthUser) session.User {
	out := session.User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
	if u.Driver != nil {
		out.Driver = &session.DriverProfile{
			Online:   u.Driver.Online,
			Approved: u.Driver.Approved,
		}
	}
	return out
}
