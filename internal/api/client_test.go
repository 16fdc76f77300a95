// README: Flagg API client tests against a local test server.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestValidatePhoneSuccess(t *testing.T) {
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/validate-phone", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(StatusResponse{Success: true, Message: "OTP sent"})
	})

	err := c.ValidatePhone(context.Background(), "617-555-1234")
	require.NoError(t, err)
	assert.Equal(t, "617-555-1234", gotBody["phone"])
}

func TestValidatePhoneRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(StatusResponse{Success: false, Message: "unknown phone"})
	})

	err := c.ValidatePhone(context.Background(), "617-555-1234")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "unknown phone", remote.Message)
}

func TestValidateOTPReturnsUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/validate-otp", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "123456", body["otp"])
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user": map[string]any{
				"id":        "u-1",
				"firstName": "Ada",
				"lastName":  "Lovelace",
				"email":     "ada@example.com",
				"phone":     "617-555-1234",
				"driver":    map[string]bool{"online": false, "approved": true},
			},
		})
	})

	user, err := c.ValidateOTP(context.Background(), "617-555-1234", "123456")
	require.NoError(t, err)
	assert.Equal(t, types.ID("u-1"), user.ID)
	assert.Equal(t, "Ada", user.FirstName)
	require.NotNil(t, user.Driver)
	assert.True(t, user.Driver.Approved)
}

func TestDriverSignupErrorCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(DriverSignupResult{
			Success:   false,
			ErrorCode: "ALREADY_ENROLLED",
			Message:   "already a driver",
		})
	})

	_, err := c.DriverSignup(context.Background(), "u-1")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "ALREADY_ENROLLED", remote.Code)
}

func TestPreferredDrivers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{
			{"InternalId": "d-1", "name": "Sam"},
			{"InternalId": "d-2", "name": "Alex"},
		})
	})

	drivers, err := c.PreferredDrivers(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, drivers, 2)
	assert.Equal(t, types.ID("d-1"), drivers[0].InternalID)
	assert.Equal(t, "Alex", drivers[1].Name)
}

func TestTripCostList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]coordinatePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 42.3656, body["source"].Latitude)
		assert.Equal(t, -71.0589, body["destination"].Longitude)
		json.NewEncoder(w).Encode(map[string][3]float64{"costList": {5, 8, 20}})
	})

	costs, err := c.TripCostList(context.Background(),
		types.Coordinate{Lat: 42.3656, Lng: -71.0096, Address: "a"},
		types.Coordinate{Lat: 42.3601, Lng: -71.0589, Address: "b"},
	)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{5, 8, 20}, costs)
}

func TestUnexpectedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	err := c.ValidatePhone(context.Background(), "617-555-1234")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}
