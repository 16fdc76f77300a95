// README: Wire types for the remote Flagg API.
package api

import "github.com/TaggTeeM/taggteemflagg/internal/types"

// StatusResponse is the generic success/message envelope most endpoints
// return.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DriverStatus is the optional driver capability attached to a user.
type DriverStatus struct {
	Online   bool `json:"online"`
	Approved bool `json:"approved"`
}

// AuthUser is the profile returned by a successful OTP validation.
type AuthUser struct {
	ID        types.ID      `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Driver    *DriverStatus `json:"driver"`
}

type otpResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	User    AuthUser `json:"user"`
}

// DriverSignupResult is returned by the driver-signup endpoint.
type DriverSignupResult struct {
	Success   bool   `json:"success"`
	Online    bool   `json:"online"`
	Approved  bool   `json:"approved"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// PreferredDriver is one entry of the rider's preferred-driver list. Field
// casing follows the remote API exactly.
type PreferredDriver struct {
	InternalID types.ID `json:"InternalId"`
	Name       string   `json:"name"`
}

type coordinatePayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type tripCostResponse struct {
	CostList [3]float64 `json:"costList"`
}
