// README: HTTP client for the remote Flagg API (auth, drivers, pricing).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

const defaultTimeout = 10 * time.Second

// RemoteError is a response the API answered but rejected (success=false or
// an explicit error code). The message is what the screen shows inline.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("flagg api: %s (%s)", e.Message, e.Code)
	}
	return "flagg api: " + e.Message
}

// Client talks JSON over HTTPS to the remote Flagg API. All server
// interaction in the application goes through here; the API is treated as an
// opaque collaborator.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// ValidatePhone asks the API to start an OTP exchange for the phone number.
func (c *Client) ValidatePhone(ctx context.Context, phone string) error {
	var out StatusResponse
	if err := c.post(ctx, "/api/validate-phone", map[string]string{"phone": phone}, &out); err != nil {
		return err
	}
	if !out.Success {
		return &RemoteError{Message: out.Message}
	}
	return nil
}

// ValidateOTP exchanges a phone/OTP pair for the authenticated user profile.
func (c *Client) ValidateOTP(ctx context.Context, phone, otp string) (AuthUser, error) {
	var out otpResponse
	body := map[string]string{"phone": phone, "otp": otp}
	if err := c.post(ctx, "/api/validate-otp", body, &out); err != nil {
		return AuthUser{}, err
	}
	if !out.Success {
		return AuthUser{}, &RemoteError{Message: out.Message}
	}
	return out.User, nil
}

// SignUp registers a new rider account.
func (c *Client) SignUp(ctx context.Context, phone, firstName string) error {
	var out StatusResponse
	body := map[string]string{"phone": phone, "firstName": firstName}
	if err := c.post(ctx, "/api/sign-up", body, &out); err != nil {
		return err
	}
	if !out.Success {
		return &RemoteError{Message: out.Message}
	}
	return nil
}

// DriverSignup enrolls the user as a driver and returns the resulting
// capability flags.
func (c *Client) DriverSignup(ctx context.Context, userID types.ID) (DriverStatus, error) {
	var out DriverSignupResult
	body := map[string]string{"userInternalId": string(userID)}
	if err := c.post(ctx, "/api/driver-signup", body, &out); err != nil {
		return DriverStatus{}, err
	}
	if !out.Success {
		return DriverStatus{}, &RemoteError{Code: out.ErrorCode, Message: out.Message}
	}
	return DriverStatus{Online: out.Online, Approved: out.Approved}, nil
}

// PreferredDrivers returns the rider's preferred-driver list.
func (c *Client) PreferredDrivers(ctx context.Context, userID types.ID) ([]PreferredDriver, error) {
	var out []PreferredDriver
	body := map[string]string{"userInternalId": string(userID)}
	if err := c.post(ctx, "/api/get-preferred-drivers", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TripCostList fetches the three tier prices for a (source, destination)
// pair.
func (c *Client) TripCostList(ctx context.Context, src, dst types.Coordinate) ([3]float64, error) {
	var out tripCostResponse
	body := map[string]coordinatePayload{
		"source":      {Latitude: src.Lat, Longitude: src.Lng, Address: src.Address},
		"destination": {Latitude: dst.Lat, Longitude: dst.Lng, Address: dst.Address},
	}
	if err := c.post(ctx, "/api/trip-cost-list", body, &out); err != nil {
		return [3]float64{}, err
	}
	return out.CostList, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("flagg api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("flagg api %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
