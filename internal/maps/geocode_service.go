package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// GeocodeService handles reverse geocoding against the Google Geocoding API.
type GeocodeService struct {
	client *maps.Client
}

// NewGeocodeService creates a new GeocodeService with the given API Key.
func NewGeocodeService(apiKey string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client}, nil
}

// ReverseGeocode resolves a point to its best formatted address. The first
// result is used; the Geocoding API orders results most-specific first.
func (s *GeocodeService) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	r := &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lng},
		Language: "en",
	}
	results, err := s.client.ReverseGeocode(ctx, r)
	if err != nil {
		return "", fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no address found for %.6f,%.6f", lat, lng)
	}
	return results[0].FormattedAddress, nil
}
