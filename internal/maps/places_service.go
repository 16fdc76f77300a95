package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Place represents a simplified location result a rider can pick as a
// pickup or drop-off point.
type Place struct {
	Name    string
	Address string
	Lat     float64
	Lng     float64
	PlaceID string
}

// maxPlaceResults caps how many suggestions the picker shows.
const maxPlaceResults = 5

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// Search resolves a free-text query to candidate places near the given
// region center. Results without a usable geometry are dropped; the picker
// needs a coordinate, not just a label.
func (s *PlacesService) Search(ctx context.Context, query string, nearLat, nearLng float64) ([]Place, error) {
	r := &maps.TextSearchRequest{
		Query:    query,
		Language: "en",
	}
	if nearLat != 0 || nearLng != 0 {
		r.Location = &maps.LatLng{Lat: nearLat, Lng: nearLng}
		r.Radius = 50000
	}

	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	var results []Place
	for _, result := range resp.Results {
		loc := result.Geometry.Location
		if loc.Lat == 0 && loc.Lng == 0 {
			continue
		}
		results = append(results, Place{
			Name:    result.Name,
			Address: result.FormattedAddress,
			Lat:     loc.Lat,
			Lng:     loc.Lng,
			PlaceID: result.PlaceID,
		})
		if len(results) >= maxPlaceResults {
			break
		}
	}
	return results, nil
}
