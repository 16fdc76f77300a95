package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

// RoutePreview is the directions overlay shown once both endpoints are
// confirmed: an encoded polyline plus human-readable duration and distance.
type RoutePreview struct {
	Polyline string
	Duration time.Duration
	Distance string
}

// RouteService handles interactions with Google Maps Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// Preview returns the driving route between the two endpoints. It assumes
// driving mode.
func (s *RouteService) Preview(ctx context.Context, src, dst types.Coordinate) (RoutePreview, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%.6f,%.6f", src.Lat, src.Lng),
		Destination: fmt.Sprintf("%.6f,%.6f", dst.Lat, dst.Lng),
		Mode:        maps.TravelModeDriving,
		Language:    "en",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return RoutePreview{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RoutePreview{}, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return RoutePreview{
		Polyline: routes[0].OverviewPolyline.Points,
		Duration: leg.Duration,
		Distance: leg.Distance.HumanReadable,
	}, nil
}
