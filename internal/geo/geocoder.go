// README: Reverse geocoding with a Google Maps first attempt and AI fallback.
package geo

import (
	"context"
	"fmt"
	"log"
	"strings"

	"googlemaps.github.io/maps"

	"ndjele/internal/ai"
	"ndjele/internal/types"
)

// defaultNeighborhood is the last resort when neither Maps nor the AI can
// name the area.
const defaultNeighborhood = "Libreville"

// Geocoder names the neighborhood for a coordinate. Three attempts, in
// order: Google reverse geocoding, the AI collaborator, then a constant.
type Geocoder struct {
	client  *maps.Client
	advisor ai.Advisor
}

// NewGeocoder creates a Geocoder. apiKey may be empty, in which case only
// the AI fallback chain is used.
func NewGeocoder(apiKey string, advisor ai.Advisor) (*Geocoder, error) {
	g := &Geocoder{advisor: advisor}
	if apiKey != "" {
		client, err := maps.NewClient(maps.WithAPIKey(apiKey))
		if err != nil {
			return nil, fmt.Errorf("create maps client: %w", err)
		}
		g.client = client
	}
	return g, nil
}

func (g *Geocoder) Neighborhood(ctx context.Context, p types.Point) string {
	if name := g.fromMaps(ctx, p); name != "" {
		return name
	}
	if g.advisor != nil {
		name, err := g.advisor.NeighborhoodFromCoords(ctx, p.Lat, p.Lng)
		if err != nil {
			log.Printf("geo: AI neighborhood lookup failed: %v", err)
		} else if strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	return defaultNeighborhood
}

func (g *Geocoder) fromMaps(ctx context.Context, p types.Point) string {
	if g.client == nil {
		return ""
	}
	resp, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
		Language: "fr",
	})
	if err != nil {
		log.Printf("geo: reverse geocode failed: %v", err)
		return ""
	}
	// Prefer the neighborhood component; fall back to locality.
	for _, result := range resp {
		for _, comp := range result.AddressComponents {
			for _, t := range comp.Types {
				if t == "neighborhood" || t == "sublocality" {
					return comp.LongName
				}
			}
		}
	}
	for _, result := range resp {
		for _, comp := range result.AddressComponents {
			for _, t := range comp.Types {
				if t == "locality" {
					return comp.LongName
				}
			}
		}
	}
	return ""
}
