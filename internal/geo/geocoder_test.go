// README: Geocoder fallback chain tests (no Maps client wired).
package geo

import (
	"context"
	"errors"
	"testing"

	"ndjele/internal/ai"
	"ndjele/internal/types"
)

type stubAdvisor struct {
	ai.Advisor
	name string
	err  error
}

func (s *stubAdvisor) NeighborhoodFromCoords(context.Context, float64, float64) (string, error) {
	return s.name, s.err
}

func TestNeighborhoodAIFallback(t *testing.T) {
	g, err := NewGeocoder("", &stubAdvisor{name: "Nombakélé"})
	if err != nil {
		t.Fatalf("new geocoder: %v", err)
	}
	got := g.Neighborhood(context.Background(), types.Point{Lat: 0.39, Lng: 9.45})
	if got != "Nombakélé" {
		t.Errorf("neighborhood = %q, want Nombakélé", got)
	}
}

func TestNeighborhoodConstantFallback(t *testing.T) {
	tests := []struct {
		name    string
		advisor ai.Advisor
	}{
		{"no advisor", nil},
		{"advisor error", &stubAdvisor{err: errors.New("quota")}},
		{"blank answer", &stubAdvisor{name: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGeocoder("", tt.advisor)
			if err != nil {
				t.Fatalf("new geocoder: %v", err)
			}
			got := g.Neighborhood(context.Background(), types.Point{})
			if got != defaultNeighborhood {
				t.Errorf("neighborhood = %q, want %q", got, defaultNeighborhood)
			}
		})
	}
}
