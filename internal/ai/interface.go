// README: Contract for the external generative-AI collaborator.
package ai

import "context"

// Advisor defines every call the application delegates to the external
// text-generation service. Callers must treat failures as non-fatal and fall
// back to a fixed default; no business rule may depend on the AI succeeding.
type Advisor interface {
	// MedicalOrientation categorizes free-text symptoms into a doctor specialty.
	MedicalOrientation(ctx context.Context, symptoms string) (*MedicalOrientation, error)

	// ArtisanDiagnosis categorizes a household problem into an artisan trade.
	ArtisanDiagnosis(ctx context.Context, problem string) (*ArtisanDiagnosis, error)

	// ChatReply produces a short in-character reply from a provider to a client.
	ChatReply(ctx context.Context, providerName, message string) (string, error)

	// NeighborhoodFromCoords names the Libreville neighborhood for a coordinate.
	NeighborhoodFromCoords(ctx context.Context, lat, lng float64) (string, error)

	// NegotiatePrice turns a client counter-offer into a final price and a
	// human-readable negotiation message.
	NegotiatePrice(ctx context.Context, basePrice, offer int64, nctx NegotiationContext) (*NegotiationResult, error)

	// PredictNextDirection guesses a driver's next destination from history.
	PredictNextDirection(ctx context.Context, history []string) (string, error)
}
