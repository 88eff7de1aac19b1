// README: Structured results returned by the AI collaborator.
package ai

// MedicalOrientation is the triage result for a symptom description.
type MedicalOrientation struct {
	// Specialty is one of: generaliste, pediatre, gynecologue, dentiste,
	// ophtalmo, urologue, diabetologue, urgence.
	Specialty string `json:"specialty"`

	// Advice is a brief first-aid tip.
	Advice string `json:"advice"`

	// UrgencyLevel scores 1 to 5, 5 being life-threatening.
	UrgencyLevel int `json:"urgencyLevel"`

	// Message is the user-facing orientation text.
	Message string `json:"message"`
}

// ArtisanDiagnosis categorizes a maintenance problem.
type ArtisanDiagnosis struct {
	// Category is one of: plomberie, electricite, froid, maconnerie,
	// menuiserie, carrelage, menage, nettoyage, charpenterie, elagage, mecanique.
	Category   string `json:"category"`
	Advice     string `json:"advice"`
	PriceRange string `json:"priceRange"`
}

// NegotiationContext carries the ride details the negotiation prompt needs.
type NegotiationContext struct {
	Road       string
	Weather    string
	Passengers int
	HasLuggage bool
}

// NegotiationResult is the counter-offer outcome.
type NegotiationResult struct {
	Reply      string `json:"reply"`
	FinalPrice int64  `json:"finalPrice"`
}
