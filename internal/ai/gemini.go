// README: Gemini-backed Advisor implementation.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiAdvisor implements Advisor using Google's Gemini models.
type GeminiAdvisor struct {
	client *genai.Client
	// jsonModel forces application/json output for the structured calls.
	jsonModel *genai.GenerativeModel
	// textModel is used for the plain-string calls (chat, prediction, geocode).
	textModel *genai.GenerativeModel
}

// NewGeminiAdvisor initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiAdvisor(ctx context.Context, apiKey string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	jsonModel := client.GenerativeModel("gemini-2.0-flash")
	jsonModel.ResponseMIMEType = "application/json"
	jsonModel.SetTemperature(0.4)

	textModel := client.GenerativeModel("gemini-2.0-flash")
	textModel.SetTemperature(0.4)

	return &GeminiAdvisor{client: client, jsonModel: jsonModel, textModel: textModel}, nil
}

// Close cleans up the Gemini client resources.
func (g *GeminiAdvisor) Close() {
	g.client.Close()
}

func (g *GeminiAdvisor) MedicalOrientation(ctx context.Context, symptoms string) (*MedicalOrientation, error) {
	prompt := fmt.Sprintf(`Tu es un assistant médical d'orientation au Gabon. Un patient décrit ses symptômes : %q.
Analyse la demande et réponds en JSON avec :
1. "specialty" : la catégorie de médecin recommandée parmi : generaliste, pediatre, gynecologue, dentiste, ophtalmo, urologue, diabetologue, urgence.
2. "advice" : un conseil bref de premier secours (ex: boire de l'eau, rester allongé).
3. "urgencyLevel" : un score de 1 à 5 (5 étant une urgence vitale).
4. "message" : un message d'orientation bienveillant.
IMPORTANT : Ajoute toujours une mention que ceci n'est pas un diagnostic final et qu'il faut consulter.`, symptoms)

	var out MedicalOrientation
	if err := g.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GeminiAdvisor) ArtisanDiagnosis(ctx context.Context, problem string) (*ArtisanDiagnosis, error) {
	prompt := fmt.Sprintf(`Tu es un expert en maintenance domestique au Gabon. Un client décrit son problème : %q.
Analyse la demande et réponds en JSON avec :
1. "category" : le métier nécessaire parmi : plomberie, electricite, froid, maconnerie, menuiserie, carrelage, menage, nettoyage, charpenterie, elagage, mecanique.
2. "advice" : un conseil bref de sécurité.
3. "priceRange" : une estimation du prix à Libreville.`, problem)

	var out ArtisanDiagnosis
	if err := g.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GeminiAdvisor) ChatReply(ctx context.Context, providerName, message string) (string, error) {
	prompt := fmt.Sprintf(`Tu es %s, prestataire au Gabon (Libreville). Un client te dit : %q. Réponds court, professionnel et chaleureux (style local).`, providerName, message)
	return g.generateText(ctx, prompt)
}

func (g *GeminiAdvisor) NeighborhoodFromCoords(ctx context.Context, lat, lng float64) (string, error) {
	prompt := fmt.Sprintf(`Identifie le quartier à Libreville pour : Lat %f, Lng %f. Format court.`, lat, lng)
	return g.generateText(ctx, prompt)
}

func (g *GeminiAdvisor) NegotiatePrice(ctx context.Context, basePrice, offer int64, nctx NegotiationContext) (*NegotiationResult, error) {
	passengers := nctx.Passengers
	if passengers < 1 {
		passengers = 1
	}
	luggage := "Non"
	if nctx.HasLuggage {
		luggage = "Oui"
	}
	prompt := fmt.Sprintf(`Chauffeur à Libreville. Prix de base estimé: %d. Client propose: %d.
Contexte supplémentaire: Route: %s, Météo: %s, Passagers: %d, Bagages: %s.
Réponds en JSON: reply (style gabonais, accepte ou négocie avec humour) et finalPrice (nombre).`,
		basePrice, offer, nctx.Road, nctx.Weather, passengers, luggage)

	var out NegotiationResult
	if err := g.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GeminiAdvisor) PredictNextDirection(ctx context.Context, history []string) (string, error) {
	prompt := fmt.Sprintf(`Tu es une IA de logistique à Libreville. Voici l'historique des dernières destinations d'un taxi : %s.
En te basant sur les habitudes de transport locales au Gabon et cet historique, prédis la prochaine destination la plus probable.
Réponds uniquement avec le nom du quartier/lieu (ex: Aéroport, Owendo, Louis).`, strings.Join(history, ", "))
	return g.generateText(ctx, prompt)
}

func (g *GeminiAdvisor) generateJSON(ctx context.Context, prompt string, out any) error {
	text, err := generate(ctx, g.jsonModel, prompt)
	if err != nil {
		return err
	}
	cleanJSON := cleanJSONString(text)
	if err := json.Unmarshal([]byte(cleanJSON), out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	return nil
}

func (g *GeminiAdvisor) generateText(ctx context.Context, prompt string) (string, error) {
	text, err := generate(ctx, g.textModel, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String(), nil
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
