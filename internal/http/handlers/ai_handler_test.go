// README: AI endpoint tests for the no-upstream configuration.
package handlers_test

import (
	"net/http"
	"testing"
)

// Without a configured AI client every /api/ai endpoint must still answer
// with its fixed fallback instead of failing.
func TestChatFallsBackWithoutAdvisor(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/ai/chat", map[string]any{
		"providerName": "Jean-Paul",
		"message":      "Tu es où ?",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("chat without advisor = %d %s, want 200", w.Code, w.Body.String())
	}
	if got := decode(t, w)["reply"]; got != "Ok, bien reçu." {
		t.Errorf("reply = %v, want the fixed fallback", got)
	}
}

func TestMedicalOrientationFallsBackWithoutAdvisor(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/ai/medical", map[string]any{
		"symptoms": "fièvre et maux de tête",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("medical without advisor = %d %s, want 200", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["specialty"] != "generaliste" {
		t.Errorf("specialty = %v, want the generaliste fallback", got["specialty"])
	}
}

func TestArtisanDiagnosisFallsBackWithoutAdvisor(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/ai/artisan", map[string]any{
		"problem": "fuite sous l'évier",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("artisan without advisor = %d %s, want 200", w.Code, w.Body.String())
	}
	if got := decode(t, w)["category"]; got == nil || got == "" {
		t.Errorf("category missing from fallback response: %v", got)
	}
}

func TestChatStillValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/ai/chat", map[string]any{"message": "  "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank chat input = %d, want 400", w.Code)
	}
}
