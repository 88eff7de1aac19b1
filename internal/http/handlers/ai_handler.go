// README: AI collaborator handlers: chat, medical orientation, artisan diagnosis.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ndjele/internal/ai"
)

// aiTimeout bounds every upstream generation call.
const aiTimeout = 10 * time.Second

type AIHandler struct {
	advisor ai.Advisor
}

func NewAIHandler(advisor ai.Advisor) *AIHandler {
	return &AIHandler{advisor: advisor}
}

type aiChatReq struct {
	ProviderName string `json:"providerName"`
	Message      string `json:"message"`
}

// Chat handles POST /api/ai/chat: an in-character provider reply.
func (h *AIHandler) Chat(c *gin.Context) {
	var req aiChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.ProviderName = strings.TrimSpace(req.ProviderName)
	req.Message = strings.TrimSpace(req.Message)
	if req.ProviderName == "" || req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing providerName or message")
		return
	}

	// The AI is advisory; a missing or failing upstream still gives the
	// client something usable.
	reply := "Ok, bien reçu."
	if h.advisor != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), aiTimeout)
		defer cancel()
		if r, err := h.advisor.ChatReply(ctx, req.ProviderName, req.Message); err == nil {
			reply = r
		}
	}
	writeJSON(c, http.StatusOK, map[string]any{"reply": reply})
}

type symptomsReq struct {
	Symptoms string `json:"symptoms"`
}

func (h *AIHandler) MedicalOrientation(c *gin.Context) {
	var req symptomsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Symptoms) == "" {
		writeError(c, http.StatusBadRequest, "missing symptoms")
		return
	}

	res := &ai.MedicalOrientation{
		Specialty:    "generaliste",
		Advice:       "Consultez un médecin généraliste.",
		UrgencyLevel: 2,
		Message:      "Nous vous orientons vers un médecin généraliste.",
	}
	if h.advisor != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), aiTimeout)
		defer cancel()
		if r, err := h.advisor.MedicalOrientation(ctx, req.Symptoms); err == nil {
			res = r
		}
	}
	writeJSON(c, http.StatusOK, res)
}

type problemReq struct {
	Problem string `json:"problem"`
}

func (h *AIHandler) ArtisanDiagnosis(c *gin.Context) {
	var req problemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Problem) == "" {
		writeError(c, http.StatusBadRequest, "missing problem")
		return
	}

	res := &ai.ArtisanDiagnosis{
		Category: "plomberie",
		Advice:   "Un artisan va examiner le problème sur place.",
	}
	if h.advisor != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), aiTimeout)
		defer cancel()
		if r, err := h.advisor.ArtisanDiagnosis(ctx, req.Problem); err == nil {
			res = r
		}
	}
	writeJSON(c, http.StatusOK, res)
}
