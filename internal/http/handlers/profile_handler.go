// README: Profile handlers: identity, role, subscription, terms, SOS contacts.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ndjele/internal/modules/profile"
	"ndjele/internal/types"
)

type ProfileHandler struct {
	profile *profile.Service
}

func NewProfileHandler(svc *profile.Service) *ProfileHandler {
	return &ProfileHandler{profile: svc}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profile.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeProfileError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

func (h *ProfileHandler) Save(c *gin.Context) {
	var p profile.UserProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p.ID = types.ID(c.Param("id"))
	if err := h.profile.Save(c.Request.Context(), &p); err != nil {
		writeProfileError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

type roleReq struct {
	Role string `json:"role"`
}

func (h *ProfileHandler) SetRole(c *gin.Context) {
	var req roleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	role, err := h.profile.SetRole(c.Request.Context(), types.ID(c.Param("id")), req.Role)
	if err != nil {
		writeProfileError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"role": role})
}

type subscriptionReq struct {
	Tier string `json:"tier"`
}

func (h *ProfileHandler) SetSubscription(c *gin.Context) {
	var req subscriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.profile.SetSubscription(c.Request.Context(), types.ID(c.Param("id")), profile.SubscriptionTier(req.Tier))
	if err != nil {
		writeProfileError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"subscription": req.Tier})
}

func (h *ProfileHandler) AcceptTerms(c *gin.Context) {
	if err := h.profile.AcceptTerms(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeProfileError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"termsAccepted": true})
}

func (h *ProfileHandler) Contacts(c *gin.Context) {
	contacts, err := h.profile.Contacts(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeProfileError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"contacts": contacts})
}

type contactReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *ProfileHandler) AddContact(c *gin.Context) {
	var req contactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	contact, err := h.profile.AddContact(c.Request.Context(), types.ID(c.Param("id")), req.Name, req.Phone)
	if err != nil {
		writeProfileError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, contact)
}
