// README: Recent destination searches per user.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ndjele/internal/modules/matching"
	"ndjele/internal/types"
)

type SearchHandler struct {
	matching *matching.Service
}

func NewSearchHandler(svc *matching.Service) *SearchHandler {
	return &SearchHandler{matching: svc}
}

type searchReq struct {
	Destination string `json:"destination"`
}

func (h *SearchHandler) Record(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.matching.RecordSearch(c.Request.Context(), types.ID(c.Param("id")), req.Destination); err != nil {
		if err == matching.ErrEmptyDirection {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusCreated, map[string]any{"destination": req.Destination})
}

func (h *SearchHandler) List(c *gin.Context) {
	searches, err := h.matching.RecentSearches(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if searches == nil {
		searches = []string{}
	}
	writeJSON(c, http.StatusOK, map[string]any{"searches": searches})
}
