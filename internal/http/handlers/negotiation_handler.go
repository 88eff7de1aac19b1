// README: Price negotiation handler.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ndjele/internal/modules/negotiation"
	"ndjele/internal/types"
)

type NegotiationHandler struct {
	negotiation *negotiation.Service
}

func NewNegotiationHandler(svc *negotiation.Service) *NegotiationHandler {
	return &NegotiationHandler{negotiation: svc}
}

type negotiateReq struct {
	OrderID    string `json:"orderId"`
	BasePrice  int64  `json:"basePrice"`
	Offer      int64  `json:"offer"`
	Road       string `json:"road"`
	Weather    string `json:"weather"`
	Passengers int    `json:"passengers"`
	HasLuggage bool   `json:"hasLuggage"`
}

func (h *NegotiationHandler) Negotiate(c *gin.Context) {
	var req negotiateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.OrderID == "" {
		writeError(c, http.StatusBadRequest, "missing orderId")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	res, err := h.negotiation.Negotiate(ctx, types.ID(req.OrderID), req.BasePrice, req.Offer, negotiation.Context{
		Road:       req.Road,
		Weather:    req.Weather,
		Passengers: req.Passengers,
		HasLuggage: req.HasLuggage,
	})
	if err != nil {
		switch err {
		case negotiation.ErrInvalidOffer:
			writeError(c, http.StatusBadRequest, err.Error())
		case negotiation.ErrInFlight:
			writeError(c, http.StatusConflict, err.Error())
		default:
			writeError(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(c, http.StatusOK, res)
}
