// README: Provider-side handlers: accept/reject, trip progress, direction matching.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ndjele/internal/modules/matching"
	"ndjele/internal/modules/order"
	"ndjele/internal/types"
)

type DriverHandler struct {
	order    *order.Service
	matching *matching.Service
}

func NewDriverHandler(orderSvc *order.Service, matchingSvc *matching.Service) *DriverHandler {
	return &DriverHandler{order: orderSvc, matching: matchingSvc}
}

type providerReq struct {
	ProviderID   string `json:"providerId"`
	ProviderName string `json:"providerName"`
	ProviderRef  string `json:"providerRef"`
}

func (h *DriverHandler) Accept(c *gin.Context) {
	var req providerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProviderID == "" {
		writeError(c, http.StatusBadRequest, "missing providerId")
		return
	}
	err := h.order.Accept(c.Request.Context(), order.AcceptCommand{
		OrderID: types.ID(c.Param("id")),
		Provider: order.ProviderInfo{
			ID:   types.ID(req.ProviderID),
			Name: req.ProviderName,
			Ref:  req.ProviderRef,
		},
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": order.StatusAccepted})
}

func (h *DriverHandler) Reject(c *gin.Context) {
	var req providerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.order.Reject(c.Request.Context(), order.RejectCommand{
		OrderID:    types.ID(c.Param("id")),
		ProviderID: types.ID(req.ProviderID),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": order.StatusRejected})
}

func (h *DriverHandler) Start(c *gin.Context) {
	var req providerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.order.Start(c.Request.Context(), order.StartCommand{
		OrderID:    types.ID(c.Param("id")),
		ProviderID: types.ID(req.ProviderID),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": order.StatusInProgress})
}

func (h *DriverHandler) PickUp(c *gin.Context) {
	var req providerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.order.PickUp(c.Request.Context(), order.PickUpCommand{
		OrderID:    types.ID(c.Param("id")),
		ProviderID: types.ID(req.ProviderID),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": order.StatusPickedUp})
}

func (h *DriverHandler) MarkDelivered(c *gin.Context) {
	var req providerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.order.MarkDelivered(c.Request.Context(), order.MarkDeliveredCommand{
		OrderID:    types.ID(c.Param("id")),
		ProviderID: types.ID(req.ProviderID),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": order.StatusWaitingValidation})
}

type directionReq struct {
	Direction string   `json:"direction"`
	History   []string `json:"history"`
}

func (h *DriverHandler) SetDirection(c *gin.Context) {
	var req directionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	driverID := types.ID(c.Param("id"))
	if err := h.matching.SetDirection(c.Request.Context(), driverID, req.Direction); err != nil {
		if err == matching.ErrEmptyDirection {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"direction": req.Direction})
}

func (h *DriverHandler) AutoDetectDirection(c *gin.Context) {
	var req directionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	direction, err := h.matching.AutoDetectDirection(c.Request.Context(), types.ID(c.Param("id")), req.History)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"direction": direction})
}

// MatchedRequests lists the pending orders along the driver's direction.
func (h *DriverHandler) MatchedRequests(c *gin.Context) {
	orders, err := h.matching.MatchedRequests(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"orders": viewsOf(orders)})
}
