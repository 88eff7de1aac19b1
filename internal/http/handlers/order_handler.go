// README: Requester-side order handlers: create, track, cancel, complete, dispute.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ndjele/internal/modules/order"
	"ndjele/internal/types"
)

type OrderHandler struct {
	order *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{order: svc}
}

type createOrderReq struct {
	Kind          string `json:"kind"`
	RequesterID   string `json:"requesterId"`
	RequesterName string `json:"requesterName"`
	Destination   string `json:"destination"`
	BasePrice     int64  `json:"basePrice"`
	FinalPrice    int64  `json:"finalPrice"`
	Passengers    int    `json:"passengers"`
	HasLuggage    bool   `json:"hasLuggage"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.order.Create(c.Request.Context(), order.CreateCommand{
		Kind:          order.Kind(req.Kind),
		RequesterID:   types.ID(req.RequesterID),
		RequesterName: req.RequesterName,
		Destination:   req.Destination,
		BasePrice:     req.BasePrice,
		FinalPrice:    req.FinalPrice,
		Passengers:    req.Passengers,
		HasLuggage:    req.HasLuggage,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, map[string]any{"orderId": id, "status": order.StatusPending})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.order.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewOf(o))
}

func (h *OrderHandler) ListActive(c *gin.Context) {
	requesterID := c.Query("requesterId")
	if requesterID == "" {
		writeError(c, http.StatusBadRequest, "missing requesterId")
		return
	}
	orders, err := h.order.ListActive(c.Request.Context(), types.ID(requesterID))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"orders": viewsOf(orders)})
}

type actorReq struct {
	RequesterID string `json:"requesterId"`
	Reason      string `json:"reason"`
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	var req actorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.order.Cancel(c.Request.Context(), order.CancelCommand{
		OrderID:     types.ID(c.Param("id")),
		RequesterID: types.ID(req.RequesterID),
		Reason:      req.Reason,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": order.StatusCancelled})
}

func (h *OrderHandler) Complete(c *gin.Context) {
	var req actorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.order.Complete(c.Request.Context(), order.CompleteCommand{
		OrderID:     types.ID(c.Param("id")),
		RequesterID: types.ID(req.RequesterID),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": order.StatusCompleted})
}

func (h *OrderHandler) Dispute(c *gin.Context) {
	var req actorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.order.Dispute(c.Request.Context(), order.DisputeCommand{
		OrderID:     types.ID(c.Param("id")),
		RequesterID: types.ID(req.RequesterID),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": order.StatusDisputed})
}

// ConfirmDelivery is the client-side confirmation that releases the courier's
// payout for delivery orders.
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	var req actorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.order.ConfirmDelivery(c.Request.Context(), order.ConfirmDeliveryCommand{
		OrderID:     types.ID(c.Param("id")),
		RequesterID: types.ID(req.RequesterID),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": order.StatusCompleted})
}

type locationSharedReq struct {
	Shared bool `json:"shared"`
}

// SetLocationShared toggles the SOS location flag; it works in any status.
func (h *OrderHandler) SetLocationShared(c *gin.Context) {
	var req locationSharedReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.order.SetLocationShared(c.Request.Context(), types.ID(c.Param("id")), req.Shared); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"isLocationShared": req.Shared})
}
