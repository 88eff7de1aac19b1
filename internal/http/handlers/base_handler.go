// README: Base handler utilities (JSON helpers, error mapping, order views).
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ndjele/internal/modules/order"
	"ndjele/internal/modules/profile"
	"ndjele/internal/modules/wallet"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrForbidden):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, order.ErrInvalidState), errors.Is(err, order.ErrActiveOrder), errors.Is(err, order.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, wallet.ErrInsufficientBalance):
		writeError(c, http.StatusPaymentRequired, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeWalletError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, wallet.ErrInsufficientBalance):
		writeError(c, http.StatusPaymentRequired, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profile.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, profile.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// orderView is the wire shape of an order.
type orderView struct {
	ID               string     `json:"id"`
	Kind             string     `json:"kind"`
	RequesterID      string     `json:"requesterId"`
	RequesterName    string     `json:"requesterName"`
	ProviderID       *string    `json:"providerId,omitempty"`
	ProviderName     *string    `json:"providerName,omitempty"`
	ProviderRef      *string    `json:"providerRef,omitempty"`
	Destination      string     `json:"destination"`
	Status           string     `json:"status"`
	BasePrice        int64      `json:"basePrice"`
	FinalPrice       int64      `json:"finalPrice"`
	PlatformFee      int64      `json:"platformFee"`
	Passengers       int        `json:"passengers,omitempty"`
	HasLuggage       bool       `json:"hasLuggage,omitempty"`
	IsLocationShared bool       `json:"isLocationShared"`
	CreatedAt        time.Time  `json:"createdAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	CancelReason     *string    `json:"cancelReason,omitempty"`
}

func viewOf(o *order.Order) orderView {
	v := orderView{
		ID:               string(o.ID),
		Kind:             string(o.Kind),
		RequesterID:      string(o.RequesterID),
		RequesterName:    o.RequesterName,
		ProviderName:     o.ProviderName,
		ProviderRef:      o.ProviderRef,
		Destination:      o.Destination,
		Status:           string(o.Status),
		BasePrice:        o.BasePrice.Amount,
		FinalPrice:       o.FinalPrice.Amount,
		PlatformFee:      o.PlatformFee(),
		Passengers:       o.Passengers,
		HasLuggage:       o.HasLuggage,
		IsLocationShared: o.IsLocationShared,
		CreatedAt:        o.CreatedAt,
		CompletedAt:      o.CompletedAt,
		CancelReason:     o.CancelReason,
	}
	if o.ProviderID != nil {
		id := string(*o.ProviderID)
		v.ProviderID = &id
	}
	return v
}

func viewsOf(orders []*order.Order) []orderView {
	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = viewOf(o)
	}
	return views
}
