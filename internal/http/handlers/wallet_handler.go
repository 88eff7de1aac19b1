// README: Wallet handlers: balance lookup and mobile-money withdrawal.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ndjele/internal/modules/wallet"
	"ndjele/internal/types"
)

type WalletHandler struct {
	wallet *wallet.Service
}

func NewWalletHandler(svc *wallet.Service) *WalletHandler {
	return &WalletHandler{wallet: svc}
}

func (h *WalletHandler) Balance(c *gin.Context) {
	balance, err := h.wallet.Balance(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeWalletError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"balance": balance, "currency": "XAF"})
}

type withdrawReq struct {
	Amount int64 `json:"amount"`
}

func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req withdrawReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.wallet.Withdraw(c.Request.Context(), types.ID(c.Param("id")), req.Amount)
	if err != nil {
		writeWalletError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"netPayout":  res.Net,
		"fee":        res.Fee,
		"newBalance": res.NewBalance,
	})
}
