package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// WalletHandler exposes the FIT balance, ledger, rewards and transfers
type WalletHandler struct {
	wallet service.IWalletService
}

// NewWalletHandler creates a new WalletHandler instance
func NewWalletHandler(wallet service.IWalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

// RegisterRoutes registers wallet routes on an authenticated group
func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup) {
	wallet := router.Group("/wallet")
	{
		wallet.GET("", h.Balance)
		wallet.GET("/transactions", h.Transactions)
		wallet.POST("/rewards", h.Reward)
		wallet.POST("/transfers", h.Transfer)
	}
}

func (h *WalletHandler) Balance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	balance, err := h.wallet.Balance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *WalletHandler) Transactions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	txs, err := h.wallet.ListTransactions(c.Request.Context(), userID, queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// Reward credits a client-side activity. A reward past its daily cap answers 409.
func (h *WalletHandler) Reward(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.RewardRequest
	if !bindJSON(c, &req) {
		return
	}
	tx, err := h.wallet.Claim(c.Request.Context(), userID, models.TransactionType(req.Type))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *WalletHandler) Transfer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.TransferRequest
	if !bindJSON(c, &req) {
		return
	}
	tx, err := h.wallet.Transfer(c.Request.Context(), userID, req.RecipientEmail, req.Amount, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}
