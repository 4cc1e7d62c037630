// internal/api/handler/wallet.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"walletpay/internal/service"
	"walletpay/internal/util"
)

// WalletHandler handles account creation, wallet retrieval, limit
// management and the dashboard.
type WalletHandler struct {
	service service.WalletService
	logger  *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc service.WalletService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateUserBody represents the request body for account creation.
type CreateUserBody struct {
	Username string `json:"username"`
}

// CreateUser handles account creation. The user and their wallet are
// created together.
// POST /users
func (h *WalletHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body CreateUserBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, wallet, err := h.service.CreateUserAndWallet(r.Context(), body.Username)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"user_id":   user.ID,
		"username":  user.Username,
		"wallet_id": wallet.ID,
		"currency":  wallet.Currency,
		"message":   "User registered successfully",
	})
}

// GetWallet handles the wallet retrieval request, creating the wallet on
// first reference.
// GET /wallet
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	wallet, err := h.service.GetOrCreateWallet(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, wallet)
}

// UpdateLimitsBody represents the request body for limit updates. Limits
// are the only caller-adjustable wallet fields.
type UpdateLimitsBody struct {
	DailyLimit   decimal.Decimal `json:"daily_limit"`
	MonthlyLimit decimal.Decimal `json:"monthly_limit"`
}

// UpdateLimits handles the spending limit update request.
// PATCH /wallet/limits
func (h *WalletHandler) UpdateLimits(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var body UpdateLimitsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	wallet, err := h.service.UpdateWalletLimits(r.Context(), userID, body.DailyLimit, body.MonthlyLimit)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, wallet)
}

// Dashboard handles the summary statistics request.
// GET /dashboard
func (h *WalletHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	summary, err := h.service.GetDashboard(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, summary)
}
