// internal/api/handler/transaction.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"walletpay/internal/api/types"
	"walletpay/internal/domain"
	"walletpay/internal/repository"
	"walletpay/internal/service"
	"walletpay/internal/util"
)

// TransactionHandler handles transfer submission, cancellation, history
// and log listing.
type TransactionHandler struct {
	engine        service.TransactionEngine
	walletService service.WalletService
	logger        *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(engine service.TransactionEngine, walletService service.WalletService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		engine:        engine,
		walletService: walletService,
		logger:        logger,
	}
}

// TransferBody represents the request body for a transfer.
type TransferBody struct {
	Kind              domain.TransactionKind `json:"kind"`
	Amount            decimal.Decimal        `json:"amount"`
	CardID            *int64                 `json:"card_id,omitempty"`
	RecipientUsername string                 `json:"recipient_username,omitempty"`
	MobileNumber      string                 `json:"mobile_number,omitempty"`
	Description       string                 `json:"description,omitempty"`
}

// Transfer handles the money transfer request.
// POST /transfers
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var body TransferBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	result, err := h.engine.Transfer(r.Context(), userID, service.TransferRequest{
		Kind:              body.Kind,
		Amount:            body.Amount,
		CardID:            body.CardID,
		RecipientUsername: body.RecipientUsername,
		MobileNumber:      body.MobileNumber,
		Description:       body.Description,
		IPAddress:         clientIP(r),
		UserAgent:         r.UserAgent(),
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	transaction := result.Transaction
	payload := map[string]interface{}{
		"transaction_id": transaction.PublicID,
		"kind":           transaction.Kind,
		"status":         transaction.Status,
		"amount":         transaction.Amount,
		"fee":            transaction.Fee,
		"total_amount":   transaction.TotalAmount(),
		"message":        result.Message,
		"new_balance":    result.NewBalance,
	}
	// A processed-but-declined attempt persists as a failed row; the HTTP
	// layer reports it as a client-visible failure.
	if transaction.Status == domain.StatusFailed {
		respondWithJSON(w, h.logger, http.StatusBadRequest, payload)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, payload)
}

// List handles the transaction history request.
// GET /transactions?kind=&status=&limit=&offset=
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	filter := repository.TransactionFilter{
		Kind:   domain.TransactionKind(r.URL.Query().Get("kind")),
		Status: domain.TransactionStatus(r.URL.Query().Get("status")),
	}
	limit, offset := paginationParams(r)

	transactions, totalCount, err := h.walletService.GetTransactionHistory(r.Context(), userID, filter, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}

// Get handles the single transaction request.
// GET /transactions/{transactionID}
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	publicID, err := uuid.Parse(chi.URLParam(r, "transactionID"))
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	transaction, err := h.walletService.GetTransaction(r.Context(), userID, publicID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, transaction)
}

// Cancel handles the user-initiated cancellation of a non-terminal
// transaction.
// POST /transactions/{transactionID}/cancel
func (h *TransactionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	publicID, err := uuid.Parse(chi.URLParam(r, "transactionID"))
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	transaction, err := h.walletService.CancelTransaction(r.Context(), userID, publicID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":        "Transaction cancelled successfully",
		"transaction_id": transaction.PublicID,
		"status":         transaction.Status,
	})
}

// Logs handles the status-history request for one transaction.
// GET /transactions/{transactionID}/logs
func (h *TransactionHandler) Logs(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	publicID, err := uuid.Parse(chi.URLParam(r, "transactionID"))
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	logs, err := h.walletService.GetTransactionLogs(r.Context(), userID, publicID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{"data": logs})
}

// ListLogs handles the status-history request across all of the user's
// transactions.
// GET /logs?limit=&offset=
func (h *TransactionHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	limit, offset := paginationParams(r)
	logs, totalCount, err := h.walletService.ListTransactionLogs(r.Context(), userID, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.TransactionLog]{
		Data:       logs,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
