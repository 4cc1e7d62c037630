// internal/api/handler/card.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"walletpay/internal/domain"
	"walletpay/internal/service"
	"walletpay/internal/util"
)

// CardHandler handles card management requests.
type CardHandler struct {
	service service.CardService
	logger  *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(svc service.CardService, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		service: svc,
		logger:  logger,
	}
}

// AddCardBody represents the request body for card registration. The CVV
// is validated and discarded, never stored.
type AddCardBody struct {
	CardNumber     string          `json:"card_number"`
	CardType       domain.CardType `json:"card_type"`
	CardHolderName string          `json:"card_holder_name"`
	ExpiryMonth    int             `json:"expiry_month"`
	ExpiryYear     int             `json:"expiry_year"`
	CVV            string          `json:"cvv"`
	IsDefault      bool            `json:"is_default"`
}

// cardView is the display form of a card: masked number, no raw PAN.
type cardView struct {
	ID             int64           `json:"id"`
	MaskedNumber   string          `json:"card_number"`
	CardType       domain.CardType `json:"card_type"`
	CardHolderName string          `json:"card_holder_name"`
	ExpiryMonth    int             `json:"expiry_month"`
	ExpiryYear     int             `json:"expiry_year"`
	IsDefault      bool            `json:"is_default"`
}

func newCardView(card *domain.Card) cardView {
	return cardView{
		ID:             card.ID,
		MaskedNumber:   card.MaskedNumber(),
		CardType:       card.CardType,
		CardHolderName: card.CardHolderName,
		ExpiryMonth:    card.ExpiryMonth,
		ExpiryYear:     card.ExpiryYear,
		IsDefault:      card.IsDefault,
	}
}

func cardIDFromRequest(r *http.Request) (int64, error) {
	cardID, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil || cardID <= 0 {
		return 0, util.ErrInvalidInput
	}
	return cardID, nil
}

// Add handles the card registration request.
// POST /cards
func (h *CardHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var body AddCardBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	card, err := h.service.AddCard(r.Context(), userID, service.AddCardInput{
		CardNumber:     body.CardNumber,
		CardType:       body.CardType,
		CardHolderName: body.CardHolderName,
		ExpiryMonth:    body.ExpiryMonth,
		ExpiryYear:     body.ExpiryYear,
		CVV:            body.CVV,
		IsDefault:      body.IsDefault,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, newCardView(card))
}

// List handles the card listing request.
// GET /cards
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	cards, err := h.service.ListCards(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	views := make([]cardView, len(cards))
	for i := range cards {
		views[i] = newCardView(&cards[i])
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{"data": views})
}

// Delete handles the card removal request. Removal is a soft
// deactivation.
// DELETE /cards/{cardID}
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	cardID, err := cardIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.service.DeactivateCard(r.Context(), userID, cardID); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Card deactivated"})
}

// SetDefault handles the default-card request.
// POST /cards/{cardID}/default
func (h *CardHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	cardID, err := cardIDFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.service.SetDefaultCard(r.Context(), userID, cardID); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Card set as default"})
}
