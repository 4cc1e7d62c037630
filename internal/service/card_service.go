// internal/service/card_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"walletpay/internal/domain"
	"walletpay/internal/repository"
	"walletpay/internal/util"
	"walletpay/pkg/db"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

// AddCardInput carries the fields needed to register a card. The CVV is
// validated and then discarded: it is never persisted.
type AddCardInput struct {
	CardNumber     string
	CardType       domain.CardType
	CardHolderName string
	ExpiryMonth    int
	ExpiryYear     int
	CVV            string
	IsDefault      bool
}

// CardService manages a user's payment cards.
type CardService interface {
	// AddCard registers a new card. Expiry is validated against the current
	// date; a card marked default displaces any existing default.
	AddCard(ctx context.Context, userID int64, input AddCardInput) (*domain.Card, error)
	// ListCards returns the user's active cards.
	ListCards(ctx context.Context, userID int64) ([]domain.Card, error)
	// DeactivateCard soft-deletes a card; the row remains for history.
	DeactivateCard(ctx context.Context, userID, cardID int64) error
	// SetDefaultCard makes the given card the user's only default.
	SetDefaultCard(ctx context.Context, userID, cardID int64) error
}

// cardService implements the CardService interface.
type cardService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	cardRepo   repository.CardRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
	logger     *slog.Logger
}

// NewCardService creates a new instance of CardService.
func NewCardService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	cardRepo repository.CardRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) CardService {
	return &cardService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		cardRepo:   cardRepo,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
		logger:     logger,
	}
}

// validateCardInput checks the card fields without touching storage.
func validateCardInput(input AddCardInput, now time.Time) error {
	if !cardNumberPattern.MatchString(input.CardNumber) {
		return fmt.Errorf("%w: card number must be 16 digits", util.ErrInvalidInput)
	}
	if !input.CardType.Valid() {
		return fmt.Errorf("%w: unknown card type %q", util.ErrInvalidInput, input.CardType)
	}
	if input.CardHolderName == "" {
		return fmt.Errorf("%w: card holder name is required", util.ErrInvalidInput)
	}
	if input.ExpiryMonth < 1 || input.ExpiryMonth > 12 {
		return fmt.Errorf("%w: expiry month must be between 1 and 12", util.ErrInvalidInput)
	}
	if !cvvPattern.MatchString(input.CVV) {
		return fmt.Errorf("%w: CVV must be 3 or 4 digits", util.ErrInvalidInput)
	}

	card := domain.Card{ExpiryMonth: input.ExpiryMonth, ExpiryYear: input.ExpiryYear}
	if card.ExpiredAt(now) {
		return util.ErrCardExpired
	}
	return nil
}

func (s *cardService) AddCard(ctx context.Context, userID int64, input AddCardInput) (*domain.Card, error) {
	if err := validateCardInput(input, time.Now().UTC()); err != nil {
		return nil, err
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("add card: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("add card: transaction controller does not implement DBExecutor")
	}

	// Only one default card per user.
	if input.IsDefault {
		if err := s.cardRepo.ClearDefault(ctx, txExecutor, userID); err != nil {
			return nil, fmt.Errorf("add card: %w", err)
		}
	}

	card := domain.NewCard(userID, input.CardNumber, input.CardType, input.CardHolderName, input.ExpiryMonth, input.ExpiryYear, input.IsDefault)
	if err := s.cardRepo.CreateCard(ctx, txExecutor, card); err != nil {
		return nil, fmt.Errorf("add card: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("add card: failed to commit transaction: %w", err)
	}

	s.logger.Info("card added", "user_id", userID, "card_id", card.ID, "card", card.MaskedNumber())
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, userID int64) ([]domain.Card, error) {
	cards, err := s.cardRepo.ListCardsByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

func (s *cardService) DeactivateCard(ctx context.Context, userID, cardID int64) error {
	if err := s.cardRepo.DeactivateCard(ctx, s.dbExecutor, cardID, userID); err != nil {
		return fmt.Errorf("deactivate card: %w", err)
	}
	s.logger.Info("card deactivated", "user_id", userID, "card_id", cardID)
	return nil
}

func (s *cardService) SetDefaultCard(ctx context.Context, userID, cardID int64) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("set default card: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("set default card: transaction controller does not implement DBExecutor")
	}

	if err := s.cardRepo.ClearDefault(ctx, txExecutor, userID); err != nil {
		return fmt.Errorf("set default card: %w", err)
	}
	if err := s.cardRepo.SetDefault(ctx, txExecutor, cardID, userID); err != nil {
		return fmt.Errorf("set default card: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("set default card: failed to commit transaction: %w", err)
	}

	s.logger.Info("default card set", "user_id", userID, "card_id", cardID)
	return nil
}
