// internal/repository/card_repo.go
package repository

import (
	"context"

	"walletpay/internal/domain"
)

// CardRepository defines the interface for card data operations.
type CardRepository interface {
	// CreateCard adds a new card to the database.
	CreateCard(ctx context.Context, q DBExecutor, card *domain.Card) error
	// GetCardByIDForUser retrieves an active card by id, scoped to its owner.
	GetCardByIDForUser(ctx context.Context, q DBExecutor, cardID, userID int64) (*domain.Card, error)
	// ListCardsByUserID retrieves the user's active cards, newest first.
	ListCardsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Card, error)
	// DeactivateCard soft-deletes a card. The row is kept for transaction history.
	DeactivateCard(ctx context.Context, q DBExecutor, cardID, userID int64) error
	// ClearDefault removes the default flag from all of the user's cards.
	ClearDefault(ctx context.Context, q DBExecutor, userID int64) error
	// SetDefault marks the given card as the user's default.
	SetDefault(ctx context.Context, q DBExecutor, cardID, userID int64) error
}
