// internal/repository/postgres/card_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"walletpay/internal/domain"
	"walletpay/internal/repository"
	"walletpay/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const cardColumns = `id, user_id, card_number, card_type, card_holder_name, expiry_month, expiry_year, is_active, is_default, created_at, updated_at`

// CardRepository implements repository.CardRepository for PostgreSQL.
type CardRepository struct{}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(db *sqlx.DB) repository.CardRepository {
	return &CardRepository{}
}

// CreateCard inserts a new card into the database using the provided DBExecutor.
func (r *CardRepository) CreateCard(ctx context.Context, q repository.DBExecutor, card *domain.Card) error {
	query := `INSERT INTO cards (user_id, card_number, card_type, card_holder_name, expiry_month, expiry_year, is_active, is_default, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		card.UserID,
		card.CardNumber,
		card.CardType,
		card.CardHolderName,
		card.ExpiryMonth,
		card.ExpiryYear,
		card.IsActive,
		card.IsDefault,
		card.CreatedAt,
		card.UpdatedAt,
	).Scan(&card.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: card already registered for user %d", util.ErrDuplicateEntry, card.UserID)
		}
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// GetCardByIDForUser retrieves an active card by id, scoped to its owner.
func (r *CardRepository) GetCardByIDForUser(ctx context.Context, q repository.DBExecutor, cardID, userID int64) (*domain.Card, error) {
	var card domain.Card
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 AND user_id = $2 AND is_active = TRUE`
	err := q.GetContext(ctx, &card, query, cardID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card %d for user %d: %w", cardID, userID, err)
	}
	return &card, nil
}

// ListCardsByUserID retrieves the user's active cards, newest first.
func (r *CardRepository) ListCardsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Card, error) {
	cards := []domain.Card{}
	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id = $1 AND is_active = TRUE ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &cards, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list cards for user %d: %w", userID, err)
	}
	return cards, nil
}

// DeactivateCard soft-deletes a card; the row stays for transaction history.
func (r *CardRepository) DeactivateCard(ctx context.Context, q repository.DBExecutor, cardID, userID int64) error {
	query := `UPDATE cards SET is_active = FALSE, is_default = FALSE, updated_at = $1 WHERE id = $2 AND user_id = $3 AND is_active = TRUE`
	result, err := q.ExecContext(ctx, query, time.Now().UTC(), cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate card %d: %w", cardID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected deactivating card %d: %w", cardID, err)
	}
	if rowsAffected == 0 {
		return util.ErrCardNotFound
	}
	return nil
}

// ClearDefault removes the default flag from all of the user's cards.
func (r *CardRepository) ClearDefault(ctx context.Context, q repository.DBExecutor, userID int64) error {
	query := `UPDATE cards SET is_default = FALSE, updated_at = $1 WHERE user_id = $2 AND is_default = TRUE`
	if _, err := q.ExecContext(ctx, query, time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("failed to clear default card for user %d: %w", userID, err)
	}
	return nil
}

// SetDefault marks the given active card as the user's default.
func (r *CardRepository) SetDefault(ctx context.Context, q repository.DBExecutor, cardID, userID int64) error {
	query := `UPDATE cards SET is_default = TRUE, updated_at = $1 WHERE id = $2 AND user_id = $3 AND is_active = TRUE`
	result, err := q.ExecContext(ctx, query, time.Now().UTC(), cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to set default card %d: %w", cardID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected setting default card %d: %w", cardID, err)
	}
	if rowsAffected == 0 {
		return util.ErrCardNotFound
	}
	return nil
}
