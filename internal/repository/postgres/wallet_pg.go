// internal/repository/postgres/wallet_pg.go
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
	"github.com/shopspring/decimal"
)

const walletColumns = `id, user_id, balance, currency, is_active, daily_limit, monthly_limit, created_at, updated_at`

// WalletRepository implements repository.WalletRepository for PostgreSQL.
type WalletRepository struct{}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db *sqlx.DB) repository.WalletRepository {
	return &WalletRepository{}
}

// CreateWallet inserts a new wallet into the database using the provided DBExecutor.
func (r *WalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (user_id, balance, currency, is_active, daily_limit, monthly_limit, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		wallet.UserID,
		wallet.Balance,
		wallet.Currency,
		wallet.IsActive,
		wallet.DailyLimit,
		wallet.MonthlyLimit,
		wallet.CreatedAt,
		wallet.UpdatedAt,
	).Scan(&wallet.ID)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// GetWalletByUserID retrieves the wallet owned by the given user.
func (r *WalletRepository) GetWalletByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	err := q.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}
	return &wallet, nil
}

// GetWalletByUserIDForUpdate retrieves the wallet with a row-level lock.
// Concurrent transfers against the same wallet block here until the
// holding transaction commits or rolls back, so a balance check can never
// run against a stale balance.
func (r *WalletRepository) GetWalletByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet for user %d: %w", userID, err)
	}
	return &wallet, nil
}

// AdjustBalance applies a signed delta to the wallet balance. The wallets
// table carries a CHECK (balance >= 0), so a delta that would overdraw
// the wallet fails here rather than persisting a negative balance.
func (r *WalletRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, walletID int64, delta decimal.Decimal) error {
	query := `UPDATE wallets SET balance = balance + $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), walletID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance for wallet %d: %w", walletID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected adjusting wallet %d: %w", walletID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: wallet %d", util.ErrWalletNotFound, walletID)
	}
	return nil
}

// UpdateLimits sets the wallet's daily and monthly spending limits.
func (r *WalletRepository) UpdateLimits(ctx context.Context, q repository.DBExecutor, walletID int64, daily, monthly decimal.Decimal) error {
	query := `UPDATE wallets SET daily_limit = $1, monthly_limit = $2, updated_at = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, daily, monthly, time.Now().UTC(), walletID)
	if err != nil {
		return fmt.Errorf("failed to update limits for wallet %d: %w", walletID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating limits for wallet %d: %w", walletID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: wallet %d", util.ErrWalletNotFound, walletID)
	}
	return nil
}

// DeactivateWallet soft-disables the wallet.
func (r *WalletRepository) DeactivateWallet(ctx context.Context, q repository.DBExecutor, walletID int64) error {
	query := `UPDATE wallets SET is_active = FALSE, updated_at = $1 WHERE id = $2`
	result, err := q.ExecContext(ctx, query, time.Now().UTC(), walletID)
	if err != nil {
		return fmt.Errorf("failed to deactivate wallet %d: %w", walletID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected deactivating wallet %d: %w", walletID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: wallet %d", util.ErrWalletNotFound, walletID)
	}
	return nil
}
