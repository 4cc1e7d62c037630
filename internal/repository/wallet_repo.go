// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"walletpay/internal/domain"

	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// CreateWallet adds a new wallet to the database.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// GetWalletByUserID retrieves the wallet owned by the given user.
	GetWalletByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// GetWalletByUserIDForUpdate retrieves the wallet owned by the given user
	// and takes a row-level lock on it. Must be called inside a transaction;
	// it serializes concurrent balance mutations against the same wallet.
	GetWalletByUserIDForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// AdjustBalance applies a signed delta to the wallet balance.
	AdjustBalance(ctx context.Context, q DBExecutor, walletID int64, delta decimal.Decimal) error
	// UpdateLimits sets the wallet's daily and monthly spending limits.
	UpdateLimits(ctx context.Context, q DBExecutor, walletID int64, daily, monthly decimal.Decimal) error
	// DeactivateWallet soft-disables the wallet. Wallets are never deleted.
	DeactivateWallet(ctx context.Context, q DBExecutor, walletID int64) error
}
