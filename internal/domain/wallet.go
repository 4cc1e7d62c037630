// internal/domain/wallet.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default per-wallet spending limits, applied at creation and adjustable
// afterwards.
var (
	DefaultDailyLimit   = decimal.RequireFromString("1000.00")
	DefaultMonthlyLimit = decimal.RequireFromString("10000.00")
)

// DefaultCurrency is the currency assigned to newly created wallets.
const DefaultCurrency = "USD"

// Wallet is a user's balance-holding account. Exactly one wallet exists
// per user; wallets are never deleted, only deactivated. The balance must
// never be observed below zero: every mutation goes through the engine's
// debit/credit path and the wallets table carries a matching CHECK
// constraint.
type Wallet struct {
	ID           int64           `db:"id" json:"id"`
	UserID       int64           `db:"user_id" json:"user_id"`
	Balance      decimal.Decimal `db:"balance" json:"balance"`
	Currency     string          `db:"currency" json:"currency"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	DailyLimit   decimal.Decimal `db:"daily_limit" json:"daily_limit"`
	MonthlyLimit decimal.Decimal `db:"monthly_limit" json:"monthly_limit"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// NewWallet creates a new Wallet with a zero balance and default limits.
func NewWallet(userID int64) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		UserID:       userID,
		Balance:      decimal.Zero,
		Currency:     DefaultCurrency,
		IsActive:     true,
		DailyLimit:   DefaultDailyLimit,
		MonthlyLimit: DefaultMonthlyLimit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CanDebit reports whether the wallet is active and holds at least the
// given amount.
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.IsActive && w.Balance.GreaterThanOrEqual(amount)
}

// CanCredit reports whether the wallet may receive funds.
func (w *Wallet) CanCredit() bool {
	return w.IsActive
}
