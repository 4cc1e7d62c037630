// internal/domain/wallet_test.go
package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewWalletDefaults(t *testing.T) {
	wallet := NewWallet(1)

	assert.Equal(t, int64(1), wallet.UserID)
	assert.True(t, wallet.Balance.IsZero())
	assert.Equal(t, DefaultCurrency, wallet.Currency)
	assert.True(t, wallet.IsActive)
	assert.True(t, wallet.DailyLimit.Equal(DefaultDailyLimit))
	assert.True(t, wallet.MonthlyLimit.Equal(DefaultMonthlyLimit))
}

func TestCanDebit(t *testing.T) {
	wallet := NewWallet(1)
	wallet.Balance = decimal.RequireFromString("100.00")

	assert.True(t, wallet.CanDebit(decimal.RequireFromString("50.00")))
	assert.True(t, wallet.CanDebit(decimal.RequireFromString("100.00")), "exact balance is debitable")
	assert.False(t, wallet.CanDebit(decimal.RequireFromString("100.01")))

	wallet.IsActive = false
	assert.False(t, wallet.CanDebit(decimal.RequireFromString("1.00")), "inactive wallets never debit")
}

func TestCanCredit(t *testing.T) {
	wallet := NewWallet(1)
	assert.True(t, wallet.CanCredit())

	wallet.IsActive = false
	assert.False(t, wallet.CanCredit())
}
