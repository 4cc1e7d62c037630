// internal/service/limits.go
package service

import (
	"context"
	"fmt"
	"time"

	"walletpay/internal/domain"
	"walletpay/internal/money"
	"walletpay/internal/repository"
	"walletpay/internal/util"

	"github.com/shopspring/decimal"
)

// ValidateAmountBounds enforces the policy-level bounds on a single
// transfer: at least 0.01 and at most 10000.00, independent of any
// per-wallet limit. It runs before limit checks and before any ledger or
// log mutation.
func ValidateAmountBounds(amount decimal.Decimal) error {
	if amount.LessThan(money.MinTransferAmount) {
		return fmt.Errorf("%w: minimum transaction amount is %s", util.ErrInvalidInput, money.MinTransferAmount)
	}
	if amount.GreaterThan(money.MaxTransferAmount) {
		return fmt.Errorf("%w: maximum transaction amount is %s", util.ErrInvalidInput, money.MaxTransferAmount)
	}
	return nil
}

// StartOfDayUTC returns midnight of t's UTC calendar day.
func StartOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonthUTC returns the 1st, 00:00 UTC of t's calendar month.
func StartOfMonthUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// LimitValidator checks proposed amounts against the wallet's rolling
// daily and monthly spending limits. Aggregates count completed
// transactions only, by amount, excluding fees.
type LimitValidator struct {
	transactionRepo repository.TransactionRepository
}

// NewLimitValidator creates a new LimitValidator.
func NewLimitValidator(transactionRepo repository.TransactionRepository) *LimitValidator {
	return &LimitValidator{transactionRepo: transactionRepo}
}

// ValidateDailyLimit rejects the proposed amount if, added to today's
// completed total, it would exceed the wallet's daily limit.
func (v *LimitValidator) ValidateDailyLimit(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, amount decimal.Decimal) error {
	dailyTotal, err := v.transactionRepo.SumCompletedAmountSince(ctx, q, wallet.UserID, StartOfDayUTC(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to compute daily total: %w", err)
	}
	if dailyTotal.Add(amount).GreaterThan(wallet.DailyLimit) {
		return fmt.Errorf("%w: transaction exceeds daily limit of %s %s",
			util.ErrLimitExceeded, wallet.Currency, wallet.DailyLimit)
	}
	return nil
}

// ValidateMonthlyLimit rejects the proposed amount if, added to the
// current calendar month's completed total, it would exceed the wallet's
// monthly limit.
func (v *LimitValidator) ValidateMonthlyLimit(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, amount decimal.Decimal) error {
	monthlyTotal, err := v.transactionRepo.SumCompletedAmountSince(ctx, q, wallet.UserID, StartOfMonthUTC(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to compute monthly total: %w", err)
	}
	if monthlyTotal.Add(amount).GreaterThan(wallet.MonthlyLimit) {
		return fmt.Errorf("%w: transaction exceeds monthly limit of %s %s",
			util.ErrLimitExceeded, wallet.Currency, wallet.MonthlyLimit)
	}
	return nil
}
