// internal/service/limits_test.go
package service

import (
	"context"
	"testing"
	"time"

	"walletpay/internal/domain"
	"walletpay/internal/money"
	"walletpay/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestValidateAmountBounds(t *testing.T) {
	assert.NoError(t, ValidateAmountBounds(money.MustParse("0.01")))
	assert.NoError(t, ValidateAmountBounds(money.MustParse("10000.00")))
	assert.NoError(t, ValidateAmountBounds(money.MustParse("123.45")))

	assert.ErrorIs(t, ValidateAmountBounds(money.MustParse("0.001")), util.ErrInvalidInput)
	assert.ErrorIs(t, ValidateAmountBounds(money.MustParse("0")), util.ErrInvalidInput)
	assert.ErrorIs(t, ValidateAmountBounds(money.MustParse("-5.00")), util.ErrInvalidInput)
	assert.ErrorIs(t, ValidateAmountBounds(money.MustParse("10000.01")), util.ErrInvalidInput)
}

func TestStartOfWindows(t *testing.T) {
	// 2026-08-15 13:45:30 +06:00 is 07:45:30 UTC the same day.
	loc := time.FixedZone("BST", 6*60*60)
	at := time.Date(2026, time.August, 15, 13, 45, 30, 0, loc)

	assert.Equal(t, time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC), StartOfDayUTC(at))
	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), StartOfMonthUTC(at))

	// Just past midnight UTC still belongs to the new UTC day.
	early := time.Date(2026, time.August, 15, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC), StartOfDayUTC(early))
}

func TestValidateDailyLimit(t *testing.T) {
	ctx := context.Background()
	wallet := &domain.Wallet{
		UserID:       1,
		Currency:     "USD",
		DailyLimit:   money.MustParse("1000.00"),
		MonthlyLimit: money.MustParse("10000.00"),
	}

	t.Run("WithinLimit", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		repo.On("SumCompletedAmountSince", mock.Anything, mock.Anything, int64(1), mock.AnythingOfType("time.Time")).
			Return(money.MustParse("200.00"), nil).Once()

		v := NewLimitValidator(repo)
		err := v.ValidateDailyLimit(ctx, new(MockDBExecutor), wallet, money.MustParse("700.00"))
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("ExactlyAtLimit", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		repo.On("SumCompletedAmountSince", mock.Anything, mock.Anything, int64(1), mock.AnythingOfType("time.Time")).
			Return(money.MustParse("200.00"), nil).Once()

		v := NewLimitValidator(repo)
		err := v.ValidateDailyLimit(ctx, new(MockDBExecutor), wallet, money.MustParse("800.00"))
		assert.NoError(t, err, "reaching the limit exactly is allowed")
	})

	t.Run("Exceeded", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		repo.On("SumCompletedAmountSince", mock.Anything, mock.Anything, int64(1), mock.AnythingOfType("time.Time")).
			Return(money.MustParse("200.00"), nil).Once()

		v := NewLimitValidator(repo)
		err := v.ValidateDailyLimit(ctx, new(MockDBExecutor), wallet, money.MustParse("900.00"))
		assert.ErrorIs(t, err, util.ErrLimitExceeded)
	})
}

func TestValidateMonthlyLimit(t *testing.T) {
	ctx := context.Background()
	wallet := &domain.Wallet{
		UserID:       1,
		Currency:     "USD",
		DailyLimit:   money.MustParse("1000.00"),
		MonthlyLimit: money.MustParse("10000.00"),
	}

	t.Run("Exceeded", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		repo.On("SumCompletedAmountSince", mock.Anything, mock.Anything, int64(1), mock.AnythingOfType("time.Time")).
			Return(money.MustParse("9950.00"), nil).Once()

		v := NewLimitValidator(repo)
		err := v.ValidateMonthlyLimit(ctx, new(MockDBExecutor), wallet, money.MustParse("100.00"))
		assert.ErrorIs(t, err, util.ErrLimitExceeded)
	})

	t.Run("WithinLimit", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		repo.On("SumCompletedAmountSince", mock.Anything, mock.Anything, int64(1), mock.AnythingOfType("time.Time")).
			Return(money.MustParse("9950.00"), nil).Once()

		v := NewLimitValidator(repo)
		err := v.ValidateMonthlyLimit(ctx, new(MockDBExecutor), wallet, money.MustParse("50.00"))
		assert.NoError(t, err)
	})
}
