// internal/service/fee.go
package service

import (
	"walletpay/internal/domain"
	"walletpay/internal/money"

	"github.com/shopspring/decimal"
)

// Fee rates as a fraction of the transaction amount, by kind.
var feeRates = map[domain.TransactionKind]decimal.Decimal{
	domain.KindCardToWallet:   money.MustParse("0.02"),  // 2%
	domain.KindWalletToCard:   money.MustParse("0.015"), // 1.5%
	domain.KindWalletToBkash:  money.MustParse("0.01"),  // 1%
	domain.KindWalletToNagad:  money.MustParse("0.01"),  // 1%
	domain.KindBkashToWallet:  money.MustParse("0.005"), // 0.5%
	domain.KindNagadToWallet:  money.MustParse("0.005"), // 0.5%
	domain.KindWalletToWallet: money.MustParse("0.001"), // 0.1%
}

// Fee bounds: the flat minimum covers processing overhead, the cap bounds
// cost on very large transfers.
var (
	minFee = money.MustParse("0.10")
	maxFee = money.MustParse("50.00")
)

// CalculateFee returns the fee charged for a transaction of the given
// kind and amount. Known kinds pay a percentage of the amount clamped to
// [minFee, maxFee] and rounded to two decimals; an unknown kind pays no
// fee.
func CalculateFee(kind domain.TransactionKind, amount decimal.Decimal) decimal.Decimal {
	rate, ok := feeRates[kind]
	if !ok {
		return decimal.Zero
	}
	fee := amount.Mul(rate)
	return money.Round(money.Clamp(fee, minFee, maxFee))
}
