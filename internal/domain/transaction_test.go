// internal/domain/transaction_test.go
package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionKindTokens(t *testing.T) {
	// The string tokens are part of the wire contract.
	assert.Equal(t, TransactionKind("card_to_wallet"), KindCardToWallet)
	assert.Equal(t, TransactionKind("wallet_to_card"), KindWalletToCard)
	assert.Equal(t, TransactionKind("wallet_to_bkash"), KindWalletToBkash)
	assert.Equal(t, TransactionKind("wallet_to_nagad"), KindWalletToNagad)
	assert.Equal(t, TransactionKind("bkash_to_wallet"), KindBkashToWallet)
	assert.Equal(t, TransactionKind("nagad_to_wallet"), KindNagadToWallet)
	assert.Equal(t, TransactionKind("wallet_to_wallet"), KindWalletToWallet)
	assert.Len(t, AllKinds, 7)
}

func TestTransactionKindValid(t *testing.T) {
	for _, kind := range AllKinds {
		assert.True(t, kind.Valid(), "%s", kind)
	}
	assert.False(t, TransactionKind("").Valid())
	assert.False(t, TransactionKind("wallet_to_moon").Valid())
	assert.False(t, TransactionKind("CARD_TO_WALLET").Valid(), "tokens are case sensitive")
}

func TestTransactionKindDirection(t *testing.T) {
	for _, kind := range OutgoingKinds {
		assert.True(t, kind.Outgoing(), "%s", kind)
		assert.False(t, kind.Incoming(), "%s", kind)
	}
	for _, kind := range IncomingKinds {
		assert.True(t, kind.Incoming(), "%s", kind)
		assert.False(t, kind.Outgoing(), "%s", kind)
	}
	// The two partitions cover every kind.
	assert.Len(t, append(append([]TransactionKind{}, OutgoingKinds...), IncomingKinds...), len(AllKinds))
}

func TestStatusStateMachine(t *testing.T) {
	terminal := []TransactionStatus{StatusCompleted, StatusFailed, StatusCancelled}

	for _, next := range terminal {
		assert.True(t, StatusPending.CanTransitionTo(next), "pending -> %s", next)
		assert.True(t, StatusProcessing.CanTransitionTo(next), "processing -> %s", next)
	}
	assert.True(t, StatusPending.CanTransitionTo(StatusProcessing))
	assert.False(t, StatusProcessing.CanTransitionTo(StatusPending), "no way back to pending")

	// Terminal states are immutable.
	for _, from := range terminal {
		assert.True(t, from.Terminal())
		for _, next := range []TransactionStatus{StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled} {
			assert.False(t, from.CanTransitionTo(next), "%s -> %s", from, next)
		}
	}

	assert.False(t, StatusPending.CanTransitionTo("sleeping"), "unknown target rejected")
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}

func TestNewTransactionDefaults(t *testing.T) {
	transaction := NewTransaction(1, KindWalletToBkash, decimal.RequireFromString("100.00"), decimal.RequireFromString("1.00"))

	assert.Equal(t, StatusPending, transaction.Status)
	assert.NotEqual(t, uuid.Nil, transaction.PublicID)
	assert.Equal(t, int64(1), transaction.UserID)
	assert.Nil(t, transaction.CompletedAt)
	assert.Nil(t, transaction.FailedAt)
	assert.False(t, transaction.CreatedAt.IsZero())
}

func TestTotalAmount(t *testing.T) {
	transaction := NewTransaction(1, KindWalletToCard, decimal.RequireFromString("100.00"), decimal.RequireFromString("1.50"))
	assert.True(t, transaction.TotalAmount().Equal(decimal.RequireFromString("101.50")))
}

func TestCanCancel(t *testing.T) {
	transaction := NewTransaction(1, KindWalletToBkash, decimal.RequireFromString("10.00"), decimal.Zero)

	require.Equal(t, StatusPending, transaction.Status)
	assert.True(t, transaction.CanCancel())

	transaction.Status = StatusProcessing
	assert.True(t, transaction.CanCancel())

	for _, status := range []TransactionStatus{StatusCompleted, StatusFailed, StatusCancelled} {
		transaction.Status = status
		assert.False(t, transaction.CanCancel(), "%s", status)
	}
}
