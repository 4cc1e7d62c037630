// internal/repository/transaction_repo.go
package repository

import (
	"context"
	"time"

	"walletpay/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows transaction history listings. Zero values
// mean "no filter".
type TransactionFilter struct {
	Kind   domain.TransactionKind
	Status domain.TransactionStatus
}

// StatusCounts aggregates a user's transactions by status.
type StatusCounts struct {
	Total     int64 `db:"total"`
	Completed int64 `db:"completed"`
	Pending   int64 `db:"pending"`
	Failed    int64 `db:"failed"`
	Cancelled int64 `db:"cancelled"`
}

// TransactionRepository defines the interface for transaction and
// transaction-log data operations.
type TransactionRepository interface {
	// CreateTransaction adds a new transaction record.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionByPublicID retrieves a transaction by its public id,
	// scoped to the owning user.
	GetTransactionByPublicID(ctx context.Context, q DBExecutor, publicID uuid.UUID, userID int64) (*domain.Transaction, error)
	// UpdateTransactionStatus persists the status, terminal timestamps and
	// description of an already-created transaction.
	UpdateTransactionStatus(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// ListTransactionsByUserID retrieves a paginated, filtered history for a
	// user, newest first, along with the total matching count.
	ListTransactionsByUserID(ctx context.Context, q DBExecutor, userID int64, filter TransactionFilter, limit, offset int) ([]domain.Transaction, int64, error)
	// SumCompletedAmountSince sums the amounts (fees excluded) of the user's
	// completed transactions created at or after the given instant. Used by
	// the rolling daily/monthly limit checks.
	SumCompletedAmountSince(ctx context.Context, q DBExecutor, userID int64, since time.Time) (decimal.Decimal, error)
	// SumCompletedAmountByKindsSince is SumCompletedAmountSince restricted to
	// a set of kinds. Used by the dashboard spent/received aggregates.
	SumCompletedAmountByKindsSince(ctx context.Context, q DBExecutor, userID int64, kinds []domain.TransactionKind, since time.Time) (decimal.Decimal, error)
	// CountTransactionsByStatus aggregates the user's transactions by status.
	CountTransactionsByStatus(ctx context.Context, q DBExecutor, userID int64) (*StatusCounts, error)
	// CountTransactionsSince counts the user's transactions created at or
	// after the given instant, regardless of status.
	CountTransactionsSince(ctx context.Context, q DBExecutor, userID int64, since time.Time) (int64, error)

	// AppendTransactionLog appends one status-change entry. Log rows are
	// append-only: no update or delete operation exists.
	AppendTransactionLog(ctx context.Context, q DBExecutor, log *domain.TransactionLog) error
	// ListLogsByTransactionID retrieves the status history of one
	// transaction, newest first.
	ListLogsByTransactionID(ctx context.Context, q DBExecutor, transactionID int64) ([]domain.TransactionLog, error)
	// ListLogsByUserID retrieves a paginated log history across all of the
	// user's transactions, newest first, with the total count.
	ListLogsByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.TransactionLog, int64, error)
}
