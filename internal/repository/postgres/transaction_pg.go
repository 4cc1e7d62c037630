// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"walletpay/internal/domain"
	"walletpay/internal/repository"
	"walletpay/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, public_id, user_id, kind, amount, fee, status, card_id, recipient_user_id,
	mobile_number, description, reference_number, completed_at, failed_at, ip_address, user_agent, created_at, updated_at`

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a new transaction record using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (public_id, user_id, kind, amount, fee, status, card_id, recipient_user_id,
				mobile_number, description, reference_number, ip_address, user_agent, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		transaction.PublicID,
		transaction.UserID,
		transaction.Kind,
		transaction.Amount,
		transaction.Fee,
		transaction.Status,
		transaction.CardID,
		transaction.RecipientUserID,
		transaction.MobileNumber,
		transaction.Description,
		transaction.ReferenceNumber,
		transaction.IPAddress,
		transaction.UserAgent,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionByPublicID retrieves a transaction by its public id, scoped to the owning user.
func (r *TransactionRepository) GetTransactionByPublicID(ctx context.Context, q repository.DBExecutor, publicID uuid.UUID, userID int64) (*domain.Transaction, error) {
	var transaction domain.Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE public_id = $1 AND user_id = $2`
	err := q.GetContext(ctx, &transaction, query, publicID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction %s: %w", publicID, err)
	}
	return &transaction, nil
}

// UpdateTransactionStatus persists the status, terminal timestamps and
// description of an already-created transaction.
func (r *TransactionRepository) UpdateTransactionStatus(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	transaction.UpdatedAt = time.Now().UTC()
	query := `UPDATE transactions SET status = $1, completed_at = $2, failed_at = $3, description = $4, updated_at = $5 WHERE id = $6`
	result, err := q.ExecContext(ctx, query,
		transaction.Status,
		transaction.CompletedAt,
		transaction.FailedAt,
		transaction.Description,
		transaction.UpdatedAt,
		transaction.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %d: %w", transaction.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating transaction %d: %w", transaction.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: transaction %d", util.ErrNotFound, transaction.ID)
	}
	return nil
}

// ListTransactionsByUserID retrieves a paginated, filtered history for a
// user, newest first, along with the total matching count.
func (r *TransactionRepository) ListTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, filter repository.TransactionFilter, limit, offset int) ([]domain.Transaction, int64, error) {
	where := `WHERE user_id = $1`
	args := []interface{}{userID}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		where += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	transactions := []domain.Transaction{}
	query := fmt.Sprintf(`SELECT %s FROM transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, where, len(args)+1, len(args)+2)
	if err := q.SelectContext(ctx, &transactions, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions ` + where
	if err := q.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for user %d: %w", userID, err)
	}
	return transactions, totalCount, nil
}

// SumCompletedAmountSince sums the amounts (fees excluded) of the user's
// completed transactions created at or after the given instant.
func (r *TransactionRepository) SumCompletedAmountSince(ctx context.Context, q repository.DBExecutor, userID int64, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1 AND status = $2 AND created_at >= $3`
	if err := q.GetContext(ctx, &total, query, userID, domain.StatusCompleted, since); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum completed amounts for user %d: %w", userID, err)
	}
	return total, nil
}

// SumCompletedAmountByKindsSince is SumCompletedAmountSince restricted to a set of kinds.
func (r *TransactionRepository) SumCompletedAmountByKindsSince(ctx context.Context, q repository.DBExecutor, userID int64, kinds []domain.TransactionKind, since time.Time) (decimal.Decimal, error) {
	kindNames := make([]string, len(kinds))
	for i, k := range kinds {
		kindNames[i] = string(k)
	}
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions
              WHERE user_id = $1 AND status = $2 AND created_at >= $3 AND kind = ANY($4)`
	if err := q.GetContext(ctx, &total, query, userID, domain.StatusCompleted, since, pq.Array(kindNames)); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum completed amounts by kind for user %d: %w", userID, err)
	}
	return total, nil
}

// CountTransactionsByStatus aggregates the user's transactions by status.
func (r *TransactionRepository) CountTransactionsByStatus(ctx context.Context, q repository.DBExecutor, userID int64) (*repository.StatusCounts, error) {
	var counts repository.StatusCounts
	query := `SELECT COUNT(*) AS total,
				COUNT(*) FILTER (WHERE status = 'completed') AS completed,
				COUNT(*) FILTER (WHERE status = 'pending') AS pending,
				COUNT(*) FILTER (WHERE status = 'failed') AS failed,
				COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
              FROM transactions WHERE user_id = $1`
	if err := q.GetContext(ctx, &counts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to count transactions by status for user %d: %w", userID, err)
	}
	return &counts, nil
}

// CountTransactionsSince counts the user's transactions created at or after the given instant.
func (r *TransactionRepository) CountTransactionsSince(ctx context.Context, q repository.DBExecutor, userID int64, since time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND created_at >= $2`
	if err := q.GetContext(ctx, &count, query, userID, since); err != nil {
		return 0, fmt.Errorf("failed to count transactions for user %d: %w", userID, err)
	}
	return count, nil
}

// AppendTransactionLog appends one status-change entry.
func (r *TransactionRepository) AppendTransactionLog(ctx context.Context, q repository.DBExecutor, log *domain.TransactionLog) error {
	query := `INSERT INTO transaction_logs (transaction_id, previous_status, new_status, reason, changed_by, created_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		log.TransactionID,
		log.PreviousStatus,
		log.NewStatus,
		log.Reason,
		log.ChangedBy,
		log.CreatedAt,
	).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("failed to append transaction log: %w", err)
	}
	return nil
}

// ListLogsByTransactionID retrieves the status history of one transaction, newest first.
func (r *TransactionRepository) ListLogsByTransactionID(ctx context.Context, q repository.DBExecutor, transactionID int64) ([]domain.TransactionLog, error) {
	logs := []domain.TransactionLog{}
	query := `SELECT id, transaction_id, previous_status, new_status, reason, changed_by, created_at
              FROM transaction_logs WHERE transaction_id = $1 ORDER BY created_at DESC, id DESC`
	if err := q.SelectContext(ctx, &logs, query, transactionID); err != nil {
		return nil, fmt.Errorf("failed to list logs for transaction %d: %w", transactionID, err)
	}
	return logs, nil
}

// ListLogsByUserID retrieves a paginated log history across all of the
// user's transactions, newest first, with the total count.
func (r *TransactionRepository) ListLogsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.TransactionLog, int64, error) {
	logs := []domain.TransactionLog{}
	query := `SELECT l.id, l.transaction_id, l.previous_status, l.new_status, l.reason, l.changed_by, l.created_at
              FROM transaction_logs l
              JOIN transactions t ON t.id = l.transaction_id
              WHERE t.user_id = $1
              ORDER BY l.created_at DESC, l.id DESC
              LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &logs, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list logs for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transaction_logs l JOIN transactions t ON t.id = l.transaction_id WHERE t.user_id = $1`
	if err := q.GetContext(ctx, &totalCount, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count logs for user %d: %w", userID, err)
	}
	return logs, totalCount, nil
}
