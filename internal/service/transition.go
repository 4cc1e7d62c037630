// internal/service/transition.go
package service

import (
	"context"
	"fmt"
	"time"

	"walletpay/internal/domain"
	"walletpay/internal/repository"
	"walletpay/internal/util"
)

// transitionStatus is the single path through which a transaction's
// status ever changes. It validates the state machine, stamps terminal
// timestamps, appends the failure reason to the description on failure,
// persists the row and appends exactly one TransactionLog entry.
// changedBy is nil for engine-driven transitions.
func transitionStatus(ctx context.Context, q repository.DBExecutor, transactionRepo repository.TransactionRepository,
	transaction *domain.Transaction, newStatus domain.TransactionStatus, reason string, changedBy *int64) error {

	if !transaction.Status.CanTransitionTo(newStatus) {
		return fmt.Errorf("%w: %s -> %s", util.ErrInvalidStatusChange, transaction.Status, newStatus)
	}

	previous := transaction.Status
	now := time.Now().UTC()
	transaction.Status = newStatus
	switch newStatus {
	case domain.StatusCompleted:
		transaction.CompletedAt = &now
	case domain.StatusFailed:
		transaction.FailedAt = &now
		if reason != "" {
			transaction.Description = fmt.Sprintf("%s\nFailure reason: %s", transaction.Description, reason)
		}
	}

	if err := transactionRepo.UpdateTransactionStatus(ctx, q, transaction); err != nil {
		return fmt.Errorf("failed to persist status change: %w", err)
	}

	log := &domain.TransactionLog{
		TransactionID:  transaction.ID,
		PreviousStatus: previous,
		NewStatus:      newStatus,
		Reason:         reason,
		ChangedBy:      changedBy,
		CreatedAt:      now,
	}
	if err := transactionRepo.AppendTransactionLog(ctx, q, log); err != nil {
		return fmt.Errorf("failed to append transaction log: %w", err)
	}
	return nil
}
