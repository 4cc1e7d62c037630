// internal/service/wallet_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"walletpay/internal/domain"
	"walletpay/internal/repository"
	"walletpay/internal/util"
	"walletpay/pkg/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates a user's wallet and transaction statistics.
type DashboardSummary struct {
	WalletBalance         decimal.Decimal      `json:"wallet_balance"`
	WalletCurrency        string               `json:"wallet_currency"`
	TotalTransactions     int64                `json:"total_transactions"`
	CompletedTransactions int64                `json:"completed_transactions"`
	PendingTransactions   int64                `json:"pending_transactions"`
	FailedTransactions    int64                `json:"failed_transactions"`
	CancelledTransactions int64                `json:"cancelled_transactions"`
	TodayTransactions     int64                `json:"today_transactions"`
	MonthlySpent          decimal.Decimal      `json:"monthly_spent"`
	MonthlyReceived       decimal.Decimal      `json:"monthly_received"`
	RecentTransactions    []domain.Transaction `json:"recent_transactions"`
}

// WalletService covers everything around the engine: account and wallet
// lifecycle, limit management, history, logs, user-initiated cancellation
// and the dashboard summary.
type WalletService interface {
	// CreateUserAndWallet creates a user together with their wallet in one
	// transaction: every user has exactly one wallet from the moment the
	// user exists.
	CreateUserAndWallet(ctx context.Context, username string) (*domain.User, *domain.Wallet, error)
	// GetOrCreateWallet returns the user's wallet, creating it on first
	// reference for users predating the creation invariant.
	GetOrCreateWallet(ctx context.Context, userID int64) (*domain.Wallet, error)
	// UpdateWalletLimits sets the wallet's daily and monthly spending limits.
	// Limits are the only caller-adjustable wallet fields.
	UpdateWalletLimits(ctx context.Context, userID int64, daily, monthly decimal.Decimal) (*domain.Wallet, error)
	// GetTransaction retrieves one of the user's transactions.
	GetTransaction(ctx context.Context, userID int64, publicID uuid.UUID) (*domain.Transaction, error)
	// GetTransactionHistory retrieves a paginated, filtered transaction
	// history with the total matching count.
	GetTransactionHistory(ctx context.Context, userID int64, filter repository.TransactionFilter, limit, offset int) ([]domain.Transaction, int64, error)
	// CancelTransaction cancels a non-terminal transaction on the owner's
	// behalf. Cancellation has no balance effect.
	CancelTransaction(ctx context.Context, userID int64, publicID uuid.UUID) (*domain.Transaction, error)
	// GetTransactionLogs retrieves the status history of one transaction.
	GetTransactionLogs(ctx context.Context, userID int64, publicID uuid.UUID) ([]domain.TransactionLog, error)
	// ListTransactionLogs retrieves a paginated status history across all of
	// the user's transactions.
	ListTransactionLogs(ctx context.Context, userID int64, limit, offset int) ([]domain.TransactionLog, int64, error)
	// GetDashboard returns the user's summary statistics.
	GetDashboard(ctx context.Context, userID int64) (*DashboardSummary, error)
}

// walletService implements the WalletService interface.
type walletService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	userRepo        repository.UserRepository
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	logger          *slog.Logger
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) WalletService {
	return &walletService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
		logger:          logger,
	}
}

func (s *walletService) CreateUserAndWallet(ctx context.Context, username string) (*domain.User, *domain.Wallet, error) {
	if username == "" {
		return nil, nil, fmt.Errorf("%w: username is required", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("create user and wallet: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("create user and wallet: transaction controller does not implement DBExecutor")
	}

	user := domain.NewUser(username)
	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		return nil, nil, fmt.Errorf("create user and wallet: %w", err)
	}

	wallet := domain.NewWallet(user.ID)
	if err := s.walletRepo.CreateWallet(ctx, txExecutor, wallet); err != nil {
		return nil, nil, fmt.Errorf("create user and wallet: failed to create wallet: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("create user and wallet: failed to commit transaction: %w", err)
	}

	s.logger.Info("user and wallet created", "user_id", user.ID, "username", user.Username)
	return user, wallet, nil
}

func (s *walletService) GetOrCreateWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetWalletByUserID(ctx, s.dbExecutor, userID)
	if err == nil {
		return wallet, nil
	}
	if !util.IsError(err, util.ErrNotFound) {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("get wallet: failed to check user %d: %w", userID, err)
	}

	wallet = domain.NewWallet(userID)
	if err := s.walletRepo.CreateWallet(ctx, s.dbExecutor, wallet); err != nil {
		return nil, fmt.Errorf("get wallet: failed to create wallet for user %d: %w", userID, err)
	}
	s.logger.Info("wallet created on first reference", "user_id", userID, "wallet_id", wallet.ID)
	return wallet, nil
}

func (s *walletService) UpdateWalletLimits(ctx context.Context, userID int64, daily, monthly decimal.Decimal) (*domain.Wallet, error) {
	if daily.LessThanOrEqual(decimal.Zero) || monthly.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: limits must be positive", util.ErrInvalidInput)
	}
	if monthly.LessThan(daily) {
		return nil, fmt.Errorf("%w: monthly limit cannot be below daily limit", util.ErrInvalidInput)
	}

	wallet, err := s.walletRepo.GetWalletByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("update limits: %w", err)
	}

	if err := s.walletRepo.UpdateLimits(ctx, s.dbExecutor, wallet.ID, daily, monthly); err != nil {
		return nil, fmt.Errorf("update limits: %w", err)
	}
	wallet.DailyLimit = daily
	wallet.MonthlyLimit = monthly

	s.logger.Info("wallet limits updated", "wallet_id", wallet.ID, "daily_limit", daily, "monthly_limit", monthly)
	return wallet, nil
}

func (s *walletService) GetTransaction(ctx context.Context, userID int64, publicID uuid.UUID) (*domain.Transaction, error) {
	transaction, err := s.transactionRepo.GetTransactionByPublicID(ctx, s.dbExecutor, publicID, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return transaction, nil
}

func (s *walletService) GetTransactionHistory(ctx context.Context, userID int64, filter repository.TransactionFilter, limit, offset int) ([]domain.Transaction, int64, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown transaction kind %q", util.ErrInvalidInput, filter.Kind)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown transaction status %q", util.ErrInvalidInput, filter.Status)
	}

	transactions, totalCount, err := s.transactionRepo.ListTransactionsByUserID(ctx, s.dbExecutor, userID, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("transaction history: %w", err)
	}
	return transactions, totalCount, nil
}

// CancelTransaction moves a pending or processing transaction to
// cancelled, recording the acting user in the audit log. Terminal
// transactions are rejected.
func (s *walletService) CancelTransaction(ctx context.Context, userID int64, publicID uuid.UUID) (*domain.Transaction, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("cancel: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("cancel: transaction controller does not implement DBExecutor")
	}

	transaction, err := s.transactionRepo.GetTransactionByPublicID(ctx, txExecutor, publicID, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("cancel: %w", err)
	}

	if !transaction.CanCancel() {
		return nil, util.ErrCannotCancel
	}

	actor := userID
	if err := transitionStatus(ctx, txExecutor, s.transactionRepo, transaction, domain.StatusCancelled, "Cancelled by user", &actor); err != nil {
		return nil, fmt.Errorf("cancel: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("cancel: failed to commit transaction: %w", err)
	}

	s.logger.Info("transaction cancelled", "transaction_id", transaction.PublicID, "user_id", userID)
	return transaction, nil
}

func (s *walletService) GetTransactionLogs(ctx context.Context, userID int64, publicID uuid.UUID) ([]domain.TransactionLog, error) {
	transaction, err := s.transactionRepo.GetTransactionByPublicID(ctx, s.dbExecutor, publicID, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("transaction logs: %w", err)
	}

	logs, err := s.transactionRepo.ListLogsByTransactionID(ctx, s.dbExecutor, transaction.ID)
	if err != nil {
		return nil, fmt.Errorf("transaction logs: %w", err)
	}
	return logs, nil
}

func (s *walletService) ListTransactionLogs(ctx context.Context, userID int64, limit, offset int) ([]domain.TransactionLog, int64, error) {
	logs, totalCount, err := s.transactionRepo.ListLogsByUserID(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("transaction logs: %w", err)
	}
	return logs, totalCount, nil
}

func (s *walletService) GetDashboard(ctx context.Context, userID int64) (*DashboardSummary, error) {
	wallet, err := s.walletRepo.GetWalletByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	counts, err := s.transactionRepo.CountTransactionsByStatus(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	now := time.Now()
	todayCount, err := s.transactionRepo.CountTransactionsSince(ctx, s.dbExecutor, userID, StartOfDayUTC(now))
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	monthStart := StartOfMonthUTC(now)
	monthlySpent, err := s.transactionRepo.SumCompletedAmountByKindsSince(ctx, s.dbExecutor, userID, domain.OutgoingKinds, monthStart)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	monthlyReceived, err := s.transactionRepo.SumCompletedAmountByKindsSince(ctx, s.dbExecutor, userID, domain.IncomingKinds, monthStart)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	recent, _, err := s.transactionRepo.ListTransactionsByUserID(ctx, s.dbExecutor, userID, repository.TransactionFilter{}, 10, 0)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	return &DashboardSummary{
		WalletBalance:         wallet.Balance,
		WalletCurrency:        wallet.Currency,
		TotalTransactions:     counts.Total,
		CompletedTransactions: counts.Completed,
		PendingTransactions:   counts.Pending,
		FailedTransactions:    counts.Failed,
		CancelledTransactions: counts.Cancelled,
		TodayTransactions:     todayCount,
		MonthlySpent:          monthlySpent,
		MonthlyReceived:       monthlyReceived,
		RecentTransactions:    recent,
	}, nil
}
