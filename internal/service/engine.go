// internal/service/engine.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"walletpay/internal/domain"
	"walletpay/internal/repository"
	"walletpay/internal/util"
	"walletpay/pkg/db"

	"github.com/shopspring/decimal"
)

// processSavepoint is the savepoint taken after the transaction row is
// created and before any balance mutation. Rolling back to it on a
// processing failure discards the balance changes while keeping the row,
// so the failed attempt commits as part of the audit trail.
const processSavepoint = "process_attempt"

// maxUserAgentLength bounds the client agent string captured per transaction.
const maxUserAgentLength = 500

const completedMessage = "Transaction completed successfully"

// TransferRequest is a validated transfer intent as handed over by the
// API layer. The engine never touches raw HTTP objects.
type TransferRequest struct {
	Kind              domain.TransactionKind
	Amount            decimal.Decimal
	CardID            *int64
	RecipientUsername string
	MobileNumber      string
	Description       string
	IPAddress         string
	UserAgent         string
}

// TransferResult is the outcome of one transfer attempt: the finalized
// transaction record, a human-readable message suitable for display, and
// the initiating wallet's balance after the attempt.
type TransferResult struct {
	Transaction *domain.Transaction
	Message     string
	NewBalance  decimal.Decimal
}

// TransactionEngine orchestrates validation, authorization, ledger
// mutation and status transitions for each transaction kind, inside one
// all-or-nothing unit of work.
type TransactionEngine interface {
	// Transfer executes one transfer attempt. A returned error means the
	// request was rejected before processing (validation, missing resource,
	// internal failure) and no transaction row exists. A nil error with a
	// failed-status transaction means the attempt was processed and declined:
	// the row persists, no balance changed, and a new transaction must be
	// created to retry.
	Transfer(ctx context.Context, userID int64, req TransferRequest) (*TransferResult, error)
}

// transactionEngine implements TransactionEngine.
type transactionEngine struct {
	dbBeginner       db.DBTxBeginner
	userRepo         repository.UserRepository
	walletRepo       repository.WalletRepository
	cardRepo         repository.CardRepository
	transactionRepo  repository.TransactionRepository
	limits           *LimitValidator
	cardAuthorizer   Authorizer
	mobileAuthorizer Authorizer
	authTimeout      time.Duration
	beginTx          db.BeginTxFunc
	commitTx         db.CommitTxFunc
	rollbackTx       db.RollbackTxFunc
	logger           *slog.Logger
}

// NewTransactionEngine creates a new TransactionEngine.
func NewTransactionEngine(
	dbBeginner db.DBTxBeginner,
	userRepo repository.UserRepository,
	walletRepo repository.WalletRepository,
	cardRepo repository.CardRepository,
	transactionRepo repository.TransactionRepository,
	limits *LimitValidator,
	cardAuthorizer Authorizer,
	mobileAuthorizer Authorizer,
	authTimeout time.Duration,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) TransactionEngine {
	return &transactionEngine{
		dbBeginner:       dbBeginner,
		userRepo:         userRepo,
		walletRepo:       walletRepo,
		cardRepo:         cardRepo,
		transactionRepo:  transactionRepo,
		limits:           limits,
		cardAuthorizer:   cardAuthorizer,
		mobileAuthorizer: mobileAuthorizer,
		authTimeout:      authTimeout,
		beginTx:          beginTx,
		commitTx:         commitTx,
		rollbackTx:       rollbackTx,
		logger:           logger,
	}
}

// Transfer executes one transfer attempt inside a single database
// transaction covering the limit-aggregate reads, the transaction row
// creation, the external authorization call, the balance mutations and
// the status finalization.
func (e *transactionEngine) Transfer(ctx context.Context, userID int64, req TransferRequest) (*TransferResult, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", util.ErrInvalidInput, req.Kind)
	}
	if err := ValidateAmountBounds(req.Amount); err != nil {
		return nil, err
	}

	txController, err := e.beginTx(ctx, e.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to begin transaction: %w", err)
	}
	defer e.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("transfer: transaction controller does not implement DBExecutor")
	}

	// Lock the initiating wallet for the duration of the unit of work so
	// concurrent debits cannot both pass the balance check.
	wallet, err := e.walletRepo.GetWalletByUserIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("transfer: failed to lock wallet: %w", err)
	}

	if err := e.limits.ValidateDailyLimit(ctx, txExecutor, wallet, req.Amount); err != nil {
		return nil, err
	}
	if err := e.limits.ValidateMonthlyLimit(ctx, txExecutor, wallet, req.Amount); err != nil {
		return nil, err
	}

	fee := CalculateFee(req.Kind, req.Amount)

	var card *domain.Card
	if req.CardID != nil {
		card, err = e.cardRepo.GetCardByIDForUser(ctx, txExecutor, *req.CardID, userID)
		if err != nil {
			if util.IsError(err, util.ErrNotFound) {
				return nil, util.ErrCardNotFound
			}
			return nil, fmt.Errorf("transfer: failed to get card: %w", err)
		}
	}

	var recipient *domain.User
	if req.RecipientUsername != "" {
		recipient, err = e.userRepo.GetUserByUsername(ctx, txExecutor, req.RecipientUsername)
		if err != nil {
			if util.IsError(err, util.ErrNotFound) {
				return nil, fmt.Errorf("%w: recipient %q", util.ErrUserNotFound, req.RecipientUsername)
			}
			return nil, fmt.Errorf("transfer: failed to get recipient: %w", err)
		}
		if recipient.ID == userID {
			return nil, util.ErrSameWalletTransfer
		}
	}

	transaction := domain.NewTransaction(userID, req.Kind, req.Amount, fee)
	transaction.MobileNumber = req.MobileNumber
	transaction.Description = req.Description
	if card != nil {
		transaction.CardID = &card.ID
	}
	if recipient != nil {
		transaction.RecipientUserID = &recipient.ID
	}
	if req.IPAddress != "" {
		ip := req.IPAddress
		transaction.IPAddress = &ip
	}
	transaction.UserAgent = req.UserAgent
	if len(transaction.UserAgent) > maxUserAgentLength {
		transaction.UserAgent = transaction.UserAgent[:maxUserAgentLength]
	}

	if err := e.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("transfer: failed to create transaction: %w", err)
	}

	// Everything after the savepoint is the processing attempt: on failure
	// its balance mutations are rolled back while the row above survives.
	if err := db.Savepoint(ctx, txExecutor, processSavepoint); err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	balanceBefore := wallet.Balance
	if procErr := e.process(ctx, txExecutor, wallet, card, transaction); procErr != nil {
		if err := db.RollbackToSavepoint(ctx, txExecutor, processSavepoint); err != nil {
			return nil, fmt.Errorf("transfer: %w", err)
		}
		if err := transitionStatus(ctx, txExecutor, e.transactionRepo, transaction, domain.StatusFailed, procErr.Error(), nil); err != nil {
			return nil, fmt.Errorf("transfer: failed to mark transaction failed: %w", err)
		}
		if err := e.commitTx(txController); err != nil {
			return nil, fmt.Errorf("transfer: failed to commit transaction: %w", err)
		}
		e.logger.Warn("transaction failed",
			"transaction_id", transaction.PublicID,
			"kind", transaction.Kind,
			"reason", procErr.Error(),
		)
		return &TransferResult{
			Transaction: transaction,
			Message:     procErr.Error(),
			NewBalance:  balanceBefore,
		}, nil
	}

	if err := transitionStatus(ctx, txExecutor, e.transactionRepo, transaction, domain.StatusCompleted, "Transaction processed successfully", nil); err != nil {
		return nil, fmt.Errorf("transfer: failed to mark transaction completed: %w", err)
	}
	if err := e.commitTx(txController); err != nil {
		return nil, fmt.Errorf("transfer: failed to commit transaction: %w", err)
	}

	e.logger.Info("transaction completed",
		"transaction_id", transaction.PublicID,
		"kind", transaction.Kind,
		"amount", transaction.Amount,
		"fee", transaction.Fee,
	)
	return &TransferResult{
		Transaction: transaction,
		Message:     completedMessage,
		NewBalance:  wallet.Balance,
	}, nil
}

// process dispatches the attempt to the kind-specific handler. The switch
// is exhaustive over domain.TransactionKind; Transfer rejects unknown
// kinds before dispatch.
func (e *transactionEngine) process(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, card *domain.Card, transaction *domain.Transaction) error {
	switch transaction.Kind {
	case domain.KindCardToWallet:
		return e.processCardToWallet(ctx, q, wallet, card, transaction)
	case domain.KindWalletToCard:
		return e.processWalletToCard(ctx, q, wallet, card, transaction)
	case domain.KindWalletToBkash, domain.KindWalletToNagad:
		return e.processWalletToMobile(ctx, q, wallet, transaction)
	case domain.KindBkashToWallet, domain.KindNagadToWallet:
		return e.processMobileToWallet(ctx, q, wallet, transaction)
	case domain.KindWalletToWallet:
		return e.processWalletToWallet(ctx, q, wallet, transaction)
	}
	return fmt.Errorf("unhandled transaction kind %q", transaction.Kind)
}

func (e *transactionEngine) processCardToWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, card *domain.Card, transaction *domain.Transaction) error {
	if card == nil {
		return errors.New("card information required")
	}
	if err := e.authorize(ctx, e.cardAuthorizer, "card processing"); err != nil {
		return err
	}
	return e.credit(ctx, q, wallet, transaction.Amount)
}

func (e *transactionEngine) processWalletToCard(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, card *domain.Card, transaction *domain.Transaction) error {
	if card == nil {
		return errors.New("card information required")
	}
	if !wallet.CanDebit(transaction.TotalAmount()) {
		return errors.New("insufficient wallet balance")
	}
	if err := e.authorize(ctx, e.cardAuthorizer, "card processing"); err != nil {
		return err
	}
	return e.debit(ctx, q, wallet, transaction.TotalAmount())
}

func (e *transactionEngine) processWalletToMobile(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, transaction *domain.Transaction) error {
	if transaction.MobileNumber == "" {
		return errors.New("mobile number required")
	}
	if !wallet.CanDebit(transaction.TotalAmount()) {
		return errors.New("insufficient wallet balance")
	}
	if err := e.authorize(ctx, e.mobileAuthorizer, "mobile payment processing"); err != nil {
		return err
	}
	return e.debit(ctx, q, wallet, transaction.TotalAmount())
}

func (e *transactionEngine) processMobileToWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, transaction *domain.Transaction) error {
	if transaction.MobileNumber == "" {
		return errors.New("mobile number required")
	}
	if err := e.authorize(ctx, e.mobileAuthorizer, "mobile payment processing"); err != nil {
		return err
	}
	return e.credit(ctx, q, wallet, transaction.Amount)
}

// processWalletToWallet debits amount+fee from the sender and credits the
// amount only to the recipient: the fee is retained by the system, never
// forwarded.
func (e *transactionEngine) processWalletToWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, transaction *domain.Transaction) error {
	if transaction.RecipientUserID == nil {
		return errors.New("recipient user required")
	}
	if !wallet.CanDebit(transaction.TotalAmount()) {
		return errors.New("insufficient wallet balance")
	}

	recipientWallet, err := e.walletRepo.GetWalletByUserIDForUpdate(ctx, q, *transaction.RecipientUserID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return errors.New("recipient wallet not found")
		}
		return fmt.Errorf("wallet transfer failed: %w", err)
	}
	if !recipientWallet.IsActive {
		return errors.New("recipient wallet is inactive")
	}

	if err := e.debit(ctx, q, wallet, transaction.TotalAmount()); err != nil {
		return err
	}
	return e.credit(ctx, q, recipientWallet, transaction.Amount)
}

// authorize runs one external authorization call under the configured
// timeout. A slow or unavailable channel surfaces as an error so the unit
// of work fails rather than committing a partial state.
func (e *transactionEngine) authorize(ctx context.Context, authorizer Authorizer, channel string) error {
	authCtx, cancel := context.WithTimeout(ctx, e.authTimeout)
	defer cancel()

	approved, err := authorizer.Authorize(authCtx)
	if err != nil {
		return fmt.Errorf("%s error: %w", channel, err)
	}
	if !approved {
		return fmt.Errorf("%s failed", channel)
	}
	return nil
}

// debit removes amount from the wallet after re-checking that the locked
// balance covers it, and mirrors the change on the in-memory copy.
func (e *transactionEngine) debit(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, amount decimal.Decimal) error {
	if !wallet.CanDebit(amount) {
		return errors.New("insufficient wallet balance")
	}
	if err := e.walletRepo.AdjustBalance(ctx, q, wallet.ID, amount.Neg()); err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}
	wallet.Balance = wallet.Balance.Sub(amount)
	return nil
}

// credit adds amount to the wallet and mirrors the change on the
// in-memory copy.
func (e *transactionEngine) credit(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, amount decimal.Decimal) error {
	if !wallet.CanCredit() {
		return errors.New("cannot credit inactive wallet")
	}
	if err := e.walletRepo.AdjustBalance(ctx, q, wallet.ID, amount); err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	wallet.Balance = wallet.Balance.Add(amount)
	return nil
}
