// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"time"

	"walletpay/internal/domain"
	"walletpay/internal/repository"
	"walletpay/pkg/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// testLogger returns a logger that discards everything.
func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// fakeResult is a minimal sql.Result for mocked ExecContext calls.
type fakeResult struct {
	rowsAffected int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController. It embeds
// MockDBExecutor so it also satisfies repository.DBExecutor, mirroring
// *sqlx.Tx. Expectations on the executor surface go through the embedded
// MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	args := m.Called(ctx, q, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockWalletRepository is a mock implementation of repository.WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	args := m.Called(ctx, q, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) GetWalletByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetWalletByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, walletID int64, delta decimal.Decimal) error {
	args := m.Called(ctx, q, walletID, delta)
	return args.Error(0)
}

func (m *MockWalletRepository) UpdateLimits(ctx context.Context, q repository.DBExecutor, walletID int64, daily, monthly decimal.Decimal) error {
	args := m.Called(ctx, q, walletID, daily, monthly)
	return args.Error(0)
}

func (m *MockWalletRepository) DeactivateWallet(ctx context.Context, q repository.DBExecutor, walletID int64) error {
	args := m.Called(ctx, q, walletID)
	return args.Error(0)
}

// MockCardRepository is a mock implementation of repository.CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) CreateCard(ctx context.Context, q repository.DBExecutor, card *domain.Card) error {
	args := m.Called(ctx, q, card)
	return args.Error(0)
}

func (m *MockCardRepository) GetCardByIDForUser(ctx context.Context, q repository.DBExecutor, cardID, userID int64) (*domain.Card, error) {
	args := m.Called(ctx, q, cardID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) ListCardsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Card, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) DeactivateCard(ctx context.Context, q repository.DBExecutor, cardID, userID int64) error {
	args := m.Called(ctx, q, cardID, userID)
	return args.Error(0)
}

func (m *MockCardRepository) ClearDefault(ctx context.Context, q repository.DBExecutor, userID int64) error {
	args := m.Called(ctx, q, userID)
	return args.Error(0)
}

func (m *MockCardRepository) SetDefault(ctx context.Context, q repository.DBExecutor, cardID, userID int64) error {
	args := m.Called(ctx, q, cardID, userID)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionByPublicID(ctx context.Context, q repository.DBExecutor, publicID uuid.UUID, userID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, q, publicID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransactionStatus(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, filter repository.TransactionFilter, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, q, userID, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) SumCompletedAmountSince(ctx context.Context, q repository.DBExecutor, userID int64, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, q, userID, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SumCompletedAmountByKindsSince(ctx context.Context, q repository.DBExecutor, userID int64, kinds []domain.TransactionKind, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, q, userID, kinds, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) CountTransactionsByStatus(ctx context.Context, q repository.DBExecutor, userID int64) (*repository.StatusCounts, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.StatusCounts), args.Error(1)
}

func (m *MockTransactionRepository) CountTransactionsSince(ctx context.Context, q repository.DBExecutor, userID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, q, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) AppendTransactionLog(ctx context.Context, q repository.DBExecutor, log *domain.TransactionLog) error {
	args := m.Called(ctx, q, log)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListLogsByTransactionID(ctx context.Context, q repository.DBExecutor, transactionID int64) ([]domain.TransactionLog, error) {
	args := m.Called(ctx, q, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLog), args.Error(1)
}

func (m *MockTransactionRepository) ListLogsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.TransactionLog, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.TransactionLog), args.Get(1).(int64), args.Error(2)
}

// stubAuthorizer returns a fixed decision, bypassing randomness.
type stubAuthorizer struct {
	approved bool
	err      error
}

func (a *stubAuthorizer) Authorize(ctx context.Context) (bool, error) {
	return a.approved, a.err
}

// decimalEq matches a decimal argument by value rather than representation.
func decimalEq(want decimal.Decimal) interface{} {
	return mock.MatchedBy(func(got decimal.Decimal) bool {
		return got.Equal(want)
	})
}

// engineFixture bundles the mocks behind one TransactionEngine.
type engineFixture struct {
	dbBeginner      *MockDBBeginner
	tx              *MockTxController
	userRepo        *MockUserRepository
	walletRepo      *MockWalletRepository
	cardRepo        *MockCardRepository
	transactionRepo *MockTransactionRepository
	cardAuth        *stubAuthorizer
	mobileAuth      *stubAuthorizer
	engine          TransactionEngine
}

func newEngineFixture() *engineFixture {
	fx := &engineFixture{
		dbBeginner:      new(MockDBBeginner),
		tx:              new(MockTxController),
		userRepo:        new(MockUserRepository),
		walletRepo:      new(MockWalletRepository),
		cardRepo:        new(MockCardRepository),
		transactionRepo: new(MockTransactionRepository),
		cardAuth:        &stubAuthorizer{approved: true},
		mobileAuth:      &stubAuthorizer{approved: true},
	}
	fx.engine = NewTransactionEngine(
		fx.dbBeginner,
		fx.userRepo,
		fx.walletRepo,
		fx.cardRepo,
		fx.transactionRepo,
		NewLimitValidator(fx.transactionRepo),
		fx.cardAuth,
		fx.mobileAuth,
		time.Second,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return fx.tx, nil
		},
		func(tx db.TxController) error {
			return fx.tx.Commit()
		},
		func(tx db.TxController) {
			_ = fx.tx.Rollback()
		},
		testLogger(),
	)
	return fx
}
