// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "walletpay/internal/api"
	"walletpay/internal/api/handler"
	"walletpay/internal/config"
	"walletpay/internal/repository"
	"walletpay/internal/repository/postgres"
	"walletpay/internal/service"
	"walletpay/internal/util"
	"walletpay/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository        repository.UserRepository
	WalletRepository      repository.WalletRepository
	CardRepository        repository.CardRepository
	TransactionRepository repository.TransactionRepository

	// Services
	Engine        service.TransactionEngine
	WalletService service.WalletService
	CardService   service.CardService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.WalletRepository = postgres.NewWalletRepository(app.DB)
	app.CardRepository = postgres.NewCardRepository(app.DB)
	app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	limits := service.NewLimitValidator(app.TransactionRepository)
	cardAuthorizer := service.NewSimulatedAuthorizer(app.Config.CardApprovalRate)
	mobileAuthorizer := service.NewSimulatedAuthorizer(app.Config.MobileApprovalRate)

	app.Engine = service.NewTransactionEngine(
		app.DB,
		app.UserRepository,
		app.WalletRepository,
		app.CardRepository,
		app.TransactionRepository,
		limits,
		cardAuthorizer,
		mobileAuthorizer,
		app.Config.AuthorizerTimeout,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.WalletService = service.NewWalletService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.WalletRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.CardService = service.NewCardService(
		app.DB,
		app.DB,
		app.CardRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	transactionHandler := handler.NewTransactionHandler(app.Engine, app.WalletService, app.Logger)
	walletHandler := handler.NewWalletHandler(app.WalletService, app.Logger)
	cardHandler := handler.NewCardHandler(app.CardService, app.Logger)
	app.HTTPHandler = router.NewRouter(transactionHandler, walletHandler, cardHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
