// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"walletpay/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	transactionHandler *handler.TransactionHandler,
	walletHandler *handler.WalletHandler,
	cardHandler *handler.CardHandler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Account and wallet
	r.Post("/users", walletHandler.CreateUser)
	r.Route("/wallet", func(r chi.Router) {
		r.Get("/", walletHandler.GetWallet)
		r.Patch("/limits", walletHandler.UpdateLimits)
	})
	r.Get("/dashboard", walletHandler.Dashboard)

	// Cards
	r.Route("/cards", func(r chi.Router) {
		r.Post("/", cardHandler.Add)
		r.Get("/", cardHandler.List)
		r.Delete("/{cardID}", cardHandler.Delete)
		r.Post("/{cardID}/default", cardHandler.SetDefault)
	})

	// Transfers and transaction history
	r.Post("/transfers", transactionHandler.Transfer)
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", transactionHandler.List)
		r.Get("/{transactionID}", transactionHandler.Get)
		r.Post("/{transactionID}/cancel", transactionHandler.Cancel)
		r.Get("/{transactionID}/logs", transactionHandler.Logs)
	})
	r.Get("/logs", transactionHandler.ListLogs)

	return r
}
