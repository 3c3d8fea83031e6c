package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pybank/internal/api/handler"
	mw "pybank/internal/api/middleware"
	"pybank/internal/config"
	"pybank/internal/domain/account"
	"pybank/internal/domain/customer"
	"pybank/internal/domain/ledger"
	"pybank/internal/domain/user"
)

type Services struct {
	Users     user.UserService
	Customers customer.CustomerService
	Accounts  account.AccountService
	Ledger    ledger.LedgerService
}

func SetupRouter(services Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, services.Users, cfg, logger)
	setupCustomerRoutes(router, services.Customers, cfg, logger)
	setupAccountRoutes(router, services.Accounts, services.Customers, cfg, logger)
	setupTransactionRoutes(router, services.Ledger, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupAuthRoutes(router *chi.Mux, svc user.UserService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewAuthHandler(svc, *cfg, logger)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/token", h.GenerateBearerToken)
	})
}

func setupCustomerRoutes(router chi.Router, svc customer.CustomerService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	router.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Delete("/", h.DeleteCustomer)
			r.Put("/contact", h.UpdateCustomerContact)
		})
	})
}

func setupAccountRoutes(router chi.Router, accounts account.AccountService, customers customer.CustomerService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewAccountHandler(accounts, customers, cfg.Bank, logger)

	router.Route("/accounts", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.OpenAccount)
		r.Get("/", h.ListAccounts)
		r.Route("/{accountNumber}", func(r chi.Router) {
			r.Get("/", h.GetAccount)
			r.Delete("/", h.CloseAccount)
			r.Post("/repayments", h.RepayLoan)
		})
	})
}

func setupTransactionRoutes(router chi.Router, svc ledger.LedgerService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewTransactionHandler(svc, logger)

	router.Route("/transactions", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.ListTransactions)
		r.Post("/deposits", h.Deposit)
		r.Post("/withdrawals", h.Withdraw)
		r.Post("/transfers", h.Transfer)
	})
}
