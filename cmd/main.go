package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"pybank/internal/api"
	"pybank/internal/batch"
	"pybank/internal/config"
	"pybank/internal/domain/account"
	"pybank/internal/domain/customer"
	"pybank/internal/domain/ledger"
	"pybank/internal/domain/user"
	"pybank/internal/event"
	"pybank/internal/infrastructure/logging"
	"pybank/internal/infrastructure/storage/jsonfile"
	"pybank/internal/pkg/clock"
	"pybank/internal/pkg/sequence"
)

func main() {
	cfg, logger := initializeApp()

	clk := initializeClock(cfg, logger)
	rabbitMQConn := setupRabbitMQ(cfg, logger)
	publisher := initializePublisher(rabbitMQConn, cfg, logger)

	services, accountService := initializeServices(cfg, clk, publisher, logger)

	monthEndJob := batch.NewMonthEndJob(accountService, decimal.NewFromFloat(cfg.Bank.CheckingInterestRate), logger)
	cronScheduler := startBatchJobs(cfg, logger, monthEndJob)

	router := api.SetupRouter(services, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, rabbitMQConn, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeClock(cfg *config.Config, logger *slog.Logger) clock.Clock {
	clk, err := clock.NewSystemClock(cfg.Bank.TimeZone)
	if err != nil {
		logger.Error("Failed to load bank time zone", "timeZone", cfg.Bank.TimeZone, "error", err)
		os.Exit(1)
	}
	return clk
}

func initializePublisher(conn *amqp.Connection, cfg *config.Config, logger *slog.Logger) event.Publisher {
	if conn == nil {
		logger.Info("Event publishing disabled, using noop publisher")
		return event.NewNoopPublisher()
	}
	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to initialize RabbitMQ publisher, falling back to noop", slog.Any("error", err))
		return event.NewNoopPublisher()
	}
	return publisher
}

func initializeServices(cfg *config.Config, clk clock.Clock, publisher event.Publisher, logger *slog.Logger) (api.Services, account.AccountService) {
	logger.Info("Initializing application components...", "dataDir", cfg.Storage.DataDir)

	accountRepo, err := jsonfile.NewAccountRepository(cfg.Storage.AccountsPath(), logger)
	if err != nil {
		logger.Error("Failed to open account store", "error", err)
		os.Exit(1)
	}
	customerRepo, err := jsonfile.NewCustomerRepository(cfg.Storage.CustomersPath(), logger)
	if err != nil {
		logger.Error("Failed to open customer store", "error", err)
		os.Exit(1)
	}
	transactionRepo, err := jsonfile.NewTransactionRepository(cfg.Storage.TransactionsPath(), logger)
	if err != nil {
		logger.Error("Failed to open transaction store", "error", err)
		os.Exit(1)
	}
	userRepo, err := jsonfile.NewUserRepository(cfg.Storage.UsersPath(), logger)
	if err != nil {
		logger.Error("Failed to open user store", "error", err)
		os.Exit(1)
	}

	accountService, err := account.NewAccountService(accountRepo, sequence.NewGenerator("ACC_", 0), clk, logger)
	if err != nil {
		logger.Error("Failed to initialize account service", "error", err)
		os.Exit(1)
	}
	customerService, err := customer.NewCustomerService(customerRepo, publisher, sequence.NewGenerator("CUS_", 0), clk, logger)
	if err != nil {
		logger.Error("Failed to initialize customer service", "error", err)
		os.Exit(1)
	}
	ledgerService, err := ledger.NewLedgerService(transactionRepo, accountRepo, publisher, clk, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger service", "error", err)
		os.Exit(1)
	}
	userService, err := user.NewUserService(userRepo, sequence.NewGenerator("USER_", 0), logger)
	if err != nil {
		logger.Error("Failed to initialize user service", "error", err)
		os.Exit(1)
	}

	services := api.Services{
		Users:     userService,
		Customers: customerService,
		Accounts:  accountService,
		Ledger:    ledgerService,
	}
	return services, accountService
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rabbitConn *amqp.Connection,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	closeRabbitMQConnection(rabbitConn, logger)
	shutdownHTTPServer(srv, serverErrors, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		logger.Info("Server goroutine finished before signal.", "error", err)
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	if rabbitConn != nil && !rabbitConn.IsClosed() {
		logger.Info("Closing RabbitMQ connection...")
		if err := rabbitConn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
		} else {
			logger.Info("RabbitMQ connection closed.")
		}
	} else if rabbitConn == nil {
		logger.Info("RabbitMQ connection was not established, skipping close.")
	} else {
		logger.Info("RabbitMQ connection already closed, skipping close.")
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server graceful shutdown failed", "error", err)
		} else {
			logger.Info("HTTP server shutdown initiated.")
		}
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, monthEndJob *batch.MonthEndJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.MonthEndSchedule
	if scheduleSpec == "" {
		scheduleSpec = "0 0 1 * *"
		logger.Warn("Month-end schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.MonthEndTimeout
	if jobTimeout <= 0 {
		jobTimeout = 1 * time.Hour
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "MonthEnd")
		jobLogger.Info("Cron triggered: Running month-end job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := monthEndJob.Run(ctx); runErr != nil {
			jobLogger.Error("Month-end job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Month-end job finished successfully.")
		}
	}))

	if err != nil {
		logger.Error("Failed to schedule month-end job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled month-end job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func connectRabbitMQ(uri string, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	retryCount := 5
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		return nil
	}
	if cfg.RabbitMQ.Host == "" {
		logger.Warn("RabbitMQ enabled but host is not configured, skipping")
		return nil
	}

	rabbitMQURI := fmt.Sprintf("amqp://%s:%d", cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	if cfg.RabbitMQ.Username != "" && cfg.RabbitMQ.Password != "" {
		rabbitMQURI = fmt.Sprintf("amqp://%s:%s@%s:%d", cfg.RabbitMQ.Username, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	}

	conn, err := connectRabbitMQ(rabbitMQURI, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, event publishing disabled", "error", err)
		return nil
	}
	return conn
}
