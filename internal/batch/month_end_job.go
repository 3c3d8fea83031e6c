package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"pybank/internal/domain/account"
)

// MonthEndJob applies interest to checking and savings accounts and resets
// the savings monthly withdrawal counters. Interest application has no
// internal once-per-period guard; the cron schedule is what makes it monthly.
type MonthEndJob struct {
	accountService account.AccountService
	checkingRate   decimal.Decimal
	logger         *slog.Logger
}

func NewMonthEndJob(accountService account.AccountService, checkingRate decimal.Decimal, logger *slog.Logger) *MonthEndJob {
	if accountService == nil || logger == nil {
		panic("MonthEndJob dependencies cannot be nil")
	}
	return &MonthEndJob{
		accountService: accountService,
		checkingRate:   checkingRate,
		logger:         logger.With("job", "MonthEnd"),
	}
}

func (j *MonthEndJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting month-end interest and reset job.")

	accounts, err := j.accountService.ListAccounts(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list accounts, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list accounts: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched accounts.", slog.Int("count", len(accounts)))

	var processedCount, errorCount int
	for _, acc := range accounts {
		if ctx.Err() != nil {
			j.logger.WarnContext(ctx, "Job cancelled before completion.", slog.Any("error", ctx.Err()))
			return ctx.Err()
		}

		logCtx := j.logger.With(slog.String("accountNumber", acc.Number()))

		switch a := acc.(type) {
		case *account.Checking:
			a.ApplyInterest(j.checkingRate)
		case *account.Savings:
			a.ApplyInterest()
			a.ResetWithdrawalsThisMonth()
		default:
			// Loan principal is untouched by the month-end cycle.
			continue
		}

		if err := j.accountService.UpdateAccount(ctx, acc); err != nil {
			logCtx.ErrorContext(ctx, "Failed to persist account after month-end update", slog.Any("error", err))
			errorCount++
			continue
		}
		processedCount++
		logCtx.DebugContext(ctx, "Month-end update applied", slog.String("newBalance", acc.Balance().String()))
	}

	j.logger.InfoContext(ctx, "Month-end job finished.",
		slog.Int("processed", processedCount),
		slog.Int("errors", errorCount),
		slog.Duration("duration", time.Since(startTime)))

	if errorCount > 0 {
		return fmt.Errorf("month-end job completed with %d errors", errorCount)
	}
	return nil
}
