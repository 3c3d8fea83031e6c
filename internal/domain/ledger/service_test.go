package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pybank/internal/domain/account"
	"pybank/internal/domain/ledger"
	"pybank/internal/pkg/apperrors"
	"pybank/internal/pkg/clock"
)

var fixedNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func setupTest(t *testing.T, existing []ledger.Transaction) (*ledger.MockTransactionRepository, *ledger.MockAccountRepository, ledger.LedgerService) {
	t.Helper()
	txRepo := new(ledger.MockTransactionRepository)
	accRepo := new(ledger.MockAccountRepository)
	txRepo.On("List", mock.Anything).Return(existing, nil).Once()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service, err := ledger.NewLedgerService(txRepo, accRepo, nil, clock.Fixed(fixedNow), logger)
	require.NoError(t, err)
	return txRepo, accRepo, service
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newChecking(t *testing.T, number, balance, overdraft string) *account.Checking {
	t.Helper()
	acc, err := account.NewChecking(number, "CUS_00001", "John Doe", dec(balance), dec(overdraft), fixedNow)
	require.NoError(t, err)
	return acc
}

func TestLedgerService_Deposit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		txRepo, accRepo, service := setupTest(t, nil)
		acc := newChecking(t, "ACC_00001", "100", "500")

		accRepo.On("Get", ctx, "ACC_00001").Return(acc, nil).Once()
		accRepo.On("Update", ctx, acc).Return(nil).Once()
		txRepo.On("Append", ctx, mock.AnythingOfType("ledger.Transaction")).Return(nil).Once()

		tx, err := service.Deposit(ctx, "ACC_00001", dec("20"), "jdoe")

		require.NoError(t, err)
		assert.Equal(t, "TXN_DEPO_00001", tx.ID)
		assert.Equal(t, ledger.KindDeposit, tx.Type)
		assert.Equal(t, "ACC_00001", tx.AccountNumber)
		assert.Equal(t, "jdoe", tx.User)
		assert.Equal(t, "2024-01-15 10:00:00", tx.Timestamp.String())
		assert.Equal(t, "120", acc.Balance().String())
		txRepo.AssertExpectations(t)
		accRepo.AssertExpectations(t)
	})

	t.Run("Error - Invalid Amount Writes Nothing", func(t *testing.T) {
		txRepo, accRepo, service := setupTest(t, nil)
		acc := newChecking(t, "ACC_00001", "100", "500")
		accRepo.On("Get", ctx, "ACC_00001").Return(acc, nil).Once()

		_, err := service.Deposit(ctx, "ACC_00001", dec("-5"), "jdoe")

		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
		accRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		txRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("Error - Unknown Account", func(t *testing.T) {
		_, accRepo, service := setupTest(t, nil)
		accRepo.On("Get", ctx, "ACC_99999").Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.Deposit(ctx, "ACC_99999", dec("20"), "jdoe")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestLedgerService_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("checking can draw into its overdraft", func(t *testing.T) {
		txRepo, accRepo, service := setupTest(t, nil)
		acc := newChecking(t, "ACC_00001", "120", "50")

		accRepo.On("Get", ctx, "ACC_00001").Return(acc, nil).Once()
		accRepo.On("Update", ctx, acc).Return(nil).Once()
		txRepo.On("Append", ctx, mock.AnythingOfType("ledger.Transaction")).Return(nil).Once()

		tx, err := service.Withdraw(ctx, "ACC_00001", dec("170"), "jdoe")

		require.NoError(t, err)
		assert.Equal(t, "TXN_WITH_00001", tx.ID)
		assert.Equal(t, "-50", acc.Balance().String())
	})

	t.Run("rejected withdrawal leaves the balance and the log untouched", func(t *testing.T) {
		txRepo, accRepo, service := setupTest(t, nil)
		acc := newChecking(t, "ACC_00001", "120", "50")
		accRepo.On("Get", ctx, "ACC_00001").Return(acc, nil).Once()

		_, err := service.Withdraw(ctx, "ACC_00001", dec("180"), "jdoe")

		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
		assert.Equal(t, "120", acc.Balance().String())
		txRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("savings withdrawal limit is enforced through the ledger", func(t *testing.T) {
		txRepo, accRepo, service := setupTest(t, nil)
		savings, err := account.NewSavings("ACC_00002", "CUS_00001", "John Doe", dec("1000"), dec("0.03"), 1, fixedNow)
		require.NoError(t, err)

		accRepo.On("Get", ctx, "ACC_00002").Return(savings, nil).Twice()
		accRepo.On("Update", ctx, savings).Return(nil).Once()
		txRepo.On("Append", ctx, mock.AnythingOfType("ledger.Transaction")).Return(nil).Once()

		_, err = service.Withdraw(ctx, "ACC_00002", dec("10"), "jdoe")
		require.NoError(t, err)

		_, err = service.Withdraw(ctx, "ACC_00002", dec("10"), "jdoe")
		assert.ErrorIs(t, err, apperrors.ErrWithdrawalLimitExceeded)
		assert.Equal(t, "990", savings.Balance().String())
	})
}

func TestLedgerService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		txRepo, accRepo, service := setupTest(t, nil)
		from := newChecking(t, "ACC_00001", "100", "0")
		to := newChecking(t, "ACC_00002", "50", "0")

		accRepo.On("Get", ctx, "ACC_00001").Return(from, nil).Once()
		accRepo.On("Get", ctx, "ACC_00002").Return(to, nil).Once()
		accRepo.On("Update", ctx, from).Return(nil).Once()
		accRepo.On("Update", ctx, to).Return(nil).Once()
		txRepo.On("Append", ctx, mock.AnythingOfType("ledger.Transaction")).Return(nil).Once()

		tx, err := service.Transfer(ctx, "ACC_00001", "ACC_00002", dec("30"), "jdoe")

		require.NoError(t, err)
		assert.Equal(t, "TXN_TRAN_00001", tx.ID)
		assert.Equal(t, "ACC_00001", tx.FromAccountNumber)
		assert.Equal(t, "ACC_00002", tx.ToAccountNumber)
		assert.Empty(t, tx.AccountNumber)
		assert.Equal(t, "70", from.Balance().String())
		assert.Equal(t, "80", to.Balance().String())
		txRepo.AssertExpectations(t)
		accRepo.AssertExpectations(t)
	})

	t.Run("failed debit leaves both balances unchanged and appends nothing", func(t *testing.T) {
		txRepo, accRepo, service := setupTest(t, nil)
		from := newChecking(t, "ACC_00001", "10", "0")
		to := newChecking(t, "ACC_00002", "50", "0")

		accRepo.On("Get", ctx, "ACC_00001").Return(from, nil).Once()
		accRepo.On("Get", ctx, "ACC_00002").Return(to, nil).Once()

		_, err := service.Transfer(ctx, "ACC_00001", "ACC_00002", dec("30"), "jdoe")

		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
		assert.Equal(t, "10", from.Balance().String())
		assert.Equal(t, "50", to.Balance().String())
		accRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		txRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("unknown destination aborts before the source is debited", func(t *testing.T) {
		txRepo, accRepo, service := setupTest(t, nil)
		from := newChecking(t, "ACC_00001", "100", "0")

		accRepo.On("Get", ctx, "ACC_00001").Return(from, nil).Once()
		accRepo.On("Get", ctx, "ACC_99999").Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.Transfer(ctx, "ACC_00001", "ACC_99999", dec("30"), "jdoe")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Equal(t, "100", from.Balance().String())
		txRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestLedgerService_Queries(t *testing.T) {
	ctx := context.Background()

	at := func(ts string) clock.Time {
		parsed, err := time.Parse(clock.Layout, ts)
		if err != nil {
			panic(err)
		}
		return clock.At(parsed)
	}

	log := []ledger.Transaction{
		{ID: "TXN_DEPO_00001", AccountNumber: "ACC_00001", Type: ledger.KindDeposit, Amount: dec("100"), User: "jdoe", Timestamp: at("2024-01-10 09:00:00")},
		{ID: "TXN_WITH_00001", AccountNumber: "ACC_00002", Type: ledger.KindWithdraw, Amount: dec("40"), User: "asmith", Timestamp: at("2024-01-12 09:00:00")},
		{ID: "TXN_TRAN_00001", FromAccountNumber: "ACC_00001", ToAccountNumber: "ACC_00002", Type: ledger.KindTransfer, Amount: dec("25"), User: "jdoe", Timestamp: at("2024-01-14 09:00:00")},
	}

	t.Run("all records", func(t *testing.T) {
		txRepo, _, service := setupTest(t, log)
		txRepo.On("List", ctx).Return(log, nil)

		txs, err := service.Transactions(ctx, "")
		require.NoError(t, err)
		assert.Len(t, txs, 3)
	})

	t.Run("account filter matches either side of a transfer", func(t *testing.T) {
		txRepo, _, service := setupTest(t, log)
		txRepo.On("List", ctx).Return(log, nil)

		txs, err := service.Transactions(ctx, "ACC_00002")
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, "TXN_WITH_00001", txs[0].ID)
		assert.Equal(t, "TXN_TRAN_00001", txs[1].ID)
	})

	t.Run("date range is inclusive on both ends", func(t *testing.T) {
		txRepo, _, service := setupTest(t, log)
		txRepo.On("List", ctx).Return(log, nil)

		start, _ := time.Parse(clock.Layout, "2024-01-10 09:00:00")
		end, _ := time.Parse(clock.Layout, "2024-01-12 09:00:00")

		txs, err := service.TransactionsByDate(ctx, start, end, "")
		require.NoError(t, err)
		assert.Len(t, txs, 2)
	})

	t.Run("by type", func(t *testing.T) {
		txRepo, _, service := setupTest(t, log)
		txRepo.On("List", ctx).Return(log, nil)

		txs, err := service.TransactionsByType(ctx, ledger.KindTransfer, "")
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "TXN_TRAN_00001", txs[0].ID)
	})

	t.Run("by user", func(t *testing.T) {
		txRepo, _, service := setupTest(t, log)
		txRepo.On("List", ctx).Return(log, nil)

		txs, err := service.TransactionsByUser(ctx, "jdoe", "")
		require.NoError(t, err)
		assert.Len(t, txs, 2)
	})

	t.Run("by customer resolves the customer's accounts", func(t *testing.T) {
		txRepo, accRepo, service := setupTest(t, log)
		txRepo.On("List", ctx).Return(log, nil)

		owned := newChecking(t, "ACC_00002", "0", "0")
		accRepo.On("ListByCustomer", ctx, "CUS_00001").Return([]account.Account{owned}, nil).Once()

		txs, err := service.TransactionsByCustomer(ctx, "CUS_00001", "")
		require.NoError(t, err)
		assert.Len(t, txs, 2)
	})
}

func TestLedgerService_SeedsFromExistingLog(t *testing.T) {
	ctx := context.Background()

	existing := []ledger.Transaction{
		{ID: "TXN_DEPO_00009", AccountNumber: "ACC_00001", Type: ledger.KindDeposit, Amount: dec("1"), User: "jdoe", Timestamp: clock.At(fixedNow)},
	}
	txRepo, accRepo, service := setupTest(t, existing)
	acc := newChecking(t, "ACC_00001", "100", "0")

	accRepo.On("Get", ctx, "ACC_00001").Return(acc, nil).Once()
	accRepo.On("Update", ctx, acc).Return(nil).Once()
	txRepo.On("Append", ctx, mock.AnythingOfType("ledger.Transaction")).Return(nil).Once()

	tx, err := service.Deposit(ctx, "ACC_00001", dec("20"), "jdoe")

	require.NoError(t, err)
	assert.Equal(t, "TXN_DEPO_00010", tx.ID)
}
