package repositories

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partycurrency/payment-service/internal/config"
	"github.com/partycurrency/payment-service/internal/domain/models"
	apperrors "github.com/partycurrency/payment-service/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

// setupDB connects to the database configured through the usual DB_* env
// vars. The tests are skipped entirely unless TEST_DATABASE is set, so the
// unit suite stays runnable without Postgres.
func setupDB(t *testing.T) {
	if os.Getenv("TEST_DATABASE") == "" {
		t.Skip("set TEST_DATABASE to run database tests")
	}

	cnf := config.Load()

	pgxConfig, err := pgxpool.ParseConfig(cnf.DSN())
	require.NoError(t, err)

	pgxConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	db, err = pgxpool.NewWithConfig(context.Background(), pgxConfig)
	require.NoError(t, err)
}

func truncateTables(t *testing.T) {
	_, err := db.Exec(context.Background(), "TRUNCATE TABLE transactions, events, users")
	require.NoError(t, err)
}

func seedEventRow(t *testing.T) string {
	eventID := "EVT" + uuid.New().String()[:8]
	_, err := db.Exec(context.Background(),
		`INSERT INTO users (email, password_hash) VALUES ($1, 'x') ON CONFLICT DO NOTHING`,
		"ada@example.com")
	require.NoError(t, err)
	_, err = db.Exec(context.Background(),
		`INSERT INTO events (event_id, event_name, event_author, start_date, end_date)
		 VALUES ($1, 'Owambe', 'ada@example.com', now(), now())`,
		eventID)
	require.NoError(t, err)
	return eventID
}

func newLedgerTransaction(eventID string) *models.Transaction {
	return &models.Transaction{
		PaymentReference: fmt.Sprintf("PC-%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8]),
		Amount:           decimal.NewFromInt(13500),
		CustomerName:     "Ada Obi",
		CustomerEmail:    "ada@example.com",
		CurrencyCode:     "NGN",
		EventID:          eventID,
		Status:           models.StatusCreated,
	}
}

func TestInsertAndGetByReference(t *testing.T) {
	setupDB(t)
	defer db.Close()
	truncateTables(t)

	repo := NewTransactionRepositoryImpl(db)
	eventID := seedEventRow(t)

	transaction := newLedgerTransaction(eventID)
	err := repo.Insert(context.Background(), transaction)
	require.NoError(t, err)
	assert.NotEmpty(t, transaction.ID)

	t.Run("by payment reference", func(t *testing.T) {
		got, err := repo.GetByReference(context.Background(), transaction.PaymentReference)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCreated, got.Status)
		assert.True(t, got.Amount.Equal(transaction.Amount))
	})

	t.Run("duplicate payment reference", func(t *testing.T) {
		dup := newLedgerTransaction(eventID)
		dup.PaymentReference = transaction.PaymentReference
		err = repo.Insert(context.Background(), dup)
		var validation *apperrors.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, err = repo.GetByReference(context.Background(), "PC-missing")
		var notFound *apperrors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("by provider reference after advance", func(t *testing.T) {
		advanced, err := repo.AdvanceStatus(context.Background(),
			transaction.PaymentReference, models.StatusCreated, models.StatusPending, "MNFY|2026|000123")
		require.NoError(t, err)
		require.True(t, advanced)

		got, err := repo.GetByReference(context.Background(), "MNFY|2026|000123")
		require.NoError(t, err)
		assert.Equal(t, transaction.PaymentReference, got.PaymentReference)
		assert.Equal(t, models.StatusPending, got.Status)
	})

	t.Run("advance misses once moved", func(t *testing.T) {
		advanced, err := repo.AdvanceStatus(context.Background(),
			transaction.PaymentReference, models.StatusCreated, models.StatusPending, "")
		require.NoError(t, err)
		assert.False(t, advanced)
	})
}

func TestGetByReferencePrefersPaymentReference(t *testing.T) {
	setupDB(t)
	defer db.Close()
	truncateTables(t)

	repo := NewTransactionRepositoryImpl(db)
	eventID := seedEventRow(t)

	direct := newLedgerTransaction(eventID)
	require.NoError(t, repo.Insert(context.Background(), direct))

	// another row whose provider reference collides with direct's payment
	// reference must never shadow the direct match
	shadow := newLedgerTransaction(eventID)
	require.NoError(t, repo.Insert(context.Background(), shadow))
	advanced, err := repo.AdvanceStatus(context.Background(),
		shadow.PaymentReference, models.StatusCreated, models.StatusPending, direct.PaymentReference)
	require.NoError(t, err)
	require.True(t, advanced)

	got, err := repo.GetByReference(context.Background(), direct.PaymentReference)
	require.NoError(t, err)
	assert.Equal(t, direct.PaymentReference, got.PaymentReference)
}

func TestSettleWithEvent(t *testing.T) {
	setupDB(t)
	defer db.Close()
	truncateTables(t)

	repo := NewTransactionRepositoryImpl(db)
	eventID := seedEventRow(t)

	transaction := newLedgerTransaction(eventID)
	transaction.Status = models.StatusPending
	require.NoError(t, repo.Insert(context.Background(), transaction))

	row, err := repo.SettleWithEvent(context.Background(),
		transaction.PaymentReference, models.StatusSuccessful, "MNFY|2026|000123")
	require.NoError(t, err)
	require.True(t, row.Settled)
	assert.Equal(t, eventID, row.EventID)
	assert.Equal(t, "ada@example.com", row.CustomerEmail)
	assert.True(t, row.Amount.Equal(transaction.Amount))

	var eventStatus, eventTransactionID string
	err = db.QueryRow(context.Background(),
		"SELECT payment_status, transaction_id FROM events WHERE event_id = $1", eventID).
		Scan(&eventStatus, &eventTransactionID)
	require.NoError(t, err)
	assert.Equal(t, "successful", eventStatus)
	assert.Equal(t, transaction.PaymentReference, eventTransactionID)

	t.Run("second settle misses", func(t *testing.T) {
		row, err = repo.SettleWithEvent(context.Background(),
			transaction.PaymentReference, models.StatusFailed, "")
		require.NoError(t, err)
		assert.False(t, row.Settled)

		got, err := repo.GetByReference(context.Background(), transaction.PaymentReference)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSuccessful, got.Status)
	})
}

func TestSettleWithEventConcurrent(t *testing.T) {
	setupDB(t)
	defer db.Close()
	truncateTables(t)

	repo := NewTransactionRepositoryImpl(db)
	eventID := seedEventRow(t)

	transaction := newLedgerTransaction(eventID)
	transaction.Status = models.StatusPending
	require.NoError(t, repo.Insert(context.Background(), transaction))

	const callers = 50
	var wg sync.WaitGroup
	settled := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			row, err := repo.SettleWithEvent(context.Background(),
				transaction.PaymentReference, models.StatusSuccessful, "MNFY|2026|000123")
			if err != nil {
				t.Error(err)
				return
			}
			settled <- row.Settled
		}()
	}
	wg.Wait()
	close(settled)

	wins := 0
	for won := range settled {
		if won {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "exactly one settle must win")
}

func TestListStalePending(t *testing.T) {
	setupDB(t)
	defer db.Close()
	truncateTables(t)

	repo := NewTransactionRepositoryImpl(db)
	eventID := seedEventRow(t)

	stale := newLedgerTransaction(eventID)
	stale.Status = models.StatusPending
	require.NoError(t, repo.Insert(context.Background(), stale))
	_, err := db.Exec(context.Background(),
		"UPDATE transactions SET updated_at = now() - INTERVAL '1 hour' WHERE payment_reference = $1",
		stale.PaymentReference)
	require.NoError(t, err)

	fresh := newLedgerTransaction(eventID)
	fresh.Status = models.StatusPending
	require.NoError(t, repo.Insert(context.Background(), fresh))

	terminal := newLedgerTransaction(eventID)
	terminal.Status = models.StatusFailed
	require.NoError(t, repo.Insert(context.Background(), terminal))

	transactions, err := repo.ListStalePending(context.Background(), 30*time.Minute, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, stale.PaymentReference, transactions[0].PaymentReference)
}
