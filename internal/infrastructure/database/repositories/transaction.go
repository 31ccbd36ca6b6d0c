package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partycurrency/payment-service/internal/domain/models"
	"github.com/partycurrency/payment-service/internal/domain/repositories"
	apperrors "github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/pkg/log"
	"github.com/rs/zerolog"
)

type TransactionRepositoryImpl struct {
	db     *pgxpool.Pool
	logger *zerolog.Logger
}

// NewTransactionRepositoryImpl creates new instance of TransactionRepositoryImpl.
func NewTransactionRepositoryImpl(db *pgxpool.Pool) repositories.TransactionRepository {
	l := log.GetLogger()
	return &TransactionRepositoryImpl{
		db:     db,
		logger: &l,
	}
}

const insertTransaction = `
INSERT INTO transactions
  (payment_reference, transaction_reference, amount, customer_name, customer_email,
   payment_description, currency_code, contract_code, event_id, status)
VALUES ($1, $2, $3::NUMERIC(12,2), $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at, updated_at;`

func (r *TransactionRepositoryImpl) Insert(ctx context.Context, transaction *models.Transaction) error {
	err := r.db.QueryRow(ctx, insertTransaction,
		transaction.PaymentReference,
		transaction.TransactionReference,
		transaction.Amount,
		transaction.CustomerName,
		transaction.CustomerEmail,
		transaction.PaymentDescription,
		transaction.CurrencyCode,
		transaction.ContractCode,
		transaction.EventID,
		string(transaction.Status),
	).Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == repositories.UniqueViolationError {
			return apperrors.NewValidationError("payment reference already exists")
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

const selectByReference = `
SELECT id, payment_reference, transaction_reference, amount, customer_name, customer_email,
       payment_description, currency_code, contract_code, event_id, status, created_at, updated_at
FROM transactions
WHERE payment_reference = $1
   OR (transaction_reference = $1 AND transaction_reference <> '')
ORDER BY (payment_reference = $1) DESC
LIMIT 1;`

// GetByReference resolves a transaction by payment_reference, falling back to
// the provider-assigned transaction_reference.
func (r *TransactionRepositoryImpl) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var status string
	err := r.db.QueryRow(ctx, selectByReference, reference).Scan(
		&tx.ID, &tx.PaymentReference, &tx.TransactionReference, &tx.Amount,
		&tx.CustomerName, &tx.CustomerEmail, &tx.PaymentDescription,
		&tx.CurrencyCode, &tx.ContractCode, &tx.EventID, &status,
		&tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction")
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	if tx.Status = models.Status(status); !tx.Status.Valid() {
		return nil, fmt.Errorf("transaction %s has unknown status %q", tx.PaymentReference, status)
	}
	return tx, nil
}

const advanceStatus = `
UPDATE transactions
SET status = $3,
    transaction_reference = CASE WHEN $4 <> '' THEN $4 ELSE transaction_reference END,
    updated_at = now()
WHERE payment_reference = $1 AND status = $2;`

// AdvanceStatus is a conditional compare-and-swap on the status column. A
// miss means another caller already moved the row.
func (r *TransactionRepositoryImpl) AdvanceStatus(ctx context.Context, paymentReference string, from, to models.Status, transactionReference string) (bool, error) {
	tag, err := r.db.Exec(ctx, advanceStatus, paymentReference, string(from), string(to), transactionReference)
	if err != nil {
		return false, fmt.Errorf("advance status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

const settleWithEvent = `
WITH settled AS (
  UPDATE transactions
  SET status = $2,
      transaction_reference = CASE WHEN $3 <> '' THEN $3 ELSE transaction_reference END,
      updated_at = now()
  WHERE payment_reference = $1
    AND status IN ('created', 'pending')
  RETURNING payment_reference, event_id, customer_email, amount
),
mirrored AS (
  UPDATE events
  SET payment_status = $2,
      transaction_id = CASE WHEN $2 = 'successful'
                            THEN (SELECT payment_reference FROM settled)
                            ELSE transaction_id END,
      updated_at = now()
  WHERE event_id = (SELECT event_id FROM settled)
  RETURNING event_id
)
SELECT s.payment_reference, s.event_id, s.customer_email, s.amount
FROM settled s;`

// SettleWithEvent moves a live transaction to a terminal status and mirrors
// the outcome onto the linked event in one statement. Duplicate callback
// deliveries serialize here: only the caller whose conditional update hits
// gets Settled=true, so terminal side effects run exactly once.
func (r *TransactionRepositoryImpl) SettleWithEvent(ctx context.Context, paymentReference string, to models.Status, transactionReference string) (repositories.SettleRow, error) {
	args := []interface{}{paymentReference, string(to), transactionReference}

	var row repositories.SettleRow
	var err error
	for {
		row, err = r.settleWithQuery(ctx, settleWithEvent, args...)

		if err == nil {
			return row, nil
		}

		if isSerializationError(err) {
			// retry transaction if serialization error occurs (SQLSTATE 40001)
			continue
		}
		if errors.Is(err, pgx.ErrNoRows) {
			// another reconciliation already settled the row
			return repositories.SettleRow{Settled: false}, nil
		}
		return row, fmt.Errorf("settle transaction: %w", err)
	}
}

func (r *TransactionRepositoryImpl) settleWithQuery(ctx context.Context, query string, args ...interface{}) (repositories.SettleRow, error) {
	var row repositories.SettleRow
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return row, err
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&row.PaymentReference, &row.EventID, &row.CustomerEmail, &row.Amount)
	if err != nil {
		tx.Rollback(ctx)
		return row, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		tx.Rollback(ctx)
		return row, err
	}

	row.Settled = true
	return row, nil
}

const selectStalePending = `
SELECT id, payment_reference, transaction_reference, amount, customer_name, customer_email,
       payment_description, currency_code, contract_code, event_id, status, created_at, updated_at
FROM transactions
WHERE status = 'pending' AND updated_at < $1
ORDER BY updated_at
LIMIT $2;`

// ListStalePending returns pending transactions that have not moved for
// olderThan, oldest first. The sweeper re-queries these against the provider.
func (r *TransactionRepositoryImpl) ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx, selectStalePending, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, fmt.Errorf("list stale pending: %w", err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var tx models.Transaction
		var status string
		err = rows.Scan(
			&tx.ID, &tx.PaymentReference, &tx.TransactionReference, &tx.Amount,
			&tx.CustomerName, &tx.CustomerEmail, &tx.PaymentDescription,
			&tx.CurrencyCode, &tx.ContractCode, &tx.EventID, &status,
			&tx.CreatedAt, &tx.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tx.Status = models.Status(status)
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == repositories.SerializationError
}
