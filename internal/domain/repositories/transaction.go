package repositories

import (
	"context"
	"time"

	"github.com/partycurrency/payment-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

const (
	SerializationError   = "40001"
	UniqueViolationError = "23505"
)

type TransactionRepository interface {
	Insert(ctx context.Context, transaction *models.Transaction) error
	// GetByReference looks the transaction up by payment_reference first and
	// falls back to transaction_reference, since some provider callbacks only
	// carry the provider-side identifier.
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
	// AdvanceStatus performs an atomic conditional update of the status
	// column. It reports false when the compare part of the swap missed,
	// i.e. another caller already moved the row.
	AdvanceStatus(ctx context.Context, paymentReference string, from, to models.Status, transactionReference string) (bool, error)
	// SettleWithEvent moves a live transaction to a terminal status and
	// mirrors the outcome onto the linked event in one atomic statement.
	// Exactly one of any set of concurrent callers wins the swap.
	SettleWithEvent(ctx context.Context, paymentReference string, to models.Status, transactionReference string) (SettleRow, error)
	ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]models.Transaction, error)
}

// SettleRow reports the outcome of a settle attempt. Settled is false when a
// concurrent reconciliation already moved the transaction.
type SettleRow struct {
	Settled          bool
	PaymentReference string
	EventID          string
	CustomerEmail    string
	Amount           decimal.Decimal
}
