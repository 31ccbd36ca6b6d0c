package interactor

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/partycurrency/payment-service/internal/config"
	"github.com/partycurrency/payment-service/internal/domain/models"
	"github.com/partycurrency/payment-service/internal/domain/repositories"
	apperrors "github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/internal/usecases/dtos"
	"github.com/partycurrency/payment-service/pkg/log"
	"github.com/rs/zerolog"
)

// ReconcileInteractor brings the local ledger in line with the provider's
// authoritative state when a callback or the sweeper asks for it.
type ReconcileInteractor struct {
	transactionRepository repositories.TransactionRepository
	userRepository        repositories.UserRepository
	provider              PaymentProvider
	frontendBaseURL       string
	logger                *zerolog.Logger
}

func NewReconcileInteractor(
	transactionRepository repositories.TransactionRepository,
	userRepository repositories.UserRepository,
	provider PaymentProvider,
	frontendBaseURL string,
) *ReconcileInteractor {
	l := log.GetLogger()
	return &ReconcileInteractor{
		transactionRepository: transactionRepository,
		userRepository:        userRepository,
		provider:              provider,
		frontendBaseURL:       frontendBaseURL,
		logger:                &l,
	}
}

// redirectTag is the outcome vocabulary the frontend dashboard understands.
func redirectTag(status models.Status) string {
	switch status {
	case models.StatusSuccessful:
		return "success"
	case models.StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

func (r *ReconcileInteractor) outcome(paymentReference string, status models.Status) *dtos.ReconcileOutcomeDTO {
	redirect := fmt.Sprintf("%s/dashboard?transaction_reference=%s&status=%s",
		r.frontendBaseURL, url.QueryEscape(paymentReference), redirectTag(status))
	return &dtos.ReconcileOutcomeDTO{
		PaymentReference: paymentReference,
		Status:           string(status),
		RedirectURL:      redirect,
	}
}

// Reconcile resolves the transaction behind reference, re-queries the
// provider and applies the outcome. It is idempotent: a transaction that is
// already terminal is re-affirmed without side effects, and concurrent
// duplicate deliveries serialize through the ledger's conditional update so
// terminal side effects run exactly once.
func (r *ReconcileInteractor) Reconcile(ctx context.Context, reference string) (*dtos.ReconcileOutcomeDTO, error) {
	transaction, err := r.transactionRepository.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if transaction.Status.Terminal() {
		return r.outcome(transaction.PaymentReference, transaction.Status), nil
	}

	// The inbound notification is only a trigger; the provider's query
	// endpoint is the single source of truth.
	result, err := r.provider.QueryTransactionStatus(ctx, transaction.PaymentReference)
	if err != nil {
		// the payment may have succeeded upstream, leave the transaction
		// pending for a later re-query
		return nil, err
	}

	status := result.PaymentStatus.Outcome()
	if status == models.StatusPending {
		return r.outcome(transaction.PaymentReference, models.StatusPending), nil
	}

	row, err := r.transactionRepository.SettleWithEvent(ctx,
		transaction.PaymentReference, status, result.TransactionReference)
	if err != nil {
		return nil, err
	}

	if !row.Settled {
		// a concurrent reconciliation won the swap; re-read and re-affirm
		settled, err := r.transactionRepository.GetByReference(ctx, transaction.PaymentReference)
		if err != nil {
			return nil, err
		}
		return r.outcome(settled.PaymentReference, settled.Status), nil
	}

	if status == models.StatusSuccessful {
		// best-effort bookkeeping: the payment is durably recorded, a
		// failure here is logged and never rolls it back
		if err := r.userRepository.AddSpend(ctx, row.CustomerEmail, row.Amount); err != nil {
			r.logger.Error().Err(err).
				Str("payment_reference", row.PaymentReference).
				Str("customer_email", row.CustomerEmail).
				Msg("failed to update customer spend")
		}
	}

	return r.outcome(row.PaymentReference, status), nil
}

// SweepConfig is the parsed form of config.Sweep.
type SweepConfig struct {
	MaxAge    time.Duration
	BatchSize int
}

func ParseSweepConfig(cfg config.Sweep) SweepConfig {
	maxAge, err := strconv.Atoi(cfg.MaxAgeMinutes)
	if err != nil || maxAge <= 0 {
		maxAge = 30
	}
	batch, err := strconv.Atoi(cfg.BatchSize)
	if err != nil || batch <= 0 {
		batch = 50
	}
	return SweepConfig{
		MaxAge:    time.Duration(maxAge) * time.Minute,
		BatchSize: batch,
	}
}

// SweepPending re-queries transactions stuck in pending longer than the
// configured age. Individual failures are logged and do not stop the sweep.
func (r *ReconcileInteractor) SweepPending(ctx context.Context, cfg SweepConfig) (int, error) {
	stale, err := r.transactionRepository.ListStalePending(ctx, cfg.MaxAge, cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	settled := 0
	for _, transaction := range stale {
		outcome, err := r.Reconcile(ctx, transaction.PaymentReference)
		if err != nil {
			if _, ok := err.(*apperrors.ProviderUnavailableError); !ok {
				r.logger.Error().Err(err).
					Str("payment_reference", transaction.PaymentReference).
					Msg("sweep reconciliation failed")
			}
			continue
		}
		if outcome.Status != string(models.StatusPending) {
			settled++
		}
	}

	return settled, nil
}
