package interactor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partycurrency/payment-service/internal/domain/models"
	"github.com/partycurrency/payment-service/internal/domain/repositories"
	apperrors "github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/internal/infrastructure/monnify"
	"github.com/partycurrency/payment-service/internal/usecases/dtos"
	"github.com/partycurrency/payment-service/pkg/log"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PaymentProvider is the slice of the gateway client the transaction flow
// needs.
type PaymentProvider interface {
	InitTransaction(ctx context.Context, tx *models.Transaction, redirectURL string, paymentMethods []string) (*monnify.InitTransactionResult, error)
	QueryTransactionStatus(ctx context.Context, paymentReference string) (*monnify.QueryResult, error)
}

// Fixed fee schedule a transaction amount is summed from. The reconciliation
// line only applies to events that opted into the reconciliation service.
var (
	printingFee       = decimal.NewFromInt(10000)
	deliveryFee       = decimal.NewFromInt(3500)
	reconciliationFee = decimal.NewFromInt(1500)
)

type Customer struct {
	Name  string
	Email string
}

type TransactionInteractor struct {
	transactionRepository repositories.TransactionRepository
	eventRepository       repositories.EventRepository
	provider              PaymentProvider
	contractCode          string
	callbackURL           string
	logger                *zerolog.Logger
}

func NewTransactionInteractor(
	transactionRepository repositories.TransactionRepository,
	eventRepository repositories.EventRepository,
	provider PaymentProvider,
	contractCode string,
	callbackURL string,
) *TransactionInteractor {
	l := log.GetLogger()
	return &TransactionInteractor{
		transactionRepository: transactionRepository,
		eventRepository:       eventRepository,
		provider:              provider,
		contractCode:          contractCode,
		callbackURL:           callbackURL,
		logger:                &l,
	}
}

// newPaymentReference mints a reference that is unique for the lifetime of
// the ledger: a monotonic clock value plus a short random suffix.
func newPaymentReference() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("PC-%d-%s", time.Now().UnixMilli(), suffix)
}

// Create computes the price breakdown for an event's services and persists a
// payment intent in status created.
func (i *TransactionInteractor) Create(ctx context.Context, customer Customer, dto *dtos.CreateTransactionDTO) (*dtos.BreakdownDTO, error) {
	event, err := i.eventRepository.GetByID(ctx, dto.EventID)
	if err != nil {
		if _, ok := err.(*apperrors.NotFoundError); ok {
			return nil, apperrors.NewValidationError("event does not exist")
		}
		return nil, err
	}

	breakdown := []models.FeeLine{
		{Label: "currency_printing", Amount: printingFee},
		{Label: "delivery", Amount: deliveryFee},
	}
	if event.Reconciliation {
		breakdown = append(breakdown, models.FeeLine{Label: "reconciliation_service", Amount: reconciliationFee})
	}

	total := decimal.Zero
	for _, line := range breakdown {
		total = total.Add(line.Amount)
	}

	transaction := &models.Transaction{
		PaymentReference:   newPaymentReference(),
		Amount:             total,
		CustomerName:       customer.Name,
		CustomerEmail:      customer.Email,
		PaymentDescription: fmt.Sprintf("Party currency for %s", event.EventName),
		CurrencyCode:       "NGN",
		ContractCode:       i.contractCode,
		EventID:            event.EventID,
		Status:             models.StatusCreated,
	}

	if err = i.transactionRepository.Insert(ctx, transaction); err != nil {
		return nil, err
	}

	return &dtos.BreakdownDTO{
		Breakdown:        breakdown,
		Total:            total.StringFixed(2),
		CurrencyCode:     transaction.CurrencyCode,
		PaymentReference: transaction.PaymentReference,
	}, nil
}

// Initialize submits a created transaction to the payment provider. On a
// provider-reported failure the transaction and its event are marked failed
// and the provider's message is surfaced verbatim. A provider outage leaves
// the transaction in created so the caller can retry initialization.
func (i *TransactionInteractor) Initialize(ctx context.Context, dto *dtos.InitializeTransactionDTO) (*dtos.InitializeResultDTO, error) {
	transaction, err := i.transactionRepository.GetByReference(ctx, dto.PaymentReference)
	if err != nil {
		return nil, err
	}

	if !transaction.Status.CanTransition(models.StatusPending) {
		return nil, apperrors.NewInvalidTransitionError(string(transaction.Status), string(models.StatusPending))
	}

	result, err := i.provider.InitTransaction(ctx, transaction, i.callbackURL, dto.PaymentMethods)
	if err != nil {
		if declined, ok := err.(*apperrors.ProviderDeclinedError); ok {
			if _, settleErr := i.transactionRepository.SettleWithEvent(ctx, transaction.PaymentReference, models.StatusFailed, ""); settleErr != nil {
				i.logger.Error().Err(settleErr).
					Str("payment_reference", transaction.PaymentReference).
					Msg("failed to mark declined transaction")
			}
			return nil, declined
		}
		return nil, err
	}

	advanced, err := i.transactionRepository.AdvanceStatus(ctx,
		transaction.PaymentReference, models.StatusCreated, models.StatusPending, result.TransactionReference)
	if err != nil {
		return nil, err
	}
	if !advanced {
		// a concurrent initialize already moved it; the provider reference
		// recorded by the winner stands
		i.logger.Warn().
			Str("payment_reference", transaction.PaymentReference).
			Msg("transaction already initialized")
	}

	return &dtos.InitializeResultDTO{
		PaymentReference:     transaction.PaymentReference,
		TransactionReference: result.TransactionReference,
		CheckoutURL:          result.CheckoutURL,
		Status:               string(models.StatusPending),
	}, nil
}
