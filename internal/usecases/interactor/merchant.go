package interactor

import (
	"context"

	"github.com/partycurrency/payment-service/internal/domain/models"
	"github.com/partycurrency/payment-service/internal/domain/repositories"
	"github.com/partycurrency/payment-service/internal/infrastructure/monnify"
	"github.com/partycurrency/payment-service/internal/usecases/dtos"
	"github.com/partycurrency/payment-service/pkg/log"
	"github.com/rs/zerolog"
)

// AccountProvider is the reserved-account slice of the gateway client.
type AccountProvider interface {
	CreateReservedAccount(ctx context.Context, event *models.Event, customerName, bvn string) (*monnify.ReservedAccount, error)
	DeleteReservedAccount(ctx context.Context, accountReference string) error
	GetReservedAccountTransactions(ctx context.Context, accountReference string, page, size int) ([]monnify.AccountTransaction, error)
}

type MerchantInteractor struct {
	eventRepository repositories.EventRepository
	provider        AccountProvider
	logger          *zerolog.Logger
}

func NewMerchantInteractor(eventRepository repositories.EventRepository, provider AccountProvider) *MerchantInteractor {
	l := log.GetLogger()
	return &MerchantInteractor{
		eventRepository: eventRepository,
		provider:        provider,
		logger:          &l,
	}
}

// CreateReservedAccount provisions a dedicated virtual account for an event
// and flags the event once the provider confirms it.
func (m *MerchantInteractor) CreateReservedAccount(ctx context.Context, dto *dtos.ReservedAccountDTO) (*monnify.ReservedAccount, error) {
	event, err := m.eventRepository.GetByID(ctx, dto.EventID)
	if err != nil {
		return nil, err
	}

	account, err := m.provider.CreateReservedAccount(ctx, event, dto.CustomerName, dto.BVN)
	if err != nil {
		return nil, err
	}

	if err = m.eventRepository.MarkReservedAccount(ctx, event.EventID); err != nil {
		// the provider-side account exists either way, only the local flag
		// is stale
		m.logger.Error().Err(err).
			Str("event_id", event.EventID).
			Msg("failed to flag reserved account")
	}
	return account, nil
}

func (m *MerchantInteractor) DeleteReservedAccount(ctx context.Context, accountReference string) error {
	return m.provider.DeleteReservedAccount(ctx, accountReference)
}

func (m *MerchantInteractor) ListAccountTransactions(ctx context.Context, accountReference string) ([]monnify.AccountTransaction, error) {
	return m.provider.GetReservedAccountTransactions(ctx, accountReference, 0, 1000)
}
