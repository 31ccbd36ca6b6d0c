package interactor

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partycurrency/payment-service/internal/domain/models"
	"github.com/partycurrency/payment-service/internal/domain/repositories"
	apperrors "github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/internal/usecases/dtos"
)

const eventDateLayout = "2006-01-02"

type EventInteractor struct {
	eventRepository repositories.EventRepository
}

func NewEventInteractor(eventRepository repositories.EventRepository) *EventInteractor {
	return &EventInteractor{eventRepository: eventRepository}
}

func newEventID() string {
	return "EVT" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

func (i *EventInteractor) Create(ctx context.Context, author string, dto *dtos.CreateEventDTO) (*models.Event, error) {
	startDate, err := time.Parse(eventDateLayout, dto.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid start date format, use YYYY-MM-DD")
	}
	endDate, err := time.Parse(eventDateLayout, dto.EndDate)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid end date format, use YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return nil, apperrors.NewValidationError("end date cannot be before start date")
	}

	event := &models.Event{
		EventID:          newEventID(),
		EventName:        dto.EventName,
		EventDescription: dto.EventType,
		EventAuthor:      author,
		StartDate:        startDate,
		EndDate:          endDate,
		City:             dto.City,
		StreetAddress:    dto.StreetAddress,
		LGA:              dto.LGA,
		State:            dto.State,
		DeliveryAddress:  dto.DeliveryAddress,
		Reconciliation:   dto.ReconciliationService,
		PaymentStatus:    models.StatusPending,
	}

	if err = i.eventRepository.Insert(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (i *EventInteractor) Get(ctx context.Context, id string) (*models.Event, error) {
	return i.eventRepository.GetByID(ctx, id)
}

func (i *EventInteractor) ListByAuthor(ctx context.Context, author string) ([]models.Event, error) {
	return i.eventRepository.ListByAuthor(ctx, author)
}
