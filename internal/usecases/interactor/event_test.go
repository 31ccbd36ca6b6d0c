package interactor

import (
	"context"
	"strings"
	"testing"

	"github.com/partycurrency/payment-service/internal/domain/models"
	apperrors "github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/internal/usecases/dtos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEventDTO() *dtos.CreateEventDTO {
	return &dtos.CreateEventDTO{
		EventName:             "Owambe",
		EventType:             "wedding",
		StartDate:             "2026-10-10",
		EndDate:               "2026-10-11",
		City:                  "Lagos",
		StreetAddress:         "1 Allen Avenue",
		LGA:                   "Ikeja",
		State:                 "Lagos",
		ReconciliationService: true,
	}
}

func TestCreateEvent(t *testing.T) {
	store := newFakeStore()
	interactor := NewEventInteractor(&fakeEventRepo{store: store})

	event, err := interactor.Create(context.Background(), "ada@example.com", validEventDTO())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(event.EventID, "EVT"))
	assert.Len(t, event.EventID, 11)
	assert.Equal(t, "ada@example.com", event.EventAuthor)
	assert.True(t, event.Reconciliation)
	assert.Equal(t, models.StatusPending, event.PaymentStatus)

	stored, err := interactor.Get(context.Background(), event.EventID)
	require.NoError(t, err)
	assert.Equal(t, event.EventName, stored.EventName)
}

func TestCreateEventRejectsBadDates(t *testing.T) {
	store := newFakeStore()
	interactor := NewEventInteractor(&fakeEventRepo{store: store})

	dto := validEventDTO()
	dto.StartDate = "10/10/2026"
	_, err := interactor.Create(context.Background(), "ada@example.com", dto)
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)

	dto = validEventDTO()
	dto.EndDate = "2026-10-09"
	_, err = interactor.Create(context.Background(), "ada@example.com", dto)
	assert.ErrorAs(t, err, &validation)
	assert.Empty(t, store.events)
}

func TestListEventsByAuthor(t *testing.T) {
	store := newFakeStore()
	interactor := NewEventInteractor(&fakeEventRepo{store: store})

	_, err := interactor.Create(context.Background(), "ada@example.com", validEventDTO())
	require.NoError(t, err)
	_, err = interactor.Create(context.Background(), "ada@example.com", validEventDTO())
	require.NoError(t, err)
	_, err = interactor.Create(context.Background(), "bola@example.com", validEventDTO())
	require.NoError(t, err)

	events, err := interactor.ListByAuthor(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
