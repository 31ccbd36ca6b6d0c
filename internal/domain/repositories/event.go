package repositories

import (
	"context"

	"github.com/partycurrency/payment-service/internal/domain/models"
)

type EventRepository interface {
	Insert(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	ListByAuthor(ctx context.Context, author string) ([]models.Event, error)
	MarkReservedAccount(ctx context.Context, id string) error
}
