package repositories

import (
	"context"

	"github.com/partycurrency/payment-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// AddSpend increments the user's cumulative spend. Callers treat a
	// failure here as best-effort bookkeeping, not a reconciliation failure.
	AddSpend(ctx context.Context, email string, amount decimal.Decimal) error
}
