package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partycurrency/payment-service/internal/domain/models"
	"github.com/partycurrency/payment-service/internal/domain/repositories"
	apperrors "github.com/partycurrency/payment-service/internal/errors"
)

type EventRepositoryImpl struct {
	db *pgxpool.Pool
}

func NewEventRepositoryImpl(db *pgxpool.Pool) repositories.EventRepository {
	return &EventRepositoryImpl{
		db: db,
	}
}

const insertEvent = `
INSERT INTO events
  (event_id, event_name, event_description, event_author, start_date, end_date,
   city, street_address, lga, state, delivery_address, reconciliation, payment_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING created_at, updated_at;`

func (r *EventRepositoryImpl) Insert(ctx context.Context, event *models.Event) error {
	err := r.db.QueryRow(ctx, insertEvent,
		event.EventID,
		event.EventName,
		event.EventDescription,
		event.EventAuthor,
		event.StartDate,
		event.EndDate,
		event.City,
		event.StreetAddress,
		event.LGA,
		event.State,
		event.DeliveryAddress,
		event.Reconciliation,
		string(event.PaymentStatus),
	).Scan(&event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

const selectEvent = `
SELECT event_id, event_name, event_description, event_author, start_date, end_date,
       city, street_address, lga, state, delivery_address, reconciliation,
       payment_status, transaction_id, has_reserved_account, created_at, updated_at
FROM events`

func (r *EventRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Event, error) {
	event := &models.Event{}
	var status string
	err := r.db.QueryRow(ctx, selectEvent+" WHERE event_id = $1", id).Scan(
		&event.EventID, &event.EventName, &event.EventDescription, &event.EventAuthor,
		&event.StartDate, &event.EndDate, &event.City, &event.StreetAddress,
		&event.LGA, &event.State, &event.DeliveryAddress, &event.Reconciliation,
		&status, &event.TransactionID, &event.HasReservedAccount,
		&event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("event")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	event.PaymentStatus = models.Status(status)
	return event, nil
}

func (r *EventRepositoryImpl) ListByAuthor(ctx context.Context, author string) ([]models.Event, error) {
	rows, err := r.db.Query(ctx, selectEvent+" WHERE event_author = $1 ORDER BY created_at DESC", author)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var event models.Event
		var status string
		err = rows.Scan(
			&event.EventID, &event.EventName, &event.EventDescription, &event.EventAuthor,
			&event.StartDate, &event.EndDate, &event.City, &event.StreetAddress,
			&event.LGA, &event.State, &event.DeliveryAddress, &event.Reconciliation,
			&status, &event.TransactionID, &event.HasReservedAccount,
			&event.CreatedAt, &event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		event.PaymentStatus = models.Status(status)
		events = append(events, event)
	}

	return events, rows.Err()
}

func (r *EventRepositoryImpl) MarkReservedAccount(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE events SET has_reserved_account = TRUE, updated_at = now() WHERE event_id = $1",
		id,
	)
	if err != nil {
		return fmt.Errorf("mark reserved account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("event")
	}
	return nil
}
