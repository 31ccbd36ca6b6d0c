package models

import "time"

// Event is the service an end user pays for. PaymentStatus mirrors the
// outcome of the owning transaction and TransactionID holds the reconciled
// payment reference once the payment succeeds.
type Event struct {
	EventID            string    `db:"event_id" json:"event_id"`
	EventName          string    `db:"event_name" json:"event_name"`
	EventDescription   string    `db:"event_description" json:"event_description"`
	EventAuthor        string    `db:"event_author" json:"event_author"`
	StartDate          time.Time `db:"start_date" json:"start_date"`
	EndDate            time.Time `db:"end_date" json:"end_date"`
	City               string    `db:"city" json:"city"`
	StreetAddress      string    `db:"street_address" json:"street_address"`
	LGA                string    `db:"lga" json:"LGA"`
	State              string    `db:"state" json:"state"`
	DeliveryAddress    string    `db:"delivery_address" json:"delivery_address"`
	Reconciliation     bool      `db:"reconciliation" json:"reconciliation"`
	PaymentStatus      Status    `db:"payment_status" json:"payment_status"`
	TransactionID      string    `db:"transaction_id" json:"transaction_id"`
	HasReservedAccount bool      `db:"has_reserved_account" json:"has_reserved_account"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
