package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a payment intent in the local ledger. PaymentReference is
// minted once at creation and never reused; TransactionReference is assigned
// by the payment provider after a successful initialization. Rows are never
// deleted, failed attempts stay behind as an audit trail.
type Transaction struct {
	ID                   string          `db:"id"`
	PaymentReference     string          `db:"payment_reference"`
	TransactionReference string          `db:"transaction_reference"`
	Amount               decimal.Decimal `db:"amount"`
	CustomerName         string          `db:"customer_name"`
	CustomerEmail        string          `db:"customer_email"`
	PaymentDescription   string          `db:"payment_description"`
	CurrencyCode         string          `db:"currency_code"`
	ContractCode         string          `db:"contract_code"`
	EventID              string          `db:"event_id"`
	Status               Status          `db:"status"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

// FeeLine is one item of the price breakdown a transaction is created from.
type FeeLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}
