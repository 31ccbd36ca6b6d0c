package dtos

import (
	"github.com/partycurrency/payment-service/internal/domain/models"
)

type CreateTransactionDTO struct {
	EventID string `json:"event_id" validate:"required"`
}

// BreakdownDTO is the response to a create-transaction request: the fee
// schedule the amount was summed from plus the freshly minted reference.
type BreakdownDTO struct {
	Breakdown        []models.FeeLine `json:"breakdown"`
	Total            string           `json:"total"`
	CurrencyCode     string           `json:"currency_code"`
	PaymentReference string           `json:"payment_reference"`
}

type InitializeTransactionDTO struct {
	PaymentReference string   `json:"payment_reference" validate:"required"`
	PaymentMethods   []string `json:"payment_methods" validate:"omitempty,dive,oneof=CARD ACCOUNT_TRANSFER USSD PHONE_NUMBER"`
}

// InitializeResultDTO carries the provider's initialization response back to
// the frontend, most importantly the hosted checkout URL.
type InitializeResultDTO struct {
	PaymentReference     string `json:"payment_reference"`
	TransactionReference string `json:"transaction_reference"`
	CheckoutURL          string `json:"checkout_url"`
	Status               string `json:"status"`
}

// ReconcileOutcomeDTO is the result of one reconciliation pass. RedirectURL
// points the customer's browser at the dashboard with the outcome tag, which
// is "pending" when the provider has not settled the payment yet.
type ReconcileOutcomeDTO struct {
	PaymentReference string `json:"payment_reference"`
	Status           string `json:"status"`
	RedirectURL      string `json:"redirect_url,omitempty"`
}
