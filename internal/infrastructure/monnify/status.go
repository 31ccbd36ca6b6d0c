package monnify

import "github.com/partycurrency/payment-service/internal/domain/models"

// ProviderStatus is a payment status as Monnify reports it.
type ProviderStatus string

const (
	StatusPaid      ProviderStatus = "PAID"
	StatusFailed    ProviderStatus = "FAILED"
	StatusCancelled ProviderStatus = "CANCELLED"
	StatusExpired   ProviderStatus = "EXPIRED"
	StatusPending   ProviderStatus = "PENDING"
)

// Outcome maps the provider vocabulary onto the local one. Anything that is
// neither paid nor a failure class is indeterminate and stays pending.
func (s ProviderStatus) Outcome() models.Status {
	switch s {
	case StatusPaid:
		return models.StatusSuccessful
	case StatusFailed, StatusCancelled, StatusExpired:
		return models.StatusFailed
	default:
		return models.StatusPending
	}
}
