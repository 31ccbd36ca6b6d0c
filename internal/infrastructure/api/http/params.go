package http

const (
	EventIDParam          = "eventID"
	AccountReferenceParam = "accountReference"
)

// CallbackReferenceParams are the query parameter names a payment identifier
// may arrive under; the provider's redirect and webhook contracts are not
// consistent about it.
var CallbackReferenceParams = []string{"paymentReference", "payment_reference", "reference"}
