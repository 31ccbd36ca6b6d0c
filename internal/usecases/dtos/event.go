package dtos

type CreateEventDTO struct {
	EventName             string `json:"event_name" validate:"required"`
	EventType             string `json:"event_type" validate:"required"`
	StartDate             string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate               string `json:"end_date" validate:"required,datetime=2006-01-02"`
	City                  string `json:"city" validate:"required"`
	StreetAddress         string `json:"street_address" validate:"required"`
	LGA                   string `json:"LGA" validate:"required"`
	State                 string `json:"state" validate:"required"`
	DeliveryAddress       string `json:"delivery_address"`
	ReconciliationService bool   `json:"reconciliation_service"`
}

type ReservedAccountDTO struct {
	EventID      string `json:"event_id" validate:"required"`
	CustomerName string `json:"customer_name" validate:"required"`
	BVN          string `json:"bvn" validate:"required,len=11,numeric"`
}
