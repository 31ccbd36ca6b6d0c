package models

import (
	"github.com/shopspring/decimal"
	"time"
)

type User struct {
	Email        string          `json:"email"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	PhoneNumber  string          `json:"phone_number"`
	PasswordHash string          `json:"-"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	CreatedAt    time.Time       `json:"created_at"`
}
