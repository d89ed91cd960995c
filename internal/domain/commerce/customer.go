package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the account state of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
	CustomerStatusGuest    CustomerStatus = "guest"
)

// IsValid checks if the status is a known customer status
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusGuest:
		return true
	}
	return false
}

// String returns the string representation of CustomerStatus
func (s CustomerStatus) String() string {
	return string(s)
}

// AllCustomerStatuses returns every known customer status
func AllCustomerStatuses() []CustomerStatus {
	return []CustomerStatus{CustomerStatusActive, CustomerStatusInactive, CustomerStatusGuest}
}

// Customer is a commerce customer account
type Customer struct {
	ID          uuid.UUID
	Email       string
	FirstName   string
	LastName    string
	Username    string
	Status      CustomerStatus
	Billing     Address
	Shipping    Address
	OrdersCount int
	TotalSpent  decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
