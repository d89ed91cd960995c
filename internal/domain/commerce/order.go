package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusOnHold     OrderStatus = "on-hold"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
	OrderStatusFailed     OrderStatus = "failed"
)

// IsValid checks if the status is a known order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusOnHold,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// AllOrderStatuses returns every known order status, the default extraction
// allow-list when a config does not restrict statuses
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusOnHold,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed,
	}
}

// Address holds billing or shipping contact details
type Address struct {
	FirstName string
	LastName  string
	Company   string
	Line1     string
	Line2     string
	City      string
	State     string
	Postcode  string
	Country   string
	Email     string
	Phone     string
}

// LineItem is one purchased product line within an order
type LineItem struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	SKU       string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	TaxAmount decimal.Decimal
}

// ShippingLine is one shipping charge on an order
type ShippingLine struct {
	Method string
	Total  decimal.Decimal
}

// FeeLine is one additional fee on an order
type FeeLine struct {
	Name      string
	Amount    decimal.Decimal
	TaxAmount decimal.Decimal
}

// TaxLine is one applied tax rate on an order
type TaxLine struct {
	RateCode string
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

// CouponLine is one coupon applied to an order
type CouponLine struct {
	Code     string
	Discount decimal.Decimal
}

// Refund is one full or partial refund issued against an order
type Refund struct {
	ID        uuid.UUID
	Amount    decimal.Decimal
	Reason    string
	CreatedAt time.Time
}

// OrderNote is one note attached to an order
type OrderNote struct {
	Author         string
	Content        string
	CustomerFacing bool
	CreatedAt      time.Time
}

// DownloadPermission grants a customer access to a downloadable product file
type DownloadPermission struct {
	ProductName        string
	DownloadID         string
	DownloadsRemaining int
	AccessExpires      *time.Time
}

// Order is a commerce order with its nested sub-collections
type Order struct {
	ID            uuid.UUID
	Number        string
	Status        OrderStatus
	Currency      string
	CustomerID    uuid.UUID
	CustomerEmail string
	CustomerNote  string
	PaymentMethod string

	Billing  Address
	Shipping Address

	Subtotal      decimal.Decimal
	ShippingTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal

	Items         []LineItem
	ShippingLines []ShippingLine
	Fees          []FeeLine
	Taxes         []TaxLine
	Coupons       []CouponLine
	Refunds       []Refund
	Notes         []OrderNote
	Downloads     []DownloadPermission

	CreatedAt time.Time
	UpdatedAt time.Time
}
