package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponStatus represents the publication state of a coupon
type CouponStatus string

const (
	CouponStatusActive   CouponStatus = "active"
	CouponStatusExpired  CouponStatus = "expired"
	CouponStatusDisabled CouponStatus = "disabled"
)

// IsValid checks if the status is a known coupon status
func (s CouponStatus) IsValid() bool {
	switch s {
	case CouponStatusActive, CouponStatusExpired, CouponStatusDisabled:
		return true
	}
	return false
}

// String returns the string representation of CouponStatus
func (s CouponStatus) String() string {
	return string(s)
}

// AllCouponStatuses returns every known coupon status
func AllCouponStatuses() []CouponStatus {
	return []CouponStatus{CouponStatusActive, CouponStatusExpired, CouponStatusDisabled}
}

// DiscountType is how a coupon's amount is applied
type DiscountType string

const (
	DiscountTypePercent      DiscountType = "percent"
	DiscountTypeFixedCart    DiscountType = "fixed_cart"
	DiscountTypeFixedProduct DiscountType = "fixed_product"
)

// Coupon is a discount code
type Coupon struct {
	ID           uuid.UUID
	Code         string
	DiscountType DiscountType
	Amount       decimal.Decimal
	Status       CouponStatus
	UsageCount   int
	UsageLimit   int
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
