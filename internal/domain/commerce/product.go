package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the publication state of a product
type ProductStatus string

const (
	ProductStatusPublished ProductStatus = "published"
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPrivate   ProductStatus = "private"
)

// IsValid checks if the status is a known product status
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusPublished, ProductStatusDraft, ProductStatusPrivate:
		return true
	}
	return false
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// AllProductStatuses returns every known product status
func AllProductStatuses() []ProductStatus {
	return []ProductStatus{ProductStatusPublished, ProductStatusDraft, ProductStatusPrivate}
}

// Product is a catalog product
type Product struct {
	ID            uuid.UUID
	SKU           string
	Name          string
	Status        ProductStatus
	Price         decimal.Decimal
	RegularPrice  decimal.Decimal
	SalePrice     decimal.Decimal
	StockQuantity int
	StockStatus   string
	Categories    []string
	Tags          []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
