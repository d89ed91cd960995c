package persistence

import (
	"context"

	"github.com/cartloom/exporter/internal/domain/commerce"
	"github.com/cartloom/exporter/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCommerceSource implements commerce.DataSource against the commerce
// database. It is read-only: the exporter never mutates commerce data.
type GormCommerceSource struct {
	db *gorm.DB
}

// NewGormCommerceSource creates a new GormCommerceSource
func NewGormCommerceSource(db *gorm.DB) *GormCommerceSource {
	return &GormCommerceSource{db: db}
}

// Ping verifies the commerce database is reachable
func (s *GormCommerceSource) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// OrdersByDate returns orders created within the range, with every
// sub-collection loaded
func (s *GormCommerceSource) OrdersByDate(ctx context.Context, r commerce.DateRange, statuses []commerce.OrderStatus) ([]commerce.Order, error) {
	var orderModels []models.OrderModel
	if err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("ShippingLines").
		Preload("Fees").
		Preload("Taxes").
		Preload("Coupons").
		Preload("Refunds").
		Preload("Notes").
		Preload("Downloads").
		Where("created_at BETWEEN ? AND ?", r.Start, r.End).
		Where("status IN ?", statusStrings(statuses)).
		Order("created_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]commerce.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// CustomersByDate returns customers registered within the range
func (s *GormCommerceSource) CustomersByDate(ctx context.Context, r commerce.DateRange, statuses []commerce.CustomerStatus) ([]commerce.Customer, error) {
	var customerModels []models.CustomerModel
	if err := s.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", r.Start, r.End).
		Where("status IN ?", statusStrings(statuses)).
		Order("created_at ASC").
		Find(&customerModels).Error; err != nil {
		return nil, err
	}

	customers := make([]commerce.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = *customerModels[i].ToDomain()
	}
	return customers, nil
}

// ProductsByDate returns products created within the range
func (s *GormCommerceSource) ProductsByDate(ctx context.Context, r commerce.DateRange, statuses []commerce.ProductStatus) ([]commerce.Product, error) {
	var productModels []models.ProductModel
	if err := s.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", r.Start, r.End).
		Where("status IN ?", statusStrings(statuses)).
		Order("created_at ASC").
		Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]commerce.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products, nil
}

// CouponsByDate returns coupons created within the range
func (s *GormCommerceSource) CouponsByDate(ctx context.Context, r commerce.DateRange, statuses []commerce.CouponStatus) ([]commerce.Coupon, error) {
	var couponModels []models.CouponModel
	if err := s.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", r.Start, r.End).
		Where("status IN ?", statusStrings(statuses)).
		Order("created_at ASC").
		Find(&couponModels).Error; err != nil {
		return nil, err
	}

	coupons := make([]commerce.Coupon, len(couponModels))
	for i := range couponModels {
		coupons[i] = *couponModels[i].ToDomain()
	}
	return coupons, nil
}

func statusStrings[T ~string](statuses []T) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// Compile-time interface compliance check
var _ commerce.DataSource = (*GormCommerceSource)(nil)
