package models

import (
	"encoding/json"
	"time"

	"github.com/cartloom/exporter/internal/domain/commerce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressModel is embedded into order and customer models with a column prefix
type AddressModel struct {
	FirstName string `gorm:"type:varchar(100)"`
	LastName  string `gorm:"type:varchar(100)"`
	Company   string `gorm:"type:varchar(255)"`
	Line1     string `gorm:"type:varchar(255)"`
	Line2     string `gorm:"type:varchar(255)"`
	City      string `gorm:"type:varchar(100)"`
	State     string `gorm:"type:varchar(100)"`
	Postcode  string `gorm:"type:varchar(20)"`
	Country   string `gorm:"type:varchar(2)"`
	Email     string `gorm:"type:varchar(255)"`
	Phone     string `gorm:"type:varchar(50)"`
}

// ToDomain converts the embedded address to its domain value
func (a AddressModel) ToDomain() commerce.Address {
	return commerce.Address{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Line1:     a.Line1,
		Line2:     a.Line2,
		City:      a.City,
		State:     a.State,
		Postcode:  a.Postcode,
		Country:   a.Country,
		Email:     a.Email,
		Phone:     a.Phone,
	}
}

// OrderModel is the persistence model for commerce orders
type OrderModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number        string    `gorm:"type:varchar(50);not null;index"`
	Status        string    `gorm:"type:varchar(20);not null;index"`
	Currency      string    `gorm:"type:varchar(3);not null"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index"`
	CustomerEmail string    `gorm:"type:varchar(255)"`
	CustomerNote  string    `gorm:"type:text"`
	PaymentMethod string    `gorm:"type:varchar(100)"`

	Billing  AddressModel `gorm:"embedded;embeddedPrefix:billing_"`
	Shipping AddressModel `gorm:"embedded;embeddedPrefix:shipping_"`

	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingTotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Items         []OrderItemModel         `gorm:"foreignKey:OrderID;references:ID"`
	ShippingLines []OrderShippingLineModel `gorm:"foreignKey:OrderID;references:ID"`
	Fees          []OrderFeeModel          `gorm:"foreignKey:OrderID;references:ID"`
	Taxes         []OrderTaxModel          `gorm:"foreignKey:OrderID;references:ID"`
	Coupons       []OrderCouponModel       `gorm:"foreignKey:OrderID;references:ID"`
	Refunds       []OrderRefundModel       `gorm:"foreignKey:OrderID;references:ID"`
	Notes         []OrderNoteModel         `gorm:"foreignKey:OrderID;references:ID"`
	Downloads     []OrderDownloadModel     `gorm:"foreignKey:OrderID;references:ID"`

	CreatedAt time.Time `gorm:"type:timestamptz;not null;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one purchased line within an order
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid"`
	SKU       string          `gorm:"type:varchar(100)"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

func (OrderItemModel) TableName() string { return "order_items" }

// OrderShippingLineModel is one shipping charge on an order
type OrderShippingLineModel struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method  string          `gorm:"type:varchar(100)"`
	Total   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (OrderShippingLineModel) TableName() string { return "order_shipping_lines" }

// OrderFeeModel is one additional fee on an order
type OrderFeeModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(255)"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

func (OrderFeeModel) TableName() string { return "order_fees" }

// OrderTaxModel is one applied tax rate on an order
type OrderTaxModel struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	RateCode string          `gorm:"type:varchar(100)"`
	Rate     decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (OrderTaxModel) TableName() string { return "order_taxes" }

// OrderCouponModel is one coupon applied to an order
type OrderCouponModel struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code     string          `gorm:"type:varchar(100);not null"`
	Discount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (OrderCouponModel) TableName() string { return "order_coupons" }

// OrderRefundModel is one refund issued against an order
type OrderRefundModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason    string          `gorm:"type:text"`
	CreatedAt time.Time       `gorm:"type:timestamptz;not null"`
}

func (OrderRefundModel) TableName() string { return "order_refunds" }

// OrderNoteModel is one note attached to an order
type OrderNoteModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Author         string    `gorm:"type:varchar(255)"`
	Content        string    `gorm:"type:text;not null"`
	CustomerFacing bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"type:timestamptz;not null"`
}

func (OrderNoteModel) TableName() string { return "order_notes" }

// OrderDownloadModel grants a customer access to a downloadable file
type OrderDownloadModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductName        string     `gorm:"type:varchar(255)"`
	DownloadID         string     `gorm:"type:varchar(100)"`
	DownloadsRemaining int        `gorm:"not null;default:0"`
	AccessExpires      *time.Time `gorm:"type:timestamptz"`
}

func (OrderDownloadModel) TableName() string { return "order_downloads" }

// ToDomain converts the persistence model and its loaded sub-collections to a
// domain Order
func (m *OrderModel) ToDomain() *commerce.Order {
	order := &commerce.Order{
		ID:            m.ID,
		Number:        m.Number,
		Status:        commerce.OrderStatus(m.Status),
		Currency:      m.Currency,
		CustomerID:    m.CustomerID,
		CustomerEmail: m.CustomerEmail,
		CustomerNote:  m.CustomerNote,
		PaymentMethod: m.PaymentMethod,
		Billing:       m.Billing.ToDomain(),
		Shipping:      m.Shipping.ToDomain(),
		Subtotal:      m.Subtotal,
		ShippingTotal: m.ShippingTotal,
		TaxTotal:      m.TaxTotal,
		DiscountTotal: m.DiscountTotal,
		Total:         m.Total,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, item := range m.Items {
		order.Items = append(order.Items, commerce.LineItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
			TaxAmount: item.TaxAmount,
		})
	}
	for _, line := range m.ShippingLines {
		order.ShippingLines = append(order.ShippingLines, commerce.ShippingLine{
			Method: line.Method,
			Total:  line.Total,
		})
	}
	for _, fee := range m.Fees {
		order.Fees = append(order.Fees, commerce.FeeLine{
			Name:      fee.Name,
			Amount:    fee.Amount,
			TaxAmount: fee.TaxAmount,
		})
	}
	for _, tax := range m.Taxes {
		order.Taxes = append(order.Taxes, commerce.TaxLine{
			RateCode: tax.RateCode,
			Rate:     tax.Rate,
			Amount:   tax.Amount,
		})
	}
	for _, coupon := range m.Coupons {
		order.Coupons = append(order.Coupons, commerce.CouponLine{
			Code:     coupon.Code,
			Discount: coupon.Discount,
		})
	}
	for _, refund := range m.Refunds {
		order.Refunds = append(order.Refunds, commerce.Refund{
			ID:        refund.ID,
			Amount:    refund.Amount,
			Reason:    refund.Reason,
			CreatedAt: refund.CreatedAt,
		})
	}
	for _, note := range m.Notes {
		order.Notes = append(order.Notes, commerce.OrderNote{
			Author:         note.Author,
			Content:        note.Content,
			CustomerFacing: note.CustomerFacing,
			CreatedAt:      note.CreatedAt,
		})
	}
	for _, dl := range m.Downloads {
		order.Downloads = append(order.Downloads, commerce.DownloadPermission{
			ProductName:        dl.ProductName,
			DownloadID:         dl.DownloadID,
			DownloadsRemaining: dl.DownloadsRemaining,
			AccessExpires:      dl.AccessExpires,
		})
	}
	return order
}

// CustomerModel is the persistence model for commerce customers
type CustomerModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email       string          `gorm:"type:varchar(255);not null;index"`
	FirstName   string          `gorm:"type:varchar(100)"`
	LastName    string          `gorm:"type:varchar(100)"`
	Username    string          `gorm:"type:varchar(100)"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	Billing     AddressModel    `gorm:"embedded;embeddedPrefix:billing_"`
	Shipping    AddressModel    `gorm:"embedded;embeddedPrefix:shipping_"`
	OrdersCount int             `gorm:"not null;default:0"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt   time.Time       `gorm:"type:timestamptz;not null;index"`
	UpdatedAt   time.Time       `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *commerce.Customer {
	return &commerce.Customer{
		ID:          m.ID,
		Email:       m.Email,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Username:    m.Username,
		Status:      commerce.CustomerStatus(m.Status),
		Billing:     m.Billing.ToDomain(),
		Shipping:    m.Shipping.ToDomain(),
		OrdersCount: m.OrdersCount,
		TotalSpent:  m.TotalSpent,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ProductModel is the persistence model for catalog products.
// Categories and tags are stored as JSONB arrays.
type ProductModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SKU           string          `gorm:"type:varchar(100);index"`
	Name          string          `gorm:"type:varchar(255);not null"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RegularPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity int             `gorm:"not null;default:0"`
	StockStatus   string          `gorm:"type:varchar(20)"`
	Categories    string          `gorm:"type:jsonb;default:'[]'"`
	Tags          string          `gorm:"type:jsonb;default:'[]'"`
	CreatedAt     time.Time       `gorm:"type:timestamptz;not null;index"`
	UpdatedAt     time.Time       `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *commerce.Product {
	var categories, tags []string
	if m.Categories != "" {
		_ = json.Unmarshal([]byte(m.Categories), &categories)
	}
	if m.Tags != "" {
		_ = json.Unmarshal([]byte(m.Tags), &tags)
	}
	return &commerce.Product{
		ID:            m.ID,
		SKU:           m.SKU,
		Name:          m.Name,
		Status:        commerce.ProductStatus(m.Status),
		Price:         m.Price,
		RegularPrice:  m.RegularPrice,
		SalePrice:     m.SalePrice,
		StockQuantity: m.StockQuantity,
		StockStatus:   m.StockStatus,
		Categories:    categories,
		Tags:          tags,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// CouponModel is the persistence model for discount codes
type CouponModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code         string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	DiscountType string          `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       string          `gorm:"type:varchar(20);not null;index"`
	UsageCount   int             `gorm:"not null;default:0"`
	UsageLimit   int             `gorm:"not null;default:0"`
	ExpiresAt    *time.Time      `gorm:"type:timestamptz"`
	CreatedAt    time.Time       `gorm:"type:timestamptz;not null;index"`
	UpdatedAt    time.Time       `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// ToDomain converts the persistence model to a domain Coupon
func (m *CouponModel) ToDomain() *commerce.Coupon {
	return &commerce.Coupon{
		ID:           m.ID,
		Code:         m.Code,
		DiscountType: commerce.DiscountType(m.DiscountType),
		Amount:       m.Amount,
		Status:       commerce.CouponStatus(m.Status),
		UsageCount:   m.UsageCount,
		UsageLimit:   m.UsageLimit,
		ExpiresAt:    m.ExpiresAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
