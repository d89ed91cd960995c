package export

// Canonical synthesized origin field. When a type is configured to include
// it, the canonical mapping is always appended as the last column.
const (
	OriginDataSource = "source_of_origin"
	OriginColumnName = "Source of Origin"
)

// FieldMapping pairs a data-source key from the extracted row with an output
// column name. Order within a TypeConfig is significant: it fixes CSV column
// order.
type FieldMapping struct {
	Enabled    bool   `json:"enabled"`
	DataSource string `json:"data_source"`
	ColumnName string `json:"column_name"`
}

// DefaultMappings returns the built-in field mappings for a kind. These seed
// newly created export types and are fully editable afterwards.
func DefaultMappings(kind Kind) []FieldMapping {
	switch kind {
	case KindOrders:
		return defaultOrderMappings()
	case KindCustomers:
		return defaultCustomerMappings()
	case KindProducts:
		return defaultProductMappings()
	case KindCoupons:
		return defaultCouponMappings()
	}
	return nil
}

func defaultOrderMappings() []FieldMapping {
	return []FieldMapping{
		{Enabled: true, DataSource: "order_id", ColumnName: "Order ID"},
		{Enabled: true, DataSource: "order_number", ColumnName: "Order Number"},
		{Enabled: true, DataSource: "status", ColumnName: "Status"},
		{Enabled: true, DataSource: "date_created", ColumnName: "Date Created"},
		{Enabled: true, DataSource: "customer_id", ColumnName: "Customer ID"},
		{Enabled: true, DataSource: "customer_email", ColumnName: "Customer Email"},
		{Enabled: true, DataSource: "billing_first_name", ColumnName: "Billing First Name"},
		{Enabled: true, DataSource: "billing_last_name", ColumnName: "Billing Last Name"},
		{Enabled: true, DataSource: "billing_company", ColumnName: "Billing Company"},
		{Enabled: true, DataSource: "billing_address", ColumnName: "Billing Address"},
		{Enabled: true, DataSource: "billing_city", ColumnName: "Billing City"},
		{Enabled: true, DataSource: "billing_state", ColumnName: "Billing State"},
		{Enabled: true, DataSource: "billing_postcode", ColumnName: "Billing Postcode"},
		{Enabled: true, DataSource: "billing_country", ColumnName: "Billing Country"},
		{Enabled: true, DataSource: "billing_phone", ColumnName: "Billing Phone"},
		{Enabled: true, DataSource: "shipping_first_name", ColumnName: "Shipping First Name"},
		{Enabled: true, DataSource: "shipping_last_name", ColumnName: "Shipping Last Name"},
		{Enabled: true, DataSource: "shipping_address", ColumnName: "Shipping Address"},
		{Enabled: true, DataSource: "shipping_city", ColumnName: "Shipping City"},
		{Enabled: true, DataSource: "shipping_postcode", ColumnName: "Shipping Postcode"},
		{Enabled: true, DataSource: "shipping_country", ColumnName: "Shipping Country"},
		{Enabled: true, DataSource: "payment_method", ColumnName: "Payment Method"},
		{Enabled: true, DataSource: "currency", ColumnName: "Currency"},
		{Enabled: true, DataSource: "subtotal", ColumnName: "Subtotal"},
		{Enabled: true, DataSource: "shipping_total", ColumnName: "Shipping Total"},
		{Enabled: true, DataSource: "tax_total", ColumnName: "Tax Total"},
		{Enabled: true, DataSource: "discount_total", ColumnName: "Discount Total"},
		{Enabled: true, DataSource: "order_total", ColumnName: "Order Total"},
		{Enabled: true, DataSource: "customer_note", ColumnName: "Customer Note"},
		{Enabled: true, DataSource: "item_product_id", ColumnName: "Item Product ID"},
		{Enabled: true, DataSource: "item_sku", ColumnName: "Item SKU"},
		{Enabled: true, DataSource: "item_name", ColumnName: "Item Name"},
		{Enabled: true, DataSource: "item_quantity", ColumnName: "Item Quantity"},
		{Enabled: true, DataSource: "item_price", ColumnName: "Item Price"},
		{Enabled: true, DataSource: "item_total", ColumnName: "Item Total"},
		{Enabled: true, DataSource: "line_items", ColumnName: "Line Items"},
		{Enabled: true, DataSource: "shipping_items", ColumnName: "Shipping Items"},
		{Enabled: true, DataSource: "fee_items", ColumnName: "Fee Items"},
		{Enabled: true, DataSource: "tax_items", ColumnName: "Tax Items"},
		{Enabled: true, DataSource: "coupon_items", ColumnName: "Coupon Items"},
		{Enabled: true, DataSource: "refunds", ColumnName: "Refunds"},
		{Enabled: false, DataSource: "order_notes", ColumnName: "Order Notes"},
		{Enabled: false, DataSource: "download_permissions", ColumnName: "Download Permissions"},
	}
}

func defaultCustomerMappings() []FieldMapping {
	return []FieldMapping{
		{Enabled: true, DataSource: "customer_id", ColumnName: "Customer ID"},
		{Enabled: true, DataSource: "email", ColumnName: "Email"},
		{Enabled: true, DataSource: "first_name", ColumnName: "First Name"},
		{Enabled: true, DataSource: "last_name", ColumnName: "Last Name"},
		{Enabled: true, DataSource: "username", ColumnName: "Username"},
		{Enabled: true, DataSource: "status", ColumnName: "Status"},
		{Enabled: true, DataSource: "date_registered", ColumnName: "Date Registered"},
		{Enabled: true, DataSource: "billing_company", ColumnName: "Company"},
		{Enabled: true, DataSource: "billing_city", ColumnName: "City"},
		{Enabled: true, DataSource: "billing_country", ColumnName: "Country"},
		{Enabled: true, DataSource: "billing_phone", ColumnName: "Phone"},
		{Enabled: true, DataSource: "orders_count", ColumnName: "Orders Count"},
		{Enabled: true, DataSource: "total_spent", ColumnName: "Total Spent"},
	}
}

func defaultProductMappings() []FieldMapping {
	return []FieldMapping{
		{Enabled: true, DataSource: "product_id", ColumnName: "Product ID"},
		{Enabled: true, DataSource: "sku", ColumnName: "SKU"},
		{Enabled: true, DataSource: "name", ColumnName: "Name"},
		{Enabled: true, DataSource: "status", ColumnName: "Status"},
		{Enabled: true, DataSource: "price", ColumnName: "Price"},
		{Enabled: true, DataSource: "regular_price", ColumnName: "Regular Price"},
		{Enabled: true, DataSource: "sale_price", ColumnName: "Sale Price"},
		{Enabled: true, DataSource: "stock_quantity", ColumnName: "Stock Quantity"},
		{Enabled: true, DataSource: "stock_status", ColumnName: "Stock Status"},
		{Enabled: true, DataSource: "categories", ColumnName: "Categories"},
		{Enabled: true, DataSource: "tags", ColumnName: "Tags"},
		{Enabled: true, DataSource: "date_created", ColumnName: "Date Created"},
	}
}

func defaultCouponMappings() []FieldMapping {
	return []FieldMapping{
		{Enabled: true, DataSource: "coupon_id", ColumnName: "Coupon ID"},
		{Enabled: true, DataSource: "code", ColumnName: "Code"},
		{Enabled: true, DataSource: "discount_type", ColumnName: "Discount Type"},
		{Enabled: true, DataSource: "amount", ColumnName: "Amount"},
		{Enabled: true, DataSource: "status", ColumnName: "Status"},
		{Enabled: true, DataSource: "usage_count", ColumnName: "Usage Count"},
		{Enabled: true, DataSource: "usage_limit", ColumnName: "Usage Limit"},
		{Enabled: true, DataSource: "expires_at", ColumnName: "Expires At"},
		{Enabled: true, DataSource: "date_created", ColumnName: "Date Created"},
	}
}
