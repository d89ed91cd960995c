package export

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cartloom/exporter/internal/domain/commerce"
	"github.com/cartloom/exporter/internal/domain/export"
	"go.uber.org/zap"
)

// OrderExtractor flattens orders into rows: one row per line item when an
// order has items (order-level fields copied onto each item row), exactly one
// order-level row when it has none.
type OrderExtractor struct {
	source commerce.DataSource
	origin string
	loc    *time.Location
	logger *zap.Logger
}

// Extract implements Extractor
func (e *OrderExtractor) Extract(ctx context.Context, cfg export.TypeConfig, date time.Time) ([]export.Record, *ErrorCollector, error) {
	orders, err := e.source.OrdersByDate(ctx, commerce.DayRange(date, e.loc), orderStatusFilter(cfg.Statuses))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query orders: %w", err)
	}

	collector := NewErrorCollector()
	records := make([]export.Record, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		base, err := safeBuild(func() export.Record { return e.orderRecord(order) })
		if err != nil {
			collector.add(order.ID.String(), "order fields", err)
			e.logger.Warn("Skipping order during extraction",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if len(order.Items) == 0 {
			records = append(records, base)
			continue
		}

		for j := range order.Items {
			item := &order.Items[j]
			row, err := safeBuild(func() export.Record { return e.itemRecord(base, item) })
			if err != nil {
				collector.add(order.ID.String(), fmt.Sprintf("line item %s", item.ID), err)
				e.logger.Warn("Skipping order line item during extraction",
					zap.String("order_id", order.ID.String()),
					zap.String("item_id", item.ID.String()),
					zap.Error(err),
				)
				continue
			}
			records = append(records, row)
		}
	}

	return records, collector, nil
}

// orderRecord builds the order-level fields, including the flattened
// sub-collections
func (e *OrderExtractor) orderRecord(o *commerce.Order) export.Record {
	r := export.Record{
		"order_id":       o.ID.String(),
		"order_number":   o.Number,
		"status":         o.Status.String(),
		"date_created":   o.CreatedAt.In(e.loc).Format(extractTimeLayout),
		"customer_id":    o.CustomerID.String(),
		"customer_email": o.CustomerEmail,
		"customer_note":  o.CustomerNote,
		"payment_method": o.PaymentMethod,
		"currency":       o.Currency,
		"subtotal":       o.Subtotal.String(),
		"shipping_total": o.ShippingTotal.String(),
		"tax_total":      o.TaxTotal.String(),
		"discount_total": o.DiscountTotal.String(),
		"order_total":    o.Total.String(),

		"billing_first_name": o.Billing.FirstName,
		"billing_last_name":  o.Billing.LastName,
		"billing_company":    o.Billing.Company,
		"billing_address":    formatAddressLines(o.Billing),
		"billing_city":       o.Billing.City,
		"billing_state":      o.Billing.State,
		"billing_postcode":   o.Billing.Postcode,
		"billing_country":    o.Billing.Country,
		"billing_phone":      o.Billing.Phone,

		"shipping_first_name": o.Shipping.FirstName,
		"shipping_last_name":  o.Shipping.LastName,
		"shipping_address":    formatAddressLines(o.Shipping),
		"shipping_city":       o.Shipping.City,
		"shipping_postcode":   o.Shipping.Postcode,
		"shipping_country":    o.Shipping.Country,

		"line_items":           encodeLineItems(o.Items),
		"shipping_items":       encodeShippingLines(o.ShippingLines),
		"fee_items":            encodeFeeLines(o.Fees),
		"tax_items":            encodeTaxLines(o.Taxes),
		"coupon_items":         encodeCouponLines(o.Coupons),
		"refunds":              e.encodeRefunds(o.Refunds),
		"order_notes":          e.encodeNotes(o.Notes),
		"download_permissions": encodeDownloads(o.Downloads),

		export.OriginDataSource: e.origin,
	}
	return r
}

// itemRecord copies the order-level fields and overlays the line-item fields
func (e *OrderExtractor) itemRecord(base export.Record, item *commerce.LineItem) export.Record {
	r := base.Clone()
	r["item_product_id"] = item.ProductID.String()
	r["item_sku"] = item.SKU
	r["item_name"] = item.Name
	r["item_quantity"] = strconv.Itoa(item.Quantity)
	r["item_price"] = item.UnitPrice.String()
	r["item_total"] = item.Total.String()
	return r
}

func encodeLineItems(items []commerce.LineItem) string {
	entries := make([]export.Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, export.Entry{
			{Key: "name", Value: it.Name},
			{Key: "sku", Value: it.SKU},
			{Key: "quantity", Value: strconv.Itoa(it.Quantity)},
			{Key: "price", Value: it.UnitPrice.String()},
			{Key: "total", Value: it.Total.String()},
			{Key: "tax", Value: it.TaxAmount.String()},
		})
	}
	return export.EncodeCompound(entries)
}

func encodeShippingLines(lines []commerce.ShippingLine) string {
	entries := make([]export.Entry, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, export.Entry{
			{Key: "method", Value: l.Method},
			{Key: "total", Value: l.Total.String()},
		})
	}
	return export.EncodeCompound(entries)
}

func encodeFeeLines(fees []commerce.FeeLine) string {
	entries := make([]export.Entry, 0, len(fees))
	for _, f := range fees {
		entries = append(entries, export.Entry{
			{Key: "name", Value: f.Name},
			{Key: "amount", Value: f.Amount.String()},
			{Key: "tax", Value: f.TaxAmount.String()},
		})
	}
	return export.EncodeCompound(entries)
}

func encodeTaxLines(taxes []commerce.TaxLine) string {
	entries := make([]export.Entry, 0, len(taxes))
	for _, t := range taxes {
		entries = append(entries, export.Entry{
			{Key: "code", Value: t.RateCode},
			{Key: "rate", Value: t.Rate.String()},
			{Key: "amount", Value: t.Amount.String()},
		})
	}
	return export.EncodeCompound(entries)
}

func encodeCouponLines(coupons []commerce.CouponLine) string {
	entries := make([]export.Entry, 0, len(coupons))
	for _, c := range coupons {
		entries = append(entries, export.Entry{
			{Key: "code", Value: c.Code},
			{Key: "discount", Value: c.Discount.String()},
		})
	}
	return export.EncodeCompound(entries)
}

func (e *OrderExtractor) encodeRefunds(refunds []commerce.Refund) string {
	entries := make([]export.Entry, 0, len(refunds))
	for _, r := range refunds {
		entries = append(entries, export.Entry{
			{Key: "amount", Value: r.Amount.String()},
			{Key: "reason", Value: r.Reason},
			{Key: "date", Value: r.CreatedAt.In(e.loc).Format("2006-01-02")},
		})
	}
	return export.EncodeCompound(entries)
}

func (e *OrderExtractor) encodeNotes(notes []commerce.OrderNote) string {
	entries := make([]export.Entry, 0, len(notes))
	for _, n := range notes {
		entries = append(entries, export.Entry{
			{Key: "author", Value: n.Author},
			{Key: "note", Value: n.Content},
			{Key: "date", Value: n.CreatedAt.In(e.loc).Format("2006-01-02")},
		})
	}
	return export.EncodeCompound(entries)
}

func encodeDownloads(downloads []commerce.DownloadPermission) string {
	entries := make([]export.Entry, 0, len(downloads))
	for _, d := range downloads {
		expires := ""
		if d.AccessExpires != nil {
			expires = d.AccessExpires.Format("2006-01-02")
		}
		entries = append(entries, export.Entry{
			{Key: "product", Value: d.ProductName},
			{Key: "download_id", Value: d.DownloadID},
			{Key: "remaining", Value: strconv.Itoa(d.DownloadsRemaining)},
			{Key: "expires", Value: expires},
		})
	}
	return export.EncodeCompound(entries)
}
