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

// CustomerExtractor produces one row per customer registered on the target
// date
type CustomerExtractor struct {
	source commerce.DataSource
	origin string
	loc    *time.Location
	logger *zap.Logger
}

// Extract implements Extractor
func (e *CustomerExtractor) Extract(ctx context.Context, cfg export.TypeConfig, date time.Time) ([]export.Record, *ErrorCollector, error) {
	customers, err := e.source.CustomersByDate(ctx, commerce.DayRange(date, e.loc), customerStatusFilter(cfg.Statuses))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query customers: %w", err)
	}

	collector := NewErrorCollector()
	records := make([]export.Record, 0, len(customers))
	for i := range customers {
		c := &customers[i]
		rec, err := safeBuild(func() export.Record { return e.customerRecord(c) })
		if err != nil {
			collector.add(c.ID.String(), "customer fields", err)
			e.logger.Warn("Skipping customer during extraction",
				zap.String("customer_id", c.ID.String()),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}

	return records, collector, nil
}

func (e *CustomerExtractor) customerRecord(c *commerce.Customer) export.Record {
	return export.Record{
		"customer_id":     c.ID.String(),
		"email":           c.Email,
		"first_name":      c.FirstName,
		"last_name":       c.LastName,
		"username":        c.Username,
		"status":          c.Status.String(),
		"date_registered": c.CreatedAt.In(e.loc).Format(extractTimeLayout),
		"billing_company": c.Billing.Company,
		"billing_city":    c.Billing.City,
		"billing_country": c.Billing.Country,
		"billing_phone":   c.Billing.Phone,
		"orders_count":    strconv.Itoa(c.OrdersCount),
		"total_spent":     c.TotalSpent.String(),

		export.OriginDataSource: e.origin,
	}
}
