package export

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cartloom/exporter/internal/domain/commerce"
	"github.com/cartloom/exporter/internal/domain/export"
	"go.uber.org/zap"
)

// ProductExtractor produces one row per product created on the target date
type ProductExtractor struct {
	source commerce.DataSource
	origin string
	loc    *time.Location
	logger *zap.Logger
}

// Extract implements Extractor
func (e *ProductExtractor) Extract(ctx context.Context, cfg export.TypeConfig, date time.Time) ([]export.Record, *ErrorCollector, error) {
	products, err := e.source.ProductsByDate(ctx, commerce.DayRange(date, e.loc), productStatusFilter(cfg.Statuses))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query products: %w", err)
	}

	collector := NewErrorCollector()
	records := make([]export.Record, 0, len(products))
	for i := range products {
		p := &products[i]
		rec, err := safeBuild(func() export.Record { return e.productRecord(p) })
		if err != nil {
			collector.add(p.ID.String(), "product fields", err)
			e.logger.Warn("Skipping product during extraction",
				zap.String("product_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}

	return records, collector, nil
}

func (e *ProductExtractor) productRecord(p *commerce.Product) export.Record {
	return export.Record{
		"product_id":     p.ID.String(),
		"sku":            p.SKU,
		"name":           p.Name,
		"status":         p.Status.String(),
		"price":          p.Price.String(),
		"regular_price":  p.RegularPrice.String(),
		"sale_price":     p.SalePrice.String(),
		"stock_quantity": strconv.Itoa(p.StockQuantity),
		"stock_status":   p.StockStatus,
		"categories":     strings.Join(p.Categories, "; "),
		"tags":           strings.Join(p.Tags, "; "),
		"date_created":   p.CreatedAt.In(e.loc).Format(extractTimeLayout),

		export.OriginDataSource: e.origin,
	}
}
