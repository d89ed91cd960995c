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

// CouponExtractor produces one row per coupon created on the target date
type CouponExtractor struct {
	source commerce.DataSource
	origin string
	loc    *time.Location
	logger *zap.Logger
}

// Extract implements Extractor
func (e *CouponExtractor) Extract(ctx context.Context, cfg export.TypeConfig, date time.Time) ([]export.Record, *ErrorCollector, error) {
	coupons, err := e.source.CouponsByDate(ctx, commerce.DayRange(date, e.loc), couponStatusFilter(cfg.Statuses))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query coupons: %w", err)
	}

	collector := NewErrorCollector()
	records := make([]export.Record, 0, len(coupons))
	for i := range coupons {
		c := &coupons[i]
		rec, err := safeBuild(func() export.Record { return e.couponRecord(c) })
		if err != nil {
			collector.add(c.ID.String(), "coupon fields", err)
			e.logger.Warn("Skipping coupon during extraction",
				zap.String("coupon_id", c.ID.String()),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}

	return records, collector, nil
}

func (e *CouponExtractor) couponRecord(c *commerce.Coupon) export.Record {
	expires := ""
	if c.ExpiresAt != nil {
		expires = c.ExpiresAt.In(e.loc).Format("2006-01-02")
	}
	return export.Record{
		"coupon_id":     c.ID.String(),
		"code":          c.Code,
		"discount_type": string(c.DiscountType),
		"amount":        c.Amount.String(),
		"status":        c.Status.String(),
		"usage_count":   strconv.Itoa(c.UsageCount),
		"usage_limit":   strconv.Itoa(c.UsageLimit),
		"expires_at":    expires,
		"date_created":  c.CreatedAt.In(e.loc).Format(extractTimeLayout),

		export.OriginDataSource: e.origin,
	}
}
