package export

import (
	"context"
	"fmt"
	"time"

	"github.com/cartloom/exporter/internal/domain/commerce"
	"github.com/cartloom/exporter/internal/domain/export"
	"go.uber.org/zap"
)

// ExtractionError describes one entity or sub-item that was skipped during
// extraction
type ExtractionError struct {
	EntityID string
	Detail   string
	Err      error
}

// Error implements the error interface
func (e ExtractionError) Error() string {
	return fmt.Sprintf("entity %s (%s): %v", e.EntityID, e.Detail, e.Err)
}

// ErrorCollector accumulates per-entity extraction failures. A failure while
// computing one entity's fields never aborts the whole extraction; it is
// collected here so callers can assert exactly what was skipped and why.
type ErrorCollector struct {
	errs []ExtractionError
}

// NewErrorCollector creates an empty collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

func (c *ErrorCollector) add(entityID, detail string, err error) {
	c.errs = append(c.errs, ExtractionError{EntityID: entityID, Detail: detail, Err: err})
}

// Errors returns the collected failures in occurrence order
func (c *ErrorCollector) Errors() []ExtractionError {
	return c.errs
}

// Count returns the number of skipped entities/items
func (c *ErrorCollector) Count() int {
	return len(c.errs)
}

// Extractor pulls domain records for one export kind and flattens them into
// serialization-ready rows
type Extractor interface {
	Extract(ctx context.Context, cfg export.TypeConfig, date time.Time) ([]export.Record, *ErrorCollector, error)
}

// NewExtractor returns the extraction strategy for a kind. Custom export
// types have no built-in extractor.
func NewExtractor(kind export.Kind, source commerce.DataSource, origin string, loc *time.Location, logger *zap.Logger) (Extractor, error) {
	switch kind {
	case export.KindOrders:
		return &OrderExtractor{source: source, origin: origin, loc: loc, logger: logger}, nil
	case export.KindCustomers:
		return &CustomerExtractor{source: source, origin: origin, loc: loc, logger: logger}, nil
	case export.KindProducts:
		return &ProductExtractor{source: source, origin: origin, loc: loc, logger: logger}, nil
	case export.KindCoupons:
		return &CouponExtractor{source: source, origin: origin, loc: loc, logger: logger}, nil
	default:
		return nil, export.NewDomainError("UNSUPPORTED_EXPORT_KIND", fmt.Sprintf("No extractor for export kind %q", kind))
	}
}

// safeBuild runs a record builder and converts a panic into an error, so one
// malformed entity cannot take down the run
func safeBuild(fn func() export.Record) (rec export.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("record build panicked: %v", r)
		}
	}()
	return fn(), nil
}

const extractTimeLayout = "2006-01-02 15:04:05"

// formatAddressLines joins the street lines of an address
func formatAddressLines(a commerce.Address) string {
	if a.Line2 == "" {
		return a.Line1
	}
	return a.Line1 + ", " + a.Line2
}

func orderStatusFilter(raw []string) []commerce.OrderStatus {
	if len(raw) == 0 {
		return commerce.AllOrderStatuses()
	}
	out := make([]commerce.OrderStatus, 0, len(raw))
	for _, s := range raw {
		if st := commerce.OrderStatus(s); st.IsValid() {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return commerce.AllOrderStatuses()
	}
	return out
}

func customerStatusFilter(raw []string) []commerce.CustomerStatus {
	if len(raw) == 0 {
		return commerce.AllCustomerStatuses()
	}
	out := make([]commerce.CustomerStatus, 0, len(raw))
	for _, s := range raw {
		if st := commerce.CustomerStatus(s); st.IsValid() {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return commerce.AllCustomerStatuses()
	}
	return out
}

func productStatusFilter(raw []string) []commerce.ProductStatus {
	if len(raw) == 0 {
		return commerce.AllProductStatuses()
	}
	out := make([]commerce.ProductStatus, 0, len(raw))
	for _, s := range raw {
		if st := commerce.ProductStatus(s); st.IsValid() {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return commerce.AllProductStatuses()
	}
	return out
}

func couponStatusFilter(raw []string) []commerce.CouponStatus {
	if len(raw) == 0 {
		return commerce.AllCouponStatuses()
	}
	out := make([]commerce.CouponStatus, 0, len(raw))
	for _, s := range raw {
		if st := commerce.CouponStatus(s); st.IsValid() {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return commerce.AllCouponStatuses()
	}
	return out
}
