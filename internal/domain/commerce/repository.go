package commerce

import (
	"context"
	"time"
)

// DateRange is a half-open [Start, End] interval used for extraction filters
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DayRange returns the range covering one calendar day, start-of-day to
// end-of-day in the given location
func DayRange(date time.Time, loc *time.Location) DateRange {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999999999, loc)
	return DateRange{Start: start, End: end}
}

// Contains reports whether t falls within the range
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// DataSource is the queryable interface onto the upstream commerce database.
// Every query filters by creation date range and a status allow-list; an
// empty status list means all known statuses.
type DataSource interface {
	// Ping reports whether the data source is reachable
	Ping(ctx context.Context) error

	// OrdersByDate returns orders created within the range
	OrdersByDate(ctx context.Context, r DateRange, statuses []OrderStatus) ([]Order, error)

	// CustomersByDate returns customers registered within the range
	CustomersByDate(ctx context.Context, r DateRange, statuses []CustomerStatus) ([]Customer, error)

	// ProductsByDate returns products created within the range
	ProductsByDate(ctx context.Context, r DateRange, statuses []ProductStatus) ([]Product, error)

	// CouponsByDate returns coupons created within the range
	CouponsByDate(ctx context.Context, r DateRange, statuses []CouponStatus) ([]Coupon, error)
}
