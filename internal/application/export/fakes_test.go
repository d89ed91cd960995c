package export

import (
	"context"
	"sync"
	"time"

	"github.com/cartloom/exporter/internal/domain/commerce"
	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/google/uuid"
)

// fakeDataSource is an in-memory commerce.DataSource for tests
type fakeDataSource struct {
	pingErr error

	orders    []commerce.Order
	ordersErr error
	customers []commerce.Customer
	products  []commerce.Product
	coupons   []commerce.Coupon

	orderCalls        int
	lastRange         commerce.DateRange
	lastOrderStatuses []commerce.OrderStatus
}

func (f *fakeDataSource) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeDataSource) OrdersByDate(ctx context.Context, r commerce.DateRange, statuses []commerce.OrderStatus) ([]commerce.Order, error) {
	f.orderCalls++
	f.lastRange = r
	f.lastOrderStatuses = statuses
	return f.orders, f.ordersErr
}

func (f *fakeDataSource) CustomersByDate(ctx context.Context, r commerce.DateRange, statuses []commerce.CustomerStatus) ([]commerce.Customer, error) {
	return f.customers, nil
}

func (f *fakeDataSource) ProductsByDate(ctx context.Context, r commerce.DateRange, statuses []commerce.ProductStatus) ([]commerce.Product, error) {
	return f.products, nil
}

func (f *fakeDataSource) CouponsByDate(ctx context.Context, r commerce.DateRange, statuses []commerce.CouponStatus) ([]commerce.Coupon, error) {
	return f.coupons, nil
}

// fakeTypeRepo serves export type configs from memory
type fakeTypeRepo struct {
	configs []export.TypeConfig
	err     error
}

func (f *fakeTypeRepo) FindByID(ctx context.Context, id uuid.UUID) (*export.TypeConfig, error) {
	for i := range f.configs {
		if f.configs[i].ID == id {
			return &f.configs[i], nil
		}
	}
	return nil, export.ErrNotFound
}

func (f *fakeTypeRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]export.TypeConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []export.TypeConfig
	for _, id := range ids {
		for _, cfg := range f.configs {
			if cfg.ID == id {
				out = append(out, cfg)
			}
		}
	}
	return out, nil
}

func (f *fakeTypeRepo) FindAll(ctx context.Context) ([]export.TypeConfig, error) {
	return f.configs, f.err
}

func (f *fakeTypeRepo) FindEnabled(ctx context.Context) ([]export.TypeConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []export.TypeConfig
	for _, cfg := range f.configs {
		if cfg.Enabled {
			out = append(out, cfg)
		}
	}
	return out, nil
}

func (f *fakeTypeRepo) Save(ctx context.Context, cfg *export.TypeConfig) error { return nil }

func (f *fakeTypeRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeTypeRepo) CountEnabled(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, cfg := range f.configs {
		if cfg.Enabled {
			n++
		}
	}
	return n, nil
}

// memHistory is an in-memory history ledger; the capacity cap lives in the
// persistence layer and is not modeled here
type memHistory struct {
	mu        sync.Mutex
	entries   []export.HistoryEntry
	recordErr error
}

func (m *memHistory) Record(ctx context.Context, entry *export.HistoryEntry) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memHistory) Exists(ctx context.Context, exportType export.Kind, date time.Time, exportName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ExportType == exportType && e.ExportName == exportName &&
			e.Status == export.StatusCompleted && sameDay(e.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memHistory) List(ctx context.Context, limit int) ([]export.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]export.HistoryEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *memHistory) Statistics(ctx context.Context) (*export.Statistics, error) {
	return &export.Statistics{}, nil
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// memRetry holds the retry marker in memory
type memRetry struct {
	state *export.RetryState
}

func (m *memRetry) Get(ctx context.Context) (*export.RetryState, error) { return m.state, nil }

func (m *memRetry) Save(ctx context.Context, state *export.RetryState) error {
	m.state = state
	return nil
}

func (m *memRetry) Clear(ctx context.Context) error {
	m.state = nil
	return nil
}

// fakeUploader records upload calls
type fakeUploader struct {
	ok     bool
	err    error
	status ConnectionStatus

	calls []string // object keys, in call order
}

func (f *fakeUploader) Upload(ctx context.Context, bucket, filename, localPath, directory, folder string) (bool, error) {
	key := directory + "/" + filename
	if folder != "" {
		key = folder + "/" + key
	}
	f.calls = append(f.calls, key)
	return f.ok, f.err
}

func (f *fakeUploader) TestConnection(ctx context.Context) ConnectionStatus { return f.status }

// fakeScheduler records retry and arming requests
type fakeScheduler struct {
	retries   []time.Duration
	armed     bool
	cancelled bool
}

func (f *fakeScheduler) ScheduleRetry(ctx context.Context, delay time.Duration) error {
	f.retries = append(f.retries, delay)
	return nil
}

func (f *fakeScheduler) CancelRetry(ctx context.Context) { f.cancelled = true }

func (f *fakeScheduler) ArmDaily(ctx context.Context) error {
	f.armed = true
	return nil
}

// nopLock always grants the lease
type nopLock struct{}

func (nopLock) Acquire(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}

// fakeAlerter records raised alerts
type fakeAlerter struct {
	outcomes []string
	failed   [][]string
}

func (f *fakeAlerter) Alert(ctx context.Context, outcome string, failedTypes []string) {
	f.outcomes = append(f.outcomes, outcome)
	f.failed = append(f.failed, failedTypes)
}
