package export

import (
	"errors"
	"testing"

	"github.com/cartloom/exporter/internal/domain/commerce"
	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewExtractor(t *testing.T) {
	logger := zap.NewNop()
	src := &fakeDataSource{}

	for _, kind := range export.AllKinds() {
		t.Run(string(kind), func(t *testing.T) {
			ex, err := NewExtractor(kind, src, "https://shop.example.com", nil, logger)
			require.NoError(t, err)
			assert.NotNil(t, ex)
		})
	}

	t.Run("custom kind has no extractor", func(t *testing.T) {
		_, err := NewExtractor(export.KindCustom, src, "", nil, logger)
		require.Error(t, err)
	})
}

func TestSafeBuild(t *testing.T) {
	t.Run("returns the built record", func(t *testing.T) {
		rec, err := safeBuild(func() export.Record { return export.Record{"a": "1"} })
		require.NoError(t, err)
		assert.Equal(t, "1", rec["a"])
	})

	t.Run("converts a panic into an error", func(t *testing.T) {
		_, err := safeBuild(func() export.Record { panic("bad entity") })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad entity")
	})
}

func TestStatusFilters(t *testing.T) {
	t.Run("empty list defaults to all order statuses", func(t *testing.T) {
		assert.ElementsMatch(t, commerce.AllOrderStatuses(), orderStatusFilter(nil))
	})

	t.Run("allow-list restricts order statuses", func(t *testing.T) {
		got := orderStatusFilter([]string{"completed", "processing"})
		assert.ElementsMatch(t, []commerce.OrderStatus{commerce.OrderStatusCompleted, commerce.OrderStatusProcessing}, got)
	})

	t.Run("unknown statuses are dropped", func(t *testing.T) {
		got := orderStatusFilter([]string{"completed", "teleported"})
		assert.ElementsMatch(t, []commerce.OrderStatus{commerce.OrderStatusCompleted}, got)
	})

	t.Run("only unknown statuses falls back to all", func(t *testing.T) {
		assert.ElementsMatch(t, commerce.AllOrderStatuses(), orderStatusFilter([]string{"teleported"}))
	})

	t.Run("customer and product and coupon defaults", func(t *testing.T) {
		assert.ElementsMatch(t, commerce.AllCustomerStatuses(), customerStatusFilter(nil))
		assert.ElementsMatch(t, commerce.AllProductStatuses(), productStatusFilter(nil))
		assert.ElementsMatch(t, commerce.AllCouponStatuses(), couponStatusFilter(nil))
	})
}

func TestErrorCollector(t *testing.T) {
	c := NewErrorCollector()
	assert.Equal(t, 0, c.Count())

	c.add("order-1", "order fields", errors.New("boom"))
	c.add("order-2", "line item", errors.New("bang"))

	require.Equal(t, 2, c.Count())
	assert.Equal(t, "order-1", c.Errors()[0].EntityID)
	assert.Contains(t, c.Errors()[1].Error(), "bang")
}
