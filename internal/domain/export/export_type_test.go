package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *TypeConfig {
	return &TypeConfig{
		Name:       "Orders",
		Kind:       KindOrders,
		Enabled:    true,
		FilePrefix: "orders",
		Mappings: []FieldMapping{
			{Enabled: true, DataSource: "order_id", ColumnName: "Order ID"},
			{Enabled: true, DataSource: "order_total", ColumnName: "Order Total"},
		},
	}
}

func TestTypeConfig_Validate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Name = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Kind = Kind("invoices")
		require.Error(t, cfg.Validate())
	})

	t.Run("empty file prefix is rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.FilePrefix = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("duplicate data source keys are rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Mappings = append(cfg.Mappings, FieldMapping{Enabled: false, DataSource: "order_id", ColumnName: "Duplicate"})
		err := cfg.Validate()
		require.Error(t, err)
		assert.Equal(t, ErrDuplicateMappingKey, err)
	})

	t.Run("empty data source key is rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Mappings = append(cfg.Mappings, FieldMapping{Enabled: true, ColumnName: "Blank"})
		require.Error(t, cfg.Validate())
	})
}

func TestTypeConfig_EnabledMappings(t *testing.T) {
	t.Run("disabled mappings never appear", func(t *testing.T) {
		cfg := validConfig()
		cfg.Mappings = []FieldMapping{
			{Enabled: true, DataSource: "order_id", ColumnName: "Order ID"},
			{Enabled: false, DataSource: "status", ColumnName: "Status"},
			{Enabled: true, DataSource: "order_total", ColumnName: "Order Total"},
		}

		enabled := cfg.EnabledMappings()

		require.Len(t, enabled, 2)
		assert.Equal(t, "order_id", enabled[0].DataSource)
		assert.Equal(t, "order_total", enabled[1].DataSource)
	})

	t.Run("order is preserved", func(t *testing.T) {
		cfg := validConfig()
		enabled := cfg.EnabledMappings()
		require.Len(t, enabled, 2)
		assert.Equal(t, "Order ID", enabled[0].ColumnName)
		assert.Equal(t, "Order Total", enabled[1].ColumnName)
	})

	t.Run("origin column is appended last when configured", func(t *testing.T) {
		cfg := validConfig()
		cfg.IncludeOrigin = true

		enabled := cfg.EnabledMappings()

		require.Len(t, enabled, 3)
		last := enabled[len(enabled)-1]
		assert.Equal(t, OriginDataSource, last.DataSource)
		assert.Equal(t, OriginColumnName, last.ColumnName)
	})

	t.Run("origin column is not appended when not configured", func(t *testing.T) {
		cfg := validConfig()
		cfg.IncludeOrigin = false
		assert.Len(t, cfg.EnabledMappings(), 2)
	})

	t.Run("conflicting origin mapping under foreign key is replaced", func(t *testing.T) {
		cfg := validConfig()
		cfg.IncludeOrigin = true
		cfg.Mappings = append([]FieldMapping{
			{Enabled: true, DataSource: "site_url", ColumnName: OriginColumnName},
		}, cfg.Mappings...)

		enabled := cfg.EnabledMappings()

		require.Len(t, enabled, 3)
		for _, m := range enabled[:len(enabled)-1] {
			assert.NotEqual(t, OriginColumnName, m.ColumnName)
		}
		assert.Equal(t, OriginDataSource, enabled[len(enabled)-1].DataSource)
	})

	t.Run("existing canonical origin mapping is kept once", func(t *testing.T) {
		cfg := validConfig()
		cfg.IncludeOrigin = true
		cfg.Mappings = append(cfg.Mappings, FieldMapping{Enabled: true, DataSource: OriginDataSource, ColumnName: OriginColumnName})

		enabled := cfg.EnabledMappings()

		count := 0
		for _, m := range enabled {
			if m.DataSource == OriginDataSource {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestTypeConfig_FileName(t *testing.T) {
	cfg := validConfig()
	date := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "orders-07-03-2026.csv", cfg.FileName(date))
}
