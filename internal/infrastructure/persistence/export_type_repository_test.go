package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersMappingsJSON = `[{"enabled":true,"data_source":"order_id","column_name":"Order ID"},` +
	`{"enabled":false,"data_source":"order_total","column_name":"Order Total"}]`

func exportTypeRows(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "kind", "enabled", "frequency", "time_of_day",
		"remote_directory", "local_folder", "file_prefix",
		"mappings", "statuses", "include_origin", "created_at", "updated_at",
	}).AddRow(
		id, "Orders", "orders", true, "daily", "02:00",
		"exports", "orders", "orders",
		ordersMappingsJSON, `["completed","processing"]`, true, time.Now(), time.Now(),
	)
}

func TestGormExportTypeRepository_FindByID(t *testing.T) {
	t.Run("decodes mappings and statuses from JSON", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportTypeRepository(gormDB)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "export_types" WHERE id = \$1`).
			WithArgs(id, 1).
			WillReturnRows(exportTypeRows(id))

		cfg, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, "Orders", cfg.Name)
		assert.Equal(t, export.KindOrders, cfg.Kind)
		require.Len(t, cfg.Mappings, 2)
		assert.Equal(t, "order_id", cfg.Mappings[0].DataSource)
		assert.True(t, cfg.Mappings[0].Enabled)
		assert.False(t, cfg.Mappings[1].Enabled)
		assert.Equal(t, []string{"completed", "processing"}, cfg.Statuses)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing rows to ErrNotFound", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportTypeRepository(gormDB)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "export_types"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		cfg, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, cfg)
		assert.True(t, errors.Is(err, export.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExportTypeRepository_FindEnabled(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormExportTypeRepository(gormDB)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "export_types" WHERE enabled = \$1 ORDER BY name ASC`).
		WithArgs(true).
		WillReturnRows(exportTypeRows(id))

	configs, err := repo.FindEnabled(context.Background())

	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, id, configs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormExportTypeRepository_CountEnabled(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormExportTypeRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "export_types" WHERE enabled = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountEnabled(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormExportTypeRepository_Save(t *testing.T) {
	t.Run("rejects configs with duplicate mapping keys before touching the database", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportTypeRepository(gormDB)

		cfg := &export.TypeConfig{
			ID:   uuid.New(),
			Name: "Orders",
			Kind: export.KindOrders,
			Mappings: []export.FieldMapping{
				{Enabled: true, DataSource: "order_id", ColumnName: "Order ID"},
				{Enabled: true, DataSource: "order_id", ColumnName: "Duplicate"},
			},
		}

		err := repo.Save(context.Background(), cfg)

		assert.True(t, errors.Is(err, export.ErrDuplicateMappingKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("persists a valid config", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportTypeRepository(gormDB)

		mock.ExpectExec(`INSERT INTO "export_types"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		cfg := &export.TypeConfig{
			ID:         uuid.New(),
			Name:       "Orders",
			Kind:       export.KindOrders,
			Enabled:    true,
			FilePrefix: "orders",
			Mappings:   export.DefaultMappings(export.KindOrders),
		}

		err := repo.Save(context.Background(), cfg)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExportTypeRepository_Delete(t *testing.T) {
	t.Run("deletes an existing config", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportTypeRepository(gormDB)

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "export_types" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleting an unknown config is ErrNotFound", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportTypeRepository(gormDB)

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "export_types"`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), id)

		assert.True(t, errors.Is(err, export.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
