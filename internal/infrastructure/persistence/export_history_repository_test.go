package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func historyEntryFixture() *export.HistoryEntry {
	return &export.HistoryEntry{
		ID:         uuid.New(),
		ExportType: export.KindOrders,
		ExportName: "Orders",
		Date:       time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC),
		FileName:   "orders-06-03-2026.csv",
		FilePath:   "/var/exports/orders/orders-06-03-2026.csv",
		Status:     export.StatusCompleted,
		FileSize:   2048,
		FileExists: true,
		CreatedAt:  time.Now(),
	}
}

func TestGormExportHistoryRepository_Record(t *testing.T) {
	t.Run("appends an entry when under capacity", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportHistoryRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "export_histories"`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "export_histories"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
		mock.ExpectCommit()

		err := repo.Record(context.Background(), historyEntryFixture())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("evicts the oldest entries beyond capacity", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportHistoryRepository(gormDB)

		staleID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "export_histories"`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "export_histories"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(export.HistoryCapacity + 1))
		mock.ExpectQuery(`SELECT "id" FROM "export_histories" ORDER BY created_at ASC LIMIT`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(staleID.String()))
		mock.ExpectExec(`DELETE FROM "export_histories" WHERE id IN`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Record(context.Background(), historyEntryFixture())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the insert fails", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportHistoryRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "export_histories"`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := repo.Record(context.Background(), historyEntryFixture())

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExportHistoryRepository_Exists(t *testing.T) {
	t.Run("matches completed entry for type, date and name", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportHistoryRepository(gormDB)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "export_histories" WHERE export_type = \$1 AND export_name = \$2 AND date = \$3 AND status = \$4`).
			WithArgs("orders", "Orders", "2026-03-06", "completed").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		date := time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)
		exists, err := repo.Exists(context.Background(), export.KindOrders, date, "Orders")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports false when no completed entry exists", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportHistoryRepository(gormDB)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "export_histories"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.Exists(context.Background(), export.KindCustomers, time.Now(), "Customers")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExportHistoryRepository_List(t *testing.T) {
	t.Run("returns entries most recent first", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportHistoryRepository(gormDB)

		id := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "export_type", "export_name", "date", "file_name", "file_path", "status", "file_size", "file_exists", "created_at"}).
			AddRow(id, "orders", "Orders", time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC),
				"orders-06-03-2026.csv", "/var/exports/orders/orders-06-03-2026.csv", "completed", int64(2048), true, time.Now())

		mock.ExpectQuery(`SELECT \* FROM "export_histories" ORDER BY created_at DESC LIMIT`).
			WillReturnRows(rows)

		entries, err := repo.List(context.Background(), 10)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, id, entries[0].ID)
		assert.Equal(t, export.KindOrders, entries[0].ExportType)
		assert.Equal(t, export.StatusCompleted, entries[0].Status)
		assert.Equal(t, int64(2048), entries[0].FileSize)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("caps the limit at ledger capacity", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExportHistoryRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "export_histories" ORDER BY created_at DESC LIMIT`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.List(context.Background(), export.HistoryCapacity*2)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExportHistoryRepository_Statistics(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormExportHistoryRepository(gormDB)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "succeeded", "failed", "total_bytes"}).
			AddRow(10, 8, 2, int64(40960)))
	mock.ExpectQuery(`SELECT export_type AS key, COUNT\(\*\) AS count FROM "export_histories" GROUP BY`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).
			AddRow("orders", 6).AddRow("customers", 4))
	mock.ExpectQuery(`SELECT TO_CHAR\(date, 'YYYY-MM-DD'\) AS key, COUNT\(\*\) AS count FROM "export_histories" GROUP BY`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).
			AddRow("2026-03-06", 10))

	stats, err := repo.Statistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(8), stats.Succeeded)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Equal(t, int64(40960), stats.TotalBytes)
	assert.Equal(t, int64(6), stats.ByType["orders"])
	assert.Equal(t, int64(10), stats.ByDate["2026-03-06"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
