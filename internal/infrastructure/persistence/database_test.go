package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newPingableMockDB is like newMockDB but with ping monitoring enabled
func newPingableMockDB(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	// gorm.Open pings the connection once during initialization; with ping
	// monitoring enabled the mock must expect it or Open fails.
	mock.ExpectPing()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("succeeds when the connection is alive", func(t *testing.T) {
		db, mock := newPingableMockDB(t)
		defer db.Close()

		mock.ExpectPing()
		assert.NoError(t, db.Ping())
	})

	t.Run("propagates connection failure", func(t *testing.T) {
		db, mock := newPingableMockDB(t)
		defer db.Close()

		mock.ExpectPing().WillReturnError(assert.AnError)
		assert.Error(t, db.Ping())
	})
}

func TestDatabase_Close(t *testing.T) {
	db, mock := newPingableMockDB(t)

	mock.ExpectClose()
	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
