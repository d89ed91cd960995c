package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"CARTLOOM_APP_NAME":                os.Getenv("CARTLOOM_APP_NAME"),
		"CARTLOOM_APP_ENV":                 os.Getenv("CARTLOOM_APP_ENV"),
		"CARTLOOM_APP_PORT":                os.Getenv("CARTLOOM_APP_PORT"),
		"CARTLOOM_DATABASE_HOST":           os.Getenv("CARTLOOM_DATABASE_HOST"),
		"CARTLOOM_DATABASE_PORT":           os.Getenv("CARTLOOM_DATABASE_PORT"),
		"CARTLOOM_DATABASE_USER":           os.Getenv("CARTLOOM_DATABASE_USER"),
		"CARTLOOM_DATABASE_PASSWORD":       os.Getenv("CARTLOOM_DATABASE_PASSWORD"),
		"CARTLOOM_DATABASE_DBNAME":         os.Getenv("CARTLOOM_DATABASE_DBNAME"),
		"CARTLOOM_DATABASE_SSLMODE":        os.Getenv("CARTLOOM_DATABASE_SSLMODE"),
		"CARTLOOM_DATABASE_MAX_OPEN_CONNS": os.Getenv("CARTLOOM_DATABASE_MAX_OPEN_CONNS"),
		"CARTLOOM_DATABASE_MAX_IDLE_CONNS": os.Getenv("CARTLOOM_DATABASE_MAX_IDLE_CONNS"),
		"CARTLOOM_STORAGE_BUCKET":          os.Getenv("CARTLOOM_STORAGE_BUCKET"),
		"CARTLOOM_STORAGE_ACCESS_KEY":      os.Getenv("CARTLOOM_STORAGE_ACCESS_KEY"),
		"CARTLOOM_STORAGE_SECRET_KEY":      os.Getenv("CARTLOOM_STORAGE_SECRET_KEY"),
		"CARTLOOM_EXPORT_TIMEZONE":         os.Getenv("CARTLOOM_EXPORT_TIMEZONE"),
		"CARTLOOM_EXPORT_SERVICE_NAME":     os.Getenv("CARTLOOM_EXPORT_SERVICE_NAME"),
		"CARTLOOM_SCHEDULER_RETRY_DELAY":   os.Getenv("CARTLOOM_SCHEDULER_RETRY_DELAY"),
		"CARTLOOM_ALERT_EMAIL_ENABLED":     os.Getenv("CARTLOOM_ALERT_EMAIL_ENABLED"),
		"CARTLOOM_ALERT_RECIPIENT":         os.Getenv("CARTLOOM_ALERT_RECIPIENT"),
		"CARTLOOM_ALERT_SMTP_HOST":         os.Getenv("CARTLOOM_ALERT_SMTP_HOST"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "cartloom-exporter", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "cartloom", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "UTC", cfg.Export.Timezone)
		assert.Equal(t, "0 2 * * *", cfg.Scheduler.DailyCronSchedule)
	})

	t.Run("loads values from environment variables with CARTLOOM prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("CARTLOOM_APP_NAME", "test-exporter")
		os.Setenv("CARTLOOM_APP_PORT", "9000")
		os.Setenv("CARTLOOM_DATABASE_HOST", "testdb.local")
		os.Setenv("CARTLOOM_DATABASE_PORT", "5433")
		os.Setenv("CARTLOOM_DATABASE_USER", "testuser")
		os.Setenv("CARTLOOM_DATABASE_PASSWORD", "testpass")
		os.Setenv("CARTLOOM_STORAGE_BUCKET", "exports")
		os.Setenv("CARTLOOM_EXPORT_SERVICE_NAME", "https://shop.example.com")
		os.Setenv("CARTLOOM_SCHEDULER_RETRY_DELAY", "30m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-exporter", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "exports", cfg.Storage.Bucket)
		assert.Equal(t, "https://shop.example.com", cfg.Export.ServiceName)
		assert.Equal(t, "30m0s", cfg.Scheduler.RetryDelay.String())
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("CARTLOOM_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("CARTLOOM_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects an invalid timezone", func(t *testing.T) {
		clearEnv()
		os.Setenv("CARTLOOM_EXPORT_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timezone")
	})

	t.Run("email alerting requires recipient and smtp host", func(t *testing.T) {
		clearEnv()
		os.Setenv("CARTLOOM_ALERT_EMAIL_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "alert.recipient")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"CARTLOOM_APP_ENV":            os.Getenv("CARTLOOM_APP_ENV"),
		"CARTLOOM_DATABASE_PASSWORD":  os.Getenv("CARTLOOM_DATABASE_PASSWORD"),
		"CARTLOOM_DATABASE_SSLMODE":   os.Getenv("CARTLOOM_DATABASE_SSLMODE"),
		"CARTLOOM_STORAGE_BUCKET":     os.Getenv("CARTLOOM_STORAGE_BUCKET"),
		"CARTLOOM_STORAGE_ACCESS_KEY": os.Getenv("CARTLOOM_STORAGE_ACCESS_KEY"),
		"CARTLOOM_STORAGE_SECRET_KEY": os.Getenv("CARTLOOM_STORAGE_SECRET_KEY"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setValidProductionBase := func() {
		os.Setenv("CARTLOOM_APP_ENV", "production")
		os.Setenv("CARTLOOM_DATABASE_PASSWORD", "secure-password")
		os.Setenv("CARTLOOM_DATABASE_SSLMODE", "require")
		os.Setenv("CARTLOOM_STORAGE_BUCKET", "exports")
		os.Setenv("CARTLOOM_STORAGE_ACCESS_KEY", "AKIA000")
		os.Setenv("CARTLOOM_STORAGE_SECRET_KEY", "secret")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("CARTLOOM_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("CARTLOOM_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires storage bucket in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("CARTLOOM_STORAGE_BUCKET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket is required in production")
	})

	t.Run("requires storage credentials in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("CARTLOOM_STORAGE_SECRET_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage credentials are required in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})
}

func TestExportConfig_Location(t *testing.T) {
	t.Run("resolves a valid timezone", func(t *testing.T) {
		cfg := ExportConfig{Timezone: "America/New_York"}
		assert.Equal(t, "America/New_York", cfg.Location().String())
	})

	t.Run("falls back to UTC on a bad timezone", func(t *testing.T) {
		cfg := ExportConfig{Timezone: "nope"}
		assert.Equal(t, "UTC", cfg.Location().String())
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
