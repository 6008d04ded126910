// Package testutil builds throwaway databases and configs for package tests.
package testutil

import (
	"fmt"
	"testing"

	"qraksha/internal/adapters/persistence/models"
	"qraksha/internal/config"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
// It is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Config returns a dev config with rate limits off and a fixed secret
func Config() *config.Config {
	return &config.Config{
		AppMode: "dev",
		Port:    "0",
		Log:     config.LogConfig{Level: "error", Format: "json"},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
		},
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenMins: 60,
		},
		Cache: config.CacheConfig{
			Driver:     "memory",
			TTLSeconds: 300,
		},
		QR: config.QRConfig{BaseURL: "http://localhost:5174"},
		Alerts: config.AlertConfig{
			DeletePolicy:      config.AlertPolicyOrphan,
			SweepSchedule:     "@every 5m",
			EscalateAfterMins: 15,
		},
		Notify: config.NotifyConfig{TimeoutSecs: 1},
	}
}
