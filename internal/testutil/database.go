// Package testutil provides test helpers for setting up throwaway databases,
// creating fixtures, and making assertions.
package testutil

import (
	"path/filepath"
	"testing"

	"gastocerto/internal/config"
	"gastocerto/internal/database"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB opens a SQLite database private to t, applies the embedded
// migrations the application runs at startup and closes it when the test
// ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	manager, err := database.NewManager(&database.Config{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := manager.RunMigrations(); err != nil {
		_ = manager.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db := manager.DB().Session(&gorm.Session{NewDB: true, Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	t.Cleanup(func() { TeardownTestDB(t, db) })
	return db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	_ = sqlDB.Close()
}
