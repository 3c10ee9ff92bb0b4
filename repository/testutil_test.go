package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jetmil/dreamcapture/models"
)

// newTestDB opens a fresh in-memory database per test so cases never share
// state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Dream{},
		&models.Moment{},
		&models.Resonance{},
		&models.SavedContent{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
