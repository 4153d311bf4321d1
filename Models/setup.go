package Models

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the database and runs migrations. The returned handle is
// constructed once in main and passed to the components that need it.
func Connect(path string) (*gorm.DB, error) {
	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 1. Models with no dependencies
	if err := connection.AutoMigrate(
		&User{},
		&DiseaseReport{},
	); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	// 2. Models referencing users and reports
	if err := connection.AutoMigrate(
		&Notification{},
		&Task{},
	); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return connection, nil
}
