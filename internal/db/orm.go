package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"skyops/copilot/internal/models/entities"
)

var ORM *gorm.DB

// InitORM opens the record store. With PG_HOST set it connects to Postgres;
// otherwise it falls back to a local sqlite file so the demo runs without
// infrastructure.
func InitORM() (*gorm.DB, error) {
	var (
		database *gorm.DB
		err      error
	)

	if host := os.Getenv("PG_HOST"); host != "" {
		user := os.Getenv("PG_USER")
		password := os.Getenv("PG_PASSWORD")
		port := os.Getenv("PG_PORT")
		dbname := os.Getenv("PG_DB")
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
		database, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "skycopilot.db"
		}
		database, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	if err := database.AutoMigrate(&entities.Pilot{}, &entities.Flight{}); err != nil {
		return nil, fmt.Errorf("failed to migrate record store: %w", err)
	}

	ORM = database
	return database, nil
}
