package database

import (
	"log"
	"os"

	"funnel-analytics/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// The store only holds the dataset loaded from the CSV, so an in-memory
// database is enough unless DATABASE_PATH points somewhere else.
const defaultDSN = "file::memory:?cache=shared"

func InitDB() {
	dsn := os.Getenv("DATABASE_PATH")
	if dsn == "" {
		dsn = defaultDSN
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := DB.AutoMigrate(&models.Candidate{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database connected successfully")
}

func GetDB() *gorm.DB {
	return DB
}
