package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tripatlas/api-go/models"
)

// ConnectDatabase opens the database from a single DATABASE_URL DSN.
func ConnectDatabase() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found, relying on environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// InitDB connects via DATABASE_URL when set, else assembles a DSN from the
// individual DB_* variables, and runs migrations.
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	if os.Getenv("DATABASE_URL") != "" {
		db, err = ConnectDatabase()
	} else {
		dbHost := os.Getenv("DB_HOST")
		dbUser := os.Getenv("DB_USER")
		dbPassword := os.Getenv("DB_PASSWORD")
		dbName := os.Getenv("DB_NAME")
		dbPort := os.Getenv("DB_PORT")

		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			dbHost, dbUser, dbPassword, dbName, dbPort)

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto Migrate models
	db.AutoMigrate(&models.Activity{}, &models.AuditLog{})

	return db
}
