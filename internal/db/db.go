package db

import (
	"log"

	"campusresponse/internal/config"
	"campusresponse/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init connects to PostgreSQL and migrates the schema. Fatal on failure.
func Init(cfg *config.AppConfig) {
	gdb, err := Open(postgres.Open(cfg.DatabaseURL))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	DB = gdb
	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")
}

// Open connects with driver errors translated, so unique violations surface
// as gorm.ErrDuplicatedKey on every backend.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Incident{},
		&models.Notification{},
	)
}
