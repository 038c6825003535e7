package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/config"
	"github.com/ashishpimple94/hostel-backend/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// Duplicate-key violations surface as gorm.ErrDuplicatedKey so
		// handlers can report them as domain conflicts.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Room{},
		&models.Bed{},
		&models.Fee{},
		&models.Complaint{},
		&models.Attendance{},
		&models.Notice{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}
