package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ashishpimple94/hostel-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Room{},
		&models.Bed{},
		&models.Fee{},
		&models.Complaint{},
		&models.Attendance{},
		&models.Notice{},
	))
	return db
}

func createRoom(t *testing.T, db *gorm.DB, roomNo string, capacity int) *models.Room {
	t.Helper()
	typ := map[int]string{1: models.RoomSingle, 2: models.RoomDouble, 3: models.RoomTriple, 4: models.RoomQuadruple}[capacity]
	room := &models.Room{
		RoomNo:   roomNo,
		Floor:    1,
		Building: "A",
		Type:     typ,
		Capacity: capacity,
		Rent:     5000,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func createStudent(t *testing.T, db *gorm.DB, code string) *models.Student {
	t.Helper()
	student := &models.Student{
		StudentID: code,
		FirstName: "Test",
		LastName:  code,
		Email:     code + "@example.com",
	}
	require.NoError(t, db.Create(student).Error)
	return student
}
