package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ashishpimple94/hostel-backend/database"
	"github.com/ashishpimple94/hostel-backend/models"
)

// setupDB swaps the package-level connection for a throwaway sqlite file
// and restores it when the test ends.
func setupDB(t *testing.T) *gorm.DB {
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

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

type identity struct {
	UserID    uint
	Role      string
	StudentID uint
}

// newContext builds an echo context the way the auth middleware would
// leave it, with the caller's identity already attached.
func newContext(t *testing.T, method, target string, body any, who identity) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", who.UserID)
	c.Set("role", who.Role)
	c.Set("student_id", who.StudentID)
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

var admin = identity{UserID: 1, Role: models.RoleAdmin}

func seedStudent(t *testing.T, db *gorm.DB, code string) *models.Student {
	t.Helper()
	s := &models.Student{
		StudentID: code,
		FirstName: "Test",
		LastName:  code,
		Email:     code + "@example.com",
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func seedRoom(t *testing.T, db *gorm.DB, roomNo string, capacity int) *models.Room {
	t.Helper()
	typ := map[int]string{1: models.RoomSingle, 2: models.RoomDouble, 3: models.RoomTriple, 4: models.RoomQuadruple}[capacity]
	r := &models.Room{
		RoomNo:   roomNo,
		Floor:    1,
		Building: "A",
		Type:     typ,
		Capacity: capacity,
		Rent:     5000,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func uintParam(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) map[string]any {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
	return decodeBody(t, rec)
}
