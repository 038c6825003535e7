package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ashishpimple94/hostel-backend/database"
	"github.com/ashishpimple94/hostel-backend/models"
	"github.com/ashishpimple94/hostel-backend/services"
)

func newRoomHandler() *RoomHandler {
	return NewRoomHandler(services.NewAllocationService(database.DB, zap.NewNop()))
}

func TestRoomCreate_InitializesBedsAndDefaults(t *testing.T) {
	db := setupDB(t)
	h := newRoomHandler()

	c, rec := newContext(t, http.MethodPost, "/api/rooms", map[string]any{
		"room_no":  "A-101",
		"floor":    1,
		"building": "A",
		"type":     models.RoomDouble,
		"rent":     5000,
	}, admin)
	require.NoError(t, h.Create(c))
	mustStatus(t, rec, http.StatusCreated)

	var room models.Room
	require.NoError(t, db.Preload("Beds").Where("room_no = ?", "A-101").First(&room).Error)
	assert.Equal(t, 2, room.Capacity) // derived from type
	assert.Equal(t, models.RoomAvailable, room.Status)
	assert.Equal(t, 3000.0, room.MessChargePerMonth)
	require.Len(t, room.Beds, 2)
	assert.Equal(t, 1, room.Beds[0].BedNumber)
	assert.Equal(t, 2, room.Beds[1].BedNumber)
}

func TestRoomCreate_RejectsCapacityTypeMismatch(t *testing.T) {
	setupDB(t)
	h := newRoomHandler()

	c, rec := newContext(t, http.MethodPost, "/api/rooms", map[string]any{
		"room_no":  "A-101",
		"building": "A",
		"type":     models.RoomSingle,
		"capacity": 3,
		"rent":     5000,
	}, admin)
	require.NoError(t, h.Create(c))
	body := mustStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "Capacity does not match room type", body["message"])
}

func TestRoomCreate_DuplicateRoomNo(t *testing.T) {
	db := setupDB(t)
	h := newRoomHandler()
	seedRoom(t, db, "A-101", 2)

	c, rec := newContext(t, http.MethodPost, "/api/rooms", map[string]any{
		"room_no":  "A-101",
		"building": "A",
		"type":     models.RoomDouble,
		"rent":     5000,
	}, admin)
	require.NoError(t, h.Create(c))
	body := mustStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "Room number already exists", body["message"])
}

func TestRoomUpdate_KeepsExistingBeds(t *testing.T) {
	db := setupDB(t)
	h := newRoomHandler()
	room := seedRoom(t, db, "A-101", 2)

	c, rec := newContext(t, http.MethodPut, "/", map[string]any{
		"room_no":  "A-101",
		"building": "A",
		"type":     models.RoomDouble,
		"rent":     6000,
	}, admin)
	c.SetParamNames("id")
	c.SetParamValues(uintParam(room.ID))
	require.NoError(t, h.Update(c))
	mustStatus(t, rec, http.StatusOK)

	var count int64
	require.NoError(t, db.Model(&models.Bed{}).Where("room_id = ?", room.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	var fresh models.Room
	require.NoError(t, db.First(&fresh, room.ID).Error)
	assert.Equal(t, 6000.0, fresh.Rent)
}

func TestRoomAllocate_EndToEnd(t *testing.T) {
	db := setupDB(t)
	h := newRoomHandler()
	room := seedRoom(t, db, "A-101", 2)
	s := seedStudent(t, db, "STU00001")

	c, rec := newContext(t, http.MethodPost, "/", map[string]any{"student_id": s.ID}, admin)
	c.SetParamNames("id")
	c.SetParamValues(uintParam(room.ID))
	require.NoError(t, h.Allocate(c))
	mustStatus(t, rec, http.StatusOK)

	var fresh models.Student
	require.NoError(t, db.First(&fresh, s.ID).Error)
	require.NotNil(t, fresh.RoomID)
	assert.Equal(t, room.ID, *fresh.RoomID)
}

func TestRoomAllocate_UnknownStudentIs404(t *testing.T) {
	db := setupDB(t)
	h := newRoomHandler()
	room := seedRoom(t, db, "A-101", 2)

	c, rec := newContext(t, http.MethodPost, "/", map[string]any{"student_id": 9999}, admin)
	c.SetParamNames("id")
	c.SetParamValues(uintParam(room.ID))
	require.NoError(t, h.Allocate(c))
	mustStatus(t, rec, http.StatusNotFound)
}

func TestRoomDelete_BlockedWhileOccupied(t *testing.T) {
	db := setupDB(t)
	h := newRoomHandler()
	room := seedRoom(t, db, "A-101", 2)
	s := seedStudent(t, db, "STU00001")

	c, rec := newContext(t, http.MethodPost, "/", map[string]any{"student_id": s.ID}, admin)
	c.SetParamNames("id")
	c.SetParamValues(uintParam(room.ID))
	require.NoError(t, h.Allocate(c))
	mustStatus(t, rec, http.StatusOK)

	c, rec = newContext(t, http.MethodDelete, "/", nil, admin)
	c.SetParamNames("id")
	c.SetParamValues(uintParam(room.ID))
	require.NoError(t, h.Delete(c))
	mustStatus(t, rec, http.StatusBadRequest)

	c, rec = newContext(t, http.MethodPost, "/", map[string]any{"student_id": s.ID}, admin)
	c.SetParamNames("id")
	c.SetParamValues(uintParam(room.ID))
	require.NoError(t, h.Deallocate(c))
	mustStatus(t, rec, http.StatusOK)

	c, rec = newContext(t, http.MethodDelete, "/", nil, admin)
	c.SetParamNames("id")
	c.SetParamValues(uintParam(room.ID))
	require.NoError(t, h.Delete(c))
	mustStatus(t, rec, http.StatusOK)

	c, rec = newContext(t, http.MethodGet, "/", nil, admin)
	c.SetParamNames("id")
	c.SetParamValues(uintParam(room.ID))
	require.NoError(t, h.Get(c))
	mustStatus(t, rec, http.StatusNotFound)
}

func TestRoomAvailable_ExcludesFullAndMaintenance(t *testing.T) {
	db := setupDB(t)
	h := newRoomHandler()
	seedRoom(t, db, "A-101", 2)
	full := seedRoom(t, db, "A-102", 1)
	s := seedStudent(t, db, "STU00001")

	c, rec := newContext(t, http.MethodPost, "/", map[string]any{"student_id": s.ID}, admin)
	c.SetParamNames("id")
	c.SetParamValues(uintParam(full.ID))
	require.NoError(t, h.Allocate(c))
	mustStatus(t, rec, http.StatusOK)

	maint := seedRoom(t, db, "A-103", 2)
	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", maint.ID).Update("status", models.RoomMaintenance).Error)

	c, rec = newContext(t, http.MethodGet, "/api/rooms/available", nil, admin)
	require.NoError(t, h.Available(c))
	body := mustStatus(t, rec, http.StatusOK)
	assert.EqualValues(t, 1, body["count"])
}

func TestRoomAvailabilityStats_Sections(t *testing.T) {
	db := setupDB(t)
	h := newRoomHandler()
	seedRoom(t, db, "A-101", 4)
	ac := seedRoom(t, db, "A-102", 2)
	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", ac.ID).Update("is_ac", true).Error)
	s := seedStudent(t, db, "STU00001")

	c, rec := newContext(t, http.MethodPost, "/", map[string]any{"student_id": s.ID}, admin)
	c.SetParamNames("id")
	c.SetParamValues(uintParam(ac.ID))
	require.NoError(t, h.Allocate(c))
	mustStatus(t, rec, http.StatusOK)

	c, rec = newContext(t, http.MethodGet, "/api/rooms/availability-stats", nil, admin)
	require.NoError(t, h.AvailabilityStats(c))
	body := mustStatus(t, rec, http.StatusOK)

	data := body["data"].(map[string]any)
	nonAC := data["nonAC"].(map[string]any)["fourSharing"].(map[string]any)
	assert.EqualValues(t, 4, nonAC["total"])
	assert.EqualValues(t, 4, nonAC["available"])

	acTwo := data["AC"].(map[string]any)["twoSharing"].(map[string]any)
	assert.EqualValues(t, 2, acTwo["total"])
	assert.EqualValues(t, 1, acTwo["occupied"])
	assert.EqualValues(t, 1, acTwo["available"])
}
