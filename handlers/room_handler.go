package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/database"
	"github.com/ashishpimple94/hostel-backend/models"
	"github.com/ashishpimple94/hostel-backend/services"
)

const availabilityStatsKey = "rooms:availability-stats"

type RoomHandler struct {
	alloc *services.AllocationService
}

func NewRoomHandler(alloc *services.AllocationService) *RoomHandler {
	return &RoomHandler{alloc: alloc}
}

var roomCapacities = map[string]int{
	models.RoomSingle:    1,
	models.RoomDouble:    2,
	models.RoomTriple:    3,
	models.RoomQuadruple: 4,
}

type roomPayload struct {
	RoomNo               string   `json:"room_no"`
	Floor                int      `json:"floor"`
	Building             string   `json:"building"`
	Type                 string   `json:"type"`
	Capacity             int      `json:"capacity"`
	IsAC                 bool     `json:"is_ac"`
	IsBunk               bool     `json:"is_bunk"`
	Amenities            []string `json:"amenities"`
	Rent                 float64  `json:"rent"`
	RentFor5Months       float64  `json:"rent_for_5_months"`
	MessChargePerMonth   float64  `json:"mess_charge_per_month"`
	MessChargeFor5Months float64  `json:"mess_charge_for_5_months"`
	IsMessCompulsory     *bool    `json:"is_mess_compulsory"`
	Status               string   `json:"status"`
}

func validateRoom(p *roomPayload) string {
	p.RoomNo = strings.TrimSpace(p.RoomNo)
	p.Building = strings.TrimSpace(p.Building)
	if p.RoomNo == "" {
		return "Room number is required"
	}
	if p.Building == "" {
		return "Building is required"
	}
	want, ok := roomCapacities[p.Type]
	if !ok {
		return "Room type must be single, double, triple or quadruple"
	}
	if p.Capacity == 0 {
		p.Capacity = want
	}
	if p.Capacity != want {
		return "Capacity does not match room type"
	}
	if p.Rent <= 0 {
		return "Rent is required"
	}
	if p.Status != "" {
		switch p.Status {
		case models.RoomAvailable, models.RoomOccupied, models.RoomMaintenance, models.RoomUnavailable:
		default:
			return "Invalid room status"
		}
	}
	return ""
}

func (p *roomPayload) apply(r *models.Room) {
	r.RoomNo = p.RoomNo
	r.Floor = p.Floor
	r.Building = p.Building
	r.Type = p.Type
	r.Capacity = p.Capacity
	r.IsAC = p.IsAC
	r.IsBunk = p.IsBunk
	r.Amenities = strings.Join(p.Amenities, ",")
	r.Rent = p.Rent
	r.RentFor5Months = p.RentFor5Months
	if p.MessChargePerMonth > 0 {
		r.MessChargePerMonth = p.MessChargePerMonth
	}
	if p.MessChargeFor5Months > 0 {
		r.MessChargeFor5Months = p.MessChargeFor5Months
	}
	if p.IsMessCompulsory != nil {
		r.IsMessCompulsory = *p.IsMessCompulsory
	}
	if p.Status != "" {
		r.Status = p.Status
	}
}

// invalidateStats drops the cached availability breakdown after any room
// mutation. Cache absence is not an error.
func invalidateStats() {
	if database.Redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	database.Redis.Del(ctx, availabilityStatsKey)
}

func allocationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrStudentNotFound):
		return respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrRoomFull),
		errors.Is(err, services.ErrAlreadyAllocated),
		errors.Is(err, services.ErrNoBedAvailable),
		errors.Is(err, services.ErrBedOccupied),
		errors.Is(err, services.ErrRoomOccupied):
		return respondError(c, http.StatusBadRequest, err.Error())
	default:
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
}

// GET /api/rooms?status=&type=&building=
func (h *RoomHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Room{}).
		Preload("Beds", func(db *gorm.DB) *gorm.DB { return db.Order("bed_number ASC") }).
		Preload("Students")

	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		tx = tx.Where("status = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("type")); v != "" {
		tx = tx.Where("type = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("building")); v != "" {
		tx = tx.Where("building = ?", v)
	}

	var rooms []models.Room
	if err := tx.Order("room_no ASC").Find(&rooms).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondList(c, len(rooms), rooms)
}

// GET /api/rooms/available
func (h *RoomHandler) Available(c echo.Context) error {
	var rooms []models.Room
	err := database.DB.
		Where("occupied < capacity AND status = ?", models.RoomAvailable).
		Order("room_no ASC").
		Find(&rooms).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondList(c, len(rooms), rooms)
}

type sharingStats struct {
	Total     int              `json:"total"`
	Occupied  int              `json:"occupied"`
	Available int              `json:"available"`
	Beds      []map[string]any `json:"beds"`
}

type sectionStats struct {
	FourSharing sharingStats `json:"fourSharing"`
	TwoSharing  sharingStats `json:"twoSharing"`
	OneSharing  sharingStats `json:"oneSharing"`
}

// GET /api/rooms/availability-stats
//
// Breakdown by AC/non-AC and sharing type, cached in redis for a minute
// when a cache is configured.
func (h *RoomHandler) AvailabilityStats(c echo.Context) error {
	if database.Redis != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second)
		defer cancel()
		if cached, err := database.Redis.Get(ctx, availabilityStatsKey).Bytes(); err == nil {
			return c.JSONBlob(http.StatusOK, cached)
		}
	}

	var rooms []models.Room
	err := database.DB.
		Preload("Beds", func(db *gorm.DB) *gorm.DB { return db.Order("bed_number ASC") }).
		Preload("Students").
		Where("status <> ?", models.RoomMaintenance).
		Find(&rooms).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	stats := map[string]*sectionStats{
		"nonAC": {},
		"AC":    {},
	}
	for _, room := range rooms {
		section := stats["nonAC"]
		if room.IsAC {
			section = stats["AC"]
		}
		var bucket *sharingStats
		switch room.Type {
		case models.RoomQuadruple:
			bucket = &section.FourSharing
		case models.RoomDouble:
			bucket = &section.TwoSharing
		case models.RoomSingle:
			bucket = &section.OneSharing
		default:
			continue
		}

		available := room.Capacity - room.Occupied
		bucket.Total += room.Capacity
		bucket.Occupied += room.Occupied
		bucket.Available += available
		bucket.Beds = append(bucket.Beds, map[string]any{
			"room_no":                  room.RoomNo,
			"building":                 room.Building,
			"floor":                    room.Floor,
			"capacity":                 room.Capacity,
			"occupied":                 room.Occupied,
			"available":                available,
			"beds":                     room.Beds,
			"students":                 room.Students,
			"rent":                     room.Rent,
			"rent_for_5_months":        room.RentFor5Months,
			"mess_charge_per_month":    room.MessChargePerMonth,
			"mess_charge_for_5_months": room.MessChargeFor5Months,
			"status":                   room.Status,
		})
	}

	body, err := json.Marshal(map[string]any{"success": true, "data": stats})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	if database.Redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		database.Redis.Set(ctx, availabilityStatsKey, body, time.Minute)
	}
	return c.JSONBlob(http.StatusOK, body)
}

// GET /api/rooms/:id
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid room id")
	}
	var room models.Room
	err = database.DB.
		Preload("Beds", func(db *gorm.DB) *gorm.DB { return db.Order("bed_number ASC") }).
		Preload("Students").
		First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Room not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusOK, room)
}

// POST /api/rooms
func (h *RoomHandler) Create(c echo.Context) error {
	var p roomPayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	if msg := validateRoom(&p); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	room := models.Room{
		MessChargePerMonth:   3000,
		MessChargeFor5Months: 15000,
		IsMessCompulsory:     true,
		ExtraCharge1To2:      2000,
		ExtraCharge3To4:      1000,
		Status:               models.RoomAvailable,
	}
	p.apply(&room)

	if err := database.DB.Create(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return respondError(c, http.StatusBadRequest, "Room number already exists")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	invalidateStats()
	return respondOK(c, http.StatusCreated, room)
}

// PUT /api/rooms/:id
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid room id")
	}
	var room models.Room
	err = database.DB.
		Preload("Beds", func(db *gorm.DB) *gorm.DB { return db.Order("bed_number ASC") }).
		First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Room not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	var p roomPayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	if msg := validateRoom(&p); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}
	p.apply(&room)

	if err := database.DB.Save(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return respondError(c, http.StatusBadRequest, "Room number already exists")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	invalidateStats()
	return respondOK(c, http.StatusOK, room)
}

type allocatePayload struct {
	StudentID uint `json:"student_id"`
}

// POST /api/rooms/:id/allocate
func (h *RoomHandler) Allocate(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid room id")
	}
	var p allocatePayload
	if err := c.Bind(&p); err != nil || p.StudentID == 0 {
		return respondError(c, http.StatusBadRequest, "student_id is required")
	}

	room, student, err := h.alloc.Allocate(id, p.StudentID)
	if err != nil {
		return allocationError(c, err)
	}
	invalidateStats()
	return respondOK(c, http.StatusOK, map[string]any{"room": room, "student": student})
}

// POST /api/rooms/:id/deallocate
func (h *RoomHandler) Deallocate(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid room id")
	}
	var p allocatePayload
	if err := c.Bind(&p); err != nil || p.StudentID == 0 {
		return respondError(c, http.StatusBadRequest, "student_id is required")
	}

	room, student, err := h.alloc.Deallocate(id, p.StudentID)
	if err != nil {
		return allocationError(c, err)
	}
	invalidateStats()
	return respondOK(c, http.StatusOK, map[string]any{"room": room, "student": student})
}

// DELETE /api/rooms/:id
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid room id")
	}
	if err := h.alloc.DeleteRoom(id); err != nil {
		return allocationError(c, err)
	}
	invalidateStats()
	return respondOK(c, http.StatusOK, map[string]any{})
}
