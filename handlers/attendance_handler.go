package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/database"
	"github.com/ashishpimple94/hostel-backend/models"
)

type AttendanceHandler struct{}

func NewAttendanceHandler() *AttendanceHandler { return &AttendanceHandler{} }

type attendancePayload struct {
	StudentID uint   `json:"student_id"`
	Date      string `json:"date"` // YYYY-MM-DD, defaults to today
	Status    string `json:"status"`
	Remarks   string `json:"remarks"`
}

func validateAttendance(p *attendancePayload) string {
	if p.StudentID == 0 {
		return "student_id is required"
	}
	switch p.Status {
	case models.AttendancePresent, models.AttendanceAbsent,
		models.AttendanceLeave, models.AttendanceLate:
	default:
		return "Invalid attendance status"
	}
	if p.Date == "" {
		p.Date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	return ""
}

func (h *AttendanceHandler) markOne(p attendancePayload, markedBy uint) (*models.Attendance, error) {
	rec := models.Attendance{
		StudentID: p.StudentID,
		Date:      p.Date,
		Status:    p.Status,
		Remarks:   p.Remarks,
		MarkedBy:  markedBy,
	}
	if p.Status == models.AttendancePresent || p.Status == models.AttendanceLate {
		now := time.Now()
		rec.CheckInTime = &now
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// GET /api/attendance?student=&status=&startDate=&endDate=
func (h *AttendanceHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Attendance{}).Preload("Student")

	if currentRole(c) == models.RoleStudent {
		sid := currentStudentID(c)
		if sid == 0 {
			return respondList(c, 0, []models.Attendance{})
		}
		tx = tx.Where("student_id = ?", sid)
	} else if v := strings.TrimSpace(c.QueryParam("student")); v != "" {
		tx = tx.Where("student_id = ?", atoiOr(v, 0))
	}
	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		tx = tx.Where("status = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("startDate")); v != "" {
		tx = tx.Where("date >= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("endDate")); v != "" {
		tx = tx.Where("date <= ?", v)
	}

	var rows []models.Attendance
	if err := tx.Order("date DESC, id DESC").Find(&rows).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondList(c, len(rows), rows)
}

// POST /api/attendance
func (h *AttendanceHandler) Mark(c echo.Context) error {
	var p attendancePayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	if msg := validateAttendance(&p); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	rec, err := h.markOne(p, currentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return respondError(c, http.StatusBadRequest, "Attendance already marked for this student today")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusCreated, rec)
}

type bulkAttendancePayload struct {
	Date    string `json:"date"`
	Records []struct {
		StudentID uint   `json:"student_id"`
		Status    string `json:"status"`
		Remarks   string `json:"remarks"`
	} `json:"records"`
}

type bulkFailure struct {
	StudentID uint   `json:"student_id"`
	Error     string `json:"error"`
}

// POST /api/attendance/bulk
//
// Per-record failures are isolated into the report instead of aborting
// the batch; partial success is the expected outcome.
func (h *AttendanceHandler) MarkBulk(c echo.Context) error {
	var p bulkAttendancePayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	if len(p.Records) == 0 {
		return respondError(c, http.StatusBadRequest, "records is required")
	}

	succeeded := []models.Attendance{}
	failed := []bulkFailure{}
	markedBy := currentUserID(c)

	for _, r := range p.Records {
		one := attendancePayload{
			StudentID: r.StudentID,
			Date:      p.Date,
			Status:    r.Status,
			Remarks:   r.Remarks,
		}
		if msg := validateAttendance(&one); msg != "" {
			failed = append(failed, bulkFailure{StudentID: r.StudentID, Error: msg})
			continue
		}
		rec, err := h.markOne(one, markedBy)
		if err != nil {
			msg := err.Error()
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				msg = "Attendance already marked for this student today"
			}
			failed = append(failed, bulkFailure{StudentID: r.StudentID, Error: msg})
			continue
		}
		succeeded = append(succeeded, *rec)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"data": map[string]any{
			"success": succeeded,
			"failed":  failed,
		},
		"message": fmt.Sprintf("%d records created, %d failed", len(succeeded), len(failed)),
	})
}

// GET /api/attendance/student/:studentId
func (h *AttendanceHandler) ByStudent(c echo.Context) error {
	id, err := paramUint(c, "studentId")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid student id")
	}
	if currentRole(c) == models.RoleStudent && id != currentStudentID(c) {
		return respondError(c, http.StatusForbidden, "Not authorized to view this attendance")
	}
	var rows []models.Attendance
	if err := database.DB.Where("student_id = ?", id).Order("date DESC").Find(&rows).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondList(c, len(rows), rows)
}

// GET /api/attendance/stats?startDate=&endDate=
func (h *AttendanceHandler) Stats(c echo.Context) error {
	tx := database.DB.Model(&models.Attendance{})
	if v := strings.TrimSpace(c.QueryParam("startDate")); v != "" {
		tx = tx.Where("date >= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("endDate")); v != "" {
		tx = tx.Where("date <= ?", v)
	}

	var breakdown []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	if err := tx.Select("status, COUNT(*) AS count").Group("status").Scan(&breakdown).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	var total int64
	counts := map[string]int64{}
	for _, b := range breakdown {
		counts[b.Status] = b.Count
		total += b.Count
	}

	return respondOK(c, http.StatusOK, map[string]any{
		"total":     total,
		"breakdown": breakdown,
		"present":   counts[models.AttendancePresent],
		"absent":    counts[models.AttendanceAbsent],
		"late":      counts[models.AttendanceLate],
		"leave":     counts[models.AttendanceLeave],
	})
}

// GET /api/attendance/today
func (h *AttendanceHandler) Today(c echo.Context) error {
	today := time.Now().Format("2006-01-02")
	var rows []models.Attendance
	err := database.DB.Preload("Student").Where("date = ?", today).Order("id ASC").Find(&rows).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondList(c, len(rows), rows)
}
