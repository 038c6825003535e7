package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/database"
	"github.com/ashishpimple94/hostel-backend/models"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler { return &DashboardHandler{} }

// GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c echo.Context) error {
	var (
		totalStudents     int64
		totalRooms        int64
		occupiedBeds      int64
		totalCapacity     int64
		pendingComplaints int64
		pendingFeeTotal   float64
		todayAttendance   int64
	)

	db := database.DB
	if err := db.Model(&models.Student{}).Where("status = ?", "active").Count(&totalStudents).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	if err := db.Model(&models.Room{}).Count(&totalRooms).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	type occRow struct {
		Occupied int64
		Capacity int64
	}
	var occ occRow
	if err := db.Model(&models.Room{}).
		Select("COALESCE(SUM(occupied),0) AS occupied, COALESCE(SUM(capacity),0) AS capacity").
		Scan(&occ).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	occupiedBeds, totalCapacity = occ.Occupied, occ.Capacity

	if err := db.Model(&models.Complaint{}).
		Where("status IN ?", []string{models.ComplaintPending, models.ComplaintAssigned, models.ComplaintInProgress}).
		Count(&pendingComplaints).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	if err := db.Model(&models.Fee{}).
		Where("status IN ?", []string{models.FeePending, models.FeeOverdue}).
		Select("COALESCE(SUM(amount),0)").
		Scan(&pendingFeeTotal).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	today := time.Now().Format("2006-01-02")
	if err := db.Model(&models.Attendance{}).Where("date = ?", today).Count(&todayAttendance).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	occupancyRate := 0.0
	if totalCapacity > 0 {
		occupancyRate = float64(occupiedBeds) / float64(totalCapacity) * 100
	}

	return respondOK(c, http.StatusOK, map[string]any{
		"total_students":     totalStudents,
		"total_rooms":        totalRooms,
		"occupied_beds":      occupiedBeds,
		"total_capacity":     totalCapacity,
		"occupancy_rate":     occupancyRate,
		"pending_complaints": pendingComplaints,
		"pending_fee_total":  pendingFeeTotal,
		"today_attendance":   todayAttendance,
	})
}

// GET /api/dashboard/room-occupancy
func (h *DashboardHandler) RoomOccupancy(c echo.Context) error {
	var rooms []models.Room
	err := database.DB.
		Preload("Beds", func(db *gorm.DB) *gorm.DB { return db.Order("bed_number ASC") }).
		Preload("Students").
		Order("building ASC, room_no ASC").
		Find(&rooms).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	report := make([]map[string]any, 0, len(rooms))
	for _, room := range rooms {
		report = append(report, map[string]any{
			"room_no":   room.RoomNo,
			"building":  room.Building,
			"floor":     room.Floor,
			"type":      room.Type,
			"capacity":  room.Capacity,
			"occupied":  room.Occupied,
			"available": room.Capacity - room.Occupied,
			"status":    room.Status,
			"beds":      room.Beds,
			"students":  room.Students,
		})
	}
	return respondList(c, len(report), report)
}

type feeCollectionRow struct {
	models.Fee
	StudentCode string `json:"student_code"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

func (h *DashboardHandler) feeCollectionRows(c echo.Context) ([]feeCollectionRow, error) {
	tx := database.DB.Model(&models.Fee{}).
		Select("fees.*, students.student_id AS student_code, students.first_name, students.last_name").
		Joins("JOIN students ON students.id = fees.student_id")

	if v := c.QueryParam("startDate"); v != "" {
		tx = tx.Where("fees.due_date >= ?", v)
	}
	if v := c.QueryParam("endDate"); v != "" {
		tx = tx.Where("fees.due_date <= ?", v)
	}
	if v := c.QueryParam("status"); v != "" {
		tx = tx.Where("fees.status = ?", v)
	}

	var rows []feeCollectionRow
	err := tx.Order("fees.due_date ASC").Scan(&rows).Error
	return rows, err
}

// GET /api/dashboard/fee-collection
func (h *DashboardHandler) FeeCollection(c echo.Context) error {
	rows, err := h.feeCollectionRows(c)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	var collected, outstanding float64
	for _, r := range rows {
		if r.Status == models.FeePaid {
			collected += r.Amount
		} else {
			outstanding += r.Amount
		}
	}
	return respondOK(c, http.StatusOK, map[string]any{
		"collected":   collected,
		"outstanding": outstanding,
		"records":     rows,
	})
}

// GET /api/dashboard/fee-collection/export
//
// Streams the fee collection report as a spreadsheet.
func (h *DashboardHandler) FeeCollectionExport(c echo.Context) error {
	rows, err := h.feeCollectionRows(c)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Fee Collection"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Student ID", "Name", "Fee Type", "Amount", "Due Date", "Paid Date", "Status", "Payment Method", "Transaction ID"}
	for i, hcell := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hcell)
	}
	for i, r := range rows {
		paid := ""
		if r.PaidDate != nil {
			paid = r.PaidDate.Format("2006-01-02")
		}
		values := []any{
			r.StudentCode,
			r.FirstName + " " + r.LastName,
			r.FeeType,
			r.Amount,
			r.DueDate.Format("2006-01-02"),
			paid,
			r.Status,
			r.PaymentMethod,
			r.TransactionID,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("fee-collection-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
