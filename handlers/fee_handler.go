package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/database"
	"github.com/ashishpimple94/hostel-backend/models"
	"github.com/ashishpimple94/hostel-backend/services"
)

type FeeHandler struct {
	pending *services.PendingFeeRefresher
}

func NewFeeHandler(pending *services.PendingFeeRefresher) *FeeHandler {
	return &FeeHandler{pending: pending}
}

type feePayload struct {
	StudentID uint    `json:"student_id"`
	FeeType   string  `json:"fee_type"`
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"due_date"` // YYYY-MM-DD
	Status    string  `json:"status"`
	Semester  int     `json:"semester"`
	Year      int     `json:"year"`
	Remarks   string  `json:"remarks"`
}

func validateFee(p *feePayload) string {
	if p.StudentID == 0 {
		return "student_id is required"
	}
	switch p.FeeType {
	case models.FeeHostel, models.FeeMess, models.FeeAdmission,
		models.FeeSecurity, models.FeeMaintenance, models.FeeOther:
	default:
		return "Invalid fee type"
	}
	if p.Amount <= 0 {
		return "Amount must be positive"
	}
	if p.DueDate == "" {
		return "due_date is required"
	}
	if _, err := time.Parse("2006-01-02", p.DueDate); err != nil {
		return "due_date must be YYYY-MM-DD"
	}
	switch p.Status {
	case "", models.FeePending, models.FeePaid, models.FeeOverdue, models.FeePartial:
	default:
		return "Invalid fee status"
	}
	return ""
}

// GET /api/fees?status=&student=&semester=&year=
//
// Students only ever see their own fees; staff may filter by student.
func (h *FeeHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Fee{}).Preload("Student")

	if currentRole(c) == models.RoleStudent {
		sid := currentStudentID(c)
		if sid == 0 {
			return respondList(c, 0, []models.Fee{})
		}
		tx = tx.Where("student_id = ?", sid)
	} else if v := strings.TrimSpace(c.QueryParam("student")); v != "" {
		tx = tx.Where("student_id = ?", atoiOr(v, 0))
	}

	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		tx = tx.Where("status = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("semester")); v != "" {
		tx = tx.Where("semester = ?", atoiOr(v, 0))
	}
	if v := strings.TrimSpace(c.QueryParam("year")); v != "" {
		tx = tx.Where("year = ?", atoiOr(v, 0))
	}

	var fees []models.Fee
	if err := tx.Order("created_at DESC").Find(&fees).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondList(c, len(fees), fees)
}

// GET /api/fees/:id
func (h *FeeHandler) Get(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid fee id")
	}
	var fee models.Fee
	if err := database.DB.Preload("Student").First(&fee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Fee not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	if currentRole(c) == models.RoleStudent && fee.StudentID != currentStudentID(c) {
		return respondError(c, http.StatusForbidden, "Not authorized to view this fee")
	}
	return respondOK(c, http.StatusOK, fee)
}

// POST /api/fees
func (h *FeeHandler) Create(c echo.Context) error {
	var p feePayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	if msg := validateFee(&p); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	var student models.Student
	if err := database.DB.First(&student, p.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Student not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	due, _ := time.Parse("2006-01-02", p.DueDate)
	fee := models.Fee{
		StudentID: p.StudentID,
		FeeType:   p.FeeType,
		Amount:    p.Amount,
		DueDate:   due,
		Status:    models.FeePending,
		Semester:  p.Semester,
		Year:      p.Year,
		Remarks:   p.Remarks,
		CreatedBy: currentUserID(c),
	}
	if p.Status != "" {
		fee.Status = p.Status
	}

	if err := database.DB.Create(&fee).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	h.pending.Refresh(fee.StudentID)
	return respondOK(c, http.StatusCreated, fee)
}

// PUT /api/fees/:id
func (h *FeeHandler) Update(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid fee id")
	}
	var fee models.Fee
	if err := database.DB.First(&fee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Fee not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	var p feePayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	if p.StudentID == 0 {
		p.StudentID = fee.StudentID
	}
	if msg := validateFee(&p); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	due, _ := time.Parse("2006-01-02", p.DueDate)
	fee.StudentID = p.StudentID
	fee.FeeType = p.FeeType
	fee.Amount = p.Amount
	fee.DueDate = due
	if p.Status != "" {
		fee.Status = p.Status
	}
	fee.Semester = p.Semester
	fee.Year = p.Year
	fee.Remarks = p.Remarks

	if err := database.DB.Save(&fee).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	h.pending.Refresh(fee.StudentID)
	return respondOK(c, http.StatusOK, fee)
}

type payPayload struct {
	PaymentMethod string `json:"payment_method"`
	TransactionID string `json:"transaction_id"`
}

// PUT /api/fees/:id/pay
func (h *FeeHandler) Pay(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid fee id")
	}
	var p payPayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	switch p.PaymentMethod {
	case "cash", "card", "upi", "netbanking", "other":
	default:
		return respondError(c, http.StatusBadRequest, "Invalid payment method")
	}

	var fee models.Fee
	if err := database.DB.First(&fee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Fee not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	fee.Status = models.FeePaid
	fee.PaidDate = &now
	fee.PaymentMethod = p.PaymentMethod
	fee.TransactionID = strings.TrimSpace(p.TransactionID)
	if fee.TransactionID == "" {
		// Offline payments (cash at the desk) get a generated receipt id.
		fee.TransactionID = "RCPT-" + uuid.NewString()
	}

	if err := database.DB.Save(&fee).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	h.pending.Refresh(fee.StudentID)
	return respondOK(c, http.StatusOK, fee)
}

// GET /api/fees/student/:studentId
func (h *FeeHandler) ByStudent(c echo.Context) error {
	id, err := paramUint(c, "studentId")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid student id")
	}
	if currentRole(c) == models.RoleStudent && id != currentStudentID(c) {
		return respondError(c, http.StatusForbidden, "Not authorized to view these fees")
	}
	var fees []models.Fee
	if err := database.DB.Where("student_id = ?", id).Order("due_date ASC").Find(&fees).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondList(c, len(fees), fees)
}

// DELETE /api/fees/:id
func (h *FeeHandler) Delete(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid fee id")
	}
	var fee models.Fee
	if err := database.DB.First(&fee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Fee not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	if err := database.DB.Delete(&fee).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	h.pending.Refresh(fee.StudentID)
	return respondOK(c, http.StatusOK, map[string]any{})
}
