package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/database"
	"github.com/ashishpimple94/hostel-backend/models"
)

type ComplaintHandler struct{}

func NewComplaintHandler() *ComplaintHandler { return &ComplaintHandler{} }

type complaintPayload struct {
	StudentID   uint   `json:"student_id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	RoomID      *uint  `json:"room_id"`
	Priority    string `json:"priority"`
	Remarks     string `json:"remarks"`
}

func validateComplaint(p *complaintPayload) string {
	switch p.Category {
	case "electrical", "plumbing", "furniture", "cleaning", "internet", "other":
	default:
		return "Invalid complaint category"
	}
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return "Title is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		return "Description is required"
	}
	switch p.Priority {
	case "", "low", "medium", "high", "urgent":
	default:
		return "Invalid priority"
	}
	return ""
}

// GET /api/complaints?status=&category=&student=
//
// Students see only their own complaints; maintenance staff see only
// complaints assigned to them.
func (h *ComplaintHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Complaint{}).
		Preload("Student").
		Preload("Room")

	switch currentRole(c) {
	case models.RoleStudent:
		sid := currentStudentID(c)
		if sid == 0 {
			return respondList(c, 0, []models.Complaint{})
		}
		tx = tx.Where("student_id = ?", sid)
	case models.RoleMaintenance:
		tx = tx.Where("assigned_to = ?", currentUserID(c))
	default:
		if v := strings.TrimSpace(c.QueryParam("student")); v != "" {
			tx = tx.Where("student_id = ?", atoiOr(v, 0))
		}
	}

	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		tx = tx.Where("status = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("category")); v != "" {
		tx = tx.Where("category = ?", v)
	}

	var complaints []models.Complaint
	if err := tx.Order("created_at DESC").Find(&complaints).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondList(c, len(complaints), complaints)
}

// GET /api/complaints/:id
func (h *ComplaintHandler) Get(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid complaint id")
	}
	var complaint models.Complaint
	err = database.DB.Preload("Student").Preload("Room").First(&complaint, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Complaint not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	if currentRole(c) == models.RoleStudent && complaint.StudentID != currentStudentID(c) {
		return respondError(c, http.StatusForbidden, "Not authorized to view this complaint")
	}
	return respondOK(c, http.StatusOK, complaint)
}

// POST /api/complaints. Students always file for themselves.
func (h *ComplaintHandler) Create(c echo.Context) error {
	var p complaintPayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	if currentRole(c) == models.RoleStudent {
		p.StudentID = currentStudentID(c)
	}
	if p.StudentID == 0 {
		return respondError(c, http.StatusBadRequest, "student_id is required")
	}
	if msg := validateComplaint(&p); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	complaint := models.Complaint{
		StudentID:   p.StudentID,
		Category:    p.Category,
		Title:       p.Title,
		Description: p.Description,
		RoomID:      p.RoomID,
		Priority:    "medium",
		Status:      models.ComplaintPending,
		Remarks:     p.Remarks,
	}
	if p.Priority != "" {
		complaint.Priority = p.Priority
	}
	if err := database.DB.Create(&complaint).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusCreated, complaint)
}

// PUT /api/complaints/:id
func (h *ComplaintHandler) Update(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid complaint id")
	}
	var complaint models.Complaint
	if err := database.DB.First(&complaint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Complaint not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	var p complaintPayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	if p.StudentID == 0 {
		p.StudentID = complaint.StudentID
	}
	if msg := validateComplaint(&p); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	complaint.StudentID = p.StudentID
	complaint.Category = p.Category
	complaint.Title = p.Title
	complaint.Description = p.Description
	complaint.RoomID = p.RoomID
	if p.Priority != "" {
		complaint.Priority = p.Priority
	}
	complaint.Remarks = p.Remarks

	if err := database.DB.Save(&complaint).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusOK, complaint)
}

type assignPayload struct {
	AssignedTo uint `json:"assigned_to"`
}

// PUT /api/complaints/:id/assign
func (h *ComplaintHandler) Assign(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid complaint id")
	}
	var p assignPayload
	if err := c.Bind(&p); err != nil || p.AssignedTo == 0 {
		return respondError(c, http.StatusBadRequest, "assigned_to is required")
	}

	var complaint models.Complaint
	if err := database.DB.First(&complaint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Complaint not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	var assignee models.User
	if err := database.DB.First(&assignee, p.AssignedTo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Assignee not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	assigner := currentUserID(c)
	complaint.AssignedTo = &assignee.ID
	complaint.AssignedBy = &assigner
	complaint.AssignedDate = &now
	complaint.Status = models.ComplaintAssigned

	if err := database.DB.Save(&complaint).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusOK, complaint)
}

type statusPayload struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution"`
}

// PUT /api/complaints/:id/status
func (h *ComplaintHandler) UpdateStatus(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid complaint id")
	}
	var p statusPayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	switch p.Status {
	case models.ComplaintPending, models.ComplaintAssigned, models.ComplaintInProgress,
		models.ComplaintResolved, models.ComplaintClosed:
	default:
		return respondError(c, http.StatusBadRequest, "Invalid complaint status")
	}

	var complaint models.Complaint
	if err := database.DB.First(&complaint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Complaint not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	complaint.Status = p.Status
	if p.Resolution != "" {
		complaint.Resolution = p.Resolution
	}
	if p.Status == models.ComplaintResolved || p.Status == models.ComplaintClosed {
		now := time.Now()
		complaint.ResolvedDate = &now
	}

	if err := database.DB.Save(&complaint).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusOK, complaint)
}

// DELETE /api/complaints/:id
func (h *ComplaintHandler) Delete(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid complaint id")
	}
	res := database.DB.Delete(&models.Complaint{}, id)
	if res.Error != nil {
		return respondError(c, http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return respondError(c, http.StatusNotFound, "Complaint not found")
	}
	return respondOK(c, http.StatusOK, map[string]any{})
}
