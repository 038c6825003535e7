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

type NoticeHandler struct{}

func NewNoticeHandler() *NoticeHandler { return &NoticeHandler{} }

type noticePayload struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	Category       string `json:"category"`
	TargetAudience string `json:"target_audience"`
	Priority       string `json:"priority"`
	IsActive       *bool  `json:"is_active"`
	ExpiryDate     string `json:"expiry_date"` // YYYY-MM-DD or empty
}

func validateNotice(p *noticePayload) string {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return "Title is required"
	}
	if strings.TrimSpace(p.Content) == "" {
		return "Content is required"
	}
	switch p.Category {
	case "", "general", "urgent", "event", "maintenance", "fee", "rule":
	default:
		return "Invalid notice category"
	}
	switch p.TargetAudience {
	case "", models.AudienceAll, models.AudienceStudents, models.AudienceStaff:
	default:
		return "Invalid target audience"
	}
	switch p.Priority {
	case "", "low", "medium", "high":
	default:
		return "Invalid priority"
	}
	if p.ExpiryDate != "" {
		if _, err := time.Parse("2006-01-02", p.ExpiryDate); err != nil {
			return "expiry_date must be YYYY-MM-DD"
		}
	}
	return ""
}

// GET /api/notices?category=&isActive=&targetAudience=
//
// Students see notices for all+students, staff roles see all+staff.
func (h *NoticeHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Notice{})

	if v := strings.TrimSpace(c.QueryParam("category")); v != "" {
		tx = tx.Where("category = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("isActive")); v != "" {
		tx = tx.Where("is_active = ?", v == "true")
	}
	if v := strings.TrimSpace(c.QueryParam("targetAudience")); v != "" {
		tx = tx.Where("target_audience = ?", v)
	}

	if currentRole(c) == models.RoleStudent {
		tx = tx.Where("target_audience IN ?", []string{models.AudienceAll, models.AudienceStudents})
	} else {
		tx = tx.Where("target_audience IN ?", []string{models.AudienceAll, models.AudienceStaff})
	}

	var notices []models.Notice
	if err := tx.Order("created_at DESC").Find(&notices).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondList(c, len(notices), notices)
}

// GET /api/notices/:id
func (h *NoticeHandler) Get(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid notice id")
	}
	var notice models.Notice
	if err := database.DB.First(&notice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Notice not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusOK, notice)
}

// POST /api/notices
func (h *NoticeHandler) Create(c echo.Context) error {
	var p noticePayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	if msg := validateNotice(&p); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	notice := models.Notice{
		Title:          p.Title,
		Content:        p.Content,
		Category:       "general",
		TargetAudience: models.AudienceAll,
		Priority:       "medium",
		IsActive:       true,
		PostedBy:       currentUserID(c),
	}
	if p.Category != "" {
		notice.Category = p.Category
	}
	if p.TargetAudience != "" {
		notice.TargetAudience = p.TargetAudience
	}
	if p.Priority != "" {
		notice.Priority = p.Priority
	}
	if p.IsActive != nil {
		notice.IsActive = *p.IsActive
	}
	if p.ExpiryDate != "" {
		if d, err := time.Parse("2006-01-02", p.ExpiryDate); err == nil {
			notice.ExpiryDate = &d
		}
	}

	if err := database.DB.Create(&notice).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusCreated, notice)
}

// PUT /api/notices/:id
func (h *NoticeHandler) Update(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid notice id")
	}
	var notice models.Notice
	if err := database.DB.First(&notice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Notice not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	var p noticePayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	if msg := validateNotice(&p); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	notice.Title = p.Title
	notice.Content = p.Content
	if p.Category != "" {
		notice.Category = p.Category
	}
	if p.TargetAudience != "" {
		notice.TargetAudience = p.TargetAudience
	}
	if p.Priority != "" {
		notice.Priority = p.Priority
	}
	if p.IsActive != nil {
		notice.IsActive = *p.IsActive
	}
	if p.ExpiryDate != "" {
		if d, err := time.Parse("2006-01-02", p.ExpiryDate); err == nil {
			notice.ExpiryDate = &d
		}
	}

	if err := database.DB.Save(&notice).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusOK, notice)
}

// DELETE /api/notices/:id
func (h *NoticeHandler) Delete(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid notice id")
	}
	res := database.DB.Delete(&models.Notice{}, id)
	if res.Error != nil {
		return respondError(c, http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return respondError(c, http.StatusNotFound, "Notice not found")
	}
	return respondOK(c, http.StatusOK, map[string]any{})
}
