package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/models"
)

func seedNotices(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, n := range []models.Notice{
		{Title: "Water outage", Content: "x", TargetAudience: models.AudienceAll, IsActive: true, PostedBy: 1},
		{Title: "Exam schedule", Content: "x", TargetAudience: models.AudienceStudents, IsActive: true, PostedBy: 1},
		{Title: "Duty roster", Content: "x", TargetAudience: models.AudienceStaff, IsActive: true, PostedBy: 1},
	} {
		require.NoError(t, db.Create(&n).Error)
	}
}

func TestNoticeList_AudienceFilterByRole(t *testing.T) {
	db := setupDB(t)
	h := NewNoticeHandler()
	seedNotices(t, db)

	c, rec := newContext(t, http.MethodGet, "/api/notices", nil,
		identity{UserID: 5, Role: models.RoleStudent, StudentID: 1})
	require.NoError(t, h.List(c))
	body := mustStatus(t, rec, http.StatusOK)
	assert.EqualValues(t, 2, body["count"]) // all + students

	c, rec = newContext(t, http.MethodGet, "/api/notices", nil, admin)
	require.NoError(t, h.List(c))
	body = mustStatus(t, rec, http.StatusOK)
	assert.EqualValues(t, 2, body["count"]) // all + staff
}

func TestNoticeCreate_AppliesDefaults(t *testing.T) {
	db := setupDB(t)
	h := NewNoticeHandler()

	c, rec := newContext(t, http.MethodPost, "/api/notices", map[string]any{
		"title":   "Mess closed on Sunday",
		"content": "The mess stays closed this Sunday for maintenance.",
	}, admin)
	require.NoError(t, h.Create(c))
	mustStatus(t, rec, http.StatusCreated)

	var saved models.Notice
	require.NoError(t, db.Where("title = ?", "Mess closed on Sunday").First(&saved).Error)
	assert.Equal(t, "general", saved.Category)
	assert.Equal(t, models.AudienceAll, saved.TargetAudience)
	assert.Equal(t, "medium", saved.Priority)
	assert.True(t, saved.IsActive)
	assert.Equal(t, admin.UserID, saved.PostedBy)
}

func TestNoticeCreate_RejectsBadAudience(t *testing.T) {
	setupDB(t)
	h := NewNoticeHandler()

	c, rec := newContext(t, http.MethodPost, "/api/notices", map[string]any{
		"title":           "t",
		"content":         "c",
		"target_audience": "wardens",
	}, admin)
	require.NoError(t, h.Create(c))
	body := mustStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "Invalid target audience", body["message"])
}

func TestNoticeDelete_MissingIs404(t *testing.T) {
	setupDB(t)
	h := NewNoticeHandler()

	c, rec := newContext(t, http.MethodDelete, "/", nil, admin)
	c.SetParamNames("id")
	c.SetParamValues("424242")
	require.NoError(t, h.Delete(c))
	mustStatus(t, rec, http.StatusNotFound)
}
