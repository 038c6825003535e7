package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/models"
)

func createFee(t *testing.T, db *gorm.DB, studentID uint, amount float64, due time.Time, status string) *models.Fee {
	t.Helper()
	fee := &models.Fee{
		StudentID: studentID,
		FeeType:   models.FeeHostel,
		Amount:    amount,
		DueDate:   due,
		Status:    status,
	}
	require.NoError(t, db.Create(fee).Error)
	return fee
}

func TestRefresh_ComputesTotalsAndDateRange(t *testing.T) {
	db := newTestDB(t)
	r := NewPendingFeeRefresher(db, zap.NewNop())
	s := createStudent(t, db, "STU00001")

	future := time.Now().AddDate(0, 1, 0)
	later := time.Now().AddDate(0, 2, 0)
	createFee(t, db, s.ID, 1500, future, models.FeePending)
	createFee(t, db, s.ID, 2500, later, models.FeePending)
	paid := time.Now()
	fee := createFee(t, db, s.ID, 9000, future, models.FeePaid)
	fee.PaidDate = &paid
	require.NoError(t, db.Save(fee).Error)

	r.Refresh(s.ID)

	var fresh models.Student
	require.NoError(t, db.First(&fresh, s.ID).Error)
	assert.True(t, fresh.HasPendingFees)
	assert.Equal(t, 4000.0, fresh.TotalPendingAmount)
	require.NotNil(t, fresh.PendingFeesFrom)
	require.NotNil(t, fresh.PendingFeesUntil)
	assert.WithinDuration(t, future, *fresh.PendingFeesFrom, time.Second)
	assert.WithinDuration(t, later, *fresh.PendingFeesUntil, time.Second)
}

func TestRefresh_CountsOverdueFees(t *testing.T) {
	db := newTestDB(t)
	r := NewPendingFeeRefresher(db, zap.NewNop())
	s := createStudent(t, db, "STU00001")

	// Past due date; the save hook promotes this one to overdue.
	createFee(t, db, s.ID, 1200, time.Now().AddDate(0, -1, 0), models.FeePending)

	r.Refresh(s.ID)

	var fresh models.Student
	require.NoError(t, db.First(&fresh, s.ID).Error)
	assert.True(t, fresh.HasPendingFees)
	assert.Equal(t, 1200.0, fresh.TotalPendingAmount)
}

func TestRefresh_ClearsCacheWhenAllPaid(t *testing.T) {
	db := newTestDB(t)
	r := NewPendingFeeRefresher(db, zap.NewNop())
	s := createStudent(t, db, "STU00001")

	future := time.Now().AddDate(0, 1, 0)
	fee := createFee(t, db, s.ID, 3000, future, models.FeePending)
	r.Refresh(s.ID)

	now := time.Now()
	fee.Status = models.FeePaid
	fee.PaidDate = &now
	require.NoError(t, db.Save(fee).Error)
	r.Refresh(s.ID)

	var fresh models.Student
	require.NoError(t, db.First(&fresh, s.ID).Error)
	assert.False(t, fresh.HasPendingFees)
	assert.Equal(t, 0.0, fresh.TotalPendingAmount)
	assert.Nil(t, fresh.PendingFeesFrom)
	assert.Nil(t, fresh.PendingFeesUntil)
}

func TestRefresh_IgnoresOtherStudents(t *testing.T) {
	db := newTestDB(t)
	r := NewPendingFeeRefresher(db, zap.NewNop())
	s1 := createStudent(t, db, "STU00001")
	s2 := createStudent(t, db, "STU00002")

	createFee(t, db, s2.ID, 700, time.Now().AddDate(0, 1, 0), models.FeePending)

	r.Refresh(s1.ID)

	var fresh models.Student
	require.NoError(t, db.First(&fresh, s1.ID).Error)
	assert.False(t, fresh.HasPendingFees)
	assert.Equal(t, 0.0, fresh.TotalPendingAmount)
}
