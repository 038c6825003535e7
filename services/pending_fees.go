package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/models"
)

// PendingFeeRefresher rebuilds the denormalized pending-fee summary on a
// student row from the fees table.
type PendingFeeRefresher struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPendingFeeRefresher(db *gorm.DB, log *zap.Logger) *PendingFeeRefresher {
	return &PendingFeeRefresher{db: db, log: log}
}

// Refresh recomputes the cache for one student. Best effort: failures are
// logged and swallowed so the fee mutation that triggered the refresh is
// never failed by it.
func (r *PendingFeeRefresher) Refresh(studentID uint) {
	if err := r.refresh(studentID); err != nil {
		r.log.Warn("pending fee refresh failed",
			zap.Uint("student_id", studentID),
			zap.Error(err))
	}
}

func (r *PendingFeeRefresher) refresh(studentID uint) error {
	var pending []models.Fee
	err := r.db.
		Where("student_id = ? AND status IN ?", studentID, []string{models.FeePending, models.FeeOverdue}).
		Order("due_date ASC").
		Find(&pending).Error
	if err != nil {
		return err
	}

	updates := map[string]any{
		"has_pending_fees":     len(pending) > 0,
		"total_pending_amount": 0.0,
		"pending_fees_from":    nil,
		"pending_fees_until":   nil,
	}
	if len(pending) > 0 {
		total := 0.0
		for _, f := range pending {
			total += f.Amount
		}
		updates["total_pending_amount"] = total
		updates["pending_fees_from"] = pending[0].DueDate
		updates["pending_fees_until"] = pending[len(pending)-1].DueDate
	}

	return r.db.Model(&models.Student{}).Where("id = ?", studentID).Updates(updates).Error
}
