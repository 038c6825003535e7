package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	FeeHostel      = "hostel"
	FeeMess        = "mess"
	FeeAdmission   = "admission"
	FeeSecurity    = "security"
	FeeMaintenance = "maintenance"
	FeeOther       = "other"
)

const (
	FeePending = "pending"
	FeePaid    = "paid"
	FeeOverdue = "overdue"
	FeePartial = "partial"
)

type Fee struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	StudentID uint     `json:"student_id" gorm:"index;not null"`
	Student   *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`

	FeeType string    `json:"fee_type" gorm:"size:20;not null"`
	Amount  float64   `json:"amount" gorm:"not null"`
	DueDate time.Time `json:"due_date" gorm:"not null"`

	PaidDate      *time.Time `json:"paid_date,omitempty"`
	Status        string     `json:"status" gorm:"size:20;default:pending"`
	PaymentMethod string     `json:"payment_method" gorm:"size:20"` // cash|card|upi|netbanking|other
	TransactionID string     `json:"transaction_id" gorm:"size:60"`

	Semester int    `json:"semester"`
	Year     int    `json:"year"`
	Remarks  string `json:"remarks" gorm:"type:text"`

	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave promotes pending fees past their due date to overdue. The
// status is never downgraded here.
func (f *Fee) BeforeSave(tx *gorm.DB) error {
	if f.Status == FeePending && time.Now().After(f.DueDate) {
		f.Status = FeeOverdue
	}
	return nil
}
