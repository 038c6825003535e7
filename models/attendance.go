package models

import "time"

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLeave   = "leave"
	AttendanceLate    = "late"
)

// Attendance stores one row per student per day. The composite unique
// index is the enforcement point for duplicate marking.
type Attendance struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	StudentID uint     `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance_student_date"`
	Student   *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`

	Date   string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_attendance_student_date"` // YYYY-MM-DD
	Status string `json:"status" gorm:"size:10;not null"`

	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Remarks      string     `json:"remarks" gorm:"type:text"`

	MarkedBy  uint      `json:"marked_by"`
	CreatedAt time.Time `json:"created_at"`
}
