package models

import "time"

const (
	ComplaintPending    = "pending"
	ComplaintAssigned   = "assigned"
	ComplaintInProgress = "in-progress"
	ComplaintResolved   = "resolved"
	ComplaintClosed     = "closed"
)

type Complaint struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	StudentID uint     `json:"student_id" gorm:"index;not null"`
	Student   *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`

	Category    string `json:"category" gorm:"size:20;not null"` // electrical|plumbing|furniture|cleaning|internet|other
	Title       string `json:"title" gorm:"size:120;not null"`
	Description string `json:"description" gorm:"type:text;not null"`

	RoomID *uint `json:"room_id"`
	Room   *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`

	Priority string `json:"priority" gorm:"size:10;default:medium"` // low|medium|high|urgent
	Status   string `json:"status" gorm:"size:20;default:pending"`

	AssignedTo   *uint      `json:"assigned_to"`
	AssignedBy   *uint      `json:"assigned_by"`
	AssignedDate *time.Time `json:"assigned_date,omitempty"`
	ResolvedDate *time.Time `json:"resolved_date,omitempty"`

	Remarks    string `json:"remarks" gorm:"type:text"`
	Resolution string `json:"resolution" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
