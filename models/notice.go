package models

import "time"

const (
	AudienceAll      = "all"
	AudienceStudents = "students"
	AudienceStaff    = "staff"
)

type Notice struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Title   string `json:"title" gorm:"size:120;not null"`
	Content string `json:"content" gorm:"type:text;not null"`

	Category       string `json:"category" gorm:"size:20;default:general"` // general|urgent|event|maintenance|fee|rule
	TargetAudience string `json:"target_audience" gorm:"size:10;default:all"`
	Priority       string `json:"priority" gorm:"size:10;default:medium"` // low|medium|high

	IsActive   bool       `json:"is_active" gorm:"default:true"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`

	PostedBy  uint      `json:"posted_by" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
