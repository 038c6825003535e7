package models

import "time"

const (
	RoleAdmin       = "admin"
	RoleWarden      = "warden"
	RoleAccountant  = "accountant"
	RoleMaintenance = "maintenance"
	RoleStudent     = "student"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"` // bcrypt hash
	Role     string `json:"role" gorm:"size:20;not null"`

	// Set for role=student; links the credential to its student record.
	StudentID *uint `json:"student_id,omitempty"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
