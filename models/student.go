package models

import "time"

type Address struct {
	Street  string `json:"street" gorm:"size:120"`
	City    string `json:"city" gorm:"size:60"`
	State   string `json:"state" gorm:"size:60"`
	Pincode string `json:"pincode" gorm:"size:10"`
	Country string `json:"country" gorm:"size:60"`
}

type Student struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"student_id" gorm:"size:20;uniqueIndex;not null"`
	FirstName string `json:"first_name" gorm:"size:50;not null"`
	LastName  string `json:"last_name" gorm:"size:50;not null"`
	Email     string `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Phone     string `json:"phone" gorm:"size:15"`

	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `json:"gender" gorm:"size:10;default:other"` // male|female|other
	BloodGroup  string     `json:"blood_group" gorm:"size:5"`
	Address     Address    `json:"address" gorm:"embedded;embeddedPrefix:address_"`

	Department     string    `json:"department" gorm:"size:60;default:'Not Assigned'"`
	Course         string    `json:"course" gorm:"size:60;default:'Not Assigned'"`
	Year           int       `json:"year" gorm:"default:1"`
	Semester       int       `json:"semester" gorm:"default:1"`
	EnrollmentDate time.Time `json:"enrollment_date"`

	GuardianName     string `json:"guardian_name" gorm:"size:100"`
	GuardianPhone    string `json:"guardian_phone" gorm:"size:15"`
	GuardianRelation string `json:"guardian_relation" gorm:"size:30"`
	GuardianEmail    string `json:"guardian_email" gorm:"size:120"`

	RoomID         *uint      `json:"room_id"`
	Room           *Room      `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	AllocationDate *time.Time `json:"allocation_date,omitempty"`

	Status string `json:"status" gorm:"size:20;default:active"` // active|inactive|graduated|suspended

	// Pending-fee summary. Derived cache refreshed after fee mutations;
	// the fees table is authoritative.
	HasPendingFees     bool       `json:"has_pending_fees" gorm:"default:false"`
	TotalPendingAmount float64    `json:"total_pending_amount" gorm:"default:0"`
	PendingFeesFrom    *time.Time `json:"pending_fees_from,omitempty"`
	PendingFeesUntil   *time.Time `json:"pending_fees_until,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
