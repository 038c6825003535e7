package models

import (
	"time"

	"gorm.io/gorm"
)

// Room statuses. Only available<->occupied transition automatically;
// maintenance and unavailable are set by staff and left alone.
const (
	RoomAvailable   = "available"
	RoomOccupied    = "occupied"
	RoomMaintenance = "maintenance"
	RoomUnavailable = "unavailable"
)

// Room types map to capacity: single=1, double=2, triple=3, quadruple=4.
const (
	RoomSingle    = "single"
	RoomDouble    = "double"
	RoomTriple    = "triple"
	RoomQuadruple = "quadruple"
)

type Room struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	RoomNo   string `json:"room_no" gorm:"size:20;uniqueIndex;not null"`
	Floor    int    `json:"floor" gorm:"not null"`
	Building string `json:"building" gorm:"size:50;not null"`
	Type     string `json:"type" gorm:"size:20;not null"`
	Capacity int    `json:"capacity" gorm:"not null"`
	IsAC     bool   `json:"is_ac" gorm:"default:false"`
	IsBunk   bool   `json:"is_bunk" gorm:"default:false"`
	Occupied int    `json:"occupied" gorm:"default:0"`

	Beds     []Bed     `json:"beds" gorm:"constraint:OnDelete:CASCADE"`
	Students []Student `json:"students,omitempty" gorm:"foreignKey:RoomID"`

	Amenities string `json:"amenities" gorm:"type:text"` // comma separated

	Rent                 float64 `json:"rent" gorm:"not null"`
	RentFor5Months       float64 `json:"rent_for_5_months" gorm:"not null"`
	MessChargePerMonth   float64 `json:"mess_charge_per_month" gorm:"default:3000"`
	MessChargeFor5Months float64 `json:"mess_charge_for_5_months" gorm:"default:15000"`
	IsMessCompulsory     bool    `json:"is_mess_compulsory" gorm:"default:true"`
	ExtraCharge1To2      float64 `json:"extra_charge_1_to_2_months" gorm:"default:2000"`
	ExtraCharge3To4      float64 `json:"extra_charge_3_to_4_months" gorm:"default:1000"`

	Status    string    `json:"status" gorm:"size:20;default:available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bed is the smallest allocatable unit within a room. Bed numbers run
// 1..capacity and are fixed for the life of the room.
type Bed struct {
	ID         uint  `json:"id" gorm:"primaryKey"`
	RoomID     uint  `json:"room_id" gorm:"index;not null"`
	BedNumber  int   `json:"bed_number" gorm:"not null"`
	IsOccupied bool  `json:"is_occupied" gorm:"default:false"`
	StudentID  *uint `json:"student_id"`
}

func (r *Room) IsAvailable() bool {
	return r.Occupied < r.Capacity && r.Status == RoomAvailable
}

// BeforeSave lazily initializes the bed slots on first save and keeps the
// status field in step with occupancy.
func (r *Room) BeforeSave(tx *gorm.DB) error {
	if len(r.Beds) == 0 {
		for i := 1; i <= r.Capacity; i++ {
			r.Beds = append(r.Beds, Bed{BedNumber: i})
		}
	}
	if r.Occupied >= r.Capacity {
		r.Status = RoomOccupied
	} else if r.Occupied == 0 && r.Status == RoomOccupied {
		r.Status = RoomAvailable
	}
	return nil
}
