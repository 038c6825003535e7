package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/models"
)

// Domain errors surfaced by allocation operations. Handlers map these to
// 404 (not found) or 400 (conflict).
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrStudentNotFound  = errors.New("student not found")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyAllocated = errors.New("student already has a room allocated")
	ErrNoBedAvailable   = errors.New("no available beds in this room")
	ErrBedOccupied      = errors.New("bed is already occupied")
	ErrRoomOccupied     = errors.New("cannot delete room with allocated students")
)

// FindFreeBed returns the lowest-numbered free bed, or nil if every slot
// is taken. Beds may be stale relative to the occupied counter when the
// room predates bed tracking; callers surface that as ErrNoBedAvailable.
func FindFreeBed(room *models.Room) *models.Bed {
	var free *models.Bed
	for i := range room.Beds {
		b := &room.Beds[i]
		if b.IsOccupied {
			continue
		}
		if free == nil || b.BedNumber < free.BedNumber {
			free = b
		}
	}
	return free
}

// OccupyBed marks the given bed as held by studentID.
func OccupyBed(room *models.Room, bedNumber int, studentID uint) (*models.Bed, error) {
	for i := range room.Beds {
		b := &room.Beds[i]
		if b.BedNumber != bedNumber {
			continue
		}
		if b.IsOccupied {
			return nil, ErrBedOccupied
		}
		b.IsOccupied = true
		sid := studentID
		b.StudentID = &sid
		return b, nil
	}
	return nil, ErrNoBedAvailable
}

// ReleaseBed frees whichever bed studentID holds. Returns nil without
// error when the student holds none; bed-level and count-level state can
// legitimately diverge for rooms whose beds were never initialized.
func ReleaseBed(room *models.Room, studentID uint) *models.Bed {
	for i := range room.Beds {
		b := &room.Beds[i]
		if b.StudentID != nil && *b.StudentID == studentID {
			b.IsOccupied = false
			b.StudentID = nil
			return b
		}
	}
	return nil
}

// AllocationService orchestrates student/room/bed assignment. Room and
// student writes for one operation run inside a single transaction so a
// crash cannot leave the two aggregates torn.
type AllocationService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAllocationService(db *gorm.DB, log *zap.Logger) *AllocationService {
	return &AllocationService{db: db, log: log}
}

func (s *AllocationService) loadRoom(tx *gorm.DB, roomID uint) (*models.Room, error) {
	var room models.Room
	err := tx.Preload("Beds", func(db *gorm.DB) *gorm.DB {
		return db.Order("bed_number ASC")
	}).First(&room, roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func loadStudent(tx *gorm.DB, studentID uint) (*models.Student, error) {
	var student models.Student
	if err := tx.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

// Allocate assigns studentID the lowest free bed in roomID.
func (s *AllocationService) Allocate(roomID, studentID uint) (*models.Room, *models.Student, error) {
	var (
		room    *models.Room
		student *models.Student
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = s.loadRoom(tx, roomID)
		if err != nil {
			return err
		}
		if room.Occupied >= room.Capacity {
			return ErrRoomFull
		}
		student, err = loadStudent(tx, studentID)
		if err != nil {
			return err
		}
		if student.RoomID != nil {
			return ErrAlreadyAllocated
		}

		bed := FindFreeBed(room)
		if bed == nil {
			return ErrNoBedAvailable
		}
		if _, err := OccupyBed(room, bed.BedNumber, student.ID); err != nil {
			return err
		}
		if err := tx.Save(bed).Error; err != nil {
			return err
		}

		room.Occupied++
		if err := tx.Save(room).Error; err != nil {
			return err
		}

		now := time.Now()
		student.RoomID = &room.ID
		student.AllocationDate = &now
		return tx.Save(student).Error
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("room allocated",
		zap.Uint("room_id", roomID),
		zap.Uint("student_id", studentID),
		zap.Int("occupied", room.Occupied))
	return room, student, nil
}

// Deallocate releases studentID from roomID. The student is not required
// to currently reference this room; the pair of ids is taken at face
// value so the operation doubles as a repair for torn state. Redundant
// calls are idempotent: the occupied counter is clamped at zero and the
// bed release is a no-op when the student holds no bed.
func (s *AllocationService) Deallocate(roomID, studentID uint) (*models.Room, *models.Student, error) {
	var (
		room    *models.Room
		student *models.Student
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = s.loadRoom(tx, roomID)
		if err != nil {
			return err
		}
		student, err = loadStudent(tx, studentID)
		if err != nil {
			return err
		}

		if room.Occupied > 0 {
			room.Occupied--
		}
		if bed := ReleaseBed(room, student.ID); bed != nil {
			if err := tx.Save(bed).Error; err != nil {
				return err
			}
		}
		if err := tx.Save(room).Error; err != nil {
			return err
		}

		student.RoomID = nil
		student.AllocationDate = nil
		return tx.Save(student).Error
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("room deallocated",
		zap.Uint("room_id", roomID),
		zap.Uint("student_id", studentID),
		zap.Int("occupied", room.Occupied))
	return room, student, nil
}

// DeleteRoom removes an empty room and its bed slots.
func (s *AllocationService) DeleteRoom(roomID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		room, err := s.loadRoom(tx, roomID)
		if err != nil {
			return err
		}
		if room.Occupied > 0 {
			return ErrRoomOccupied
		}
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Bed{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Room{}, room.ID).Error
	})
}
