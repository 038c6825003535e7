package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/database"
	"github.com/ashishpimple94/hostel-backend/models"
	"github.com/ashishpimple94/hostel-backend/services"
)

type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

type studentPayload struct {
	StudentID string `json:"student_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"` // create only; login credential

	DateOfBirth string         `json:"date_of_birth"` // YYYY-MM-DD or empty
	Gender      string         `json:"gender"`
	BloodGroup  string         `json:"blood_group"`
	Address     models.Address `json:"address"`

	Department     string `json:"department"`
	Course         string `json:"course"`
	Year           int    `json:"year"`
	Semester       int    `json:"semester"`
	EnrollmentDate string `json:"enrollment_date"`

	GuardianName     string `json:"guardian_name"`
	GuardianPhone    string `json:"guardian_phone"`
	GuardianRelation string `json:"guardian_relation"`
	GuardianEmail    string `json:"guardian_email"`

	Status string `json:"status"`
}

func (p *studentPayload) normalize() {
	p.StudentID = strings.TrimSpace(p.StudentID)
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
}

func validateStudent(p *studentPayload) string {
	if p.StudentID == "" {
		return "Student id is required"
	}
	if p.FirstName == "" {
		return "First name is required"
	}
	if p.LastName == "" {
		return "Last name is required"
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return "A valid email is required"
	}
	if p.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", p.DateOfBirth); err != nil {
			return "date_of_birth must be YYYY-MM-DD"
		}
	}
	if p.EnrollmentDate != "" {
		if _, err := time.Parse("2006-01-02", p.EnrollmentDate); err != nil {
			return "enrollment_date must be YYYY-MM-DD"
		}
	}
	switch p.Gender {
	case "", "male", "female", "other":
	default:
		return "Invalid gender"
	}
	switch p.Status {
	case "", "active", "inactive", "graduated", "suspended":
	default:
		return "Invalid status"
	}
	return ""
}

func (p *studentPayload) apply(s *models.Student) {
	s.StudentID = p.StudentID
	s.FirstName = p.FirstName
	s.LastName = p.LastName
	s.Email = p.Email
	s.Phone = p.Phone
	if p.DateOfBirth != "" {
		if d, err := time.Parse("2006-01-02", p.DateOfBirth); err == nil {
			s.DateOfBirth = &d
		}
	}
	if p.Gender != "" {
		s.Gender = p.Gender
	}
	s.BloodGroup = p.BloodGroup
	s.Address = p.Address
	if p.Department != "" {
		s.Department = p.Department
	}
	if p.Course != "" {
		s.Course = p.Course
	}
	if p.Year != 0 {
		s.Year = p.Year
	}
	if p.Semester != 0 {
		s.Semester = p.Semester
	}
	if p.EnrollmentDate != "" {
		if d, err := time.Parse("2006-01-02", p.EnrollmentDate); err == nil {
			s.EnrollmentDate = d
		}
	}
	s.GuardianName = p.GuardianName
	s.GuardianPhone = p.GuardianPhone
	s.GuardianRelation = p.GuardianRelation
	s.GuardianEmail = p.GuardianEmail
	if p.Status != "" {
		s.Status = p.Status
	}
}

// GET /api/students?status=&department=&year=
func (h *StudentHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Student{}).Preload("Room")

	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		tx = tx.Where("status = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("department")); v != "" {
		tx = tx.Where("department = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("year")); v != "" {
		tx = tx.Where("year = ?", atoiOr(v, 0))
	}

	var students []models.Student
	if err := tx.Order("id ASC").Find(&students).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondList(c, len(students), students)
}

// GET /api/students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid student id")
	}
	var student models.Student
	if err := database.DB.Preload("Room").First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Student not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusOK, student)
}

// POST /api/students
//
// Also provisions a login credential for the student. The default
// password matches the original deployment's onboarding flow and is
// expected to be changed on first login.
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	p.normalize()
	if msg := validateStudent(&p); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	student := models.Student{EnrollmentDate: time.Now()}
	p.apply(&student)

	password := p.Password
	if password == "" {
		password = "student123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&student).Error; err != nil {
			return err
		}
		user := models.User{
			Email:     student.Email,
			Password:  string(hash),
			Role:      models.RoleStudent,
			StudentID: &student.ID,
			IsActive:  true,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return respondError(c, http.StatusBadRequest, "Student id or email already exists")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusCreated, student)
}

// PUT /api/students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid student id")
	}
	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Student not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	p.normalize()
	if msg := validateStudent(&p); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}
	p.apply(&student)

	if err := database.DB.Save(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return respondError(c, http.StatusBadRequest, "Student id or email already exists")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusOK, student)
}

// DELETE /api/students/:id removes the login credential with the record.
func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid student id")
	}
	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Student not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.User{}).Error; err != nil {
			return err
		}
		return tx.Delete(&student).Error
	})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, http.StatusOK, map[string]any{})
}

// GET /api/students/:id/ledger
func (h *StudentHandler) Ledger(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid student id")
	}
	var student models.Student
	if err := database.DB.Preload("Room").First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Student not found")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	var fees []models.Fee
	if err := database.DB.Where("student_id = ?", student.ID).Order("due_date ASC").Find(&fees).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	entries, summary := services.BuildLedger(&student, fees, time.Now())

	return respondOK(c, http.StatusOK, map[string]any{
		"student": map[string]any{
			"id":              student.ID,
			"student_id":      student.StudentID,
			"name":            fmt.Sprintf("%s %s", student.FirstName, student.LastName),
			"email":           student.Email,
			"department":      student.Department,
			"course":          student.Course,
			"year":            student.Year,
			"semester":        student.Semester,
			"room":            student.Room,
			"enrollment_date": student.EnrollmentDate,
		},
		"ledger":  entries,
		"summary": summary,
	})
}
