package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ashishpimple94/hostel-backend/database"
	"github.com/ashishpimple94/hostel-backend/models"
)

type AuthHandler struct {
	JWTSecret string
}

func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{JWTSecret: secret}
}

func (h *AuthHandler) signJWT(u *models.User) (string, error) {
	var studentID uint
	if u.StudentID != nil {
		studentID = *u.StudentID
	}
	claims := jwt.MapClaims{
		"sub":        u.ID,
		"role":       u.Role,
		"email":      u.Email,
		"student_id": studentID,
		"exp":        time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":        time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

func (h *AuthHandler) tokenResponse(c echo.Context, status int, u *models.User) error {
	token, err := h.signJWT(u)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Could not generate token")
	}
	return c.JSON(status, map[string]any{
		"success": true,
		"token":   token,
		"data":    u,
	})
}

type registerPayload struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// POST /api/auth/register
//
// Registering with role=student creates the student record alongside the
// credential; the student id is generated sequentially.
func (h *AuthHandler) Register(c echo.Context) error {
	var p registerPayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.Email == "" || p.Password == "" {
		return respondError(c, http.StatusBadRequest, "Please provide email and password")
	}
	switch p.Role {
	case models.RoleAdmin, models.RoleWarden, models.RoleAccountant,
		models.RoleMaintenance, models.RoleStudent:
	default:
		return respondError(c, http.StatusBadRequest, "Invalid role")
	}

	var dup models.User
	if err := database.DB.Where("email = ?", p.Email).First(&dup).Error; err == nil {
		return respondError(c, http.StatusBadRequest, "User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	user := models.User{
		Email:    p.Email,
		Password: string(hash),
		Role:     p.Role,
		IsActive: true,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if p.Role == models.RoleStudent {
			var count int64
			if err := tx.Model(&models.Student{}).Count(&count).Error; err != nil {
				return err
			}
			student := models.Student{
				StudentID:      fmt.Sprintf("STU%05d", count+1),
				FirstName:      p.FirstName,
				LastName:       p.LastName,
				Email:          p.Email,
				Phone:          p.Phone,
				EnrollmentDate: time.Now(),
			}
			if err := tx.Create(&student).Error; err != nil {
				return err
			}
			user.StudentID = &student.ID
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return respondError(c, http.StatusBadRequest, "User already exists")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	return h.tokenResponse(c, http.StatusCreated, &user)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var p loginPayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.Email == "" || p.Password == "" {
		return respondError(c, http.StatusBadRequest, "Please provide email and password")
	}

	var user models.User
	if err := database.DB.Where("email = ?", p.Email).First(&user).Error; err != nil {
		return respondError(c, http.StatusUnauthorized, "Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(p.Password)) != nil {
		return respondError(c, http.StatusUnauthorized, "Invalid credentials")
	}
	if !user.IsActive {
		return respondError(c, http.StatusUnauthorized, "Account is deactivated")
	}

	return h.tokenResponse(c, http.StatusOK, &user)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	var user models.User
	if err := database.DB.First(&user, currentUserID(c)).Error; err != nil {
		return respondError(c, http.StatusUnauthorized, "Not authorized to access this route")
	}
	return respondOK(c, http.StatusOK, user)
}

type updatePasswordPayload struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PUT /api/auth/updatepassword
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var p updatePasswordPayload
	if err := c.Bind(&p); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid payload")
	}
	if p.NewPassword == "" {
		return respondError(c, http.StatusBadRequest, "new_password is required")
	}

	var user models.User
	if err := database.DB.First(&user, currentUserID(c)).Error; err != nil {
		return respondError(c, http.StatusUnauthorized, "Not authorized to access this route")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(p.CurrentPassword)) != nil {
		return respondError(c, http.StatusUnauthorized, "Password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
	user.Password = string(hash)
	if err := database.DB.Save(&user).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	return h.tokenResponse(c, http.StatusOK, &user)
}
