package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

type EmployeeController struct {
	DB     *gorm.DB
	Tokens *utils.TokenManager
}

func NewEmployeeController(db *gorm.DB, tokens *utils.TokenManager) *EmployeeController {
	return &EmployeeController{DB: db, Tokens: tokens}
}

// CreateEmployee -> admin registers a staff account
func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		Role      string `json:"role" binding:"required,oneof=admin staff chef cashier"`
	}
	if !bindJSON(c, &req) {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	employee := models.Employee{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(req.Email),
		Password:  string(hashed),
		Role:      req.Role,
	}
	if err := ec.DB.WithContext(c.Request.Context()).Create(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondErrorCode(c, http.StatusConflict, string(services.KindInvalidInput),
				errors.New("email is already registered"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New employee registered: %s (role=%s)", employee.Email, employee.Role)
	utils.RespondJSON(c, http.StatusCreated, "Employee registered", employee)
}

// Login -> JWT for the staff screens
func (ec *EmployeeController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	var employee models.Employee
	err := ec.DB.WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(input.Email)).
		First(&employee).Error
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	token, err := ec.Tokens.GenerateToken(employee.ID, employee.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for employee: %s, role: %s", employee.Email, employee.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": employee.Role,
		"employee":  employee,
	})
}

// Logout -> revoke the bearer token until it would have expired anyway
func (ec *EmployeeController) Logout(c *gin.Context) {
	token := c.GetString("token")
	expiresAt, _ := c.Get("token_expires_at")
	exp, ok := expiresAt.(time.Time)
	if !ok {
		exp = time.Now().Add(24 * time.Hour)
	}
	ec.Tokens.Blacklist(token, exp)

	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (ec *EmployeeController) GetProfile(c *gin.Context) {
	employeeID := c.GetUint("employee_id")
	if employeeID == 0 {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("employee id not found in context"))
		return
	}

	var employee models.Employee
	if err := ec.DB.WithContext(c.Request.Context()).First(&employee, employeeID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", employee)
}
