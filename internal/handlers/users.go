package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-backend/internal/audit"
	"clinic-backend/internal/auth"
	"clinic-backend/internal/database"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
)

type CreateUserRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

func ListUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("id").Find(&users).Error; err != nil {
		respondInternal(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func GetUser(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	// Non-admins may only read their own account.
	if middleware.Role(c) != models.RoleAdmin && middleware.UserID(c) != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternal(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	if !models.ValidRole(req.Role) {
		respondValidation(c, "Invalid role")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondInternal(c, err, "Failed to create user")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         req.Role,
		Phone:        req.Phone,
		IsActive:     true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "USER_CREATE", "user", user.ID,
			"Created "+user.Role+" user")
	})
	if err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, gin.H{"message": "Email already exists"})
			return
		}
		respondInternal(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func UpdateUser(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	isAdmin := middleware.Role(c) == models.RoleAdmin
	if !isAdmin && middleware.UserID(c) != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternal(c, err, "Failed to load user")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	var changes []string
	if req.Name != nil {
		user.Name = *req.Name
		changes = append(changes, "name")
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
		changes = append(changes, "email")
	}
	if req.Phone != nil {
		user.Phone = req.Phone
		changes = append(changes, "phone")
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			respondInternal(c, err, "Failed to update user")
			return
		}
		user.PasswordHash = hash
		changes = append(changes, "password")
	}
	if req.IsActive != nil {
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		user.IsActive = *req.IsActive
		changes = append(changes, "is_active")
	}
	if len(changes) == 0 {
		respondValidation(c, "No changes detected")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "USER_UPDATE", "user", user.ID,
			"Updated: "+strings.Join(changes, ", "))
	})
	if err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, gin.H{"message": "Email already in use"})
			return
		}
		respondInternal(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeactivateUser is a soft delete: the account is kept for the audit
// trail and historical references.
func DeactivateUser(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternal(c, err, "Failed to load user")
		return
	}

	user.IsActive = false
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "USER_DEACTIVATE", "user", user.ID, "User deactivated")
	})
	if err != nil {
		respondInternal(c, err, "Failed to deactivate user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}
