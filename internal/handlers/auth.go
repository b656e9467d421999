package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"clinic-backend/internal/audit"
	"clinic-backend/internal/auth"
	"clinic-backend/internal/database"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	Phone    *string `json:"phone"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func tokenPair(userID uint, role string) (gin.H, error) {
	access, err := auth.SignAccessToken(&cfg.JWT, userID, role)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.SignRefreshToken(&cfg.JWT, userID)
	if err != nil {
		return nil, err
	}
	return gin.H{"access_token": access, "refresh_token": refresh}, nil
}

func userSummary(user *models.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Email and password are required")
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if isNotFound(err) {
			log.WithField("email", email).Info("login attempt for unknown email")
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		respondInternal(c, err, "Login failed")
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"message": "Account deactivated"})
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		log.WithField("email", email).Info("failed login")
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	tokens, err := tokenPair(user.ID, user.Role)
	if err != nil {
		respondInternal(c, err, "Login failed")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := database.DB.Model(&user).Update("last_login", now).Error; err != nil {
		respondInternal(c, err, "Login failed")
		return
	}

	log.WithField("user_id", user.ID).Info("successful login")
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userSummary(&user),
		"tokens":  tokens,
	})
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		respondValidation(c, "Invalid email format")
		return
	}
	// Admin accounts are provisioned, not self-registered.
	if req.Role == models.RoleAdmin || !models.ValidRole(req.Role) {
		respondValidation(c, "Invalid role")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondInternal(c, err, "Registration failed")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		Phone:        req.Phone,
		IsActive:     true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, gin.H{"message": "Email already registered"})
			return
		}
		respondInternal(c, err, "Registration failed")
		return
	}

	tokens, err := tokenPair(user.ID, user.Role)
	if err != nil {
		respondInternal(c, err, "Registration failed")
		return
	}

	log.WithField("user_id", user.ID).Info("new user registered")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    userSummary(&user),
		"tokens":  tokens,
	})
}

func RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Refresh token is required")
		return
	}

	claims, err := auth.VerifyToken(&cfg.JWT, req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return
	}

	var revoked int64
	if err := database.DB.Model(&models.RevokedToken{}).
		Where("jti = ?", claims.ID).Count(&revoked).Error; err != nil {
		respondInternal(c, err, "Token refresh failed")
		return
	}
	if revoked > 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token has been revoked"})
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User account not found or inactive"})
		return
	}

	access, err := auth.SignAccessToken(&cfg.JWT, user.ID, user.Role)
	if err != nil {
		respondInternal(c, err, "Token refresh failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token refreshed", "access_token": access})
}

func Logout(c *gin.Context) {
	v, ok := c.Get(middleware.CtxClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}
	claims := v.(*auth.Claims)

	revoked := models.RevokedToken{
		JTI:       claims.ID,
		TokenType: claims.TokenType,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := database.DB.Create(&revoked).Error; err != nil && !isUniqueViolation(err) {
		respondInternal(c, err, "Logout failed")
		return
	}

	if err := audit.Record(database.DB, middleware.UserID(c), "USER_LOGOUT", "user", middleware.UserID(c), ""); err != nil {
		log.WithError(err).Warn("audit write failed on logout")
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func Me(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, middleware.UserID(c)).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternal(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, user)
}
