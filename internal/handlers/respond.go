package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-backend/internal/config"
	"clinic-backend/internal/logger"
)

var (
	cfg *config.Config
	log = logger.New("info")
)

// Init wires the package to the loaded configuration and logger.
func Init(c *config.Config, l *logger.Logger) {
	cfg = c
	if l != nil {
		log = l
	}
}

// Error payloads are a single descriptive message; the status code
// carries the taxonomy: 400 validation, 404 not-found, 409 conflict,
// 500 persistence failure.

func respondValidation(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"message": message})
}

func respondConflict(c *gin.Context, body gin.H) {
	c.JSON(http.StatusConflict, body)
}

// respondInternal logs the driver error and returns a generic message;
// internal detail never leaves the process.
func respondInternal(c *gin.Context, err error, context string) {
	log.WithError(err).Error(context)
	c.JSON(http.StatusInternalServerError, gin.H{"message": context})
}

// parseID parses a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		respondValidation(c, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}

// isUniqueViolation matches the duplicate-key errors the supported
// drivers produce.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
