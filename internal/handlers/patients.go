package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-backend/internal/audit"
	"clinic-backend/internal/database"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
)

type CreatePatientRequest struct {
	Name        string `json:"name" binding:"required"`
	Age         *int   `json:"age" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Address     string `json:"address" binding:"required"`
	AccountType string `json:"account_type" binding:"required"`
}

type UpdatePatientRequest struct {
	Name        *string `json:"name"`
	Age         *int    `json:"age"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	AccountType *string `json:"account_type"`
}

func ListPatients(c *gin.Context) {
	var patients []models.Patient
	if err := database.DB.Find(&patients).Error; err != nil {
		respondInternal(c, err, "Failed to list patients")
		return
	}
	c.JSON(http.StatusOK, patients)
}

// GetPatient returns the patient with nested visit and prescription
// summaries and the derived total balance.
func GetPatient(c *gin.Context) {
	patientID, ok := parseID(c, "patient_id")
	if !ok {
		return
	}

	var patient models.Patient
	err := database.DB.
		Preload("Visits", func(db *gorm.DB) *gorm.DB { return db.Order("visits.date DESC") }).
		Preload("Visits.Prescription").
		Preload("Visits.Doctor").
		First(&patient, patientID).Error
	if err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Patient not found")
			return
		}
		respondInternal(c, err, "Failed to load patient")
		return
	}

	total, err := totalBalance(database.DB, patientID)
	if err != nil {
		respondInternal(c, err, "Failed to load patient")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            patient.ID,
		"name":          patient.Name,
		"age":           patient.Age,
		"phone_number":  patient.PhoneNumber,
		"address":       patient.Address,
		"account_type":  patient.AccountType,
		"visits":        patient.Visits,
		"total_balance": total,
	})
}

// totalBalance derives the patient's balance at read time: the sum of
// non-null visit balances. Visits with an unknown balance contribute
// nothing rather than zero.
func totalBalance(db *gorm.DB, patientID uint) (float64, error) {
	var total float64
	err := db.Model(&models.Visit{}).
		Where("patient_id = ? AND balance IS NOT NULL", patientID).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).Error
	return total, err
}

func CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	if err := models.ValidatePhoneNumber(req.PhoneNumber); err != nil {
		respondValidation(c, err.Error())
		return
	}

	patient := models.Patient{
		Name:        req.Name,
		Age:         *req.Age,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		AccountType: req.AccountType,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&patient).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "PATIENT_CREATE", "patient", patient.ID,
			"Created patient: "+patient.Name)
	})
	if err != nil {
		respondInternal(c, err, "Failed to insert patient")
		return
	}
	c.JSON(http.StatusCreated, patient)
}

func UpdatePatient(c *gin.Context) {
	patientID, ok := parseID(c, "patient_id")
	if !ok {
		return
	}

	var patient models.Patient
	if err := database.DB.First(&patient, patientID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Patient not found")
			return
		}
		respondInternal(c, err, "Failed to load patient")
		return
	}

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	var changes []string
	if req.Name != nil {
		patient.Name = *req.Name
		changes = append(changes, "name")
	}
	if req.Age != nil {
		patient.Age = *req.Age
		changes = append(changes, "age")
	}
	if req.PhoneNumber != nil {
		if err := models.ValidatePhoneNumber(*req.PhoneNumber); err != nil {
			respondValidation(c, err.Error())
			return
		}
		patient.PhoneNumber = *req.PhoneNumber
		changes = append(changes, "phone_number")
	}
	if req.Address != nil {
		patient.Address = *req.Address
		changes = append(changes, "address")
	}
	if req.AccountType != nil {
		patient.AccountType = *req.AccountType
		changes = append(changes, "account_type")
	}
	if len(changes) == 0 {
		respondValidation(c, "No changes detected")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&patient).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "PATIENT_UPDATE", "patient", patient.ID,
			"Updated: "+strings.Join(changes, ", "))
	})
	if err != nil {
		respondInternal(c, err, "Failed to update patient")
		return
	}
	c.JSON(http.StatusOK, patient)
}

// DeletePatient hard-deletes the patient. Visits, their prescriptions
// and treatments, and the patient's appointments go with it via the FK
// cascade.
func DeletePatient(c *gin.Context) {
	patientID, ok := parseID(c, "patient_id")
	if !ok {
		return
	}

	var patient models.Patient
	if err := database.DB.First(&patient, patientID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Patient not found")
			return
		}
		respondInternal(c, err, "Failed to load patient")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&patient).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "PATIENT_DELETE", "patient", patientID,
			"Deleted patient: "+patient.Name)
	})
	if err != nil {
		respondInternal(c, err, "Failed to delete patient")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted"})
}

// SearchPatients returns the union of two predicates: case-insensitive
// name match OR case-sensitive address substring. The SQL prefilter is
// a case-insensitive superset; the exact rule, including the
// case-sensitive address leg, is applied here.
func SearchPatients(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		respondValidation(c, "Query parameter 'q' is required")
		return
	}

	pattern := "%" + strings.ToLower(q) + "%"
	var candidates []models.Patient
	err := database.DB.
		Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern).
		Find(&candidates).Error
	if err != nil {
		respondInternal(c, err, "Search failed")
		return
	}

	lowered := strings.ToLower(q)
	results := make([]models.Patient, 0, len(candidates))
	for _, p := range candidates {
		if strings.Contains(strings.ToLower(p.Name), lowered) || strings.Contains(p.Address, q) {
			results = append(results, p)
		}
	}
	c.JSON(http.StatusOK, results)
}
