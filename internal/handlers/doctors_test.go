package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-backend/internal/database"
	"clinic-backend/internal/models"
)

func TestDoctorVisibility(t *testing.T) {
	router := setupTest(t)
	_, adminToken := seedUser(t, models.RoleAdmin)
	_, patientToken := seedUser(t, models.RolePatient)

	seedDoctor(t, "Dr. Active")
	retired := seedDoctor(t, "Dr. Retired")
	require.NoError(t, database.DB.Model(retired).Update("is_active", false).Error)

	w := doRequest(router, http.MethodGet, "/doctors", patientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	w = doRequest(router, http.MethodGet, "/doctors", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	// Inactive doctors are hidden from non-admins, not flagged.
	w = doRequest(router, http.MethodGet, "/doctors/2", patientToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(router, http.MethodGet, "/doctors/2", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDoctorSpecialtyFilter(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleAdmin)

	require.NoError(t, database.DB.Create(&models.Doctor{Name: "Dr. Teeth", Specialty: "Orthodontics", IsActive: true}).Error)
	require.NoError(t, database.DB.Create(&models.Doctor{Name: "Dr. Skin", Specialty: "Dermatology", IsActive: true}).Error)

	w := doRequest(router, http.MethodGet, "/doctors?specialty=ortho", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := decodeList(t, w)
	require.Len(t, results, 1)
	assert.Equal(t, "Dr. Teeth", results[0]["name"])
}

func TestDoctorSchedule(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleReceptionist)
	patient := seedPatient(t, "Scheduled")
	doctor := seedDoctor(t, "Dr. Weekly")

	w := doRequest(router, http.MethodPost, "/appointments", token, gin.H{
		"patient_id": patient.ID,
		"doctor_id":  doctor.ID,
		"date":       "2026-10-01 10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodGet,
		"/doctors/1/schedule?start_date=2026-10-01&end_date=2026-10-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	schedule := decodeList(t, w)
	require.Len(t, schedule, 1)
	assert.Equal(t, "Scheduled", schedule[0]["patient"].(map[string]any)["name"])

	w = doRequest(router, http.MethodGet,
		"/doctors/1/schedule?start_date=2026-10-02&end_date=2026-10-03", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))
}

func TestDeactivateDoctorKeepsHistory(t *testing.T) {
	router := setupTest(t)
	_, adminToken := seedUser(t, models.RoleAdmin)
	patient := seedPatient(t, "Historical")
	doctor := seedDoctor(t, "Dr. Leaving")

	visit := models.Visit{
		Summary:          "final visit",
		ProcedureDetails: "handover",
		PatientID:        patient.ID,
		DoctorID:         doctor.ID,
	}
	require.NoError(t, database.DB.Create(&visit).Error)

	w := doRequest(router, http.MethodDelete, "/doctors/1", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var visitCount int64
	require.NoError(t, database.DB.Model(&models.Visit{}).Count(&visitCount).Error)
	assert.Equal(t, int64(1), visitCount)

	var reloaded models.Doctor
	require.NoError(t, database.DB.First(&reloaded, doctor.ID).Error)
	assert.False(t, reloaded.IsActive)
}
