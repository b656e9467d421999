package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-backend/internal/database"
	"clinic-backend/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestCreatePatientInvalidPhone(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleReceptionist)

	for _, phone := range []string{"12345", "555-123-4567", "phonenumber"} {
		w := doRequest(router, http.MethodPost, "/patients", token, gin.H{
			"name":         "Jane Roe",
			"age":          30,
			"phone_number": phone,
			"address":      "2 Side St",
			"account_type": "cash",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "phone %q", phone)
	}

	var count int64
	require.NoError(t, database.DB.Model(&models.Patient{}).Count(&count).Error)
	assert.Zero(t, count, "rejected patients must not be persisted")
}

func TestCreateAndGetPatient(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleReceptionist)

	w := doRequest(router, http.MethodPost, "/patients", token, gin.H{
		"name":         "Jane Roe",
		"age":          30,
		"phone_number": "5559876543",
		"address":      "2 Side St",
		"account_type": "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	assert.Equal(t, "Jane Roe", created["name"])

	w = doRequest(router, http.MethodGet, "/patients/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["total_balance"])
}

func TestPatientBalanceSkipsUnknown(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleAdmin)
	patient := seedPatient(t, "Sam Hill")
	doctor := seedDoctor(t, "Dr. Lee")

	balances := []*float64{floatPtr(50), nil, floatPtr(30)}
	for i, balance := range balances {
		visit := models.Visit{
			Date:             time.Now().Add(time.Duration(i) * time.Hour),
			Summary:          "checkup",
			ProcedureDetails: "routine",
			AmountPaid:       10,
			Balance:          balance,
			PatientID:        patient.ID,
			DoctorID:         doctor.ID,
		}
		require.NoError(t, database.DB.Create(&visit).Error)
	}

	w := doRequest(router, http.MethodGet, "/patients/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(80), body["total_balance"])
	assert.Len(t, body["visits"], 3)
}

func TestDeletePatientCascades(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleAdmin)
	patient := seedPatient(t, "Gone Soon")
	doctor := seedDoctor(t, "Dr. Lee")

	visit := models.Visit{
		Summary:          "extraction",
		ProcedureDetails: "molar",
		AmountPaid:       0,
		PatientID:        patient.ID,
		DoctorID:         doctor.ID,
	}
	require.NoError(t, database.DB.Create(&visit).Error)
	require.NoError(t, database.DB.Create(&models.Prescription{
		Details: "ibuprofen 400mg",
		VisitID: visit.ID,
	}).Error)
	require.NoError(t, database.DB.Create(&models.Appointment{
		Date:            time.Now().Add(24 * time.Hour),
		DurationMinutes: 30,
		Status:          models.StatusScheduled,
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
	}).Error)

	w := doRequest(router, http.MethodDelete, "/patients/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, model := range []any{
		&models.Patient{}, &models.Visit{}, &models.Prescription{}, &models.Appointment{},
	} {
		var count int64
		require.NoError(t, database.DB.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T rows should cascade away", model)
	}
}

func TestSearchPatients(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleReceptionist)

	seed := []models.Patient{
		{Name: "John Smith", Age: 50, PhoneNumber: "5550000001", Address: "12 Main St", AccountType: "cash"},
		{Name: "Alice Wong", Age: 41, PhoneNumber: "5550000002", Address: "123 John Ave", AccountType: "cash"},
		{Name: "Bob Reyes", Age: 35, PhoneNumber: "5550000003", Address: "9 john road", AccountType: "cash"},
	}
	for i := range seed {
		require.NoError(t, database.DB.Create(&seed[i]).Error)
	}

	names := func(results []map[string]any) []string {
		out := make([]string, 0, len(results))
		for _, r := range results {
			out = append(out, r["name"].(string))
		}
		return out
	}

	// Name matches are case-insensitive; address matches are not.
	w := doRequest(router, http.MethodGet, "/patients/search?q=John", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []string{"John Smith", "Alice Wong"}, names(decodeList(t, w)))

	w = doRequest(router, http.MethodGet, "/patients/search?q=john", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []string{"John Smith", "Bob Reyes"}, names(decodeList(t, w)))

	w = doRequest(router, http.MethodGet, "/patients/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePatientRevalidatesPhone(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleReceptionist)
	seedPatient(t, "Edit Me")

	w := doRequest(router, http.MethodPatch, "/patients/1", token, gin.H{
		"phone_number": "bad",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPatch, "/patients/1", token, gin.H{
		"phone_number": "5557654321",
		"age":          41,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "5557654321", body["phone_number"])
	assert.Equal(t, float64(41), body["age"])
}
