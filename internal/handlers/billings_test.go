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

func seedTreatment(t *testing.T, cost float64) *models.Treatment {
	t.Helper()
	visit := seedVisit(t)
	treatment := models.Treatment{
		VisitID:  visit.ID,
		DoctorID: visit.DoctorID,
		Name:     "filling",
		Cost:     cost,
	}
	require.NoError(t, database.DB.Create(&treatment).Error)
	return &treatment
}

func TestCreateBillingDefaultsToTreatmentCost(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleReceptionist)
	treatment := seedTreatment(t, 120)

	w := doRequest(router, http.MethodPost, "/billings", token, gin.H{
		"treatment_id": treatment.ID,
		"paid_amount":  120.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(120), body["amount"])
	assert.Equal(t, true, body["is_paid"])
}

func TestBillingPartialPayment(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleReceptionist)
	treatment := seedTreatment(t, 200)

	w := doRequest(router, http.MethodPost, "/billings", token, gin.H{
		"treatment_id":   treatment.ID,
		"paid_amount":    50.0,
		"payment_method": "card",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["is_paid"])
	assert.Equal(t, "card", body["payment_method"])

	// Settling the remainder flips is_paid.
	w = doRequest(router, http.MethodPatch, "/billings/1", token, gin.H{
		"paid_amount": 200.0,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["is_paid"])
}

func TestCreateBillingUnknownTreatment(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleReceptionist)

	w := doRequest(router, http.MethodPost, "/billings", token, gin.H{
		"treatment_id": 42,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBillingRejectsNegativePayment(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleReceptionist)
	treatment := seedTreatment(t, 100)

	w := doRequest(router, http.MethodPost, "/billings", token, gin.H{
		"treatment_id": treatment.ID,
		"paid_amount":  -5.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
