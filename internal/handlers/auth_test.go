package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-backend/internal/auth"
	"clinic-backend/internal/database"
	"clinic-backend/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	router := setupTest(t)

	w := doRequest(router, http.MethodPost, "/auth/register", "", gin.H{
		"name":     "Rita Front",
		"email":    "Rita@Clinic.Test",
		"password": "secret123",
		"role":     models.RoleReceptionist,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	user := body["user"].(map[string]any)
	assert.Equal(t, "rita@clinic.test", user["email"])
	tokens := body["tokens"].(map[string]any)
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])

	w = doRequest(router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "rita@clinic.test",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "rita@clinic.test",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsAdminAndDuplicates(t *testing.T) {
	router := setupTest(t)

	w := doRequest(router, http.MethodPost, "/auth/register", "", gin.H{
		"name":     "Sneaky",
		"email":    "sneaky@clinic.test",
		"password": "secret123",
		"role":     models.RoleAdmin,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload := gin.H{
		"name":     "Dora",
		"email":    "dora@clinic.test",
		"password": "secret123",
		"role":     models.RoleDoctor,
	}
	w = doRequest(router, http.MethodPost, "/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doRequest(router, http.MethodPost, "/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	router := setupTest(t)
	_, token := seedUser(t, models.RoleAdmin)

	w := doRequest(router, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken(t *testing.T) {
	router := setupTest(t)
	user, access := seedUser(t, models.RoleDoctor)

	refresh, err := auth.SignRefreshToken(&cfg.JWT, user.ID)
	require.NoError(t, err)

	w := doRequest(router, http.MethodPost, "/auth/refresh-token", "", gin.H{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["access_token"])

	// An access token is not accepted in the refresh slot.
	w = doRequest(router, http.MethodPost, "/auth/refresh-token", "", gin.H{
		"refresh_token": access,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeactivatedUserCannotAuthenticate(t *testing.T) {
	router := setupTest(t)
	user, token := seedUser(t, models.RoleDoctor)

	require.NoError(t, database.DB.Model(user).Update("is_active", false).Error)

	w := doRequest(router, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    user.Email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleEnforcement(t *testing.T) {
	router := setupTest(t)
	_, techToken := seedUser(t, models.RoleTechnician)

	w := doRequest(router, http.MethodGet, "/patients", techToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodGet, "/patients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/inventory", techToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
