package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"clinic-backend/internal/auth"
	"clinic-backend/internal/config"
	"clinic-backend/internal/database"
	"clinic-backend/internal/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		ListenPort: "8080",
		LogLevel:   "error",
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTTLMins:   15,
			RefreshTTLHours: 168,
		},
		Inventory:      config.InventoryConfig{DefaultMinQuantity: 5},
		AllowedOrigins: []string{"*"},
	}
}

// setupTest wires the package to a fresh in-memory database and returns
// the full router. Foreign keys are enabled so cascade behavior matches
// production.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A second connection to :memory: would see an empty database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db

	Init(testConfig(), nil)
	return SetupRouter()
}

var userSeq int

func seedUser(t *testing.T, role string) (*models.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	userSeq++
	user := models.User{
		Name:         "Test " + role,
		Email:        fmt.Sprintf("%s%d@clinic.test", role, userSeq),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	token, err := auth.SignAccessToken(&cfg.JWT, user.ID, role)
	require.NoError(t, err)
	return &user, token
}

func seedPatient(t *testing.T, name string) *models.Patient {
	t.Helper()
	patient := models.Patient{
		Name:        name,
		Age:         40,
		PhoneNumber: "5551234567",
		Address:     "1 Clinic Way",
		AccountType: "insurance",
	}
	require.NoError(t, database.DB.Create(&patient).Error)
	return &patient
}

func seedDoctor(t *testing.T, name string) *models.Doctor {
	t.Helper()
	doctor := models.Doctor{Name: name, Specialty: "general", IsActive: true}
	require.NoError(t, database.DB.Create(&doctor).Error)
	return &doctor
}

func doRequest(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
