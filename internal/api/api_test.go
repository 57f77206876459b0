package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/testdb"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.Open(t)
	router := gin.New()
	RegisterRoutes(router, db, nil, nil, &config.Config{JWTSecret: "test-secret"})
	return router, db
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]string
	decodeJSON(t, w, &resp)
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

// profileID resolves the authenticated user's id through the API.
func profileID(t *testing.T, router *gin.Engine, token string) string {
	t.Helper()
	w := doRequest(router, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp UserResponse
	decodeJSON(t, w, &resp)
	return resp.ID.String()
}

func seedReferenceData(t *testing.T, db *gorm.DB) ([]models.Tag, []models.Ingredient) {
	t.Helper()
	tags := []models.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Dinner", Slug: "dinner"},
	}
	require.NoError(t, db.Create(&tags).Error)

	ingredients := []models.Ingredient{
		{Name: "Flour", MeasurementUnit: "g"},
		{Name: "Milk", MeasurementUnit: "ml"},
	}
	require.NoError(t, db.Create(&ingredients).Error)
	return tags, ingredients
}
