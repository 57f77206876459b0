package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	claims *TokenClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*TokenClaims, error) {
	return s.claims, s.err
}

func runWithAuth(mw gin.HandlerFunc, header string) (*httptest.ResponseRecorder, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var seen *uuid.UUID
	router.GET("/", mw, func(c *gin.Context) {
		if id, ok := UserID(c); ok {
			seen = &id
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, seen
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := stubValidator{claims: &TokenClaims{UserID: userID}}
	invalid := stubValidator{err: errors.New("token is expired")}

	w, seen := runWithAuth(AuthMiddleware(valid), "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, userID, *seen)

	w, _ = runWithAuth(AuthMiddleware(valid), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = runWithAuth(AuthMiddleware(valid), "NotBearer token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = runWithAuth(AuthMiddleware(invalid), "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := stubValidator{claims: &TokenClaims{UserID: userID}}
	invalid := stubValidator{err: errors.New("token is expired")}

	// Anonymous requests pass through without a viewer.
	w, seen := runWithAuth(OptionalAuthMiddleware(valid), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, seen)

	w, seen = runWithAuth(OptionalAuthMiddleware(valid), "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, userID, *seen)

	// A present but invalid token is still rejected.
	w, _ = runWithAuth(OptionalAuthMiddleware(invalid), "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
