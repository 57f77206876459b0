package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/testdb"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAuthService(db, "test-secret")

	token, err := svc.Register("alice@example.com", "alice", "Alice", "Liddell", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "password123", user.PasswordHash)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	loginToken, err := svc.Login("alice@example.com", "password123")
	require.NoError(t, err)
	claims, err = svc.ValidateToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAuthService(db, "test-secret")

	_, err := svc.Register("bob@example.com", "bob", "Bob", "Gray", "password123")
	require.NoError(t, err)

	_, err = svc.Login("bob@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAuthService(db, "test-secret")

	_, err := svc.Register("carol@example.com", "carol", "Carol", "Danvers", "password123")
	require.NoError(t, err)

	_, err = svc.Register("carol@example.com", "carol2", "Carol", "Danvers", "password123")
	require.Error(t, err)
	_, err = svc.Register("carol2@example.com", "carol", "Carol", "Danvers", "password123")
	require.Error(t, err)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAuthService(db, "test-secret")
	foreign := NewAuthService(db, "other-secret")

	token, err := foreign.Register("dave@example.com", "dave", "Dave", "Lister", "password123")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}
