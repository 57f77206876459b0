package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeFlow(t *testing.T) {
	router, _ := setupTestRouter(t)
	readerToken := registerUser(t, router, "reader")
	authorToken := registerUser(t, router, "author")
	authorID := profileID(t, router, authorToken)

	path := "/api/v1/users/" + authorID + "/subscribe"

	w := doRequest(router, http.MethodPost, path, readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sub SubscriptionResponse
	decodeJSON(t, w, &sub)
	assert.Equal(t, "author", sub.Username)
	assert.True(t, sub.IsSubscribed)
	assert.EqualValues(t, 0, sub.RecipesCount)
	assert.Empty(t, sub.Recipes)

	w = doRequest(router, http.MethodPost, path, readerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The follow flag is visible on the author's profile for the reader.
	w = doRequest(router, http.MethodGet, "/api/v1/users/"+authorID, readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user UserResponse
	decodeJSON(t, w, &user)
	assert.True(t, user.IsSubscribed)

	w = doRequest(router, http.MethodGet, "/api/v1/users/"+authorID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &user)
	assert.False(t, user.IsSubscribed)

	w = doRequest(router, http.MethodGet, "/api/v1/subscriptions", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Subscriptions []SubscriptionResponse `json:"subscriptions"`
	}
	decodeJSON(t, w, &listing)
	require.Len(t, listing.Subscriptions, 1)
	assert.Equal(t, "author", listing.Subscriptions[0].Username)

	w = doRequest(router, http.MethodDelete, path, readerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(router, http.MethodDelete, path, readerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeToSelf(t *testing.T) {
	router, _ := setupTestRouter(t)
	token := registerUser(t, router, "loner")
	id := profileID(t, router, token)

	w := doRequest(router, http.MethodPost, "/api/v1/users/"+id+"/subscribe", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeInvalidUserID(t *testing.T) {
	router, _ := setupTestRouter(t)
	token := registerUser(t, router, "reader")

	w := doRequest(router, http.MethodPost, "/api/v1/users/not-a-uuid/subscribe", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileRequiresAuth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/subscriptions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsers(t *testing.T) {
	router, _ := setupTestRouter(t)
	registerUser(t, router, "alice")
	registerUser(t, router, "bob")

	w := doRequest(router, http.MethodGet, "/api/v1/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Users []UserResponse `json:"users"`
	}
	decodeJSON(t, w, &listing)
	require.Len(t, listing.Users, 2)
}
