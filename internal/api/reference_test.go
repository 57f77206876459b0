package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
)

func TestTagEndpoints(t *testing.T) {
	router, db := setupTestRouter(t)
	tags, _ := seedReferenceData(t, db)

	w := doRequest(router, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.Tag
	decodeJSON(t, w, &listed)
	require.Len(t, listed, 2)
	assert.Equal(t, "breakfast", listed[0].Slug)

	w = doRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/tags/%d", tags[1].ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tag models.Tag
	decodeJSON(t, w, &tag)
	assert.Equal(t, "dinner", tag.Slug)

	w = doRequest(router, http.MethodGet, "/api/v1/tags/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngredientEndpoints(t *testing.T) {
	router, db := setupTestRouter(t)
	_, ingredients := seedReferenceData(t, db)

	w := doRequest(router, http.MethodGet, "/api/v1/ingredients", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.Ingredient
	decodeJSON(t, w, &listed)
	require.Len(t, listed, 2)

	// Prefix search narrows the listing.
	w = doRequest(router, http.MethodGet, "/api/v1/ingredients?name=Fl", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Flour", listed[0].Name)

	w = doRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/ingredients/%d", ingredients[1].ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredient models.Ingredient
	decodeJSON(t, w, &ingredient)
	assert.Equal(t, "ml", ingredient.MeasurementUnit)
}
