package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/testdb"
)

// Runs the relation conflict semantics against the real unique indexes
// instead of sqlite. Needs a Docker daemon.
func TestToggleOnPostgres(t *testing.T) {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("set INTEGRATION_TESTS to run postgres container tests")
	}

	tdb := testdb.SetupPostgres(t)
	db := tdb.DB

	author := newTestUser(t, db, "author")
	viewer := newTestUser(t, db, "viewer")
	recipe := newTestRecipe(t, db, author.ID, "Pasta")

	svc := NewToggleService(db)
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, viewer.ID, recipe.ID)
	require.NoError(t, err)
	_, err = svc.AddFavorite(ctx, viewer.ID, recipe.ID)
	require.ErrorIs(t, err, ErrAlreadyExists)

	var count int64
	require.NoError(t, db.Model(&models.FavoriteRecipe{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = svc.Follow(ctx, viewer.ID, viewer.ID)
	require.ErrorIs(t, err, ErrSelfFollow)
}
