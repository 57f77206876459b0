package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/testdb"
)

func TestUserGetWithFollowFlag(t *testing.T) {
	db := testdb.Open(t)
	viewer := newTestUser(t, db, "viewer")
	followed := newTestUser(t, db, "followed")
	stranger := newTestUser(t, db, "stranger")
	svc := NewUserService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Follow{UserID: viewer.ID, AuthorID: followed.ID}).Error)

	view, err := svc.Get(ctx, followed.ID, &viewer.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFollowed)

	view, err = svc.Get(ctx, stranger.ID, &viewer.ID)
	require.NoError(t, err)
	assert.False(t, view.IsFollowed)

	// Anonymous lookups never report a follow.
	view, err = svc.Get(ctx, followed.ID, nil)
	require.NoError(t, err)
	assert.False(t, view.IsFollowed)
}

func TestUserGetNotFound(t *testing.T) {
	db := testdb.Open(t)
	svc := NewUserService(db)

	_, err := svc.Get(context.Background(), uuid.New(), nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserListAnnotatesBatch(t *testing.T) {
	db := testdb.Open(t)
	viewer := newTestUser(t, db, "viewer")
	followed := newTestUser(t, db, "followed")
	newTestUser(t, db, "stranger")
	svc := NewUserService(db)

	require.NoError(t, db.Create(&models.Follow{UserID: viewer.ID, AuthorID: followed.ID}).Error)

	views, err := svc.List(context.Background(), &viewer.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)

	flags := make(map[string]bool, len(views))
	for _, v := range views {
		flags[v.User.Username] = v.IsFollowed
	}
	assert.True(t, flags["followed"])
	assert.False(t, flags["stranger"])
	assert.False(t, flags["viewer"])
}
