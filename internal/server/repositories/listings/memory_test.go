package listings

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_InsertionOrderAndCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, r.Add(ctx, models.Listing{ID: id, Title: "t-" + id}))
	}
	assert.ErrorIs(t, r.Add(ctx, models.Listing{ID: "a"}), common.ErrConflict)

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].ID, all[1].ID, all[2].ID})

	all[0].Title = "mutated"
	all[0].IsOwn = true
	again, _ := r.Get(ctx, "c")
	assert.Equal(t, "t-c", again.Title)
	assert.False(t, again.IsOwn)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMemoryRepository_AppendPhoto(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	require.NoError(t, r.Add(ctx, models.Listing{ID: "l1"}))

	require.NoError(t, r.AppendPhoto(ctx, "l1", models.Photo{ID: "p1", URL: "u1", Position: 0}))
	require.NoError(t, r.AppendPhoto(ctx, "l1", models.Photo{ID: "p2", URL: "u2", Position: 1}))

	l, err := r.Get(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, l.Photos, 2)
	assert.Equal(t, "p2", l.Photos[1].ID)

	assert.ErrorIs(t, r.AppendPhoto(ctx, "ghost", models.Photo{}), common.ErrorNotFound)
	_, err = r.Get(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
