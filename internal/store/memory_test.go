package store

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

func TestNextID(t *testing.T) {
	assert.Equal(t, int64(1), nextID[int](0, nil))
	assert.Equal(t, int64(8), nextID(3, map[int64]int{7: 0, 2: 0}))
	assert.Equal(t, int64(11), nextID(10, map[int64]int{7: 0}))
}

func TestMemoryDB_InputIsCopied(t *testing.T) {
	db := NewMemoryDB(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	user := &domain.User{Login: "ann", Email: "ann@example.com", Birthday: domain.NewDate(1990, 1, 1)}
	saved, err := db.Users().Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.ID, "caller's value must not receive the id")

	saved.Friends[42] = domain.FriendshipRequested
	found, err := db.Users().FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Friends)
}

func TestMemoryDB_ConcurrentLikes(t *testing.T) {
	db := NewMemoryDB(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	film, err := db.Films().Save(ctx, &domain.Film{Name: "Crowded"})
	require.NoError(t, err)
	const users = 50
	for i := 0; i < users; i++ {
		_, err := db.Users().Save(ctx, &domain.User{Login: "u", Email: "u@example.com", Birthday: domain.NewDate(1990, 1, 1)})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 1; i <= users; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			assert.NoError(t, db.Films().AddLike(ctx, film.ID, userID))
		}(int64(i))
	}
	wg.Wait()

	found, err := db.Films().FindByID(ctx, film.ID)
	require.NoError(t, err)
	assert.Len(t, found.Likes, users)
}
