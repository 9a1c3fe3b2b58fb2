package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/XevgenX/go-filmorate/internal/domain"
	"github.com/XevgenX/go-filmorate/internal/service"
	"github.com/XevgenX/go-filmorate/internal/store"
	"github.com/XevgenX/go-filmorate/internal/validation"
)

type fixture struct {
	db     *store.MemoryDB
	films  *service.FilmService
	users  *service.UserService
	genres *service.GenreService
	mpa    *service.MpaService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := store.NewMemoryDB(logger)
	v := validation.New(db.Genres(), db.Mpa(), validation.WithClock(func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	}))
	return &fixture{
		db:     db,
		films:  service.NewFilmService(db.Films(), db.Mpa(), v, logger),
		users:  service.NewUserService(db.Users(), v, logger),
		genres: service.NewGenreService(db.Genres()),
		mpa:    service.NewMpaService(db.Mpa()),
	}
}

func (f *fixture) createFilm(t *testing.T, name string) *domain.Film {
	t.Helper()
	release := domain.NewDate(2000, 1, 1)
	film, err := f.films.Create(context.Background(), &domain.Film{
		Name:        name,
		ReleaseDate: &release,
		Mpa:         &domain.Mpa{ID: 1},
	})
	require.NoError(t, err)
	return film
}

func (f *fixture) createUser(t *testing.T, login string) *domain.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &domain.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: domain.NewDate(1990, 6, 1),
	})
	require.NoError(t, err)
	return user
}
