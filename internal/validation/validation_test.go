package validation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XevgenX/go-filmorate/internal/domain"
	"github.com/XevgenX/go-filmorate/internal/store"
)

var today = time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)

func newValidator() *Validator {
	db := store.NewMemoryDB(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(db.Genres(), db.Mpa(), WithClock(func() time.Time { return today }))
}

func validFilm() *domain.Film {
	release := domain.NewDate(1999, 3, 31)
	duration := 136
	return &domain.Film{
		Name:        "The Matrix",
		Description: "Neo wakes up",
		ReleaseDate: &release,
		Duration:    &duration,
		Mpa:         &domain.Mpa{ID: 4},
		Genres:      []domain.Genre{{ID: 6}},
	}
}

func validUser() *domain.User {
	return &domain.User{
		Email:    "neo@example.com",
		Login:    "neo",
		Name:     "Thomas Anderson",
		Birthday: domain.NewDate(1971, 9, 13),
	}
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "expected *domain.ValidationError, got %T", err)
	assert.Equal(t, field, vErr.Field)
}

func TestValidateFilm_Valid(t *testing.T) {
	assert.NoError(t, newValidator().ValidateFilm(context.Background(), validFilm()))
}

func TestValidateFilm_OptionalFieldsMayBeAbsent(t *testing.T) {
	film := &domain.Film{Name: "Minimal"}
	assert.NoError(t, newValidator().ValidateFilm(context.Background(), film))
}

func TestValidateFilm_Name(t *testing.T) {
	v := newValidator()
	for _, name := range []string{"", "   ", "\t\n"} {
		film := validFilm()
		film.Name = name
		requireFieldError(t, v.ValidateFilm(context.Background(), film), "name")
	}
}

func TestValidateFilm_DescriptionLength(t *testing.T) {
	v := newValidator()

	film := validFilm()
	film.Description = strings.Repeat("a", domain.MaxDescriptionLength)
	assert.NoError(t, v.ValidateFilm(context.Background(), film))

	film.Description = strings.Repeat("я", domain.MaxDescriptionLength)
	assert.NoError(t, v.ValidateFilm(context.Background(), film), "length is counted in characters")

	film.Description = strings.Repeat("a", domain.MaxDescriptionLength+1)
	requireFieldError(t, v.ValidateFilm(context.Background(), film), "description")
}

func TestValidateFilm_ReleaseDateBoundary(t *testing.T) {
	v := newValidator()

	film := validFilm()
	first := domain.NewDate(1895, 12, 28)
	film.ReleaseDate = &first
	assert.NoError(t, v.ValidateFilm(context.Background(), film))

	early := first.AddDays(-1)
	film.ReleaseDate = &early
	requireFieldError(t, v.ValidateFilm(context.Background(), film), "releaseDate")
}

func TestValidateFilm_DurationBoundary(t *testing.T) {
	v := newValidator()

	film := validFilm()
	zero := 0
	film.Duration = &zero
	assert.NoError(t, v.ValidateFilm(context.Background(), film))

	negative := -1
	film.Duration = &negative
	requireFieldError(t, v.ValidateFilm(context.Background(), film), "duration")
}

func TestValidateFilm_UnknownReferences(t *testing.T) {
	v := newValidator()

	film := validFilm()
	film.Mpa = &domain.Mpa{ID: 42}
	requireFieldError(t, v.ValidateFilm(context.Background(), film), "mpa")

	film = validFilm()
	film.Genres = []domain.Genre{{ID: 1}, {ID: 42}}
	requireFieldError(t, v.ValidateFilm(context.Background(), film), "genres")
}

func TestValidateFilm_Nil(t *testing.T) {
	assert.ErrorIs(t, newValidator().ValidateFilm(context.Background(), nil), domain.ErrValidation)
}

func TestValidateUser_Valid(t *testing.T) {
	assert.NoError(t, newValidator().ValidateUser(context.Background(), validUser()))
}

func TestValidateUser_BlankNameIsAllowed(t *testing.T) {
	user := validUser()
	user.Name = ""
	assert.NoError(t, newValidator().ValidateUser(context.Background(), user))
}

func TestValidateUser_Email(t *testing.T) {
	v := newValidator()
	for _, email := range []string{"", "neo", "neo@", "@example.com", "neo example.com"} {
		user := validUser()
		user.Email = email
		requireFieldError(t, v.ValidateUser(context.Background(), user), "email")
	}
}

func TestValidateUser_Login(t *testing.T) {
	v := newValidator()
	for _, login := range []string{"", "the one", " neo", "neo\t"} {
		user := validUser()
		user.Login = login
		requireFieldError(t, v.ValidateUser(context.Background(), user), "login")
	}
}

func TestValidateUser_BirthdayBoundary(t *testing.T) {
	v := newValidator()

	user := validUser()
	user.Birthday = domain.DateOf(today)
	assert.NoError(t, v.ValidateUser(context.Background(), user))

	user.Birthday = domain.DateOf(today).AddDays(1)
	requireFieldError(t, v.ValidateUser(context.Background(), user), "birthday")

	user.Birthday = domain.Date{}
	requireFieldError(t, v.ValidateUser(context.Background(), user), "birthday")
}

func TestValidateUser_ReportsEveryField(t *testing.T) {
	user := &domain.User{Email: "bad", Login: "has space", Birthday: domain.DateOf(today).AddDays(30)}

	err := newValidator().ValidateUser(context.Background(), user)

	require.Error(t, err)
	for _, field := range []string{"email", "login", "birthday"} {
		assert.Contains(t, err.Error(), field)
	}
}
