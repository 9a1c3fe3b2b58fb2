package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/XevgenX/go-filmorate/internal/domain"
	"github.com/XevgenX/go-filmorate/internal/store"
)

// BackendTestSuite проверяет, что обе реализации хранилища ведут себя одинаково.
// Один и тот же набор тестов запускается для MemoryDB и для SQL-бэкенда на SQLite.
type BackendTestSuite struct {
	suite.Suite

	newBackend func(t *testing.T) store.Backend
	backend    store.Backend
	ctx        context.Context
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMemoryBackend(t *testing.T) store.Backend {
	return store.NewMemoryDB(discardLogger())
}

func newSQLiteBackend(t *testing.T) store.Backend {
	ctx := context.Background()
	db, err := store.Connect(ctx, store.DriverSQLite, ":memory:", discardLogger())
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	if err := store.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	backend, err := store.NewSQLBackend(db, discardLogger())
	if err != nil {
		t.Fatalf("create sql backend: %v", err)
	}
	return backend
}

func TestMemoryBackend(t *testing.T) {
	suite.Run(t, &BackendTestSuite{newBackend: newMemoryBackend})
}

func TestSQLiteBackend(t *testing.T) {
	suite.Run(t, &BackendTestSuite{newBackend: newSQLiteBackend})
}

func (suite *BackendTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.backend = suite.newBackend(suite.T())
}

func (suite *BackendTestSuite) TearDownTest() {
	suite.Require().NoError(suite.backend.Close())
}

func newFilm(name string) *domain.Film {
	release := domain.NewDate(2010, 7, 16)
	duration := 148
	return &domain.Film{
		Name:        name,
		Description: "dreams within dreams",
		ReleaseDate: &release,
		Duration:    &duration,
		Mpa:         &domain.Mpa{ID: 3},
		Genres:      []domain.Genre{{ID: 4}, {ID: 2}, {ID: 4}},
	}
}

func newUser(login string) *domain.User {
	return &domain.User{
		Email:    login + "@example.com",
		Login:    login,
		Name:     login,
		Birthday: domain.NewDate(1985, 1, 2),
	}
}

func (suite *BackendTestSuite) saveFilm(name string) *domain.Film {
	film, err := suite.backend.Films().Save(suite.ctx, newFilm(name))
	suite.Require().NoError(err)
	return film
}

func (suite *BackendTestSuite) saveUser(login string) *domain.User {
	user, err := suite.backend.Users().Save(suite.ctx, newUser(login))
	suite.Require().NoError(err)
	return user
}

func (suite *BackendTestSuite) TestPing() {
	suite.NoError(suite.backend.Ping(suite.ctx))
}

func (suite *BackendTestSuite) TestFilmSaveThenFind() {
	saved := suite.saveFilm("Inception")

	suite.Equal(int64(1), saved.ID)
	suite.Equal(&domain.Mpa{ID: 3}, saved.Mpa)
	suite.Equal([]domain.Genre{{ID: 2, Name: "Drama"}, {ID: 4, Name: "Thriller"}}, saved.Genres)
	suite.Equal([]int64{}, saved.Likes)

	found, err := suite.backend.Films().FindByID(suite.ctx, saved.ID)
	suite.Require().NoError(err)
	suite.Equal(saved, found)
}

func (suite *BackendTestSuite) TestFilmWithoutOptionalFields() {
	saved, err := suite.backend.Films().Save(suite.ctx, &domain.Film{Name: "Bare"})
	suite.Require().NoError(err)

	found, err := suite.backend.Films().FindByID(suite.ctx, saved.ID)
	suite.Require().NoError(err)
	suite.Nil(found.Mpa)
	suite.Nil(found.ReleaseDate)
	suite.Nil(found.Duration)
	suite.Empty(found.Genres)
	suite.Equal(saved, found)
}

func (suite *BackendTestSuite) TestIDsStrictlyIncreaseAndAreNotReused() {
	first := suite.saveFilm("one")
	second := suite.saveFilm("two")
	suite.Greater(second.ID, first.ID)

	suite.Require().NoError(suite.backend.Films().Delete(suite.ctx, second.ID))
	third := suite.saveFilm("three")
	suite.Greater(third.ID, second.ID)

	ann := suite.saveUser("ann")
	bob := suite.saveUser("bob")
	suite.Equal(int64(1), ann.ID)
	suite.Greater(bob.ID, ann.ID)
}

func (suite *BackendTestSuite) TestFindAllOrderedByID() {
	suite.saveFilm("a")
	suite.saveFilm("b")
	suite.saveFilm("c")

	films, err := suite.backend.Films().FindAll(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(films, 3)
	for i, f := range films {
		suite.Equal(int64(i+1), f.ID)
	}
}

func (suite *BackendTestSuite) TestFindMissing() {
	_, err := suite.backend.Films().FindByID(suite.ctx, 42)
	suite.ErrorIs(err, store.ErrFilmNotFound)
	suite.ErrorIs(err, domain.ErrNotFound)

	_, err = suite.backend.Users().FindByID(suite.ctx, 42)
	suite.ErrorIs(err, store.ErrUserNotFound)
}

func (suite *BackendTestSuite) TestFilmUpdateReplacesFieldsAndGenresKeepsLikes() {
	film := suite.saveFilm("Inception")
	user := suite.saveUser("ann")
	suite.Require().NoError(suite.backend.Films().AddLike(suite.ctx, film.ID, user.ID))

	film.Name = "Inception (director's cut)"
	film.Genres = []domain.Genre{{ID: 6}}
	film.Mpa = &domain.Mpa{ID: 5}
	film.Likes = nil
	updated, err := suite.backend.Films().Save(suite.ctx, film)
	suite.Require().NoError(err)

	suite.Equal("Inception (director's cut)", updated.Name)
	suite.Equal([]domain.Genre{{ID: 6, Name: "Action"}}, updated.Genres)
	suite.Equal(&domain.Mpa{ID: 5}, updated.Mpa)
	suite.Equal([]int64{user.ID}, updated.Likes)
}

func (suite *BackendTestSuite) TestFilmUpdateUnknownIDLeavesStorageUnchanged() {
	suite.saveFilm("existing")
	before, err := suite.backend.Films().FindAll(suite.ctx)
	suite.Require().NoError(err)

	ghost := newFilm("ghost")
	ghost.ID = 99
	_, err = suite.backend.Films().Save(suite.ctx, ghost)
	suite.ErrorIs(err, store.ErrFilmNotFound)

	after, err := suite.backend.Films().FindAll(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(before, after)
}

func (suite *BackendTestSuite) TestFilmSaveUnknownReferences() {
	film := newFilm("bad mpa")
	film.Mpa = &domain.Mpa{ID: 77}
	_, err := suite.backend.Films().Save(suite.ctx, film)
	suite.ErrorIs(err, store.ErrMpaNotFound)

	film = newFilm("bad genre")
	film.Genres = []domain.Genre{{ID: 1}, {ID: 77}}
	_, err = suite.backend.Films().Save(suite.ctx, film)
	suite.ErrorIs(err, store.ErrGenreNotFound)

	films, err := suite.backend.Films().FindAll(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(films)
}

func (suite *BackendTestSuite) TestAddLikeTwiceKeepsOneLike() {
	film := suite.saveFilm("Inception")
	user := suite.saveUser("ann")

	suite.Require().NoError(suite.backend.Films().AddLike(suite.ctx, film.ID, user.ID))
	suite.Require().NoError(suite.backend.Films().AddLike(suite.ctx, film.ID, user.ID))

	found, err := suite.backend.Films().FindByID(suite.ctx, film.ID)
	suite.Require().NoError(err)
	suite.Equal([]int64{user.ID}, found.Likes)

	suite.Require().NoError(suite.backend.Films().RemoveLike(suite.ctx, film.ID, user.ID))
	suite.Require().NoError(suite.backend.Films().RemoveLike(suite.ctx, film.ID, user.ID))
	found, err = suite.backend.Films().FindByID(suite.ctx, film.ID)
	suite.Require().NoError(err)
	suite.Empty(found.Likes)
}

func (suite *BackendTestSuite) TestLikeMissingTargets() {
	film := suite.saveFilm("Inception")
	user := suite.saveUser("ann")

	suite.ErrorIs(suite.backend.Films().AddLike(suite.ctx, 99, user.ID), store.ErrFilmNotFound)
	suite.ErrorIs(suite.backend.Films().AddLike(suite.ctx, film.ID, 99), store.ErrUserNotFound)
	suite.ErrorIs(suite.backend.Films().RemoveLike(suite.ctx, 99, user.ID), store.ErrFilmNotFound)
}

func (suite *BackendTestSuite) TestFriendshipIsDirectedAndReplaced() {
	ann := suite.saveUser("ann")
	bob := suite.saveUser("bob")

	suite.Require().NoError(suite.backend.Users().MakeFriendship(suite.ctx, ann.ID, bob.ID, domain.FriendshipRequested))
	suite.Require().NoError(suite.backend.Users().MakeFriendship(suite.ctx, ann.ID, bob.ID, domain.FriendshipRequested))

	found, err := suite.backend.Users().FindByID(suite.ctx, ann.ID)
	suite.Require().NoError(err)
	suite.Equal(map[int64]domain.FriendshipStatus{bob.ID: domain.FriendshipRequested}, found.Friends)

	other, err := suite.backend.Users().FindByID(suite.ctx, bob.ID)
	suite.Require().NoError(err)
	suite.Empty(other.Friends)

	suite.Require().NoError(suite.backend.Users().RuinFriendship(suite.ctx, ann.ID, bob.ID))
	found, err = suite.backend.Users().FindByID(suite.ctx, ann.ID)
	suite.Require().NoError(err)
	suite.Empty(found.Friends)
}

func (suite *BackendTestSuite) TestFriendshipMissingUsers() {
	ann := suite.saveUser("ann")

	suite.ErrorIs(suite.backend.Users().MakeFriendship(suite.ctx, ann.ID, 99, domain.FriendshipRequested), store.ErrUserNotFound)
	suite.ErrorIs(suite.backend.Users().MakeFriendship(suite.ctx, 99, ann.ID, domain.FriendshipRequested), store.ErrUserNotFound)
	suite.ErrorIs(suite.backend.Users().RuinFriendship(suite.ctx, ann.ID, 99), store.ErrUserNotFound)
}

func (suite *BackendTestSuite) TestUserUpdateKeepsFriends() {
	ann := suite.saveUser("ann")
	bob := suite.saveUser("bob")
	suite.Require().NoError(suite.backend.Users().MakeFriendship(suite.ctx, ann.ID, bob.ID, domain.FriendshipRequested))

	ann.Email = "ann@example.org"
	ann.Friends = nil
	updated, err := suite.backend.Users().Save(suite.ctx, ann)
	suite.Require().NoError(err)

	suite.Equal("ann@example.org", updated.Email)
	suite.Equal(map[int64]domain.FriendshipStatus{bob.ID: domain.FriendshipRequested}, updated.Friends)

	found, err := suite.backend.Users().FindByID(suite.ctx, ann.ID)
	suite.Require().NoError(err)
	suite.Equal(updated, found)
}

func (suite *BackendTestSuite) TestUserUpdateUnknownID() {
	ghost := newUser("ghost")
	ghost.ID = 99
	_, err := suite.backend.Users().Save(suite.ctx, ghost)
	suite.ErrorIs(err, store.ErrUserNotFound)

	users, err := suite.backend.Users().FindAll(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(users)
}

func (suite *BackendTestSuite) TestDeleteFilmCascades() {
	film := suite.saveFilm("Inception")
	user := suite.saveUser("ann")
	suite.Require().NoError(suite.backend.Films().AddLike(suite.ctx, film.ID, user.ID))

	suite.Require().NoError(suite.backend.Films().Delete(suite.ctx, film.ID))

	_, err := suite.backend.Films().FindByID(suite.ctx, film.ID)
	suite.ErrorIs(err, store.ErrFilmNotFound)
	suite.NoError(suite.backend.Films().Delete(suite.ctx, film.ID), "deleting twice is not an error")
}

func (suite *BackendTestSuite) TestDeleteUserCascades() {
	film := suite.saveFilm("Inception")
	ann := suite.saveUser("ann")
	bob := suite.saveUser("bob")
	suite.Require().NoError(suite.backend.Films().AddLike(suite.ctx, film.ID, ann.ID))
	suite.Require().NoError(suite.backend.Films().AddLike(suite.ctx, film.ID, bob.ID))
	suite.Require().NoError(suite.backend.Users().MakeFriendship(suite.ctx, ann.ID, bob.ID, domain.FriendshipRequested))
	suite.Require().NoError(suite.backend.Users().MakeFriendship(suite.ctx, bob.ID, ann.ID, domain.FriendshipRequested))

	suite.Require().NoError(suite.backend.Users().Delete(suite.ctx, ann.ID))

	found, err := suite.backend.Films().FindByID(suite.ctx, film.ID)
	suite.Require().NoError(err)
	suite.Equal([]int64{bob.ID}, found.Likes)

	remaining, err := suite.backend.Users().FindByID(suite.ctx, bob.ID)
	suite.Require().NoError(err)
	suite.Empty(remaining.Friends)

	users, err := suite.backend.Users().FindAll(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(users, 1)
	suite.NoError(suite.backend.Users().Delete(suite.ctx, ann.ID))
}

func (suite *BackendTestSuite) TestReturnedAggregatesAreDetached() {
	film := suite.saveFilm("Inception")
	film.Name = "changed outside"
	film.Likes = append(film.Likes, 1000)

	found, err := suite.backend.Films().FindByID(suite.ctx, film.ID)
	suite.Require().NoError(err)
	suite.Equal("Inception", found.Name)
	suite.Empty(found.Likes)
}

func (suite *BackendTestSuite) TestReferenceTables() {
	genres, err := suite.backend.Genres().FindAll(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(store.DefaultGenres, genres)

	ratings, err := suite.backend.Mpa().FindAll(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(store.DefaultMpa, ratings)

	genre, err := suite.backend.Genres().FindByID(suite.ctx, 2)
	suite.Require().NoError(err)
	suite.Equal(domain.Genre{ID: 2, Name: "Drama"}, genre)

	mpa, err := suite.backend.Mpa().FindByID(suite.ctx, 3)
	suite.Require().NoError(err)
	suite.Equal(domain.Mpa{ID: 3, Name: "PG-13"}, mpa)

	_, err = suite.backend.Genres().FindByID(suite.ctx, 100)
	suite.ErrorIs(err, store.ErrGenreNotFound)
	_, err = suite.backend.Mpa().FindByID(suite.ctx, 100)
	suite.ErrorIs(err, store.ErrMpaNotFound)
}
