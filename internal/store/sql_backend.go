// internal/store/sql_backend.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

// SQLBackend собирает SQL-хранилища над одним соединением *sqlx.DB.
type SQLBackend struct {
	db     *sqlx.DB
	films  *SQLFilmStore
	users  *SQLUserStore
	genres *SQLGenreStore
	mpa    *SQLMpaStore
}

// NewSQLBackend создает хранилища для уже открытой и размеченной базы.
func NewSQLBackend(db *sqlx.DB, logger *slog.Logger) (*SQLBackend, error) {
	films, err := NewSQLFilmStore(db, logger)
	if err != nil {
		return nil, err
	}
	users, err := NewSQLUserStore(db, logger)
	if err != nil {
		return nil, err
	}
	return &SQLBackend{
		db:     db,
		films:  films,
		users:  users,
		genres: &SQLGenreStore{db: db, logger: logger},
		mpa:    &SQLMpaStore{db: db, logger: logger},
	}, nil
}

func (b *SQLBackend) Films() FilmStore   { return b.films }
func (b *SQLBackend) Users() UserStore   { return b.users }
func (b *SQLBackend) Genres() GenreStore { return b.genres }
func (b *SQLBackend) Mpa() MpaStore      { return b.mpa }

func (b *SQLBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}

// SQLGenreStore читает справочник genres.
type SQLGenreStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *SQLGenreStore) FindAll(ctx context.Context) ([]domain.Genre, error) {
	genres := []domain.Genre{}
	if err := s.db.SelectContext(ctx, &genres, "SELECT id, name FROM genres ORDER BY id"); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list genres from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (s *SQLGenreStore) FindByID(ctx context.Context, id int64) (domain.Genre, error) {
	var genre domain.Genre
	err := s.db.GetContext(ctx, &genre, s.db.Rebind("SELECT id, name FROM genres WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Genre{}, fmt.Errorf("%w: id=%d", ErrGenreNotFound, id)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get genre by ID from DB", slog.Int64("genreID", id), slog.String("error", err.Error()))
		return domain.Genre{}, fmt.Errorf("failed to get genre by ID: %w", err)
	}
	return genre, nil
}

// SQLMpaStore читает справочник mpaas.
type SQLMpaStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *SQLMpaStore) FindAll(ctx context.Context) ([]domain.Mpa, error) {
	ratings := []domain.Mpa{}
	if err := s.db.SelectContext(ctx, &ratings, "SELECT id, name FROM mpaas ORDER BY id"); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list MPA ratings from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list mpa: %w", err)
	}
	return ratings, nil
}

func (s *SQLMpaStore) FindByID(ctx context.Context, id int64) (domain.Mpa, error) {
	var mpa domain.Mpa
	err := s.db.GetContext(ctx, &mpa, s.db.Rebind("SELECT id, name FROM mpaas WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Mpa{}, fmt.Errorf("%w: id=%d", ErrMpaNotFound, id)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get MPA by ID from DB", slog.Int64("mpaID", id), slog.String("error", err.Error()))
		return domain.Mpa{}, fmt.Errorf("failed to get mpa by ID: %w", err)
	}
	return mpa, nil
}
