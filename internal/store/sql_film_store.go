// internal/store/sql_film_store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

const (
	filmSelectQuery = `SELECT f.id, f.name, f.description, f.release_date, f.duration, f.mpaa_id,
              fl.user_id AS user_that_liked, g.id AS genre_id, g.name AS genre_name
              FROM films f
              LEFT JOIN film_likes fl ON f.id = fl.film_id
              LEFT JOIN film_genres fg ON f.id = fg.film_id
              LEFT JOIN genres g ON g.id = fg.genre_id`
	filmInsertQuery = `INSERT INTO films (name, description, release_date, duration, mpaa_id)
              VALUES (?, ?, ?, ?, ?) RETURNING id`
	filmUpdateQuery = `UPDATE films SET name = ?, description = ?, release_date = ?, duration = ?, mpaa_id = ?
              WHERE id = ?`
	filmDeleteQuery       = `DELETE FROM films WHERE id = ?`
	filmGenresDeleteQuery = `DELETE FROM film_genres WHERE film_id = ?`
	filmGenreInsertQuery  = `INSERT INTO film_genres (film_id, genre_id) VALUES (?, ?)`
	filmLikesDeleteQuery  = `DELETE FROM film_likes WHERE film_id = ?`
	filmLikeDeleteQuery   = `DELETE FROM film_likes WHERE film_id = ? AND user_id = ?`
	filmLikeInsertQuery   = `INSERT INTO film_likes (film_id, user_id) VALUES (?, ?)`
)

// SQLFilmStore реализует FilmStore для PostgreSQL и SQLite.
type SQLFilmStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewSQLFilmStore создает новый экземпляр SQLFilmStore.
func NewSQLFilmStore(db *sqlx.DB, logger *slog.Logger) (*SQLFilmStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &SQLFilmStore{db: db, logger: logger}, nil
}

// FindAll возвращает все фильмы, собранные из строк соединения.
func (s *SQLFilmStore) FindAll(ctx context.Context) ([]*domain.Film, error) {
	var rows []FilmRow
	s.logger.DebugContext(ctx, "Executing FindAll films query")
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(filmSelectQuery+" ORDER BY f.id")); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list films from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list films: %w", err)
	}
	return AggregateFilms(rows), nil
}

// FindByID находит фильм по его ID.
func (s *SQLFilmStore) FindByID(ctx context.Context, id int64) (*domain.Film, error) {
	var rows []FilmRow
	s.logger.DebugContext(ctx, "Executing FindByID film query", slog.Int64("filmID", id))
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(filmSelectQuery+" WHERE f.id = ?"), id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to get film by ID from DB", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get film by ID: %w", err)
	}
	films := AggregateFilms(rows)
	if len(films) == 0 {
		s.logger.WarnContext(ctx, "Film not found by ID in DB", slog.Int64("filmID", id))
		return nil, fmt.Errorf("%w: id=%d", ErrFilmNotFound, id)
	}
	return films[0], nil
}

// Save создает или обновляет фильм и полностью заменяет его жанры.
// Все изменения выполняются в одной транзакции.
func (s *SQLFilmStore) Save(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	id := film.ID
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := checkFilmReferences(ctx, tx, film); err != nil {
			return err
		}
		args := []any{film.Name, film.Description, film.ReleaseDate, film.Duration, mpaID(film)}
		if id == 0 {
			s.logger.DebugContext(ctx, "Executing Create film query", slog.String("name", film.Name))
			if err := tx.QueryRowxContext(ctx, tx.Rebind(filmInsertQuery), args...).Scan(&id); err != nil {
				return fmt.Errorf("failed to create film: %w", translateError(err, ErrMpaNotFound))
			}
		} else {
			s.logger.DebugContext(ctx, "Executing Update film query", slog.Int64("filmID", id))
			result, err := tx.ExecContext(ctx, tx.Rebind(filmUpdateQuery), append(args, id)...)
			if err != nil {
				return fmt.Errorf("failed to update film: %w", translateError(err, ErrMpaNotFound))
			}
			if n, err := result.RowsAffected(); err != nil {
				return fmt.Errorf("failed to check update result: %w", err)
			} else if n == 0 {
				s.logger.WarnContext(ctx, "No film found to update in DB", slog.Int64("filmID", id))
				return fmt.Errorf("%w: id=%d", ErrFilmNotFound, id)
			}
		}
		return replaceFilmGenres(ctx, tx, id, film.Genres)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save film in DB", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return nil, err
	}
	s.logger.InfoContext(ctx, "Film saved successfully in DB", slog.Int64("filmID", id))
	return s.FindByID(ctx, id)
}

func checkFilmReferences(ctx context.Context, q queryer, film *domain.Film) error {
	if film.Mpa != nil {
		ok, err := exists(ctx, q, "mpaas", film.Mpa.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: id=%d", ErrMpaNotFound, film.Mpa.ID)
		}
	}
	for _, g := range film.Genres {
		ok, err := exists(ctx, q, "genres", g.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: id=%d", ErrGenreNotFound, g.ID)
		}
	}
	return nil
}

func replaceFilmGenres(ctx context.Context, tx *sqlx.Tx, filmID int64, genres []domain.Genre) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(filmGenresDeleteQuery), filmID); err != nil {
		return fmt.Errorf("failed to clear film genres: %w", err)
	}
	unique := domain.Film{Genres: genres}
	unique.NormalizeGenres()
	for _, g := range unique.Genres {
		if _, err := tx.ExecContext(ctx, tx.Rebind(filmGenreInsertQuery), filmID, g.ID); err != nil {
			return fmt.Errorf("failed to save film genre: %w", translateError(err, ErrGenreNotFound))
		}
	}
	return nil
}

func mpaID(film *domain.Film) any {
	if film.Mpa == nil {
		return nil
	}
	return film.Mpa.ID
}

// Delete удаляет фильм вместе с лайками и жанрами.
func (s *SQLFilmStore) Delete(ctx context.Context, id int64) error {
	s.logger.DebugContext(ctx, "Executing Delete film query", slog.Int64("filmID", id))
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, query := range []string{filmLikesDeleteQuery, filmGenresDeleteQuery, filmDeleteQuery} {
			if _, err := tx.ExecContext(ctx, tx.Rebind(query), id); err != nil {
				return fmt.Errorf("failed to delete film: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete film from DB", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return err
	}
	s.logger.InfoContext(ctx, "Film deleted from DB", slog.Int64("filmID", id))
	return nil
}

// AddLike ставит лайк. Существующий лайк сначала удаляется, поэтому после
// вызова лайк присутствует ровно один раз.
func (s *SQLFilmStore) AddLike(ctx context.Context, filmID, userID int64) error {
	return s.changeLike(ctx, filmID, userID, true)
}

// RemoveLike снимает лайк пользователя, если он был.
func (s *SQLFilmStore) RemoveLike(ctx context.Context, filmID, userID int64) error {
	return s.changeLike(ctx, filmID, userID, false)
}

func (s *SQLFilmStore) changeLike(ctx context.Context, filmID, userID int64, like bool) error {
	s.logger.DebugContext(ctx, "Executing like query", slog.Int64("filmID", filmID), slog.Int64("userID", userID), slog.Bool("like", like))
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if ok, err := exists(ctx, tx, "films", filmID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: id=%d", ErrFilmNotFound, filmID)
		}
		if ok, err := exists(ctx, tx, "users", userID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: id=%d", ErrUserNotFound, userID)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(filmLikeDeleteQuery), filmID, userID); err != nil {
			return fmt.Errorf("failed to remove like: %w", err)
		}
		if !like {
			return nil
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(filmLikeInsertQuery), filmID, userID); err != nil {
			return fmt.Errorf("failed to add like: %w", translateError(err, ErrUserNotFound))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "Like target not found in DB", slog.Int64("filmID", filmID), slog.Int64("userID", userID))
		} else {
			s.logger.ErrorContext(ctx, "Failed to change like in DB", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		}
		return err
	}
	return nil
}
