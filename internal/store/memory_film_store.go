// internal/store/memory_film_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

// MemoryFilmStore реализует FilmStore поверх MemoryDB.
type MemoryFilmStore struct {
	db *MemoryDB
}

func (s *MemoryFilmStore) FindAll(ctx context.Context) ([]*domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	films := make([]*domain.Film, 0, len(s.db.films))
	for _, id := range sortedKeys(s.db.films) {
		films = append(films, s.db.films[id].Clone())
	}
	return films, nil
}

func (s *MemoryFilmStore) FindByID(ctx context.Context, id int64) (*domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	film, ok := s.db.films[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrFilmNotFound, id)
	}
	return film.Clone(), nil
}

func (s *MemoryFilmStore) Save(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored := film.Clone()
	if err := s.resolveReferences(stored); err != nil {
		return nil, err
	}

	if stored.ID == 0 {
		stored.ID = nextID(s.db.lastFilmID, s.db.films)
		s.db.lastFilmID = stored.ID
		stored.Likes = []int64{}
		s.db.logger.DebugContext(ctx, "Creating film in memory", slog.Int64("filmID", stored.ID), slog.String("name", stored.Name))
	} else {
		existing, ok := s.db.films[stored.ID]
		if !ok {
			s.db.logger.WarnContext(ctx, "No film found to update in memory", slog.Int64("filmID", stored.ID))
			return nil, fmt.Errorf("%w: id=%d", ErrFilmNotFound, stored.ID)
		}
		stored.Likes = existing.Clone().Likes
		s.db.logger.DebugContext(ctx, "Updating film in memory", slog.Int64("filmID", stored.ID))
	}

	s.db.films[stored.ID] = stored
	return stored.Clone(), nil
}

// resolveReferences проверяет ссылки на MPA и жанры так же, как это делают
// внешние ключи в базе, и приводит их к виду, который вернула бы выборка из базы.
// Вызывается под блокировкой.
func (s *MemoryFilmStore) resolveReferences(film *domain.Film) error {
	if film.Mpa != nil {
		if _, ok := s.db.mpa[film.Mpa.ID]; !ok {
			return fmt.Errorf("%w: id=%d", ErrMpaNotFound, film.Mpa.ID)
		}
		film.Mpa = &domain.Mpa{ID: film.Mpa.ID}
	}
	genres := film.Genres
	film.Genres = []domain.Genre{}
	for _, g := range genres {
		known, ok := s.db.genres[g.ID]
		if !ok {
			return fmt.Errorf("%w: id=%d", ErrGenreNotFound, g.ID)
		}
		film.AddGenre(known)
	}
	return nil
}

func (s *MemoryFilmStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.films, id)
	s.db.logger.DebugContext(ctx, "Film deleted from memory", slog.Int64("filmID", id))
	return nil
}

func (s *MemoryFilmStore) AddLike(ctx context.Context, filmID, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	film, err := s.likeTargets(filmID, userID)
	if err != nil {
		return err
	}
	film.AddLike(userID)
	return nil
}

func (s *MemoryFilmStore) RemoveLike(ctx context.Context, filmID, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	film, err := s.likeTargets(filmID, userID)
	if err != nil {
		return err
	}
	film.RemoveLike(userID)
	return nil
}

func (s *MemoryFilmStore) likeTargets(filmID, userID int64) (*domain.Film, error) {
	film, ok := s.db.films[filmID]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrFilmNotFound, filmID)
	}
	if _, ok := s.db.users[userID]; !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, userID)
	}
	return film, nil
}
