// internal/service/film_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/XevgenX/go-filmorate/internal/domain"
	"github.com/XevgenX/go-filmorate/internal/store"
)

// FilmService управляет фильмами и лайками.
type FilmService struct {
	films     store.FilmStore
	mpa       store.MpaStore
	validator FilmValidator
	logger    *slog.Logger
}

// NewFilmService создает новый экземпляр FilmService.
func NewFilmService(films store.FilmStore, mpa store.MpaStore, v FilmValidator, logger *slog.Logger) *FilmService {
	return &FilmService{films: films, mpa: mpa, validator: v, logger: logger}
}

// List возвращает все фильмы с заполненными рейтингами MPA.
func (s *FilmService) List(ctx context.Context) ([]*domain.Film, error) {
	films, err := s.films.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.resolveMpa(ctx, films...); err != nil {
		return nil, err
	}
	return films, nil
}

// GetByID возвращает фильм или ошибку store.ErrFilmNotFound.
func (s *FilmService) GetByID(ctx context.Context, id int64) (*domain.Film, error) {
	film, err := s.films.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveMpa(ctx, film); err != nil {
		return nil, err
	}
	return film, nil
}

// Create проверяет и сохраняет новый фильм. ID и лайки из запроса игнорируются.
func (s *FilmService) Create(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	if err := s.validator.ValidateFilm(ctx, film); err != nil {
		s.logger.WarnContext(ctx, "Film validation failed", slog.String("error", err.Error()))
		return nil, err
	}
	film = film.Clone()
	film.ID = 0
	film.Likes = nil
	return s.save(ctx, film)
}

// Update перезаписывает поля и жанры существующего фильма.
func (s *FilmService) Update(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	if err := s.validator.ValidateFilm(ctx, film); err != nil {
		s.logger.WarnContext(ctx, "Film validation failed", slog.String("error", err.Error()))
		return nil, err
	}
	if film.ID == 0 {
		return nil, fmt.Errorf("%w: film id is required for update", store.ErrFilmNotFound)
	}
	if _, err := s.films.FindByID(ctx, film.ID); err != nil {
		return nil, err
	}
	return s.save(ctx, film)
}

func (s *FilmService) save(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	saved, err := s.films.Save(ctx, film)
	if err != nil {
		return nil, err
	}
	if err := s.resolveMpa(ctx, saved); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Film saved", slog.Int64("filmID", saved.ID))
	return saved, nil
}

// Delete удаляет фильм, его лайки и жанры.
func (s *FilmService) Delete(ctx context.Context, id int64) error {
	if _, err := s.films.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.films.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Film deleted", slog.Int64("filmID", id))
	return nil
}

// AddLike ставит лайк фильму от пользователя. Повторный лайк ничего не меняет.
func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := s.films.AddLike(ctx, filmID, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Like added", slog.Int64("filmID", filmID), slog.Int64("userID", userID))
	return nil
}

// RemoveLike снимает лайк пользователя.
func (s *FilmService) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if err := s.films.RemoveLike(ctx, filmID, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Like removed", slog.Int64("filmID", filmID), slog.Int64("userID", userID))
	return nil
}

// GetMostPopularFilms возвращает не больше n фильмов по убыванию числа лайков.
// При равенстве сохраняется порядок хранилища, то есть по возрастанию ID.
func (s *FilmService) GetMostPopularFilms(ctx context.Context, n int) ([]*domain.Film, error) {
	if n < 0 {
		return nil, domain.NewValidationError("count", "must not be negative")
	}
	films, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(films, func(i, j int) bool {
		return len(films[i].Likes) > len(films[j].Likes)
	})
	if len(films) > n {
		films = films[:n]
	}
	return films, nil
}

// resolveMpa заменяет рейтинги-заглушки (только ID) полными записями справочника.
func (s *FilmService) resolveMpa(ctx context.Context, films ...*domain.Film) error {
	known := make(map[int64]domain.Mpa)
	for _, film := range films {
		if film.Mpa == nil {
			continue
		}
		mpa, ok := known[film.Mpa.ID]
		if !ok {
			var err error
			mpa, err = s.mpa.FindByID(ctx, film.Mpa.ID)
			if err != nil {
				s.logger.ErrorContext(ctx, "Failed to resolve film MPA", slog.Int64("filmID", film.ID), slog.Int64("mpaID", film.Mpa.ID), slog.String("error", err.Error()))
				return err
			}
			known[mpa.ID] = mpa
		}
		film.Mpa = &mpa
	}
	return nil
}
