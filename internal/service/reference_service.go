// internal/service/reference_service.go
package service

import (
	"context"

	"github.com/XevgenX/go-filmorate/internal/domain"
	"github.com/XevgenX/go-filmorate/internal/store"
)

// GenreService отдает справочник жанров.
type GenreService struct {
	genres store.GenreStore
}

func NewGenreService(genres store.GenreStore) *GenreService {
	return &GenreService{genres: genres}
}

func (s *GenreService) List(ctx context.Context) ([]domain.Genre, error) {
	return s.genres.FindAll(ctx)
}

func (s *GenreService) GetByID(ctx context.Context, id int64) (domain.Genre, error) {
	return s.genres.FindByID(ctx, id)
}

// MpaService отдает справочник рейтингов MPA.
type MpaService struct {
	mpa store.MpaStore
}

func NewMpaService(mpa store.MpaStore) *MpaService {
	return &MpaService{mpa: mpa}
}

func (s *MpaService) List(ctx context.Context) ([]domain.Mpa, error) {
	return s.mpa.FindAll(ctx)
}

func (s *MpaService) GetByID(ctx context.Context, id int64) (domain.Mpa, error) {
	return s.mpa.FindByID(ctx, id)
}
