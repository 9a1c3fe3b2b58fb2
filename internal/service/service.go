// Package service содержит бизнес-логику filmorate поверх хранилищ.
package service

import (
	"context"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

// FilmValidator проверяет фильм перед записью.
type FilmValidator interface {
	ValidateFilm(ctx context.Context, film *domain.Film) error
}

// UserValidator проверяет пользователя перед записью.
type UserValidator interface {
	ValidateUser(ctx context.Context, user *domain.User) error
}
