// internal/store/store.go
package store

import (
	"context"
	"fmt"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

// Ошибки хранилища. Все они совпадают с domain.ErrNotFound через errors.Is.
var (
	ErrFilmNotFound  = fmt.Errorf("film %w", domain.ErrNotFound)
	ErrUserNotFound  = fmt.Errorf("user %w", domain.ErrNotFound)
	ErrGenreNotFound = fmt.Errorf("genre %w", domain.ErrNotFound)
	ErrMpaNotFound   = fmt.Errorf("mpa %w", domain.ErrNotFound)
)

// FilmStore определяет операции с фильмами. Обе реализации (MemoryDB и SQL)
// обязаны вести себя одинаково.
type FilmStore interface {
	// FindAll возвращает все фильмы с лайками и жанрами, по возрастанию ID.
	FindAll(ctx context.Context) ([]*domain.Film, error)
	// FindByID возвращает фильм или ErrFilmNotFound.
	FindByID(ctx context.Context, id int64) (*domain.Film, error)
	// Save создает фильм (ID == 0) или перезаписывает поля и жанры существующего.
	// Лайки при обновлении не трогаются.
	Save(ctx context.Context, film *domain.Film) (*domain.Film, error)
	// Delete удаляет фильм вместе с его лайками и жанрами. Отсутствие фильма не ошибка.
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
}

// UserStore определяет операции с пользователями и их связями дружбы.
type UserStore interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Save создает пользователя (ID == 0) или перезаписывает его поля. Друзья при обновлении не трогаются.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete удаляет пользователя, его лайки и все связи дружбы с его участием.
	Delete(ctx context.Context, id int64) error
	// MakeFriendship создает или заменяет направленную связь userID -> friendID.
	MakeFriendship(ctx context.Context, userID, friendID int64, status domain.FriendshipStatus) error
	// RuinFriendship удаляет направленную связь userID -> friendID.
	RuinFriendship(ctx context.Context, userID, friendID int64) error
}

// GenreStore справочник жанров, только чтение.
type GenreStore interface {
	FindAll(ctx context.Context) ([]domain.Genre, error)
	FindByID(ctx context.Context, id int64) (domain.Genre, error)
}

// MpaStore справочник рейтингов MPA, только чтение.
type MpaStore interface {
	FindAll(ctx context.Context) ([]domain.Mpa, error)
	FindByID(ctx context.Context, id int64) (domain.Mpa, error)
}

// Backend набор хранилищ одной реализации, выбирается при старте приложения.
type Backend interface {
	Films() FilmStore
	Users() UserStore
	Genres() GenreStore
	Mpa() MpaStore
	Ping(ctx context.Context) error
	Close() error
}
