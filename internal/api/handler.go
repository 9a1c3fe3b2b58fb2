// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

// FilmService операции над фильмами, которые нужны HTTP-слою.
type FilmService interface {
	List(ctx context.Context) ([]*domain.Film, error)
	GetByID(ctx context.Context, id int64) (*domain.Film, error)
	Create(ctx context.Context, film *domain.Film) (*domain.Film, error)
	Update(ctx context.Context, film *domain.Film) (*domain.Film, error)
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
	GetMostPopularFilms(ctx context.Context, n int) ([]*domain.Film, error)
}

// UserService операции над пользователями, которые нужны HTTP-слою.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	MakeFriendship(ctx context.Context, userID, friendID int64) error
	RuinFriendship(ctx context.Context, userID, friendID int64) error
	GetFriends(ctx context.Context, id int64) ([]*domain.User, error)
	FindCommonFriends(ctx context.Context, firstID, secondID int64) ([]*domain.User, error)
	FindMutualFriends(ctx context.Context, id int64) ([]*domain.User, error)
}

// GenreService справочник жанров.
type GenreService interface {
	List(ctx context.Context) ([]domain.Genre, error)
	GetByID(ctx context.Context, id int64) (domain.Genre, error)
}

// MpaService справочник рейтингов MPA.
type MpaService interface {
	List(ctx context.Context) ([]domain.Mpa, error)
	GetByID(ctx context.Context, id int64) (domain.Mpa, error)
}

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler содержит зависимости для HTTP обработчиков filmorate.
type Handler struct {
	films  FilmService
	users  UserService
	genres GenreService
	mpa    MpaService
	health Pinger
	logger *slog.Logger
}

// NewHandler создает новый экземпляр Handler.
func NewHandler(films FilmService, users UserService, genres GenreService, mpa MpaService, health Pinger, logger *slog.Logger) *Handler {
	return &Handler{
		films:  films,
		users:  users,
		genres: genres,
		mpa:    mpa,
		health: health,
		logger: logger,
	}
}

// --- Вспомогательные функции ---
func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, map[string]string{"error": message})
}

// respondServiceError отображает ошибки сервисов на HTTP-статусы:
// ErrValidation -> 400, ErrNotFound -> 404, остальное -> 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, domain.ErrValidation):
		h.logger.WarnContext(ctx, "Request rejected by validation", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.logger.WarnContext(ctx, "Requested entity not found", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(ctx, "Request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// decode читает тело запроса как JSON. При ошибке ответ уже отправлен.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// pathIDs разбирает числовые параметры пути. При ошибке ответ уже отправлен.
func (h *Handler) pathIDs(w http.ResponseWriter, r *http.Request, names ...string) ([]int64, bool) {
	vars := mux.Vars(r)
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := strconv.ParseInt(vars[name], 10, 64)
		if err != nil {
			h.logger.WarnContext(r.Context(), "Invalid path id", slog.String("param", name), slog.String("value", vars[name]))
			h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// Health отвечает 200, если хранилище доступно, и 503 иначе.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "Health check failed", slog.String("error", err.Error()))
		h.respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
