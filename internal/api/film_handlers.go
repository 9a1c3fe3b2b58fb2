// internal/api/film_handlers.go
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

// defaultPopularCount число фильмов в /films/popular без параметра count.
const defaultPopularCount = 10

// ListFilms возвращает все фильмы.
func (h *Handler) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// GetFilm возвращает фильм по ID.
func (h *Handler) GetFilm(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	film, err := h.films.GetByID(r.Context(), ids[0])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

// CreateFilm обрабатывает запрос на создание нового фильма.
func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP CreateFilm request received", slog.String("path", r.URL.Path))

	var film domain.Film
	if !h.decode(w, r, &film) {
		return
	}
	created, err := h.films.Create(ctx, &film)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, created)
}

// UpdateFilm обрабатывает запрос на изменение фильма, ID берется из тела.
func (h *Handler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP UpdateFilm request received", slog.String("path", r.URL.Path))

	var film domain.Film
	if !h.decode(w, r, &film) {
		return
	}
	updated, err := h.films.Update(ctx, &film)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, updated)
}

func (h *Handler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	if err := h.films.Delete(r.Context(), ids[0]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}

func (h *Handler) LikeFilm(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}
	if err := h.films.AddLike(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}

func (h *Handler) UnlikeFilm(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}
	if err := h.films.RemoveLike(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}

// PopularFilms возвращает самые популярные фильмы, ?count=N (по умолчанию 10).
func (h *Handler) PopularFilms(w http.ResponseWriter, r *http.Request) {
	count := defaultPopularCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, "count must be an integer")
			return
		}
		count = n
	}
	films, err := h.films.GetMostPopularFilms(r.Context(), count)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}
