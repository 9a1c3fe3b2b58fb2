// internal/api/user_handlers.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	user, err := h.users.GetByID(r.Context(), ids[0])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, user)
}

// CreateUser обрабатывает регистрацию нового пользователя.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP CreateUser request received", slog.String("path", r.URL.Path))

	var user domain.User
	if !h.decode(w, r, &user) {
		return
	}
	created, err := h.users.Create(ctx, &user)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, created)
}

// UpdateUser обрабатывает изменение пользователя, ID берется из тела.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP UpdateUser request received", slog.String("path", r.URL.Path))

	var user domain.User
	if !h.decode(w, r, &user) {
		return
	}
	updated, err := h.users.Update(ctx, &user)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, updated)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), ids[0]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}

func (h *Handler) GetFriends(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	friends, err := h.users.GetFriends(r.Context(), ids[0])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "friendId")
	if !ok {
		return
	}
	if err := h.users.MakeFriendship(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}

func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "friendId")
	if !ok {
		return
	}
	if err := h.users.RuinFriendship(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}

func (h *Handler) CommonFriends(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "otherId")
	if !ok {
		return
	}
	friends, err := h.users.FindCommonFriends(r.Context(), ids[0], ids[1])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

// MutualFriends возвращает друзей, которые тоже добавили пользователя в друзья.
func (h *Handler) MutualFriends(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	friends, err := h.users.FindMutualFriends(r.Context(), ids[0])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}
