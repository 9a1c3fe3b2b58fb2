// internal/api/router.go
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// RouterOptions необязательные компоненты роутера.
type RouterOptions struct {
	Limiter *RateLimiter
	Metrics *Metrics
}

// NewRouter собирает все маршруты filmorate и общую цепочку middleware.
func NewRouter(h *Handler, logger *slog.Logger, opts RouterOptions) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	// Эндпоинты для фильмов. /popular регистрируется раньше /{id}.
	filmsRouter := router.PathPrefix("/films").Subrouter()
	filmsRouter.HandleFunc("", h.ListFilms).Methods(http.MethodGet)
	filmsRouter.HandleFunc("", h.CreateFilm).Methods(http.MethodPost)
	filmsRouter.HandleFunc("", h.UpdateFilm).Methods(http.MethodPut)
	filmsRouter.HandleFunc("/popular", h.PopularFilms).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/{id}", h.GetFilm).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/{id}", h.DeleteFilm).Methods(http.MethodDelete)
	filmsRouter.HandleFunc("/{id}/like/{userId}", h.LikeFilm).Methods(http.MethodPut)
	filmsRouter.HandleFunc("/{id}/like/{userId}", h.UnlikeFilm).Methods(http.MethodDelete)

	// Эндпоинты для пользователей и дружбы
	usersRouter := router.PathPrefix("/users").Subrouter()
	usersRouter.HandleFunc("", h.ListUsers).Methods(http.MethodGet)
	usersRouter.HandleFunc("", h.CreateUser).Methods(http.MethodPost)
	usersRouter.HandleFunc("", h.UpdateUser).Methods(http.MethodPut)
	usersRouter.HandleFunc("/{id}", h.GetUser).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{id}", h.DeleteUser).Methods(http.MethodDelete)
	usersRouter.HandleFunc("/{id}/friends", h.GetFriends).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{id}/friends/mutual", h.MutualFriends).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{id}/friends/common/{otherId}", h.CommonFriends).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{id}/friends/{friendId}", h.AddFriend).Methods(http.MethodPut)
	usersRouter.HandleFunc("/{id}/friends/{friendId}", h.RemoveFriend).Methods(http.MethodDelete)

	// Справочники
	router.HandleFunc("/genres", h.ListGenres).Methods(http.MethodGet)
	router.HandleFunc("/genres/{id}", h.GetGenre).Methods(http.MethodGet)
	router.HandleFunc("/mpa", h.ListMpa).Methods(http.MethodGet)
	router.HandleFunc("/mpa/{id}", h.GetMpa).Methods(http.MethodGet)

	router.Use(RequestLogger(logger))
	if opts.Limiter != nil {
		router.Use(opts.Limiter.Middleware)
	}
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: logger}),
		handlers.PrintRecoveryStack(false),
	)
	return recovery(handlers.ProxyHeaders(cors(router)))
}

// recoveryLogger пишет перехваченные паники в slog.
type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("Recovered from panic in HTTP handler", slog.String("panic", fmt.Sprint(v...)))
}
