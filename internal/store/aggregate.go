// internal/store/aggregate.go
package store

import (
	"database/sql"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

// FilmRow одна строка выборки films LEFT JOIN film_likes LEFT JOIN film_genres.
// На каждый фильм приходится по строке на пару (лайк, жанр); у фильма без лайков
// и жанров дочерние колонки равны NULL.
type FilmRow struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	ReleaseDate *domain.Date   `db:"release_date"`
	Duration    sql.NullInt64  `db:"duration"`
	MpaID       sql.NullInt64  `db:"mpaa_id"`
	LikedBy     sql.NullInt64  `db:"user_that_liked"`
	GenreID     sql.NullInt64  `db:"genre_id"`
	GenreName   sql.NullString `db:"genre_name"`
}

// UserRow одна строка выборки users LEFT JOIN user_friends.
type UserRow struct {
	ID       int64          `db:"id"`
	Name     sql.NullString `db:"name"`
	Login    string         `db:"login"`
	Email    string         `db:"email"`
	Birthday domain.Date    `db:"birthday"`
	FriendID sql.NullInt64  `db:"friend_id"`
	Status   sql.NullString `db:"friendship_status"`
}

// AggregateFilms собирает фильмы из плоских строк соединения.
// Первая строка фильма задает его поля, каждая строка может добавить не больше
// одного лайка и одного жанра. Порядок фильмов соответствует первому появлению ID.
// Нулевые и отрицательные ID в дочерних колонках считаются отсутствующими.
func AggregateFilms(rows []FilmRow) []*domain.Film {
	index := make(map[int64]*domain.Film)
	films := make([]*domain.Film, 0)
	for _, row := range rows {
		film, ok := index[row.ID]
		if !ok {
			film = row.film()
			index[row.ID] = film
			films = append(films, film)
		}
		if row.LikedBy.Valid && row.LikedBy.Int64 > 0 {
			film.AddLike(row.LikedBy.Int64)
		}
		if row.GenreID.Valid && row.GenreID.Int64 > 0 && row.GenreName.Valid {
			film.AddGenre(domain.Genre{ID: row.GenreID.Int64, Name: row.GenreName.String})
		}
	}
	return films
}

func (r FilmRow) film() *domain.Film {
	film := &domain.Film{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description.String,
		Likes:       []int64{},
		Genres:      []domain.Genre{},
	}
	if r.ReleaseDate != nil && !r.ReleaseDate.IsZero() {
		d := *r.ReleaseDate
		film.ReleaseDate = &d
	}
	if r.Duration.Valid {
		d := int(r.Duration.Int64)
		film.Duration = &d
	}
	// Только ID: имя рейтинга подставляет сервис фильмов.
	if r.MpaID.Valid && r.MpaID.Int64 > 0 {
		film.Mpa = &domain.Mpa{ID: r.MpaID.Int64}
	}
	return film
}

// AggregateUsers собирает пользователей из строк users LEFT JOIN user_friends
// по тем же правилам, что и AggregateFilms. Пустой статус дружбы означает
// FriendshipRequested.
func AggregateUsers(rows []UserRow) []*domain.User {
	index := make(map[int64]*domain.User)
	users := make([]*domain.User, 0)
	for _, row := range rows {
		user, ok := index[row.ID]
		if !ok {
			user = &domain.User{
				ID:       row.ID,
				Name:     row.Name.String,
				Login:    row.Login,
				Email:    row.Email,
				Birthday: row.Birthday,
				Friends:  make(map[int64]domain.FriendshipStatus),
			}
			index[row.ID] = user
			users = append(users, user)
		}
		if row.FriendID.Valid && row.FriendID.Int64 > 0 {
			user.AddFriend(row.FriendID.Int64, friendshipStatus(row.Status))
		}
	}
	return users
}

func friendshipStatus(name sql.NullString) domain.FriendshipStatus {
	if !name.Valid {
		return domain.FriendshipRequested
	}
	if status, ok := domain.FriendshipStatusByName(name.String); ok {
		return status
	}
	return domain.FriendshipRequested
}
