// internal/domain/film.go
package domain

import "sort"

// MaxDescriptionLength максимальная длина описания фильма в символах.
const MaxDescriptionLength = 200

// CinemaBirthday дата первого публичного киносеанса, раньше нее релиз невозможен.
var CinemaBirthday = NewDate(1895, 12, 28)

// Film агрегат фильма: сам фильм, лайки пользователей, жанры и рейтинг MPA.
// ID == 0 означает, что фильм еще не сохранен.
type Film struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name" validate:"notblank"`
	Description string  `json:"description" validate:"max=200"`
	ReleaseDate *Date   `json:"releaseDate" validate:"omitempty,releasedate"`
	Duration    *int    `json:"duration" validate:"omitempty,gte=0"`
	Likes       []int64 `json:"likes"`  // множество ID пользователей, по возрастанию
	Genres      []Genre `json:"genres"` // множество жанров, по возрастанию ID
	Mpa         *Mpa    `json:"mpa"`
}

// AddLike добавляет лайк пользователя userID. Повторный лайк ничего не меняет.
func (f *Film) AddLike(userID int64) {
	i := sort.Search(len(f.Likes), func(i int) bool { return f.Likes[i] >= userID })
	if i < len(f.Likes) && f.Likes[i] == userID {
		return
	}
	f.Likes = append(f.Likes, 0)
	copy(f.Likes[i+1:], f.Likes[i:])
	f.Likes[i] = userID
}

// RemoveLike убирает лайк пользователя userID, если он был.
func (f *Film) RemoveLike(userID int64) {
	i := sort.Search(len(f.Likes), func(i int) bool { return f.Likes[i] >= userID })
	if i < len(f.Likes) && f.Likes[i] == userID {
		f.Likes = append(f.Likes[:i], f.Likes[i+1:]...)
	}
}

// HasLike сообщает, лайкнул ли фильм пользователь userID.
func (f *Film) HasLike(userID int64) bool {
	i := sort.Search(len(f.Likes), func(i int) bool { return f.Likes[i] >= userID })
	return i < len(f.Likes) && f.Likes[i] == userID
}

// AddGenre добавляет жанр. Жанр с уже имеющимся ID не дублируется.
func (f *Film) AddGenre(genre Genre) {
	i := sort.Search(len(f.Genres), func(i int) bool { return f.Genres[i].ID >= genre.ID })
	if i < len(f.Genres) && f.Genres[i].ID == genre.ID {
		return
	}
	f.Genres = append(f.Genres, Genre{})
	copy(f.Genres[i+1:], f.Genres[i:])
	f.Genres[i] = genre
}

// NormalizeGenres приводит список жанров к множеству, упорядоченному по ID.
func (f *Film) NormalizeGenres() {
	genres := f.Genres
	f.Genres = nil
	for _, g := range genres {
		f.AddGenre(g)
	}
}

// Clone возвращает глубокую копию фильма.
func (f *Film) Clone() *Film {
	if f == nil {
		return nil
	}
	c := *f
	if f.ReleaseDate != nil {
		d := *f.ReleaseDate
		c.ReleaseDate = &d
	}
	if f.Duration != nil {
		d := *f.Duration
		c.Duration = &d
	}
	if f.Mpa != nil {
		m := *f.Mpa
		c.Mpa = &m
	}
	c.Likes = make([]int64, len(f.Likes))
	copy(c.Likes, f.Likes)
	c.Genres = make([]Genre, len(f.Genres))
	copy(c.Genres, f.Genres)
	return &c
}
