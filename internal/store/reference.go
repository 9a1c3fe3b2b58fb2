package store

import "github.com/XevgenX/go-filmorate/internal/domain"

// DefaultMpa справочник рейтингов, которым заполняются оба бэкенда.
var DefaultMpa = []domain.Mpa{
	{ID: 1, Name: "G"},
	{ID: 2, Name: "PG"},
	{ID: 3, Name: "PG-13"},
	{ID: 4, Name: "R"},
	{ID: 5, Name: "NC-17"},
}

// DefaultGenres справочник жанров, которым заполняются оба бэкенда.
var DefaultGenres = []domain.Genre{
	{ID: 1, Name: "Comedy"},
	{ID: 2, Name: "Drama"},
	{ID: 3, Name: "Cartoon"},
	{ID: 4, Name: "Thriller"},
	{ID: 5, Name: "Documentary"},
	{ID: 6, Name: "Action"},
}
