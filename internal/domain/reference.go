package domain

// Genre жанр фильма. Порядок и равенство жанров определяются только ID.
type Genre struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Mpa возрастной рейтинг MPA (G, PG, PG-13, R, NC-17).
// Справочник только для чтения.
type Mpa struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name,omitempty" db:"name"`
}
