// internal/store/memory.go
package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

// MemoryDB хранит все данные в памяти процесса. Карты доступны только через
// хранилища Films(), Users(), Genres() и Mpa(); агрегаты копируются на входе и
// на выходе, поэтому вызывающий код не может изменить их в обход хранилища.
// Все операции сериализуются одним RWMutex.
type MemoryDB struct {
	mu         sync.RWMutex
	films      map[int64]*domain.Film
	users      map[int64]*domain.User
	genres     map[int64]domain.Genre
	mpa        map[int64]domain.Mpa
	lastFilmID int64
	lastUserID int64
	logger     *slog.Logger
}

// NewMemoryDB создает пустую базу с заполненными справочниками жанров и MPA.
func NewMemoryDB(logger *slog.Logger) *MemoryDB {
	db := &MemoryDB{
		films:  make(map[int64]*domain.Film),
		users:  make(map[int64]*domain.User),
		genres: make(map[int64]domain.Genre, len(DefaultGenres)),
		mpa:    make(map[int64]domain.Mpa, len(DefaultMpa)),
		logger: logger,
	}
	for _, g := range DefaultGenres {
		db.genres[g.ID] = g
	}
	for _, m := range DefaultMpa {
		db.mpa[m.ID] = m
	}
	return db
}

func (db *MemoryDB) Films() FilmStore   { return &MemoryFilmStore{db: db} }
func (db *MemoryDB) Users() UserStore   { return &MemoryUserStore{db: db} }
func (db *MemoryDB) Genres() GenreStore { return &MemoryGenreStore{db: db} }
func (db *MemoryDB) Mpa() MpaStore      { return &MemoryMpaStore{db: db} }

// Ping всегда успешен: хранилище в памяти доступно, пока жив процесс.
func (db *MemoryDB) Ping(ctx context.Context) error { return nil }

func (db *MemoryDB) Close() error { return nil }

// nextID выдает ID больше любого существующего и любого выданного ранее,
// так что ID удаленных записей не переиспользуются.
func nextID[V any](last int64, rows map[int64]V) int64 {
	maxID := last
	for id := range rows {
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

func sortedKeys[V any](rows map[int64]V) []int64 {
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MemoryGenreStore реализует GenreStore поверх MemoryDB.
type MemoryGenreStore struct {
	db *MemoryDB
}

func (s *MemoryGenreStore) FindAll(ctx context.Context) ([]domain.Genre, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	genres := make([]domain.Genre, 0, len(s.db.genres))
	for _, id := range sortedKeys(s.db.genres) {
		genres = append(genres, s.db.genres[id])
	}
	return genres, nil
}

func (s *MemoryGenreStore) FindByID(ctx context.Context, id int64) (domain.Genre, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	g, ok := s.db.genres[id]
	if !ok {
		return domain.Genre{}, ErrGenreNotFound
	}
	return g, nil
}

// MemoryMpaStore реализует MpaStore поверх MemoryDB.
type MemoryMpaStore struct {
	db *MemoryDB
}

func (s *MemoryMpaStore) FindAll(ctx context.Context) ([]domain.Mpa, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	ratings := make([]domain.Mpa, 0, len(s.db.mpa))
	for _, id := range sortedKeys(s.db.mpa) {
		ratings = append(ratings, s.db.mpa[id])
	}
	return ratings, nil
}

func (s *MemoryMpaStore) FindByID(ctx context.Context, id int64) (domain.Mpa, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	m, ok := s.db.mpa[id]
	if !ok {
		return domain.Mpa{}, ErrMpaNotFound
	}
	return m, nil
}
