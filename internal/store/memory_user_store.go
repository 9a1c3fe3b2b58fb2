// internal/store/memory_user_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

// MemoryUserStore реализует UserStore поверх MemoryDB.
type MemoryUserStore struct {
	db *MemoryDB
}

func (s *MemoryUserStore) FindAll(ctx context.Context) ([]*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	users := make([]*domain.User, 0, len(s.db.users))
	for _, id := range sortedKeys(s.db.users) {
		users = append(users, s.db.users[id].Clone())
	}
	return users, nil
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	user, ok := s.db.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, id)
	}
	return user.Clone(), nil
}

func (s *MemoryUserStore) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored := user.Clone()
	if stored.ID == 0 {
		stored.ID = nextID(s.db.lastUserID, s.db.users)
		s.db.lastUserID = stored.ID
		stored.Friends = make(map[int64]domain.FriendshipStatus)
		s.db.logger.DebugContext(ctx, "Creating user in memory", slog.Int64("userID", stored.ID), slog.String("login", stored.Login))
	} else {
		existing, ok := s.db.users[stored.ID]
		if !ok {
			s.db.logger.WarnContext(ctx, "No user found to update in memory", slog.Int64("userID", stored.ID))
			return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, stored.ID)
		}
		stored.Friends = existing.Clone().Friends
		s.db.logger.DebugContext(ctx, "Updating user in memory", slog.Int64("userID", stored.ID))
	}

	s.db.users[stored.ID] = stored
	return stored.Clone(), nil
}

func (s *MemoryUserStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[id]; !ok {
		return nil
	}
	delete(s.db.users, id)
	for _, other := range s.db.users {
		other.RemoveFriend(id)
	}
	for _, film := range s.db.films {
		film.RemoveLike(id)
	}
	s.db.logger.DebugContext(ctx, "User deleted from memory", slog.Int64("userID", id))
	return nil
}

func (s *MemoryUserStore) MakeFriendship(ctx context.Context, userID, friendID int64, status domain.FriendshipStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	user, err := s.pair(userID, friendID)
	if err != nil {
		return err
	}
	user.AddFriend(friendID, status)
	return nil
}

func (s *MemoryUserStore) RuinFriendship(ctx context.Context, userID, friendID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	user, err := s.pair(userID, friendID)
	if err != nil {
		return err
	}
	user.RemoveFriend(friendID)
	return nil
}

func (s *MemoryUserStore) pair(userID, friendID int64) (*domain.User, error) {
	user, ok := s.db.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, userID)
	}
	if _, ok := s.db.users[friendID]; !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, friendID)
	}
	return user, nil
}
