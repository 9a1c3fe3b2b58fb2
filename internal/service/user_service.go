// internal/service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/XevgenX/go-filmorate/internal/domain"
	"github.com/XevgenX/go-filmorate/internal/store"
)

// UserService управляет пользователями и связями дружбы.
//
// Дружба направленная: MakeFriendship(a, b) создает только связь a -> b.
// Друзья пользователя это его исходящие связи, взаимная дружба требует связей
// в обе стороны.
type UserService struct {
	users     store.UserStore
	validator UserValidator
	logger    *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users store.UserStore, v UserValidator, logger *slog.Logger) *UserService {
	return &UserService{users: users, validator: v, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Create проверяет и сохраняет нового пользователя. Пустое имя заменяется логином.
func (s *UserService) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := s.validator.ValidateUser(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "User validation failed", slog.String("error", err.Error()))
		return nil, err
	}
	user = user.Clone()
	user.ID = 0
	user.Friends = nil
	user.ApplyDefaultName()
	return s.save(ctx, user)
}

// Update перезаписывает поля существующего пользователя, друзья сохраняются.
func (s *UserService) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := s.validator.ValidateUser(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "User validation failed", slog.String("error", err.Error()))
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("%w: user id is required for update", store.ErrUserNotFound)
	}
	if _, err := s.users.FindByID(ctx, user.ID); err != nil {
		return nil, err
	}
	user = user.Clone()
	user.ApplyDefaultName()
	return s.save(ctx, user)
}

func (s *UserService) save(ctx context.Context, user *domain.User) (*domain.User, error) {
	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User saved", slog.Int64("userID", saved.ID))
	return saved, nil
}

// Delete удаляет пользователя вместе с его лайками и связями дружбы.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User deleted", slog.Int64("userID", id))
	return nil
}

// MakeFriendship создает связь userID -> friendID со статусом "requested".
func (s *UserService) MakeFriendship(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return domain.NewValidationError("friendId", "user cannot befriend themselves")
	}
	if err := s.users.MakeFriendship(ctx, userID, friendID, domain.FriendshipRequested); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Friendship requested", slog.Int64("userID", userID), slog.Int64("friendID", friendID))
	return nil
}

// RuinFriendship удаляет связь userID -> friendID.
func (s *UserService) RuinFriendship(ctx context.Context, userID, friendID int64) error {
	if err := s.users.RuinFriendship(ctx, userID, friendID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Friendship ruined", slog.Int64("userID", userID), slog.Int64("friendID", friendID))
	return nil
}

// GetFriends возвращает друзей пользователя по возрастанию ID.
func (s *UserService) GetFriends(ctx context.Context, id int64) ([]*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.loadUsers(ctx, user.FriendIDs())
}

// FindCommonFriends возвращает объединение двух пересечений: друзья first,
// которые есть у second, и друзья second, которые есть у first.
func (s *UserService) FindCommonFriends(ctx context.Context, firstID, secondID int64) ([]*domain.User, error) {
	first, err := s.users.FindByID(ctx, firstID)
	if err != nil {
		return nil, err
	}
	second, err := s.users.FindByID(ctx, secondID)
	if err != nil {
		return nil, err
	}
	common := make(map[int64]struct{})
	for _, id := range first.FriendIDs() {
		if second.HasFriend(id) {
			common[id] = struct{}{}
		}
	}
	for _, id := range second.FriendIDs() {
		if first.HasFriend(id) {
			common[id] = struct{}{}
		}
	}
	ids := make([]int64, 0, len(common))
	for id := range common {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return s.loadUsers(ctx, ids)
}

// FindMutualFriends возвращает друзей, у которых есть обратная связь с пользователем.
func (s *UserService) FindMutualFriends(ctx context.Context, id int64) ([]*domain.User, error) {
	friends, err := s.GetFriends(ctx, id)
	if err != nil {
		return nil, err
	}
	mutual := make([]*domain.User, 0, len(friends))
	for _, friend := range friends {
		if friend.HasFriend(id) {
			mutual = append(mutual, friend)
		}
	}
	return mutual, nil
}

// loadUsers загружает пользователей по списку ID. Удаленные между чтениями
// пользователи пропускаются.
func (s *UserService) loadUsers(ctx context.Context, ids []int64) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.FindByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "Friend disappeared while loading", slog.Int64("userID", id))
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
