// internal/store/sql_user_store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/XevgenX/go-filmorate/internal/domain"
)

const (
	userSelectQuery = `SELECT u.id, u.name, u.login, u.email, u.birthday,
              f.friend_id AS friend_id, f.status AS friendship_status
              FROM users u
              LEFT JOIN user_friends f ON u.id = f.user_id`
	userInsertQuery = `INSERT INTO users (name, login, email, birthday)
              VALUES (?, ?, ?, ?) RETURNING id`
	userUpdateQuery = `UPDATE users SET name = ?, login = ?, email = ?, birthday = ?
              WHERE id = ?`
	userDeleteQuery       = `DELETE FROM users WHERE id = ?`
	userLikesDeleteQuery  = `DELETE FROM film_likes WHERE user_id = ?`
	userEdgesDeleteQuery  = `DELETE FROM user_friends WHERE user_id = ? OR friend_id = ?`
	friendshipDeleteQuery = `DELETE FROM user_friends WHERE user_id = ? AND friend_id = ?`
	friendshipInsertQuery = `INSERT INTO user_friends (user_id, friend_id, status) VALUES (?, ?, ?)`
)

// SQLUserStore реализует UserStore для PostgreSQL и SQLite.
type SQLUserStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewSQLUserStore создает новый экземпляр SQLUserStore.
func NewSQLUserStore(db *sqlx.DB, logger *slog.Logger) (*SQLUserStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &SQLUserStore{db: db, logger: logger}, nil
}

func (s *SQLUserStore) FindAll(ctx context.Context) ([]*domain.User, error) {
	var rows []UserRow
	s.logger.DebugContext(ctx, "Executing FindAll users query")
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(userSelectQuery+" ORDER BY u.id")); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list users from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return AggregateUsers(rows), nil
}

func (s *SQLUserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var rows []UserRow
	s.logger.DebugContext(ctx, "Executing FindByID user query", slog.Int64("userID", id))
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(userSelectQuery+" WHERE u.id = ?"), id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to get user by ID from DB", slog.Int64("userID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	users := AggregateUsers(rows)
	if len(users) == 0 {
		s.logger.WarnContext(ctx, "User not found by ID in DB", slog.Int64("userID", id))
		return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, id)
	}
	return users[0], nil
}

// Save создает пользователя или обновляет его поля. Связи дружбы не меняются.
func (s *SQLUserStore) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	id := user.ID
	args := []any{user.Name, user.Login, user.Email, user.Birthday}
	if id == 0 {
		s.logger.DebugContext(ctx, "Executing Create user query", slog.String("login", user.Login))
		if err := s.db.QueryRowxContext(ctx, s.db.Rebind(userInsertQuery), args...).Scan(&id); err != nil {
			s.logger.ErrorContext(ctx, "Failed to create user in DB", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	} else {
		s.logger.DebugContext(ctx, "Executing Update user query", slog.Int64("userID", id))
		result, err := s.db.ExecContext(ctx, s.db.Rebind(userUpdateQuery), append(args, id)...)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to update user in DB", slog.Int64("userID", id), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to check update result: %w", err)
		}
		if n == 0 {
			s.logger.WarnContext(ctx, "No user found to update in DB", slog.Int64("userID", id))
			return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, id)
		}
	}
	s.logger.InfoContext(ctx, "User saved successfully in DB", slog.Int64("userID", id))
	return s.FindByID(ctx, id)
}

// Delete удаляет пользователя, его лайки и связи дружбы в обе стороны.
func (s *SQLUserStore) Delete(ctx context.Context, id int64) error {
	s.logger.DebugContext(ctx, "Executing Delete user query", slog.Int64("userID", id))
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(userLikesDeleteQuery), id); err != nil {
			return fmt.Errorf("failed to delete user likes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(userEdgesDeleteQuery), id, id); err != nil {
			return fmt.Errorf("failed to delete user friendships: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(userDeleteQuery), id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete user from DB", slog.Int64("userID", id), slog.String("error", err.Error()))
		return err
	}
	s.logger.InfoContext(ctx, "User deleted from DB", slog.Int64("userID", id))
	return nil
}

// MakeFriendship создает связь userID -> friendID. Существующая связь
// удаляется и вставляется заново с новым статусом.
func (s *SQLUserStore) MakeFriendship(ctx context.Context, userID, friendID int64, status domain.FriendshipStatus) error {
	return s.changeFriendship(ctx, userID, friendID, &status)
}

// RuinFriendship удаляет связь userID -> friendID.
func (s *SQLUserStore) RuinFriendship(ctx context.Context, userID, friendID int64) error {
	return s.changeFriendship(ctx, userID, friendID, nil)
}

func (s *SQLUserStore) changeFriendship(ctx context.Context, userID, friendID int64, status *domain.FriendshipStatus) error {
	s.logger.DebugContext(ctx, "Executing friendship query", slog.Int64("userID", userID), slog.Int64("friendID", friendID))
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, id := range []int64{userID, friendID} {
			ok, err := exists(ctx, tx, "users", id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: id=%d", ErrUserNotFound, id)
			}
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(friendshipDeleteQuery), userID, friendID); err != nil {
			return fmt.Errorf("failed to ruin friendship: %w", err)
		}
		if status == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(friendshipInsertQuery), userID, friendID, status.Name()); err != nil {
			return fmt.Errorf("failed to make friendship: %w", translateError(err, ErrUserNotFound))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "Friendship participant not found in DB", slog.Int64("userID", userID), slog.Int64("friendID", friendID))
		} else {
			s.logger.ErrorContext(ctx, "Failed to change friendship in DB", slog.Int64("userID", userID), slog.String("error", err.Error()))
		}
		return err
	}
	return nil
}
