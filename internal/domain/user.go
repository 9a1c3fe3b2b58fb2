// internal/domain/user.go
package domain

import (
	"sort"
	"strings"
)

// User агрегат пользователя вместе с исходящими связями дружбы.
// Friends: ID друга -> статус связи, не больше одной связи на друга.
type User struct {
	ID       int64                      `json:"id"`
	Email    string                     `json:"email" validate:"required,email"`
	Login    string                     `json:"login" validate:"required,nowhitespace"`
	Name     string                     `json:"name"`
	Birthday Date                       `json:"birthday" validate:"required,notfuture"`
	Friends  map[int64]FriendshipStatus `json:"friends"`
}

// AddFriend создает или заменяет связь с другом friendID.
func (u *User) AddFriend(friendID int64, status FriendshipStatus) {
	if u.Friends == nil {
		u.Friends = make(map[int64]FriendshipStatus)
	}
	u.Friends[friendID] = status
}

// RemoveFriend удаляет связь с другом friendID.
func (u *User) RemoveFriend(friendID int64) {
	delete(u.Friends, friendID)
}

// HasFriend сообщает, есть ли у пользователя исходящая связь с friendID.
func (u *User) HasFriend(friendID int64) bool {
	_, ok := u.Friends[friendID]
	return ok
}

// FriendIDs возвращает ID друзей по возрастанию.
func (u *User) FriendIDs() []int64 {
	ids := make([]int64, 0, len(u.Friends))
	for id := range u.Friends {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ApplyDefaultName подставляет логин вместо пустого отображаемого имени.
func (u *User) ApplyDefaultName() {
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
}

// Clone возвращает глубокую копию пользователя.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Friends = make(map[int64]FriendshipStatus, len(u.Friends))
	for id, status := range u.Friends {
		c.Friends[id] = status
	}
	return &c
}
