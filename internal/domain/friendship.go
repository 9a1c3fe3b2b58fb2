package domain

// FriendshipStatus метка направленной связи "пользователь -> друг".
type FriendshipStatus string

// FriendshipRequested единственный поддерживаемый статус: заявка отправлена.
const FriendshipRequested FriendshipStatus = "requested"

var friendshipStatuses = []FriendshipStatus{FriendshipRequested}

// Name возвращает отображаемое имя статуса, оно же хранится в user_friends.status.
func (s FriendshipStatus) Name() string {
	return string(s)
}

// FriendshipStatusByName ищет статус по отображаемому имени.
func FriendshipStatusByName(name string) (FriendshipStatus, bool) {
	for _, status := range friendshipStatuses {
		if status.Name() == name {
			return status, true
		}
	}
	return "", false
}
