package models

import "time"

// RoleCardOwner дает доступ к ресурсам /cashcards. Аутентифицированный
// пользователь без этой роли получает 403 до любых проверок по карте.
const RoleCardOwner = "CARD-OWNER"

type User struct {
	ID        int64
	Login     string
	Password  string
	Role      string
	CreatedAt time.Time
}
