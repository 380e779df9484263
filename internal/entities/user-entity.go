package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"appeals-system/pkg/types"
)

type User struct {
	ID              uint64      `json:"id" db:"id"`
	FirstName       string      `json:"first_name" db:"first_name"`
	LastName        null.String `json:"last_name" db:"last_name"`
	Patronymic      null.String `json:"patronymic" db:"patronymic"`
	Email           string      `json:"email" db:"email"`
	EmailVerifiedAt *time.Time  `json:"email_verified_at" db:"email_verified_at"`
	Phone           null.String `json:"phone" db:"phone"`
	Sex             string      `json:"sex" db:"sex"`
	Position        null.String `json:"position" db:"position"`

	Password      string      `json:"-" db:"password"`
	ActivateToken null.String `json:"-" db:"activate_token"`

	IsActive      bool        `json:"is_active" db:"is_active"`
	SocialGroupID *uint64     `json:"social_group_id" db:"social_group_id"`
	Roles         []string    `json:"roles" db:"roles"`
	NotifyActive  bool        `json:"notify_active" db:"notify_active"`
	Birthday      *time.Time  `json:"birthday" db:"birthday"`
	Address       null.String `json:"address" db:"address"`
	Avatar        null.String `json:"avatar" db:"avatar"`

	types.BaseEntity
	types.SoftDelete
}

// HasRole - есть ли у пользователя роль.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole - есть ли хотя бы одна из ролей.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// AssignRole добавляет роль в конец списка. Уже выданная роль не дублируется.
// Возвращает true, если список изменился.
func (u *User) AssignRole(role string) bool {
	if u.HasRole(role) {
		return false
	}
	u.Roles = append(u.Roles, role)
	return true
}

// RemoveRole удаляет все вхождения роли. Отсутствующая роль - no-op, вернёт false.
func (u *User) RemoveRole(role string) bool {
	kept := make([]string, 0, len(u.Roles))
	removed := false
	for _, r := range u.Roles {
		if r == role {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	u.Roles = kept
	return removed
}

// SetRoles заменяет список ролей, сохраняя порядок первых вхождений.
func (u *User) SetRoles(roles []string) {
	u.Roles = make([]string, 0, len(roles))
	for _, r := range roles {
		u.AssignRole(r)
	}
}

// FullName - "Фамилия Имя Отчество" без пустых частей.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName.Valid && u.LastName.String != "" {
		name = u.LastName.String + " " + name
	}
	if u.Patronymic.Valid && u.Patronymic.String != "" {
		name += " " + u.Patronymic.String
	}
	return name
}
