package models

import (
	"time"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleInspector Role = "INSPECTOR"
	RoleBroker    Role = "BROKER"
	RoleViewer    Role = "VIEWER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInspector, RoleBroker, RoleViewer:
		return true
	}
	return false
}

type User struct {
	BaseUUIDModel
	Name         string     `gorm:"type:text;not null"                 json:"name"`
	Email        string     `gorm:"type:text;uniqueIndex;not null"     json:"email"`
	PasswordHash string     `gorm:"type:text;not null"                 json:"-"`
	Role         Role       `gorm:"type:text;not null;default:INSPECTOR" json:"role"`
	IsActive     bool       `gorm:"type:bool;not null"                 json:"isActive"`
	LastLoginAt  *time.Time `gorm:"type:timestamp"                     json:"lastLoginAt,omitempty"`
}

// UserProfile represents public user profile information
type UserProfile struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// ToProfile converts a User to a UserProfile (public information only)
func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
