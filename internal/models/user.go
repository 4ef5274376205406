// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role distinguishes ordinary members from moderators.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a Sahityapata account. Accounts are provisioned on the
// first authenticated request from the identity provider and are never
// deleted by this system.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UID         string    `gorm:"uniqueIndex;not null" json:"uid"`
	DisplayName string    `gorm:"not null" json:"display_name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	PhotoURL    string    `json:"photo_url"`
	Role        Role      `gorm:"not null;default:user" json:"role"`
	PostCount   int       `gorm:"not null;default:0" json:"post_count"`
	Banned      bool      `gorm:"not null;default:false" json:"banned"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Posts       []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
