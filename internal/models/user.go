package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName string    `gorm:"size:30" json:"first_name"`
	LastName  string    `gorm:"size:30" json:"last_name"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Profile   *Profile  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role returns the assigned role, student when the profile was not loaded.
func (u *User) Role() Role {
	if u == nil || u.Profile == nil {
		return RoleStudent
	}
	return u.Profile.Role
}

func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
