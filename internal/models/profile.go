package models

import "fmt"

// Profile is the role assignment of an account. Exactly one per user.
type Profile struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Role   Role   `gorm:"type:varchar(20);not null;default:'student';index" json:"role"`
	Phone  string `gorm:"size:15" json:"phone"`
}

func (p Profile) String() string {
	return fmt.Sprintf("user #%d - %s", p.UserID, p.Role.Label())
}
