package models

import "time"

// User roles
const (
	RoleAffiliate = "affiliate"
	RoleAdmin     = "admin"
)

// User is the minimal platform identity behind an affiliate or admin
// session. Account management beyond login lives outside this service.
type User struct {
	ID           uint   `gorm:"primarykey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"` // bcrypt hash
	Role         string `gorm:"type:varchar(16);not null;default:'affiliate'"`
	TokenVersion int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
