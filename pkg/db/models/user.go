package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rootline/rootline-backend/pkg/enums"
)

// User represents the canonical identity entity. Accounts are never
// hard-deleted; status moves to inactive or banned instead.
type User struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string              `gorm:"type:text;not null;uniqueIndex"`
	Username      string              `gorm:"type:text;not null;uniqueIndex"`
	DisplayName   string              `gorm:"column:display_name;not null"`
	PasswordHash  string              `gorm:"column:password_hash;not null"`
	Role          enums.UserRole      `gorm:"column:role;type:user_role;not null;default:'user'"`
	Status        enums.AccountStatus `gorm:"column:status;type:account_status;not null;default:'active'"`
	EmailVerified bool                `gorm:"column:email_verified;not null;default:false"`
	LastLoginAt   *time.Time          `gorm:"column:last_login_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
