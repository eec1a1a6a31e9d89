package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID            uuid.UUID           `json:"id"`
	Email         string              `json:"email"`
	Username      string              `json:"username"`
	DisplayName   string              `json:"display_name"`
	Role          enums.UserRole      `json:"role"`
	Status        enums.AccountStatus `json:"status"`
	EmailVerified bool                `json:"email_verified"`
	LastLoginAt   *time.Time          `json:"last_login_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	Username     string
	DisplayName  string
	PasswordHash string
	Role         enums.UserRole
}

// UpdateProfileDTO captures the mutable profile fields.
type UpdateProfileDTO struct {
	Username    *string
	DisplayName *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		DisplayName:   u.DisplayName,
		Role:          u.Role,
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if !role.IsValid() {
		role = enums.UserRoleUser
	}

	return &models.User{
		Email:        c.Email,
		Username:     c.Username,
		DisplayName:  c.DisplayName,
		PasswordHash: c.PasswordHash,
		Role:         role,
		Status:       enums.AccountStatusActive,
	}
}
