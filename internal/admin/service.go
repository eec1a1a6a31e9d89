package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rootline/rootline-backend/internal/users"
	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AccountStatus) error
}

// Service exposes the moderation operations reserved for admin accounts.
type Service interface {
	UpdateUserStatus(ctx context.Context, callerID, userID uuid.UUID, status enums.AccountStatus) (*users.UserDTO, error)
}

type service struct {
	users userRepository
}

// NewService builds an admin service over the user repository.
func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{users: repo}, nil
}

// UpdateUserStatus bans, deactivates, or reactivates an account. The session
// check in the auth middleware consults the stored status on every request,
// so a ban takes effect without revoking live tokens.
func (s *service) UpdateUserStatus(ctx context.Context, callerID, userID uuid.UUID, status enums.AccountStatus) (*users.UserDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account status")
	}
	if callerID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot change your own account status")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if err := s.users.UpdateStatus(ctx, user.ID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update account status")
	}

	user.Status = status
	return users.FromModel(user), nil
}
