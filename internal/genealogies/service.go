package genealogies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rootline/rootline-backend/internal/events"
	"github.com/rootline/rootline-backend/internal/persons"
	"github.com/rootline/rootline-backend/internal/relationships"
	"github.com/rootline/rootline-backend/pkg/db"
	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
	"github.com/rootline/rootline-backend/pkg/pagination"
)

const (
	nameMinLen        = 2
	nameMaxLen        = 50
	descriptionMaxLen = 500
)

type genealogyRepository interface {
	Create(ctx context.Context, dto CreateGenealogyDTO) (*models.Genealogy, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Genealogy, error)
	ListVisible(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]GenealogyWithCount, error)
	Update(ctx context.Context, genealogy *models.Genealogy) error
	CountPersons(ctx context.Context, id uuid.UUID) (int64, error)
}

// CreateGenealogyInput captures the fields accepted on creation.
type CreateGenealogyInput struct {
	Name        string
	Description *string
	Privacy     *enums.PrivacyLevel
}

// UpdateGenealogyInput captures the mutable genealogy fields. Ownership is
// immutable and deliberately absent.
type UpdateGenealogyInput struct {
	Name        *string
	Description *string
	Privacy     *enums.PrivacyLevel
}

// ListPage is one page of the visible-genealogies listing.
type ListPage struct {
	Genealogies []GenealogyDTO `json:"genealogies"`
	NextCursor  *string        `json:"next_cursor,omitempty"`
}

// Service exposes genealogy operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateGenealogyInput) (*GenealogyDTO, error)
	Get(ctx context.Context, callerID, id uuid.UUID) (*GenealogyDTO, error)
	List(ctx context.Context, callerID uuid.UUID, params pagination.Params) (*ListPage, error)
	Update(ctx context.Context, callerID, id uuid.UUID, input UpdateGenealogyInput) (*GenealogyDTO, error)
	Delete(ctx context.Context, callerID, id uuid.UUID) error
}

type service struct {
	repo genealogyRepository
	db   *db.Client
}

// NewService builds a genealogy service with the provided dependencies.
func NewService(repo genealogyRepository, client *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("genealogy repository required")
	}
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	return &service{repo: repo, db: client}, nil
}

// CanRead reports whether the caller may read the genealogy: owner always,
// anyone when public. Family privacy stays owner-only.
func CanRead(g *models.Genealogy, callerID uuid.UUID) bool {
	if g == nil {
		return false
	}
	return g.OwnerID == callerID || g.Privacy == enums.PrivacyPublic
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateGenealogyInput) (*GenealogyDTO, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}

	privacy := enums.PrivacyPrivate
	if input.Privacy != nil {
		if !input.Privacy.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid privacy level")
		}
		privacy = *input.Privacy
	}

	genealogy, err := s.repo.Create(ctx, CreateGenealogyDTO{
		Name:        name,
		Description: input.Description,
		OwnerID:     ownerID,
		Privacy:     privacy,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create genealogy")
	}
	return FromModel(genealogy), nil
}

func (s *service) Get(ctx context.Context, callerID, id uuid.UUID) (*GenealogyDTO, error) {
	genealogy, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanRead(genealogy, callerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "genealogy is not accessible")
	}

	dto := FromModel(genealogy)
	count, err := s.personCount(ctx, id)
	if err != nil {
		return nil, err
	}
	dto.PersonCount = &count
	return dto, nil
}

func (s *service) List(ctx context.Context, callerID uuid.UUID, params pagination.Params) (*ListPage, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	rows, err := s.repo.ListVisible(ctx, callerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list genealogies")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &ListPage{Genealogies: make([]GenealogyDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			cursor := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[i-1].CreatedAt,
				ID:        rows[i-1].ID,
			})
			page.NextCursor = &cursor
			break
		}
		page.Genealogies = append(page.Genealogies, *fromRow(rows[i]))
	}
	return page, nil
}

func (s *service) Update(ctx context.Context, callerID, id uuid.UUID, input UpdateGenealogyInput) (*GenealogyDTO, error) {
	genealogy, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if genealogy.OwnerID != callerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can modify a genealogy")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		genealogy.Name = name
	}
	if input.Description != nil {
		if err := validateDescription(input.Description); err != nil {
			return nil, err
		}
		genealogy.Description = input.Description
	}
	if input.Privacy != nil {
		if !input.Privacy.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid privacy level")
		}
		genealogy.Privacy = *input.Privacy
	}

	if err := s.repo.Update(ctx, genealogy); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update genealogy")
	}
	return FromModel(genealogy), nil
}

// Delete removes the genealogy together with its persons, their relationships,
// and their events, in a single transaction.
func (s *service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	genealogy, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if genealogy.OwnerID != callerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can delete a genealogy")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := events.NewRepository(tx).DeleteByGenealogy(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete events")
		}
		if err := relationships.NewRepository(tx).DeleteByGenealogy(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete relationships")
		}
		if err := persons.NewRepository(tx).DeleteByGenealogy(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete persons")
		}
		if err := NewRepository(tx).Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete genealogy")
		}
		return nil
	})
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Genealogy, error) {
	genealogy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "genealogy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load genealogy")
	}
	return genealogy, nil
}

func (s *service) personCount(ctx context.Context, id uuid.UUID) (int64, error) {
	count, err := s.repo.CountPersons(ctx, id)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count persons")
	}
	return count, nil
}

func validateName(name string) error {
	// Limits are in characters, matching the char_length database constraint.
	if length := utf8.RuneCountInString(name); length < nameMinLen || length > nameMaxLen {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("name must be between %d and %d characters", nameMinLen, nameMaxLen))
	}
	return nil
}

func validateDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > descriptionMaxLen {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("description must be at most %d characters", descriptionMaxLen))
	}
	return nil
}
