package relationships

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
)

type relationshipRepository interface {
	Create(ctx context.Context, dto CreateRelationshipDTO) (*models.Relationship, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Relationship, error)
	FindByPair(ctx context.Context, a, b uuid.UUID) (*models.Relationship, error)
	ListByPerson(ctx context.Context, personID uuid.UUID) ([]models.Relationship, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type personRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error)
}

type genealogyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Genealogy, error)
}

// CreateRelationshipInput captures the raw fields accepted on creation. Type
// accepts the legacy child value, which is normalized to a parent row with the
// endpoints swapped.
type CreateRelationshipInput struct {
	Person1ID uuid.UUID
	Person2ID uuid.UUID
	Type      string
}

// Service exposes relationship operations.
type Service interface {
	Create(ctx context.Context, callerID uuid.UUID, input CreateRelationshipInput) (*RelationshipDTO, error)
	ListForPerson(ctx context.Context, callerID, personID uuid.UUID) ([]RelationshipDTO, error)
	Delete(ctx context.Context, callerID, id uuid.UUID) error
}

type service struct {
	repo        relationshipRepository
	persons     personRepository
	genealogies genealogyRepository
}

// NewService builds a relationship service with the provided repositories.
func NewService(repo relationshipRepository, persons personRepository, genealogies genealogyRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("relationship repository required")
	}
	if persons == nil {
		return nil, fmt.Errorf("person repository required")
	}
	if genealogies == nil {
		return nil, fmt.Errorf("genealogy repository required")
	}
	return &service{repo: repo, persons: persons, genealogies: genealogies}, nil
}

func (s *service) Create(ctx context.Context, callerID uuid.UUID, input CreateRelationshipInput) (*RelationshipDTO, error) {
	relType, swapped, err := enums.ParseRelationshipType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid relationship type")
	}

	person1ID, person2ID := input.Person1ID, input.Person2ID
	if swapped {
		person1ID, person2ID = person2ID, person1ID
	}
	if person1ID == person2ID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a person cannot relate to themselves")
	}

	person1, err := s.loadPerson(ctx, person1ID)
	if err != nil {
		return nil, err
	}
	person2, err := s.loadPerson(ctx, person2ID)
	if err != nil {
		return nil, err
	}
	if person1.GenealogyID != person2.GenealogyID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "persons belong to different genealogies")
	}

	if err := s.requireOwnership(ctx, callerID, person1.GenealogyID, "only the genealogy owner can create relationships"); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByPair(ctx, person1ID, person2ID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "relationship already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing relationship")
	}

	relationship, err := s.repo.Create(ctx, CreateRelationshipDTO{
		GenealogyID: person1.GenealogyID,
		Person1ID:   person1ID,
		Person2ID:   person2ID,
		Type:        relType,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create relationship")
	}
	return FromModel(relationship), nil
}

func (s *service) ListForPerson(ctx context.Context, callerID, personID uuid.UUID) ([]RelationshipDTO, error) {
	person, err := s.loadPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	genealogy, err := s.loadGenealogy(ctx, person.GenealogyID)
	if err != nil {
		return nil, err
	}
	if genealogy.OwnerID != callerID && genealogy.Privacy != enums.PrivacyPublic {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "person is not accessible")
	}

	rows, err := s.repo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list relationships")
	}
	return FromModels(rows), nil
}

func (s *service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	relationship, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "relationship not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load relationship")
	}

	if err := s.requireOwnership(ctx, callerID, relationship.GenealogyID, "only the genealogy owner can delete relationships"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete relationship")
	}
	return nil
}

func (s *service) requireOwnership(ctx context.Context, callerID, genealogyID uuid.UUID, message string) error {
	genealogy, err := s.loadGenealogy(ctx, genealogyID)
	if err != nil {
		return err
	}
	if genealogy.OwnerID != callerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, message)
	}
	return nil
}

func (s *service) loadPerson(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	person, err := s.persons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "person not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load person")
	}
	return person, nil
}

func (s *service) loadGenealogy(ctx context.Context, id uuid.UUID) (*models.Genealogy, error) {
	genealogy, err := s.genealogies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "genealogy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load genealogy")
	}
	return genealogy, nil
}
