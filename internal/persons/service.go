package persons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rootline/rootline-backend/internal/events"
	"github.com/rootline/rootline-backend/internal/relationships"
	"github.com/rootline/rootline-backend/pkg/db"
	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
)

type personRepository interface {
	Create(ctx context.Context, dto CreatePersonDTO) (*models.Person, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error)
	ListByGenealogy(ctx context.Context, genealogyID uuid.UUID, limit int) ([]models.Person, error)
	Update(ctx context.Context, person *models.Person) error
}

type genealogyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Genealogy, error)
}

// CreatePersonInput captures the fields accepted on person creation.
type CreatePersonInput struct {
	GenealogyID uuid.UUID
	Name        string
	Gender      *enums.Gender
	BirthDate   *time.Time
	DeathDate   *time.Time
	BirthPlace  *string
	DeathPlace  *string
	Occupation  *string
	Biography   *string
	PhotoURL    *string
	Generation  *int
}

// UpdatePersonInput captures the mutable person fields. The genealogy binding
// is immutable and deliberately absent.
type UpdatePersonInput struct {
	Name       *string
	Gender     *enums.Gender
	BirthDate  *time.Time
	DeathDate  *time.Time
	BirthPlace *string
	DeathPlace *string
	Occupation *string
	Biography  *string
	PhotoURL   *string
	Generation *int
}

// Service exposes person operations.
type Service interface {
	Create(ctx context.Context, callerID uuid.UUID, input CreatePersonInput) (*PersonDTO, error)
	Get(ctx context.Context, callerID, id uuid.UUID) (*PersonDTO, error)
	ListByGenealogy(ctx context.Context, callerID, genealogyID uuid.UUID, limit int) ([]PersonDTO, error)
	Update(ctx context.Context, callerID, id uuid.UUID, input UpdatePersonInput) (*PersonDTO, error)
	Delete(ctx context.Context, callerID, id uuid.UUID) error
}

type service struct {
	repo        personRepository
	genealogies genealogyRepository
	db          *db.Client
}

// NewService builds a person service with the provided dependencies.
func NewService(repo personRepository, genealogies genealogyRepository, client *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("person repository required")
	}
	if genealogies == nil {
		return nil, fmt.Errorf("genealogy repository required")
	}
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	return &service{repo: repo, genealogies: genealogies, db: client}, nil
}

func (s *service) Create(ctx context.Context, callerID uuid.UUID, input CreatePersonInput) (*PersonDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validateLifeDates(input.BirthDate, input.DeathDate); err != nil {
		return nil, err
	}

	genealogy, err := s.loadGenealogy(ctx, input.GenealogyID)
	if err != nil {
		return nil, err
	}
	if genealogy.OwnerID != callerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the genealogy owner can add persons")
	}

	gender := enums.GenderUnknown
	if input.Gender != nil {
		if !input.Gender.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
		}
		gender = *input.Gender
	}

	person, err := s.repo.Create(ctx, CreatePersonDTO{
		GenealogyID: input.GenealogyID,
		Name:        name,
		Gender:      gender,
		BirthDate:   input.BirthDate,
		DeathDate:   input.DeathDate,
		BirthPlace:  input.BirthPlace,
		DeathPlace:  input.DeathPlace,
		Occupation:  input.Occupation,
		Biography:   input.Biography,
		PhotoURL:    input.PhotoURL,
		Generation:  input.Generation,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create person")
	}
	return FromModel(person), nil
}

func (s *service) Get(ctx context.Context, callerID, id uuid.UUID) (*PersonDTO, error) {
	person, _, err := s.loadReadable(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(person), nil
}

func (s *service) ListByGenealogy(ctx context.Context, callerID, genealogyID uuid.UUID, limit int) ([]PersonDTO, error) {
	genealogy, err := s.loadGenealogy(ctx, genealogyID)
	if err != nil {
		return nil, err
	}
	if genealogy.OwnerID != callerID && genealogy.Privacy != enums.PrivacyPublic {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "genealogy is not accessible")
	}

	rows, err := s.repo.ListByGenealogy(ctx, genealogyID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list persons")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, callerID, id uuid.UUID, input UpdatePersonInput) (*PersonDTO, error) {
	person, err := s.loadOwned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		person.Name = name
	}
	if input.Gender != nil {
		if !input.Gender.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
		}
		person.Gender = *input.Gender
	}
	if input.BirthDate != nil {
		person.BirthDate = input.BirthDate
	}
	if input.DeathDate != nil {
		person.DeathDate = input.DeathDate
	}
	if err := validateLifeDates(person.BirthDate, person.DeathDate); err != nil {
		return nil, err
	}
	if input.BirthPlace != nil {
		person.BirthPlace = input.BirthPlace
	}
	if input.DeathPlace != nil {
		person.DeathPlace = input.DeathPlace
	}
	if input.Occupation != nil {
		person.Occupation = input.Occupation
	}
	if input.Biography != nil {
		person.Biography = input.Biography
	}
	if input.PhotoURL != nil {
		person.PhotoURL = input.PhotoURL
	}
	if input.Generation != nil {
		person.Generation = input.Generation
	}

	if err := s.repo.Update(ctx, person); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update person")
	}
	return FromModel(person), nil
}

// Delete removes the person together with every relationship naming it and
// its events, in a single transaction.
func (s *service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, callerID, id); err != nil {
		return err
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := relationships.NewRepository(tx).DeleteByPerson(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete relationships")
		}
		if err := events.NewRepository(tx).DeleteByPerson(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete events")
		}
		if err := NewRepository(tx).Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete person")
		}
		return nil
	})
}

func (s *service) loadReadable(ctx context.Context, callerID, id uuid.UUID) (*models.Person, *models.Genealogy, error) {
	person, err := s.loadPerson(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	genealogy, err := s.loadGenealogy(ctx, person.GenealogyID)
	if err != nil {
		return nil, nil, err
	}
	if genealogy.OwnerID != callerID && genealogy.Privacy != enums.PrivacyPublic {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "person is not accessible")
	}
	return person, genealogy, nil
}

func (s *service) loadOwned(ctx context.Context, callerID, id uuid.UUID) (*models.Person, error) {
	person, err := s.loadPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	genealogy, err := s.loadGenealogy(ctx, person.GenealogyID)
	if err != nil {
		return nil, err
	}
	if genealogy.OwnerID != callerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the genealogy owner can modify persons")
	}
	return person, nil
}

func (s *service) loadPerson(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	person, err := s.repo.FindByID(ctx, id)
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

func validateLifeDates(birth, death *time.Time) error {
	if birth == nil || death == nil {
		return nil
	}
	if !death.After(*birth) {
		return pkgerrors.New(pkgerrors.CodeValidation, "death date must be after birth date")
	}
	return nil
}
