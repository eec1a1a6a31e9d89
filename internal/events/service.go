package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
)

type eventRepository interface {
	Create(ctx context.Context, dto CreateEventDTO) (*models.PersonEvent, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PersonEvent, error)
	ListByPerson(ctx context.Context, personID uuid.UUID) ([]models.PersonEvent, error)
	Update(ctx context.Context, event *models.PersonEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type personRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error)
}

type genealogyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Genealogy, error)
}

// CreateEventInput captures the fields accepted on event creation.
type CreateEventInput struct {
	Type        string
	EventDate   *time.Time
	Place       *string
	Description *string
}

// UpdateEventInput captures the mutable event fields.
type UpdateEventInput struct {
	Type        *string
	EventDate   *time.Time
	Place       *string
	Description *string
}

// Service exposes person-event operations. Event reads follow person reads;
// event mutations follow person mutations.
type Service interface {
	Create(ctx context.Context, callerID, personID uuid.UUID, input CreateEventInput) (*EventDTO, error)
	ListForPerson(ctx context.Context, callerID, personID uuid.UUID) ([]EventDTO, error)
	Update(ctx context.Context, callerID, personID, eventID uuid.UUID, input UpdateEventInput) (*EventDTO, error)
	Delete(ctx context.Context, callerID, personID, eventID uuid.UUID) error
}

type service struct {
	repo        eventRepository
	persons     personRepository
	genealogies genealogyRepository
}

// NewService builds an event service with the provided repositories.
func NewService(repo eventRepository, persons personRepository, genealogies genealogyRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	if persons == nil {
		return nil, fmt.Errorf("person repository required")
	}
	if genealogies == nil {
		return nil, fmt.Errorf("genealogy repository required")
	}
	return &service{repo: repo, persons: persons, genealogies: genealogies}, nil
}

func (s *service) Create(ctx context.Context, callerID, personID uuid.UUID, input CreateEventInput) (*EventDTO, error) {
	eventType, err := enums.ParseEventType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid event type")
	}

	if err := s.requireOwnership(ctx, callerID, personID); err != nil {
		return nil, err
	}

	event, err := s.repo.Create(ctx, CreateEventDTO{
		PersonID:    personID,
		Type:        eventType,
		EventDate:   input.EventDate,
		Place:       input.Place,
		Description: input.Description,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
	}
	return FromModel(event), nil
}

func (s *service) ListForPerson(ctx context.Context, callerID, personID uuid.UUID) ([]EventDTO, error) {
	genealogy, err := s.loadPersonGenealogy(ctx, personID)
	if err != nil {
		return nil, err
	}
	if genealogy.OwnerID != callerID && genealogy.Privacy != enums.PrivacyPublic {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "person is not accessible")
	}

	rows, err := s.repo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, callerID, personID, eventID uuid.UUID, input UpdateEventInput) (*EventDTO, error) {
	if err := s.requireOwnership(ctx, callerID, personID); err != nil {
		return nil, err
	}

	event, err := s.loadEvent(ctx, personID, eventID)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		eventType, err := enums.ParseEventType(*input.Type)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid event type")
		}
		event.Type = eventType
	}
	if input.EventDate != nil {
		event.EventDate = input.EventDate
	}
	if input.Place != nil {
		event.Place = input.Place
	}
	if input.Description != nil {
		event.Description = input.Description
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update event")
	}
	return FromModel(event), nil
}

func (s *service) Delete(ctx context.Context, callerID, personID, eventID uuid.UUID) error {
	if err := s.requireOwnership(ctx, callerID, personID); err != nil {
		return err
	}
	if _, err := s.loadEvent(ctx, personID, eventID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, eventID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete event")
	}
	return nil
}

func (s *service) requireOwnership(ctx context.Context, callerID, personID uuid.UUID) error {
	genealogy, err := s.loadPersonGenealogy(ctx, personID)
	if err != nil {
		return err
	}
	if genealogy.OwnerID != callerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the genealogy owner can modify events")
	}
	return nil
}

func (s *service) loadPersonGenealogy(ctx context.Context, personID uuid.UUID) (*models.Genealogy, error) {
	person, err := s.persons.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "person not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load person")
	}
	genealogy, err := s.genealogies.FindByID(ctx, person.GenealogyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "genealogy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load genealogy")
	}
	return genealogy, nil
}

func (s *service) loadEvent(ctx context.Context, personID, eventID uuid.UUID) (*models.PersonEvent, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	if event.PersonID != personID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
	}
	return event, nil
}
