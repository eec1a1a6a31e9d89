package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
)

// EventDTO is the transport shape of a person event.
type EventDTO struct {
	ID          uuid.UUID       `json:"id"`
	PersonID    uuid.UUID       `json:"person_id"`
	Type        enums.EventType `json:"type"`
	EventDate   *time.Time      `json:"event_date,omitempty"`
	Place       *string         `json:"place,omitempty"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateEventDTO holds the data required by the repo to persist an event.
type CreateEventDTO struct {
	PersonID    uuid.UUID
	Type        enums.EventType
	EventDate   *time.Time
	Place       *string
	Description *string
}

func FromModel(e *models.PersonEvent) *EventDTO {
	if e == nil {
		return nil
	}
	return &EventDTO{
		ID:          e.ID,
		PersonID:    e.PersonID,
		Type:        e.Type,
		EventDate:   e.EventDate,
		Place:       e.Place,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromModels(rows []models.PersonEvent) []EventDTO {
	dtos := make([]EventDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}

func (c CreateEventDTO) ToModel() *models.PersonEvent {
	return &models.PersonEvent{
		PersonID:    c.PersonID,
		Type:        c.Type,
		EventDate:   c.EventDate,
		Place:       c.Place,
		Description: c.Description,
	}
}
