package persons

import (
	"time"

	"github.com/google/uuid"

	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
)

// PersonDTO is the transport shape of a person record.
type PersonDTO struct {
	ID          uuid.UUID    `json:"id"`
	GenealogyID uuid.UUID    `json:"genealogy_id"`
	Name        string       `json:"name"`
	Gender      enums.Gender `json:"gender"`
	BirthDate   *time.Time   `json:"birth_date,omitempty"`
	DeathDate   *time.Time   `json:"death_date,omitempty"`
	BirthPlace  *string      `json:"birth_place,omitempty"`
	DeathPlace  *string      `json:"death_place,omitempty"`
	Occupation  *string      `json:"occupation,omitempty"`
	Biography   *string      `json:"biography,omitempty"`
	PhotoURL    *string      `json:"photo_url,omitempty"`
	Generation  *int         `json:"generation,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreatePersonDTO holds the data required by the repo to persist a person.
type CreatePersonDTO struct {
	GenealogyID uuid.UUID
	Name        string
	Gender      enums.Gender
	BirthDate   *time.Time
	DeathDate   *time.Time
	BirthPlace  *string
	DeathPlace  *string
	Occupation  *string
	Biography   *string
	PhotoURL    *string
	Generation  *int
}

func FromModel(p *models.Person) *PersonDTO {
	if p == nil {
		return nil
	}
	return &PersonDTO{
		ID:          p.ID,
		GenealogyID: p.GenealogyID,
		Name:        p.Name,
		Gender:      p.Gender,
		BirthDate:   p.BirthDate,
		DeathDate:   p.DeathDate,
		BirthPlace:  p.BirthPlace,
		DeathPlace:  p.DeathPlace,
		Occupation:  p.Occupation,
		Biography:   p.Biography,
		PhotoURL:    p.PhotoURL,
		Generation:  p.Generation,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromModels(rows []models.Person) []PersonDTO {
	dtos := make([]PersonDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}

func (c CreatePersonDTO) ToModel() *models.Person {
	gender := c.Gender
	if !gender.IsValid() {
		gender = enums.GenderUnknown
	}
	return &models.Person{
		GenealogyID: c.GenealogyID,
		Name:        c.Name,
		Gender:      gender,
		BirthDate:   c.BirthDate,
		DeathDate:   c.DeathDate,
		BirthPlace:  c.BirthPlace,
		DeathPlace:  c.DeathPlace,
		Occupation:  c.Occupation,
		Biography:   c.Biography,
		PhotoURL:    c.PhotoURL,
		Generation:  c.Generation,
	}
}
