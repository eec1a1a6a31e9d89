package genealogies

import (
	"time"

	"github.com/google/uuid"

	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
)

// GenealogyDTO is the transport shape of a genealogy.
type GenealogyDTO struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
	OwnerID     uuid.UUID          `json:"owner_id"`
	Privacy     enums.PrivacyLevel `json:"privacy"`
	PersonCount *int64             `json:"person_count,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CreateGenealogyDTO holds the data required by the repo to persist a genealogy.
type CreateGenealogyDTO struct {
	Name        string
	Description *string
	OwnerID     uuid.UUID
	Privacy     enums.PrivacyLevel
}

// GenealogyWithCount is the list-row projection carrying the person count.
type GenealogyWithCount struct {
	models.Genealogy
	PersonCount int64 `gorm:"column:person_count"`
}

func FromModel(g *models.Genealogy) *GenealogyDTO {
	if g == nil {
		return nil
	}
	return &GenealogyDTO{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		OwnerID:     g.OwnerID,
		Privacy:     g.Privacy,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func fromRow(row GenealogyWithCount) *GenealogyDTO {
	dto := FromModel(&row.Genealogy)
	count := row.PersonCount
	dto.PersonCount = &count
	return dto
}

func (c CreateGenealogyDTO) ToModel() *models.Genealogy {
	privacy := c.Privacy
	if !privacy.IsValid() {
		privacy = enums.PrivacyPrivate
	}
	return &models.Genealogy{
		Name:        c.Name,
		Description: c.Description,
		OwnerID:     c.OwnerID,
		Privacy:     privacy,
	}
}
