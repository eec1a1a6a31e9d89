package relationships

import (
	"time"

	"github.com/google/uuid"

	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
)

// RelationshipDTO is the transport shape of a relationship. For parent rows
// person1 is the parent of person2.
type RelationshipDTO struct {
	ID          uuid.UUID              `json:"id"`
	GenealogyID uuid.UUID              `json:"genealogy_id"`
	Person1ID   uuid.UUID              `json:"person1_id"`
	Person2ID   uuid.UUID              `json:"person2_id"`
	Type        enums.RelationshipType `json:"type"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// CreateRelationshipDTO holds the data required by the repo to persist a
// relationship. Endpoints are already normalized (legacy child input swapped).
type CreateRelationshipDTO struct {
	GenealogyID uuid.UUID
	Person1ID   uuid.UUID
	Person2ID   uuid.UUID
	Type        enums.RelationshipType
}

func FromModel(r *models.Relationship) *RelationshipDTO {
	if r == nil {
		return nil
	}
	return &RelationshipDTO{
		ID:          r.ID,
		GenealogyID: r.GenealogyID,
		Person1ID:   r.Person1ID,
		Person2ID:   r.Person2ID,
		Type:        r.Type,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromModels(rows []models.Relationship) []RelationshipDTO {
	dtos := make([]RelationshipDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}

func (c CreateRelationshipDTO) ToModel() *models.Relationship {
	return &models.Relationship{
		GenealogyID: c.GenealogyID,
		Person1ID:   c.Person1ID,
		Person2ID:   c.Person2ID,
		Type:        c.Type,
	}
}
