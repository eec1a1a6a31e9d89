package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rootline/rootline-backend/pkg/enums"
)

// Relationship links two persons of the same genealogy. GenealogyID is
// denormalized from person1 so list queries avoid a join. At most one row may
// exist per unordered (person1, person2) pair.
type Relationship struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GenealogyID uuid.UUID              `gorm:"column:genealogy_id;type:uuid;not null;index"`
	Person1ID   uuid.UUID              `gorm:"column:person1_id;type:uuid;not null;index"`
	Person2ID   uuid.UUID              `gorm:"column:person2_id;type:uuid;not null;index"`
	Type        enums.RelationshipType `gorm:"column:type;type:relationship_type;not null"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
