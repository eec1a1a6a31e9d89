package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rootline/rootline-backend/pkg/enums"
)

// Genealogy is a named family-tree container. OwnerID is immutable after
// creation and every write-permission check resolves against it.
type Genealogy struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string             `gorm:"type:text;not null"`
	Description *string            `gorm:"column:description"`
	OwnerID     uuid.UUID          `gorm:"column:owner_id;type:uuid;not null;index"`
	Privacy     enums.PrivacyLevel `gorm:"column:privacy;type:privacy_level;not null;default:'private'"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
