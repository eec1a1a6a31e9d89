package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rootline/rootline-backend/pkg/enums"
)

// Person is an individual record belonging to exactly one genealogy.
// GenealogyID is immutable after creation.
type Person struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GenealogyID uuid.UUID    `gorm:"column:genealogy_id;type:uuid;not null;index"`
	Name        string       `gorm:"type:text;not null"`
	Gender      enums.Gender `gorm:"column:gender;type:gender;not null;default:'unknown'"`
	BirthDate   *time.Time   `gorm:"column:birth_date;type:date"`
	DeathDate   *time.Time   `gorm:"column:death_date;type:date"`
	BirthPlace  *string      `gorm:"column:birth_place"`
	DeathPlace  *string      `gorm:"column:death_place"`
	Occupation  *string      `gorm:"column:occupation"`
	Biography   *string      `gorm:"column:biography;type:text"`
	PhotoURL    *string      `gorm:"column:photo_url"`
	// Generation is only used for display layout; it carries no integrity rule.
	Generation *int      `gorm:"column:generation"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table to "persons"; the default naming strategy would
// pluralize to "people".
func (Person) TableName() string {
	return "persons"
}

// PersonEvent is a dated life event attached to one person.
type PersonEvent struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PersonID    uuid.UUID       `gorm:"column:person_id;type:uuid;not null;index"`
	Type        enums.EventType `gorm:"column:type;type:event_type;not null"`
	EventDate   *time.Time      `gorm:"column:event_date;type:date"`
	Place       *string         `gorm:"column:place"`
	Description *string         `gorm:"column:description;type:text"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
