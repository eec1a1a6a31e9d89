package events

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rootline/rootline-backend/pkg/db/models"
)

// Repository exposes person-event persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an events repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new event and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateEventDTO) (*models.PersonEvent, error) {
	event := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// FindByID loads an event by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PersonEvent, error) {
	var event models.PersonEvent
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByPerson returns the person's events ordered by event date then creation.
func (r *Repository) ListByPerson(ctx context.Context, personID uuid.UUID) ([]models.PersonEvent, error) {
	var rows []models.PersonEvent
	err := r.db.WithContext(ctx).
		Where("person_id = ?", personID).
		Order("event_date ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the mutable event fields.
func (r *Repository) Update(ctx context.Context, event *models.PersonEvent) error {
	return r.db.WithContext(ctx).
		Model(&models.PersonEvent{}).
		Where("id = ?", event.ID).
		Updates(map[string]any{
			"type":        event.Type,
			"event_date":  event.EventDate,
			"place":       event.Place,
			"description": event.Description,
		}).Error
}

// Delete removes the event row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PersonEvent{}, "id = ?", id).Error
}

// DeleteByPerson removes every event belonging to the person.
func (r *Repository) DeleteByPerson(ctx context.Context, personID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("person_id = ?", personID).
		Delete(&models.PersonEvent{}).Error
}

// DeleteByGenealogy removes every event whose person belongs to the genealogy.
func (r *Repository) DeleteByGenealogy(ctx context.Context, genealogyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("person_id IN (?)", r.db.Model(&models.Person{}).Select("id").Where("genealogy_id = ?", genealogyID)).
		Delete(&models.PersonEvent{}).Error
}
