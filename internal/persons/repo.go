package persons

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/pagination"
)

// Repository exposes person persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a persons repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new person and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreatePersonDTO) (*models.Person, error) {
	person := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(person).Error; err != nil {
		return nil, err
	}
	return person, nil
}

// FindByID loads a person by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).First(&person, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

// ListByGenealogy returns the genealogy's persons ordered by generation then
// name. Generation-less persons sort last.
func (r *Repository) ListByGenealogy(ctx context.Context, genealogyID uuid.UUID, limit int) ([]models.Person, error) {
	query := r.db.WithContext(ctx).
		Where("genealogy_id = ?", genealogyID).
		Order("generation ASC NULLS LAST").
		Order("name ASC").
		Order("id ASC").
		Limit(pagination.NormalizeLimit(limit))

	var rows []models.Person
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the mutable person fields.
func (r *Repository) Update(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).
		Model(&models.Person{}).
		Where("id = ?", person.ID).
		Updates(map[string]any{
			"name":        person.Name,
			"gender":      person.Gender,
			"birth_date":  person.BirthDate,
			"death_date":  person.DeathDate,
			"birth_place": person.BirthPlace,
			"death_place": person.DeathPlace,
			"occupation":  person.Occupation,
			"biography":   person.Biography,
			"photo_url":   person.PhotoURL,
			"generation":  person.Generation,
		}).Error
}

// Delete removes the person row. Relationship and event cascades are
// orchestrated by the service inside a transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Person{}, "id = ?", id).Error
}

// DeleteByGenealogy removes every person belonging to the genealogy.
func (r *Repository) DeleteByGenealogy(ctx context.Context, genealogyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("genealogy_id = ?", genealogyID).
		Delete(&models.Person{}).Error
}
