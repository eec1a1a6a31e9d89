package relationships

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rootline/rootline-backend/pkg/db/models"
)

// Repository exposes relationship persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a relationships repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new relationship and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateRelationshipDTO) (*models.Relationship, error) {
	relationship := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(relationship).Error; err != nil {
		return nil, err
	}
	return relationship, nil
}

// FindByID loads a relationship by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Relationship, error) {
	var relationship models.Relationship
	if err := r.db.WithContext(ctx).First(&relationship, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &relationship, nil
}

// FindByPair returns the relationship between the two persons in either
// ordering, or gorm.ErrRecordNotFound.
func (r *Repository) FindByPair(ctx context.Context, a, b uuid.UUID) (*models.Relationship, error) {
	var relationship models.Relationship
	err := r.db.WithContext(ctx).
		Where("(person1_id = ? AND person2_id = ?) OR (person1_id = ? AND person2_id = ?)", a, b, b, a).
		First(&relationship).Error
	if err != nil {
		return nil, err
	}
	return &relationship, nil
}

// ListByPerson returns every relationship naming the person in either column.
func (r *Repository) ListByPerson(ctx context.Context, personID uuid.UUID) ([]models.Relationship, error) {
	var rows []models.Relationship
	err := r.db.WithContext(ctx).
		Where("person1_id = ? OR person2_id = ?", personID, personID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the relationship row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Relationship{}, "id = ?", id).Error
}

// DeleteByPerson removes every relationship naming the person in either column.
func (r *Repository) DeleteByPerson(ctx context.Context, personID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("person1_id = ? OR person2_id = ?", personID, personID).
		Delete(&models.Relationship{}).Error
}

// DeleteByGenealogy removes every relationship belonging to the genealogy.
func (r *Repository) DeleteByGenealogy(ctx context.Context, genealogyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("genealogy_id = ?", genealogyID).
		Delete(&models.Relationship{}).Error
}
