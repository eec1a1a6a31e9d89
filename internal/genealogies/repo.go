package genealogies

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
	"github.com/rootline/rootline-backend/pkg/pagination"
)

// Repository exposes genealogy persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a genealogies repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new genealogy and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateGenealogyDTO) (*models.Genealogy, error) {
	genealogy := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(genealogy).Error; err != nil {
		return nil, err
	}
	return genealogy, nil
}

// FindByID loads a genealogy by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Genealogy, error) {
	var genealogy models.Genealogy
	if err := r.db.WithContext(ctx).First(&genealogy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &genealogy, nil
}

// ListVisible returns the genealogies the user owns plus every public one,
// each annotated with its person count. Results are keyset-paginated on
// (created_at, id) descending.
func (r *Repository) ListVisible(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]GenealogyWithCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Genealogy{}).
		Select("genealogies.*, (SELECT count(*) FROM persons WHERE persons.genealogy_id = genealogies.id) AS person_count").
		Where("owner_id = ? OR privacy = ?", userID, enums.PrivacyPublic).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []GenealogyWithCount
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the mutable genealogy fields.
func (r *Repository) Update(ctx context.Context, genealogy *models.Genealogy) error {
	return r.db.WithContext(ctx).
		Model(&models.Genealogy{}).
		Where("id = ?", genealogy.ID).
		Updates(map[string]any{
			"name":        genealogy.Name,
			"description": genealogy.Description,
			"privacy":     genealogy.Privacy,
		}).Error
}

// Delete removes the genealogy row. Cascades are orchestrated by the service
// inside a transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Genealogy{}, "id = ?", id).Error
}

// CountPersons returns how many persons belong to the genealogy.
func (r *Repository) CountPersons(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Person{}).
		Where("genealogy_id = ?", id).
		Count(&count).Error
	return count, err
}
