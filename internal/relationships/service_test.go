package relationships

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
)

const uuidDefault = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' || substr(lower(hex(randomblob(2))),2) || '-' || substr('89ab', 1 + (abs(random()) % 4), 1) || substr(lower(hex(randomblob(2))),2) || '-' || lower(hex(randomblob(6))))`

// personFinder and genealogyFinder satisfy the service's lookup interfaces
// without importing internal/persons, which would set up an import cycle.
type personFinder struct{ db *gorm.DB }

func (f personFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	var person models.Person
	if err := f.db.WithContext(ctx).First(&person, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

type genealogyFinder struct{ db *gorm.DB }

func (f genealogyFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Genealogy, error) {
	var genealogy models.Genealogy
	if err := f.db.WithContext(ctx).First(&genealogy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &genealogy, nil
}

func setupRelationshipsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	schema := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS genealogies (
  id TEXT PRIMARY KEY DEFAULT %[1]s,
  name TEXT NOT NULL,
  description TEXT,
  owner_id TEXT NOT NULL,
  privacy TEXT NOT NULL DEFAULT 'private',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS persons (
  id TEXT PRIMARY KEY DEFAULT %[1]s,
  genealogy_id TEXT NOT NULL,
  name TEXT NOT NULL,
  gender TEXT NOT NULL DEFAULT 'unknown',
  birth_date DATE,
  death_date DATE,
  birth_place TEXT,
  death_place TEXT,
  occupation TEXT,
  biography TEXT,
  photo_url TEXT,
  generation INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS relationships (
  id TEXT PRIMARY KEY DEFAULT %[1]s,
  genealogy_id TEXT NOT NULL,
  person1_id TEXT NOT NULL,
  person2_id TEXT NOT NULL,
  type TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, uuidDefault)

	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func newRelationshipsTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupRelationshipsTestDB(t)
	svc, err := NewService(NewRepository(conn), personFinder{db: conn}, genealogyFinder{db: conn})
	require.NoError(t, err)
	return svc, conn
}

func seedRelGenealogy(t *testing.T, conn *gorm.DB, ownerID uuid.UUID, privacy enums.PrivacyLevel) *models.Genealogy {
	t.Helper()
	genealogy := &models.Genealogy{
		ID:      uuid.New(),
		Name:    "Rel Tree",
		OwnerID: ownerID,
		Privacy: privacy,
	}
	require.NoError(t, conn.Create(genealogy).Error)
	return genealogy
}

func seedRelPerson(t *testing.T, conn *gorm.DB, genealogyID uuid.UUID, name string) *models.Person {
	t.Helper()
	person := &models.Person{
		ID:          uuid.New(),
		GenealogyID: genealogyID,
		Name:        name,
		Gender:      enums.GenderUnknown,
	}
	require.NoError(t, conn.Create(person).Error)
	return person
}

func TestRelationshipCreate(t *testing.T) {
	svc, conn := newRelationshipsTestService(t)
	ownerID := uuid.New()
	genealogy := seedRelGenealogy(t, conn, ownerID, enums.PrivacyPrivate)
	parent := seedRelPerson(t, conn, genealogy.ID, "Parent")
	child := seedRelPerson(t, conn, genealogy.ID, "Child")
	ctx := context.Background()

	dto, err := svc.Create(ctx, ownerID, CreateRelationshipInput{
		Person1ID: parent.ID,
		Person2ID: child.ID,
		Type:      "parent",
	})
	require.NoError(t, err)
	assert.Equal(t, genealogy.ID, dto.GenealogyID)
	assert.Equal(t, parent.ID, dto.Person1ID)
	assert.Equal(t, child.ID, dto.Person2ID)
	assert.Equal(t, enums.RelationshipParent, dto.Type)
}

func TestRelationshipCreateLegacyChildSwapsEndpoints(t *testing.T) {
	svc, conn := newRelationshipsTestService(t)
	ownerID := uuid.New()
	genealogy := seedRelGenealogy(t, conn, ownerID, enums.PrivacyPrivate)
	parent := seedRelPerson(t, conn, genealogy.ID, "Parent")
	child := seedRelPerson(t, conn, genealogy.ID, "Child")
	ctx := context.Background()

	// "child of" is stored as a parent row with the endpoints flipped.
	dto, err := svc.Create(ctx, ownerID, CreateRelationshipInput{
		Person1ID: child.ID,
		Person2ID: parent.ID,
		Type:      "child",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RelationshipParent, dto.Type)
	assert.Equal(t, parent.ID, dto.Person1ID)
	assert.Equal(t, child.ID, dto.Person2ID)
}

func TestRelationshipCreateValidation(t *testing.T) {
	svc, conn := newRelationshipsTestService(t)
	ownerID := uuid.New()
	genealogy := seedRelGenealogy(t, conn, ownerID, enums.PrivacyPrivate)
	person := seedRelPerson(t, conn, genealogy.ID, "Solo")
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID, CreateRelationshipInput{
		Person1ID: person.ID,
		Person2ID: uuid.New(),
		Type:      "cousin",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "invalid relationship type", typed.Message())

	_, err = svc.Create(ctx, ownerID, CreateRelationshipInput{
		Person1ID: person.ID,
		Person2ID: person.ID,
		Type:      "sibling",
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "a person cannot relate to themselves", typed.Message())

	_, err = svc.Create(ctx, ownerID, CreateRelationshipInput{
		Person1ID: person.ID,
		Person2ID: uuid.New(),
		Type:      "sibling",
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRelationshipCreateCrossGenealogy(t *testing.T) {
	svc, conn := newRelationshipsTestService(t)
	ownerID := uuid.New()
	first := seedRelGenealogy(t, conn, ownerID, enums.PrivacyPrivate)
	second := seedRelGenealogy(t, conn, ownerID, enums.PrivacyPrivate)
	a := seedRelPerson(t, conn, first.ID, "A")
	b := seedRelPerson(t, conn, second.ID, "B")

	_, err := svc.Create(context.Background(), ownerID, CreateRelationshipInput{
		Person1ID: a.ID,
		Person2ID: b.ID,
		Type:      "spouse",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "persons belong to different genealogies", typed.Message())
}

func TestRelationshipCreateDuplicateEitherOrdering(t *testing.T) {
	svc, conn := newRelationshipsTestService(t)
	ownerID := uuid.New()
	genealogy := seedRelGenealogy(t, conn, ownerID, enums.PrivacyPrivate)
	a := seedRelPerson(t, conn, genealogy.ID, "A")
	b := seedRelPerson(t, conn, genealogy.ID, "B")
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID, CreateRelationshipInput{
		Person1ID: a.ID,
		Person2ID: b.ID,
		Type:      "spouse",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, ownerID, CreateRelationshipInput{
		Person1ID: a.ID,
		Person2ID: b.ID,
		Type:      "sibling",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "relationship already exists", typed.Message())

	// The reversed pair is the same relationship.
	_, err = svc.Create(ctx, ownerID, CreateRelationshipInput{
		Person1ID: b.ID,
		Person2ID: a.ID,
		Type:      "spouse",
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRelationshipCreateOwnership(t *testing.T) {
	svc, conn := newRelationshipsTestService(t)
	ownerID := uuid.New()
	genealogy := seedRelGenealogy(t, conn, ownerID, enums.PrivacyPublic)
	a := seedRelPerson(t, conn, genealogy.ID, "A")
	b := seedRelPerson(t, conn, genealogy.ID, "B")

	_, err := svc.Create(context.Background(), uuid.New(), CreateRelationshipInput{
		Person1ID: a.ID,
		Person2ID: b.ID,
		Type:      "sibling",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestRelationshipListForPerson(t *testing.T) {
	svc, conn := newRelationshipsTestService(t)
	ownerID := uuid.New()
	genealogy := seedRelGenealogy(t, conn, ownerID, enums.PrivacyPrivate)
	center := seedRelPerson(t, conn, genealogy.ID, "Center")
	spouse := seedRelPerson(t, conn, genealogy.ID, "Spouse")
	child := seedRelPerson(t, conn, genealogy.ID, "Child")
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, conn.Create(&models.Relationship{
		ID:          uuid.New(),
		GenealogyID: genealogy.ID,
		Person1ID:   center.ID,
		Person2ID:   spouse.ID,
		Type:        enums.RelationshipSpouse,
		CreatedAt:   now.Add(-time.Minute),
	}).Error)
	require.NoError(t, conn.Create(&models.Relationship{
		ID:          uuid.New(),
		GenealogyID: genealogy.ID,
		Person1ID:   center.ID,
		Person2ID:   child.ID,
		Type:        enums.RelationshipParent,
		CreatedAt:   now,
	}).Error)
	require.NoError(t, conn.Create(&models.Relationship{
		ID:          uuid.New(),
		GenealogyID: genealogy.ID,
		Person1ID:   spouse.ID,
		Person2ID:   child.ID,
		Type:        enums.RelationshipParent,
		CreatedAt:   now,
	}).Error)

	rows, err := svc.ListForPerson(ctx, ownerID, center.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, enums.RelationshipSpouse, rows[0].Type)
	assert.Equal(t, enums.RelationshipParent, rows[1].Type)

	_, err = svc.ListForPerson(ctx, uuid.New(), center.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	_, err = svc.ListForPerson(ctx, ownerID, uuid.New())
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRelationshipDelete(t *testing.T) {
	svc, conn := newRelationshipsTestService(t)
	ownerID := uuid.New()
	genealogy := seedRelGenealogy(t, conn, ownerID, enums.PrivacyPrivate)
	a := seedRelPerson(t, conn, genealogy.ID, "A")
	b := seedRelPerson(t, conn, genealogy.ID, "B")
	ctx := context.Background()

	relationship := &models.Relationship{
		ID:          uuid.New(),
		GenealogyID: genealogy.ID,
		Person1ID:   a.ID,
		Person2ID:   b.ID,
		Type:        enums.RelationshipSibling,
	}
	require.NoError(t, conn.Create(relationship).Error)

	err := svc.Delete(ctx, uuid.New(), relationship.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	require.NoError(t, svc.Delete(ctx, ownerID, relationship.ID))

	err = svc.Delete(ctx, ownerID, relationship.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
