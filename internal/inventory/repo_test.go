package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgdb "github.com/calibano/stockroom-backend/pkg/db"
	"github.com/calibano/stockroom-backend/pkg/db/models"
	"github.com/calibano/stockroom-backend/pkg/pagination"
	"github.com/calibano/stockroom-backend/pkg/types"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS inventory_types (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);`,
		`CREATE TABLE IF NOT EXISTS inventory_languages (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);`,
		`CREATE TABLE IF NOT EXISTS inventory_tags (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);`,
		`CREATE TABLE IF NOT EXISTS inventories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type_id TEXT NOT NULL,
  language_id TEXT NOT NULL,
  metadata TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS inventory_tag_links (
  inventory_id TEXT NOT NULL,
  inventory_tag_id TEXT NOT NULL,
  PRIMARY KEY (inventory_id, inventory_tag_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func testMetadata() types.InventoryMetadata {
	return types.InventoryMetadata{
		Year:                 1999,
		Actors:               []string{"Keanu Reeves", "Carrie-Anne Moss"},
		IMDBRating:           8.7,
		RottenTomatoesRating: 83,
	}
}

func newInventoryItem(t *testing.T, db *gorm.DB, name string, createdAt time.Time) *models.Inventory {
	t.Helper()

	repo := NewRepository(db)
	typ, err := repo.GetOrCreateType(context.Background(), "movie")
	require.NoError(t, err)
	lang, err := repo.GetOrCreateLanguage(context.Background(), "english")
	require.NoError(t, err)

	item := &models.Inventory{
		ID:         uuid.New(),
		Name:       name,
		TypeID:     typ.ID,
		LanguageID: lang.ID,
		Metadata:   testMetadata(),
		IsActive:   true,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestRepositoryListCreatedAfter(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	now := time.Now().UTC()

	newInventoryItem(t, db, "old release", now.AddDate(0, 0, -5))
	fresh := newInventoryItem(t, db, "fresh release", now)
	upcoming := newInventoryItem(t, db, "upcoming release", now.AddDate(0, 0, 5))

	items, count, err := repo.ListCreatedAfter(context.Background(), types.DateOf(now), pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, items, 2)
	assert.Equal(t, fresh.ID, items[0].ID)
	assert.Equal(t, upcoming.ID, items[1].ID)
}

func TestRepositoryListCreatedAfter_cutoffDayIncluded(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	created := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
	item := newInventoryItem(t, db, "boundary release", created)

	items, count, err := repo.ListCreatedAfter(context.Background(), types.NewDate(2023, time.April, 10), pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestRepositoryGetOrCreateTypeIdempotent(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	first, err := repo.GetOrCreateType(context.Background(), "series")
	require.NoError(t, err)
	second, err := repo.GetOrCreateType(context.Background(), "series")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := repo.ListTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepositoryGetOrCreateTagsSkipsBlanks(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	tags, err := repo.GetOrCreateTags(context.Background(), []string{"thriller", " ", "thriller", "noir"})
	require.NoError(t, err)
	require.Len(t, tags, 3)

	all, err := repo.ListTags(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryDeleteMissing(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindByIDLoadsAssociations(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	item := newInventoryItem(t, db, "tagged release", time.Now().UTC())
	tags, err := repo.GetOrCreateTags(context.Background(), []string{"cult", "classic"})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceTags(context.Background(), item, tags))

	loaded, err := repo.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Type)
	assert.Equal(t, "movie", loaded.Type.Name)
	require.NotNil(t, loaded.Language)
	assert.Equal(t, "english", loaded.Language.Name)
	assert.Len(t, loaded.Tags, 2)
}

func TestRepositoryLookupLifecycle(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	created, err := repo.CreateLookup(context.Background(), LookupType, " movie ")
	require.NoError(t, err)
	assert.Equal(t, "movie", created.Name)

	found, err := repo.FindLookupByID(context.Background(), LookupType, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "movie", found.Name)

	require.NoError(t, repo.RenameLookup(context.Background(), LookupType, created.ID, "film"))
	renamed, err := repo.FindLookupByID(context.Background(), LookupType, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "film", renamed.Name)

	require.NoError(t, repo.DeleteLookup(context.Background(), LookupType, created.ID))
	_, err = repo.FindLookupByID(context.Background(), LookupType, created.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateLookupDuplicateName(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	_, err := repo.CreateLookup(context.Background(), LookupTag, "classic")
	require.NoError(t, err)

	_, err = repo.CreateLookup(context.Background(), LookupTag, "classic")
	require.Error(t, err)
	assert.True(t, pkgdb.IsUniqueViolation(err, ""))
}

func TestRepositoryLookupMissingRows(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	require.ErrorIs(t, repo.RenameLookup(context.Background(), LookupLanguage, uuid.New(), "spanish"), gorm.ErrRecordNotFound)
	require.ErrorIs(t, repo.DeleteLookup(context.Background(), LookupLanguage, uuid.New()), gorm.ErrRecordNotFound)
}
