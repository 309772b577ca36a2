package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/calibano/stockroom-backend/pkg/db/models"
	pkgdb "github.com/calibano/stockroom-backend/pkg/db"
	"github.com/calibano/stockroom-backend/pkg/pagination"
	"github.com/calibano/stockroom-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	inventories := `
CREATE TABLE IF NOT EXISTS inventories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type_id TEXT NOT NULL,
  language_id TEXT NOT NULL,
  metadata TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  token TEXT NOT NULL UNIQUE,
  inventory_id TEXT NOT NULL,
  start_date DATE NOT NULL,
  embargo_date DATE NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderTags := `
CREATE TABLE IF NOT EXISTS order_tags (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);`
	orderTagLinks := `
CREATE TABLE IF NOT EXISTS order_tag_links (
  order_id TEXT NOT NULL,
  order_tag_id TEXT NOT NULL,
  PRIMARY KEY (order_id, order_tag_id)
);`
	require.NoError(t, db.Exec(inventories).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderTags).Error)
	require.NoError(t, db.Exec(orderTagLinks).Error)
	return db
}

func newInventory(t *testing.T, db *gorm.DB, name string) *models.Inventory {
	t.Helper()

	item := &models.Inventory{
		ID:         uuid.New(),
		Name:       name,
		TypeID:     uuid.New(),
		LanguageID: uuid.New(),
		Metadata:   types.InventoryMetadata{Year: 2001},
		IsActive:   true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func newOrder(t *testing.T, db *gorm.DB, inventoryID uuid.UUID, start, embargo types.Date, active bool, tags ...string) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:          uuid.New(),
		Token:       uuid.New(),
		InventoryID: inventoryID,
		StartDate:   start,
		EmbargoDate: embargo,
		IsActive:    active,
	}
	require.NoError(t, db.Create(order).Error)
	if !active {
		// Zero-valued fields with a column default are omitted on insert.
		require.NoError(t, db.Model(order).Update("is_active", false).Error)
	}

	for _, name := range tags {
		// Look up with a zero-valued struct: a primed primary key would end up
		// in the WHERE clause and the existing row would never match.
		var tag models.OrderTag
		err := db.Where("name = ?", name).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = models.OrderTag{ID: uuid.New(), Name: name}
			require.NoError(t, db.Create(&tag).Error)
		} else {
			require.NoError(t, err)
		}
		require.NoError(t, db.Model(order).Association("Tags").Append(&tag))
	}
	return order
}

func day(month time.Month, d int) types.Date {
	return types.NewDate(2023, month, d)
}

func TestRepositoryListContainedBetween(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	inv := newInventory(t, db, "January Catalog")

	january := newOrder(t, db, inv.ID, day(time.January, 1), day(time.January, 31), true)
	newOrder(t, db, inv.ID, day(time.February, 1), day(time.February, 28), true)
	newOrder(t, db, inv.ID, day(time.March, 1), day(time.March, 31), true)
	newOrder(t, db, inv.ID, day(time.January, 15), day(time.February, 15), true)
	single := newOrder(t, db, inv.ID, day(time.January, 1), day(time.January, 1), true)

	list, count, err := repo.ListContainedBetween(context.Background(), day(time.January, 1), day(time.January, 31), pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, list, 2)

	got := []uuid.UUID{list[0].ID, list[1].ID}
	assert.Contains(t, got, january.ID)
	assert.Contains(t, got, single.ID)
}

func TestRepositoryListContainedBetween_exactMatchIncluded(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	inv := newInventory(t, db, "Single Day")

	point := day(time.June, 10)
	order := newOrder(t, db, inv.ID, point, point, true)

	list, count, err := repo.ListContainedBetween(context.Background(), point, point, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)
}

func TestRepositoryListByTag(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	inv := newInventory(t, db, "Tagged Catalog")

	first := newOrder(t, db, inv.ID, day(time.January, 1), day(time.January, 31), true, "priority")
	second := newOrder(t, db, inv.ID, day(time.February, 1), day(time.February, 28), true, "priority", "backlog")
	newOrder(t, db, inv.ID, day(time.March, 1), day(time.March, 31), true, "backlog")

	list, count, err := repo.ListByTag(context.Background(), "priority", pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, list, 2)
	ids := []uuid.UUID{list[0].ID, list[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)

	empty, count, err := repo.ListByTag(context.Background(), "no-such-tag", pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, empty)

	// Orders sharing a tag name must reuse one row, not insert duplicates.
	var priorityRows int64
	require.NoError(t, db.Model(&models.OrderTag{}).Where("name = ?", "priority").Count(&priorityRows).Error)
	assert.Equal(t, int64(1), priorityRows)
}

func TestRepositoryTagsOfOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	inv := newInventory(t, db, "Tag Lookup")

	order := newOrder(t, db, inv.ID, day(time.April, 1), day(time.April, 30), true, "spring", "festival")

	tags, err := repo.TagsOfOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	names := []string{tags[0].Name, tags[1].Name}
	assert.Contains(t, names, "spring")
	assert.Contains(t, names, "festival")
}

func TestRepositoryTagsOfOrder_missingOrderIsEmpty(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	tags, err := repo.TagsOfOrder(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}

func TestRepositoryDeactivateEmbargoedBefore(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	inv := newInventory(t, db, "Expiry Sweep")

	expired := newOrder(t, db, inv.ID, day(time.January, 1), day(time.January, 31), true)
	alreadyInactive := newOrder(t, db, inv.ID, day(time.February, 1), day(time.February, 28), false)
	current := newOrder(t, db, inv.ID, day(time.June, 1), day(time.December, 31), true)

	touched, err := repo.DeactivateEmbargoedBefore(context.Background(), day(time.May, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), touched)

	reloaded, err := repo.FindByID(context.Background(), expired.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	inactive, err := repo.FindByID(context.Background(), alreadyInactive.ID)
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)

	active, err := repo.FindByID(context.Background(), current.ID)
	require.NoError(t, err)
	assert.True(t, active.IsActive)
}

func TestRepositoryListPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	inv := newInventory(t, db, "Paged Catalog")

	for i := 0; i < 15; i++ {
		newOrder(t, db, inv.ID, day(time.January, 1+i), day(time.December, 1), true)
	}

	first, count, err := repo.List(context.Background(), pagination.Params{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(15), count)
	assert.Len(t, first, pagination.DefaultPageSize)

	second, count, err := repo.List(context.Background(), pagination.Params{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(15), count)
	assert.Len(t, second, 5)
}

func TestRepositoryPruneOrphanTags(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	inv := newInventory(t, db, "Tag Sweep")

	newOrder(t, db, inv.ID, day(time.March, 1), day(time.March, 31), true, "keep-me")
	orphan := models.OrderTag{ID: uuid.New(), Name: "orphaned"}
	require.NoError(t, db.Create(&orphan).Error)

	pruned, err := repo.PruneOrphanTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	var remaining []models.OrderTag
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "keep-me", remaining[0].Name)
}

func TestRepositoryCreateTagAndListAll(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.CreateTag(context.Background(), "rush")
	require.NoError(t, err)
	_, err = repo.CreateTag(context.Background(), "backorder")
	require.NoError(t, err)

	tags, err := repo.ListAllTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "backorder", tags[0].Name)
	assert.Equal(t, "rush", tags[1].Name)
}

func TestRepositoryCreateTagDuplicateName(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.CreateTag(context.Background(), "rush")
	require.NoError(t, err)

	_, err = repo.CreateTag(context.Background(), "rush")
	require.Error(t, err)
	assert.True(t, pkgdb.IsUniqueViolation(err, ""))
}
