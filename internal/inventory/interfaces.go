package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calibano/stockroom-backend/pkg/db/models"
	"github.com/calibano/stockroom-backend/pkg/pagination"
	"github.com/calibano/stockroom-backend/pkg/types"
)

// LookupKind selects one of the inventory vocabularies.
type LookupKind string

const (
	LookupType     LookupKind = "type"
	LookupLanguage LookupKind = "language"
	LookupTag      LookupKind = "tag"
)

// LookupEntity is the shape shared by the type, language and tag vocabularies.
type LookupEntity struct {
	ID   uuid.UUID
	Name string
}

// Repository defines persistence operations for inventory and its lookup tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, item *models.Inventory) (*models.Inventory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Inventory, error)
	List(ctx context.Context, params pagination.Params) ([]models.Inventory, int64, error)
	ListCreatedAfter(ctx context.Context, cutoff types.Date, params pagination.Params) ([]models.Inventory, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ReplaceTags(ctx context.Context, item *models.Inventory, tags []models.InventoryTag) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetOrCreateType(ctx context.Context, name string) (*models.InventoryType, error)
	GetOrCreateLanguage(ctx context.Context, name string) (*models.InventoryLanguage, error)
	GetOrCreateTags(ctx context.Context, names []string) ([]models.InventoryTag, error)
	ListTypes(ctx context.Context) ([]models.InventoryType, error)
	ListLanguages(ctx context.Context) ([]models.InventoryLanguage, error)
	ListTags(ctx context.Context) ([]models.InventoryTag, error)

	CreateLookup(ctx context.Context, kind LookupKind, name string) (*LookupEntity, error)
	FindLookupByID(ctx context.Context, kind LookupKind, id uuid.UUID) (*LookupEntity, error)
	RenameLookup(ctx context.Context, kind LookupKind, id uuid.UUID, name string) error
	DeleteLookup(ctx context.Context, kind LookupKind, id uuid.UUID) error
}
