package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calibano/stockroom-backend/pkg/types"
)

// Inventory is the catalog entity orders are cut from.
type Inventory struct {
	ID         uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string                  `gorm:"column:name;not null" json:"name"`
	TypeID     uuid.UUID               `gorm:"column:type_id;type:uuid;not null" json:"type_id"`
	Type       *InventoryType          `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	LanguageID uuid.UUID               `gorm:"column:language_id;type:uuid;not null" json:"language_id"`
	Language   *InventoryLanguage      `gorm:"foreignKey:LanguageID" json:"language,omitempty"`
	Metadata   types.InventoryMetadata `gorm:"column:metadata;type:jsonb;not null" json:"metadata"`
	Tags       []InventoryTag          `gorm:"many2many:inventory_tag_links" json:"tags"`
	IsActive   bool                    `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt  time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// InventoryType is a lookup entity with a unique name (movie, series, ...).
type InventoryType struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;uniqueIndex:idx_inventory_types_name" json:"name"`
}

// InventoryLanguage is a lookup entity with a unique name.
type InventoryLanguage struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;uniqueIndex:idx_inventory_languages_name" json:"name"`
}

// InventoryTag classifies inventory items; its vocabulary is independent from
// order tags.
type InventoryTag struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;uniqueIndex:idx_inventory_tags_name" json:"name"`
}
