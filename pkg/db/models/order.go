package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calibano/stockroom-backend/pkg/types"
)

// Order is a distribution window cut from one inventory item. Token is the
// opaque identifier handed to external parties; ID stays internal.
type Order struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Token       uuid.UUID  `gorm:"column:token;type:uuid;not null;uniqueIndex:idx_orders_token" json:"token"`
	InventoryID uuid.UUID  `gorm:"column:inventory_id;type:uuid;not null" json:"inventory_id"`
	Inventory   *Inventory `gorm:"foreignKey:InventoryID" json:"inventory,omitempty"`
	StartDate   types.Date `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EmbargoDate types.Date `gorm:"column:embargo_date;type:date;not null" json:"embargo_date"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Tags        []OrderTag `gorm:"many2many:order_tag_links" json:"tags"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// OrderTag classifies orders; separate vocabulary from inventory tags.
type OrderTag struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;uniqueIndex:idx_order_tags_name" json:"name"`
}
