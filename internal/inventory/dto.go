package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/calibano/stockroom-backend/pkg/db/models"
	"github.com/calibano/stockroom-backend/pkg/types"
)

// CreateInput carries the fields accepted when creating an inventory item.
// Type, language, and tags are referenced by name and created on first use.
type CreateInput struct {
	Name     string                  `json:"name" validate:"required"`
	Type     string                  `json:"type" validate:"required"`
	Language string                  `json:"language" validate:"required"`
	Metadata types.InventoryMetadata `json:"metadata" validate:"required"`
	Tags     []string                `json:"tags"`
}

// UpdateInput carries the fields accepted on partial update. Nil means
// "leave unchanged".
type UpdateInput struct {
	Name     *string                  `json:"name,omitempty"`
	Type     *string                  `json:"type,omitempty"`
	Language *string                  `json:"language,omitempty"`
	Metadata *types.InventoryMetadata `json:"metadata,omitempty"`
	Tags     *[]string                `json:"tags,omitempty"`
	IsActive *bool                    `json:"is_active,omitempty"`
}

// Response is the API representation of an inventory item.
type Response struct {
	ID        uuid.UUID               `json:"id"`
	Name      string                  `json:"name"`
	Type      string                  `json:"type"`
	Language  string                  `json:"language"`
	Metadata  types.InventoryMetadata `json:"metadata"`
	Tags      []string                `json:"tags"`
	IsActive  bool                    `json:"is_active"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// LookupInput carries the payload for creating or renaming a lookup entry.
type LookupInput struct {
	Name string `json:"name" validate:"required"`
}

// LookupResponse is the API representation of a lookup entity.
type LookupResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// FromModel converts a loaded inventory record into its API shape.
func FromModel(item *models.Inventory) *Response {
	resp := &Response{
		ID:        item.ID,
		Name:      item.Name,
		Metadata:  item.Metadata,
		Tags:      make([]string, 0, len(item.Tags)),
		IsActive:  item.IsActive,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Type != nil {
		resp.Type = item.Type.Name
	}
	if item.Language != nil {
		resp.Language = item.Language.Name
	}
	for _, tag := range item.Tags {
		resp.Tags = append(resp.Tags, tag.Name)
	}
	return resp
}

// FromModels converts a slice of inventory records.
func FromModels(items []models.Inventory) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
