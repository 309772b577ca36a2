package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/calibano/stockroom-backend/pkg/db/models"
	"github.com/calibano/stockroom-backend/pkg/types"
)

// CreateInput carries the fields accepted when creating an order.
type CreateInput struct {
	InventoryID uuid.UUID  `json:"inventory_id" validate:"required"`
	StartDate   types.Date `json:"start_date" validate:"required"`
	EmbargoDate types.Date `json:"embargo_date" validate:"required"`
	Tags        []string   `json:"tags"`
}

// TagInput carries the payload for creating an order tag.
type TagInput struct {
	Name string `json:"name"`
}

// UpdateInput carries the fields accepted on partial update.
type UpdateInput struct {
	StartDate   *types.Date `json:"start_date,omitempty"`
	EmbargoDate *types.Date `json:"embargo_date,omitempty"`
	Tags        *[]string   `json:"tags,omitempty"`
}

// Response is the API representation of an order.
type Response struct {
	ID          uuid.UUID  `json:"id"`
	Token       uuid.UUID  `json:"token"`
	InventoryID uuid.UUID  `json:"inventory_id"`
	Inventory   string     `json:"inventory,omitempty"`
	StartDate   types.Date `json:"start_date"`
	EmbargoDate types.Date `json:"embargo_date"`
	IsActive    bool       `json:"is_active"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TagResponse is the API representation of an order tag.
type TagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// FromModel converts a loaded order record into its API shape.
func FromModel(order *models.Order) *Response {
	resp := &Response{
		ID:          order.ID,
		Token:       order.Token,
		InventoryID: order.InventoryID,
		StartDate:   order.StartDate,
		EmbargoDate: order.EmbargoDate,
		IsActive:    order.IsActive,
		Tags:        make([]string, 0, len(order.Tags)),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	if order.Inventory != nil {
		resp.Inventory = order.Inventory.Name
	}
	for _, tag := range order.Tags {
		resp.Tags = append(resp.Tags, tag.Name)
	}
	return resp
}

// FromModels converts a slice of order records.
func FromModels(orders []models.Order) []Response {
	out := make([]Response, 0, len(orders))
	for i := range orders {
		out = append(out, *FromModel(&orders[i]))
	}
	return out
}

// TagsFromModels converts order tag records.
func TagsFromModels(tags []models.OrderTag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		out = append(out, TagResponse{ID: tag.ID, Name: tag.Name})
	}
	return out
}
