package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calibano/stockroom-backend/pkg/db/models"
	"github.com/calibano/stockroom-backend/pkg/pagination"
	"github.com/calibano/stockroom-backend/pkg/types"
)

// Repository defines persistence operations for orders and their tags.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// FindByIDForUpdate loads the order under a row-exclusive lock. Callers
	// must hold an open transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params) ([]models.Order, int64, error)
	// ListContainedBetween returns orders whose whole [start_date, embargo_date]
	// window lies inside [start, embargo]. Containment, not overlap.
	ListContainedBetween(ctx context.Context, start, embargo types.Date, params pagination.Params) ([]models.Order, int64, error)
	ListByTag(ctx context.Context, tagName string, params pagination.Params) ([]models.Order, int64, error)
	TagsOfOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderTag, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ReplaceTags(ctx context.Context, order *models.Order, tags []models.OrderTag) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetOrCreateTags(ctx context.Context, names []string) ([]models.OrderTag, error)
	ListAllTags(ctx context.Context) ([]models.OrderTag, error)
	CreateTag(ctx context.Context, name string) (*models.OrderTag, error)
	// DeactivateEmbargoedBefore flips is_active off for every active order whose
	// embargo date has passed. Returns the number of rows touched.
	DeactivateEmbargoedBefore(ctx context.Context, cutoff types.Date) (int64, error)
	// PruneOrphanTags removes tags no order references anymore.
	PruneOrphanTags(ctx context.Context) (int64, error)
}
