package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/calibano/stockroom-backend/pkg/db/models"
	"github.com/calibano/stockroom-backend/pkg/pagination"
	"github.com/calibano/stockroom-backend/pkg/types"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Inventory").
		Preload("Tags").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Order, int64, error) {
	params = params.Normalize()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Inventory").
		Preload("Tags").
		Order("start_date ASC, id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *repository) ListContainedBetween(ctx context.Context, start, embargo types.Date, params pagination.Params) ([]models.Order, int64, error) {
	params = params.Normalize()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("start_date >= ? AND embargo_date <= ?", start.Time(), embargo.Time()).
		Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err = r.db.WithContext(ctx).
		Preload("Inventory").
		Preload("Tags").
		Where("start_date >= ? AND embargo_date <= ?", start.Time(), embargo.Time()).
		Order("start_date ASC, id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *repository) ListByTag(ctx context.Context, tagName string, params pagination.Params) ([]models.Order, int64, error) {
	params = params.Normalize()

	join := r.db.WithContext(ctx).Model(&models.Order{}).
		Joins("JOIN order_tag_links ON order_tag_links.order_id = orders.id").
		Joins("JOIN order_tags ON order_tags.id = order_tag_links.order_tag_id").
		Where("order_tags.name = ?", tagName)

	var count int64
	if err := join.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Inventory").
		Preload("Tags").
		Joins("JOIN order_tag_links ON order_tag_links.order_id = orders.id").
		Joins("JOIN order_tags ON order_tags.id = order_tag_links.order_tag_id").
		Where("order_tags.name = ?", tagName).
		Order("orders.start_date ASC, orders.id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *repository) TagsOfOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderTag, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		// A missing order collapses to an empty tag set, not an error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.OrderTag{}, nil
		}
		return nil, err
	}
	if order.Tags == nil {
		return []models.OrderTag{}, nil
	}
	return order.Tags, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ReplaceTags(ctx context.Context, order *models.Order, tags []models.OrderTag) error {
	return r.db.WithContext(ctx).Model(order).Association("Tags").Replace(tags)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) GetOrCreateTags(ctx context.Context, names []string) ([]models.OrderTag, error) {
	out := make([]models.OrderTag, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		entity := models.OrderTag{ID: uuid.New(), Name: trimmed}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&entity).Error
		if err != nil {
			return nil, err
		}
		var tag models.OrderTag
		if err := r.db.WithContext(ctx).Where("name = ?", trimmed).First(&tag).Error; err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

func (r *repository) DeactivateEmbargoedBefore(ctx context.Context, cutoff types.Date) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("is_active = ? AND embargo_date < ?", true, cutoff.Time()).
		Update("is_active", false)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) ListAllTags(ctx context.Context) ([]models.OrderTag, error) {
	var out []models.OrderTag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) CreateTag(ctx context.Context, name string) (*models.OrderTag, error) {
	tag := models.OrderTag{ID: uuid.New(), Name: strings.TrimSpace(name)}
	if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *repository) PruneOrphanTags(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id NOT IN (?)", r.db.Table("order_tag_links").Select("order_tag_id")).
		Delete(&models.OrderTag{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
