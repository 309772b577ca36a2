package inventory

import (
	"context"
	"fmt"
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

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.Inventory) (*models.Inventory, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	var item models.Inventory
	err := r.db.WithContext(ctx).
		Preload("Type").
		Preload("Language").
		Preload("Tags").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Inventory, int64, error) {
	params = params.Normalize()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Inventory{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Inventory
	err := r.db.WithContext(ctx).
		Preload("Type").
		Preload("Language").
		Preload("Tags").
		Order("created_at ASC, id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *repository) ListCreatedAfter(ctx context.Context, cutoff types.Date, params pagination.Params) ([]models.Inventory, int64, error) {
	params = params.Normalize()
	base := r.db.WithContext(ctx).Model(&models.Inventory{}).
		Where("created_at >= ?", cutoff.Time())

	var count int64
	if err := base.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Inventory
	err := r.db.WithContext(ctx).
		Preload("Type").
		Preload("Language").
		Preload("Tags").
		Where("created_at >= ?", cutoff.Time()).
		Order("created_at ASC, id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ReplaceTags(ctx context.Context, item *models.Inventory, tags []models.InventoryTag) error {
	return r.db.WithContext(ctx).Model(item).Association("Tags").Replace(tags)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Inventory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) GetOrCreateType(ctx context.Context, name string) (*models.InventoryType, error) {
	entity := models.InventoryType{ID: uuid.New(), Name: strings.TrimSpace(name)}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&entity).Error
	if err != nil {
		return nil, err
	}
	var out models.InventoryType
	if err := r.db.WithContext(ctx).Where("name = ?", entity.Name).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repository) GetOrCreateLanguage(ctx context.Context, name string) (*models.InventoryLanguage, error) {
	entity := models.InventoryLanguage{ID: uuid.New(), Name: strings.TrimSpace(name)}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&entity).Error
	if err != nil {
		return nil, err
	}
	var out models.InventoryLanguage
	if err := r.db.WithContext(ctx).Where("name = ?", entity.Name).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repository) GetOrCreateTags(ctx context.Context, names []string) ([]models.InventoryTag, error) {
	out := make([]models.InventoryTag, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		entity := models.InventoryTag{ID: uuid.New(), Name: trimmed}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&entity).Error
		if err != nil {
			return nil, err
		}
		var tag models.InventoryTag
		if err := r.db.WithContext(ctx).Where("name = ?", trimmed).First(&tag).Error; err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

func (r *repository) ListTypes(ctx context.Context) ([]models.InventoryType, error) {
	var out []models.InventoryType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListLanguages(ctx context.Context) ([]models.InventoryLanguage, error) {
	var out []models.InventoryLanguage
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListTags(ctx context.Context) ([]models.InventoryTag, error) {
	var out []models.InventoryTag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func lookupModel(kind LookupKind) (any, error) {
	switch kind {
	case LookupType:
		return &models.InventoryType{}, nil
	case LookupLanguage:
		return &models.InventoryLanguage{}, nil
	case LookupTag:
		return &models.InventoryTag{}, nil
	default:
		return nil, fmt.Errorf("unknown lookup kind %q", kind)
	}
}

func (r *repository) CreateLookup(ctx context.Context, kind LookupKind, name string) (*LookupEntity, error) {
	entity := LookupEntity{ID: uuid.New(), Name: strings.TrimSpace(name)}

	var err error
	switch kind {
	case LookupType:
		err = r.db.WithContext(ctx).Create(&models.InventoryType{ID: entity.ID, Name: entity.Name}).Error
	case LookupLanguage:
		err = r.db.WithContext(ctx).Create(&models.InventoryLanguage{ID: entity.ID, Name: entity.Name}).Error
	case LookupTag:
		err = r.db.WithContext(ctx).Create(&models.InventoryTag{ID: entity.ID, Name: entity.Name}).Error
	default:
		return nil, fmt.Errorf("unknown lookup kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *repository) FindLookupByID(ctx context.Context, kind LookupKind, id uuid.UUID) (*LookupEntity, error) {
	switch kind {
	case LookupType:
		var e models.InventoryType
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
			return nil, err
		}
		return &LookupEntity{ID: e.ID, Name: e.Name}, nil
	case LookupLanguage:
		var e models.InventoryLanguage
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
			return nil, err
		}
		return &LookupEntity{ID: e.ID, Name: e.Name}, nil
	case LookupTag:
		var e models.InventoryTag
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
			return nil, err
		}
		return &LookupEntity{ID: e.ID, Name: e.Name}, nil
	default:
		return nil, fmt.Errorf("unknown lookup kind %q", kind)
	}
}

func (r *repository) RenameLookup(ctx context.Context, kind LookupKind, id uuid.UUID, name string) error {
	model, err := lookupModel(kind)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("name", strings.TrimSpace(name))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteLookup(ctx context.Context, kind LookupKind, id uuid.UUID) error {
	model, err := lookupModel(kind)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
