package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calibano/stockroom-backend/pkg/db"
	"github.com/calibano/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/calibano/stockroom-backend/pkg/errors"
	"github.com/calibano/stockroom-backend/pkg/pagination"
	"github.com/calibano/stockroom-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines inventory operations beyond raw persistence.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Response, error)
	Get(ctx context.Context, id uuid.UUID) (*Response, error)
	List(ctx context.Context, params pagination.Params) ([]Response, int64, error)
	ListCreatedAfter(ctx context.Context, cutoff types.Date, params pagination.Params) ([]Response, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Response, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListTypes(ctx context.Context) ([]LookupResponse, error)
	ListLanguages(ctx context.Context) ([]LookupResponse, error)
	ListTags(ctx context.Context) ([]LookupResponse, error)

	CreateLookup(ctx context.Context, kind LookupKind, input LookupInput) (*LookupResponse, error)
	GetLookup(ctx context.Context, kind LookupKind, id uuid.UUID) (*LookupResponse, error)
	UpdateLookup(ctx context.Context, kind LookupKind, id uuid.UUID, input LookupInput) (*LookupResponse, error)
	DeleteLookup(ctx context.Context, kind LookupKind, id uuid.UUID) error
}

type service struct {
	repo     Repository
	tx       txRunner
	validate *validator.Validate
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Response, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inventory payload").WithDetails(validationDetails(err))
	}

	var created *models.Inventory
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		typ, err := repo.GetOrCreateType(ctx, input.Type)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve inventory type")
		}
		lang, err := repo.GetOrCreateLanguage(ctx, input.Language)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve inventory language")
		}
		tags, err := repo.GetOrCreateTags(ctx, input.Tags)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve inventory tags")
		}

		item := &models.Inventory{
			ID:         uuid.New(),
			Name:       strings.TrimSpace(input.Name),
			TypeID:     typ.ID,
			LanguageID: lang.ID,
			Metadata:   input.Metadata,
			Tags:       tags,
			IsActive:   true,
		}
		created, err = repo.Create(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	return FromModel(item), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]Response, int64, error) {
	items, count, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	return FromModels(items), count, nil
}

func (s *service) ListCreatedAfter(ctx context.Context, cutoff types.Date, params pagination.Params) ([]Response, int64, error) {
	items, count, err := s.repo.ListCreatedAfter(ctx, cutoff, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory created after")
	}
	return FromModels(items), count, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Response, error) {
	if input.Metadata != nil {
		if err := s.validate.Struct(*input.Metadata); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inventory metadata").WithDetails(validationDetails(err))
		}
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
		}

		updates := map[string]any{}
		if input.Name != nil {
			updates["name"] = strings.TrimSpace(*input.Name)
		}
		if input.Type != nil {
			typ, err := repo.GetOrCreateType(ctx, *input.Type)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve inventory type")
			}
			updates["type_id"] = typ.ID
		}
		if input.Language != nil {
			lang, err := repo.GetOrCreateLanguage(ctx, *input.Language)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve inventory language")
			}
			updates["language_id"] = lang.ID
		}
		if input.Metadata != nil {
			updates["metadata"] = *input.Metadata
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if err := repo.Update(ctx, item.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory")
		}

		if input.Tags != nil {
			tags, err := repo.GetOrCreateTags(ctx, *input.Tags)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve inventory tags")
			}
			if err := repo.ReplaceTags(ctx, item, tags); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace inventory tags")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory")
	}
	return nil
}

func (s *service) ListTypes(ctx context.Context) ([]LookupResponse, error) {
	entities, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory types")
	}
	out := make([]LookupResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, LookupResponse{ID: e.ID, Name: e.Name})
	}
	return out, nil
}

func (s *service) ListLanguages(ctx context.Context) ([]LookupResponse, error) {
	entities, err := s.repo.ListLanguages(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory languages")
	}
	out := make([]LookupResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, LookupResponse{ID: e.ID, Name: e.Name})
	}
	return out, nil
}

func (s *service) ListTags(ctx context.Context) ([]LookupResponse, error) {
	entities, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory tags")
	}
	out := make([]LookupResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, LookupResponse{ID: e.ID, Name: e.Name})
	}
	return out, nil
}

func (s *service) CreateLookup(ctx context.Context, kind LookupKind, input LookupInput) (*LookupResponse, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid lookup payload").WithDetails(validationDetails(err))
	}

	entity, err := s.repo.CreateLookup(ctx, kind, input.Name)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("inventory %s name already in use", kind))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("create inventory %s", kind))
	}
	return &LookupResponse{ID: entity.ID, Name: entity.Name}, nil
}

func (s *service) GetLookup(ctx context.Context, kind LookupKind, id uuid.UUID) (*LookupResponse, error) {
	entity, err := s.repo.FindLookupByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("inventory %s not found", kind))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("load inventory %s", kind))
	}
	return &LookupResponse{ID: entity.ID, Name: entity.Name}, nil
}

func (s *service) UpdateLookup(ctx context.Context, kind LookupKind, id uuid.UUID, input LookupInput) (*LookupResponse, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid lookup payload").WithDetails(validationDetails(err))
	}

	if err := s.repo.RenameLookup(ctx, kind, id, input.Name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("inventory %s not found", kind))
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("inventory %s name already in use", kind))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("rename inventory %s", kind))
	}
	return s.GetLookup(ctx, kind, id)
}

func (s *service) DeleteLookup(ctx context.Context, kind LookupKind, id uuid.UUID) error {
	if err := s.repo.DeleteLookup(ctx, kind, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("inventory %s not found", kind))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("delete inventory %s", kind))
	}
	return nil
}

func validationDetails(err error) any {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err.Error()
	}
	fields := make(map[string]string, len(invalid))
	for _, fe := range invalid {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
