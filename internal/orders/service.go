package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calibano/stockroom-backend/pkg/db"
	"github.com/calibano/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/calibano/stockroom-backend/pkg/errors"
	"github.com/calibano/stockroom-backend/pkg/logger"
	"github.com/calibano/stockroom-backend/pkg/pagination"
	"github.com/calibano/stockroom-backend/pkg/types"
)

// InvalidRangeMessage is the error surfaced when a window query or write puts
// the start date after the embargo date.
const InvalidRangeMessage = "start_date must be before or equal to embargo_date"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order operations beyond raw persistence.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Response, error)
	Get(ctx context.Context, id uuid.UUID) (*Response, error)
	List(ctx context.Context, params pagination.Params) ([]Response, int64, error)
	ListContainedBetween(ctx context.Context, start, embargo types.Date, params pagination.Params) ([]Response, int64, error)
	ListByTag(ctx context.Context, tagName string, params pagination.Params) ([]Response, int64, error)
	TagsOfOrder(ctx context.Context, orderID uuid.UUID) ([]TagResponse, error)
	ListTags(ctx context.Context) ([]TagResponse, error)
	CreateTag(ctx context.Context, input TagInput) (*TagResponse, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Response, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, orderID uuid.UUID) (*Response, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo: repo,
		tx:   tx,
		logg: logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Response, error) {
	if input.InventoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory_id required")
	}
	if input.StartDate.IsZero() || input.EmbargoDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_date and embargo_date required")
	}
	if input.StartDate.After(input.EmbargoDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, InvalidRangeMessage)
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		tags, err := repo.GetOrCreateTags(ctx, input.Tags)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve order tags")
		}

		order := &models.Order{
			ID:          uuid.New(),
			Token:       uuid.New(),
			InventoryID: input.InventoryID,
			StartDate:   input.StartDate,
			EmbargoDate: input.EmbargoDate,
			IsActive:    true,
			Tags:        tags,
		}
		created, err = repo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]Response, int64, error) {
	orders, count, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return FromModels(orders), count, nil
}

func (s *service) ListContainedBetween(ctx context.Context, start, embargo types.Date, params pagination.Params) ([]Response, int64, error) {
	if start.After(embargo) {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, InvalidRangeMessage)
	}
	orders, count, err := s.repo.ListContainedBetween(ctx, start, embargo, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders between")
	}
	return FromModels(orders), count, nil
}

func (s *service) ListByTag(ctx context.Context, tagName string, params pagination.Params) ([]Response, int64, error) {
	// Unknown tags yield an empty page, never an error.
	orders, count, err := s.repo.ListByTag(ctx, tagName, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders by tag")
	}
	return FromModels(orders), count, nil
}

func (s *service) TagsOfOrder(ctx context.Context, orderID uuid.UUID) ([]TagResponse, error) {
	tags, err := s.repo.TagsOfOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order tags")
	}
	return TagsFromModels(tags), nil
}

func (s *service) ListTags(ctx context.Context) ([]TagResponse, error) {
	tags, err := s.repo.ListAllTags(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order tags")
	}
	return TagsFromModels(tags), nil
}

func (s *service) CreateTag(ctx context.Context, input TagInput) (*TagResponse, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	tag, err := s.repo.CreateTag(ctx, name)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order tag name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order tag")
	}
	return &TagResponse{ID: tag.ID, Name: tag.Name}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Response, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		start := order.StartDate
		embargo := order.EmbargoDate
		if input.StartDate != nil {
			start = *input.StartDate
		}
		if input.EmbargoDate != nil {
			embargo = *input.EmbargoDate
		}
		if start.After(embargo) {
			return pkgerrors.New(pkgerrors.CodeValidation, InvalidRangeMessage)
		}

		updates := map[string]any{}
		if input.StartDate != nil {
			updates["start_date"] = start
		}
		if input.EmbargoDate != nil {
			updates["embargo_date"] = embargo
		}
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		if input.Tags != nil {
			tags, err := repo.GetOrCreateTags(ctx, *input.Tags)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve order tags")
			}
			if err := repo.ReplaceTags(ctx, order, tags); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order tags")
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
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

// Deactivate flips an order to inactive exactly once under concurrent callers.
// The row lock serializes racers; the loser of the race observes is_active
// already false and no-ops. Repeating the call on an inactive order succeeds.
func (s *service) Deactivate(ctx context.Context, orderID uuid.UUID) (*Response, error) {
	ctx = s.logg.WithOrderID(ctx, orderID.String())

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logg.Warn(ctx, "order deactivation failed: order not found")
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}

		alreadyInactive := !order.IsActive
		if !alreadyInactive {
			if err := repo.Update(ctx, order.ID, map[string]any{"is_active": false}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate order")
			}
		}

		logCtx := s.logg.WithField(ctx, "already_inactive", alreadyInactive)
		s.logg.Info(logCtx, "order deactivated")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, orderID)
}
