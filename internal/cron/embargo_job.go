package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/calibano/stockroom-backend/pkg/logger"
	"github.com/calibano/stockroom-backend/pkg/types"
)

// embargoStore defines the order persistence operations the expiry job needs.
type embargoStore interface {
	DeactivateEmbargoedBefore(ctx context.Context, cutoff types.Date) (int64, error)
	PruneOrphanTags(ctx context.Context) (int64, error)
}

// EmbargoExpiryJobParams configure the embargo expiry scheduler.
type EmbargoExpiryJobParams struct {
	Logger *logger.Logger
	Orders embargoStore
}

// NewEmbargoExpiryJob builds the cron job that deactivates orders whose
// embargo window has closed and sweeps up tags nothing references.
func NewEmbargoExpiryJob(params EmbargoExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &embargoExpiryJob{
		logg:   params.Logger,
		orders: params.Orders,
		now:    time.Now,
	}, nil
}

type embargoExpiryJob struct {
	logg   *logger.Logger
	orders embargoStore
	now    func() time.Time
}

func (j *embargoExpiryJob) Name() string { return "embargo-expiry" }

func (j *embargoExpiryJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.deactivateExpired(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := j.pruneOrphanTags(ctx); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

func (j *embargoExpiryJob) deactivateExpired(ctx context.Context) error {
	cutoff := types.DateOf(j.now().UTC())
	count, err := j.orders.DeactivateEmbargoedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("deactivate expired orders: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count, "cutoff": cutoff.String()})
	j.logg.Info(logCtx, "embargo expiry sweep complete")
	return nil
}

func (j *embargoExpiryJob) pruneOrphanTags(ctx context.Context) error {
	count, err := j.orders.PruneOrphanTags(ctx)
	if err != nil {
		return fmt.Errorf("prune orphan tags: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
	j.logg.Info(logCtx, "orphan tag sweep complete")
	return nil
}
