package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calibano/stockroom-backend/pkg/types"
)

type fakeEmbargoStore struct {
	deactivated   int64
	pruned        int64
	deactivateErr error
	pruneErr      error
	cutoffs       []types.Date
	pruneCalls    int
}

func (f *fakeEmbargoStore) DeactivateEmbargoedBefore(_ context.Context, cutoff types.Date) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.deactivated, f.deactivateErr
}

func (f *fakeEmbargoStore) PruneOrphanTags(context.Context) (int64, error) {
	f.pruneCalls++
	return f.pruned, f.pruneErr
}

func newEmbargoJob(t *testing.T, store *fakeEmbargoStore) *embargoExpiryJob {
	t.Helper()
	jobIface, err := NewEmbargoExpiryJob(EmbargoExpiryJobParams{
		Logger: cronTestLogger(),
		Orders: store,
	})
	if err != nil {
		t.Fatalf("NewEmbargoExpiryJob: %v", err)
	}
	job, ok := jobIface.(*embargoExpiryJob)
	if !ok {
		t.Fatalf("expected embargoExpiryJob, got %T", jobIface)
	}
	return job
}

func TestEmbargoExpiryJobUsesTodayAsCutoff(t *testing.T) {
	now := time.Date(2023, 6, 15, 9, 30, 0, 0, time.UTC)
	store := &fakeEmbargoStore{deactivated: 3, pruned: 1}
	job := newEmbargoJob(t, store)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.cutoffs) != 1 {
		t.Fatalf("expected 1 deactivation sweep, got %d", len(store.cutoffs))
	}
	want := types.NewDate(2023, time.June, 15)
	if !store.cutoffs[0].Equal(want) {
		t.Fatalf("unexpected cutoff: %s", store.cutoffs[0])
	}
	if store.pruneCalls != 1 {
		t.Fatalf("expected 1 prune sweep, got %d", store.pruneCalls)
	}
}

func TestEmbargoExpiryJobCombinesPhaseErrors(t *testing.T) {
	store := &fakeEmbargoStore{
		deactivateErr: errors.New("deactivate boom"),
		pruneErr:      errors.New("prune boom"),
	}
	job := newEmbargoJob(t, store)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected combined error")
	}
	if store.pruneCalls != 1 {
		t.Fatal("expected prune phase to run despite deactivation failure")
	}
}
