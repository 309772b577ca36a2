package inventory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/calibano/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/calibano/stockroom-backend/pkg/errors"
	"github.com/calibano/stockroom-backend/pkg/pagination"
	"github.com/calibano/stockroom-backend/pkg/types"
)

type stubInventoryRepo struct {
	items     map[uuid.UUID]*models.Inventory
	types     map[string]*models.InventoryType
	languages map[string]*models.InventoryLanguage
	tags      map[string]*models.InventoryTag
	lookups   map[uuid.UUID]*LookupEntity
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{
		items:     map[uuid.UUID]*models.Inventory{},
		types:     map[string]*models.InventoryType{},
		languages: map[string]*models.InventoryLanguage{},
		tags:      map[string]*models.InventoryTag{},
		lookups:   map[uuid.UUID]*LookupEntity{},
	}
}

func (s *stubInventoryRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubInventoryRepo) Create(_ context.Context, item *models.Inventory) (*models.Inventory, error) {
	s.items[item.ID] = item
	return item, nil
}

func (s *stubInventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Inventory, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubInventoryRepo) List(context.Context, pagination.Params) ([]models.Inventory, int64, error) {
	out := make([]models.Inventory, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (s *stubInventoryRepo) ListCreatedAfter(context.Context, types.Date, pagination.Params) ([]models.Inventory, int64, error) {
	return nil, 0, nil
}

func (s *stubInventoryRepo) Update(_ context.Context, id uuid.UUID, updates map[string]any) error {
	item, ok := s.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		item.Name = name
	}
	if meta, ok := updates["metadata"].(types.InventoryMetadata); ok {
		item.Metadata = meta
	}
	if active, ok := updates["is_active"].(bool); ok {
		item.IsActive = active
	}
	return nil
}

func (s *stubInventoryRepo) ReplaceTags(_ context.Context, item *models.Inventory, tags []models.InventoryTag) error {
	stored, ok := s.items[item.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Tags = tags
	return nil
}

func (s *stubInventoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *stubInventoryRepo) GetOrCreateType(_ context.Context, name string) (*models.InventoryType, error) {
	key := strings.TrimSpace(name)
	if entity, ok := s.types[key]; ok {
		return entity, nil
	}
	entity := &models.InventoryType{ID: uuid.New(), Name: key}
	s.types[key] = entity
	return entity, nil
}

func (s *stubInventoryRepo) GetOrCreateLanguage(_ context.Context, name string) (*models.InventoryLanguage, error) {
	key := strings.TrimSpace(name)
	if entity, ok := s.languages[key]; ok {
		return entity, nil
	}
	entity := &models.InventoryLanguage{ID: uuid.New(), Name: key}
	s.languages[key] = entity
	return entity, nil
}

func (s *stubInventoryRepo) GetOrCreateTags(_ context.Context, names []string) ([]models.InventoryTag, error) {
	out := make([]models.InventoryTag, 0, len(names))
	for _, name := range names {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		entity, ok := s.tags[key]
		if !ok {
			entity = &models.InventoryTag{ID: uuid.New(), Name: key}
			s.tags[key] = entity
		}
		out = append(out, *entity)
	}
	return out, nil
}

func (s *stubInventoryRepo) ListTypes(context.Context) ([]models.InventoryType, error) {
	out := make([]models.InventoryType, 0, len(s.types))
	for _, entity := range s.types {
		out = append(out, *entity)
	}
	return out, nil
}

func (s *stubInventoryRepo) ListLanguages(context.Context) ([]models.InventoryLanguage, error) {
	out := make([]models.InventoryLanguage, 0, len(s.languages))
	for _, entity := range s.languages {
		out = append(out, *entity)
	}
	return out, nil
}

func (s *stubInventoryRepo) ListTags(context.Context) ([]models.InventoryTag, error) {
	out := make([]models.InventoryTag, 0, len(s.tags))
	for _, entity := range s.tags {
		out = append(out, *entity)
	}
	return out, nil
}

func (s *stubInventoryRepo) CreateLookup(_ context.Context, kind LookupKind, name string) (*LookupEntity, error) {
	trimmed := strings.TrimSpace(name)
	for _, entity := range s.lookups {
		if entity.Name == trimmed {
			return nil, errors.New("UNIQUE constraint failed: name")
		}
	}
	entity := &LookupEntity{ID: uuid.New(), Name: trimmed}
	s.lookups[entity.ID] = entity
	return entity, nil
}

func (s *stubInventoryRepo) FindLookupByID(_ context.Context, kind LookupKind, id uuid.UUID) (*LookupEntity, error) {
	entity, ok := s.lookups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entity, nil
}

func (s *stubInventoryRepo) RenameLookup(_ context.Context, kind LookupKind, id uuid.UUID, name string) error {
	entity, ok := s.lookups[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entity.Name = strings.TrimSpace(name)
	return nil
}

func (s *stubInventoryRepo) DeleteLookup(_ context.Context, kind LookupKind, id uuid.UUID) error {
	if _, ok := s.lookups[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.lookups, id)
	return nil
}

type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T) (Service, *stubInventoryRepo) {
	t.Helper()
	repo := newStubInventoryRepo()
	svc, err := NewService(repo, passthroughTxRunner{})
	require.NoError(t, err)
	return svc, repo
}

func TestServiceCreateResolvesLookupsByName(t *testing.T) {
	svc, repo := newTestService(t)

	resp, err := svc.Create(context.Background(), CreateInput{
		Name:     "The Matrix",
		Type:     "movie",
		Language: "english",
		Metadata: testMetadata(),
		Tags:     []string{"sci-fi", "cult"},
	})
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", resp.Name)
	assert.True(t, resp.IsActive)
	assert.Len(t, repo.types, 1)
	assert.Len(t, repo.languages, 1)
	assert.Len(t, repo.tags, 2)
}

func TestServiceCreateRejectsMissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Name: "No Type Or Language",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceCreateRejectsInvalidMetadata(t *testing.T) {
	svc, _ := newTestService(t)

	meta := testMetadata()
	meta.Year = 1500
	meta.Actors = nil
	_, err := svc.Create(context.Background(), CreateInput{
		Name:     "Ancient",
		Type:     "movie",
		Language: "english",
		Metadata: meta,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceUpdateRejectsInvalidMetadata(t *testing.T) {
	svc, repo := newTestService(t)

	created, err := svc.Create(context.Background(), CreateInput{
		Name:     "Valid",
		Type:     "movie",
		Language: "english",
		Metadata: testMetadata(),
	})
	require.NoError(t, err)

	bad := testMetadata()
	bad.IMDBRating = 42
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{Metadata: &bad})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	stored := repo.items[created.ID]
	assert.Equal(t, testMetadata(), stored.Metadata)
}

func TestServiceGetMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "inventory not found", typed.Message())
}

func TestServiceDeleteMissing(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceLookupLifecycle(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateLookup(context.Background(), LookupType, LookupInput{Name: " movie "})
	require.NoError(t, err)
	assert.Equal(t, "movie", created.Name)

	fetched, err := svc.GetLookup(context.Background(), LookupType, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	renamed, err := svc.UpdateLookup(context.Background(), LookupType, created.ID, LookupInput{Name: "film"})
	require.NoError(t, err)
	assert.Equal(t, "film", renamed.Name)

	require.NoError(t, svc.DeleteLookup(context.Background(), LookupType, created.ID))

	_, err = svc.GetLookup(context.Background(), LookupType, created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "inventory type not found", typed.Message())
}

func TestServiceCreateLookupRejectsDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateLookup(context.Background(), LookupLanguage, LookupInput{Name: "english"})
	require.NoError(t, err)

	_, err = svc.CreateLookup(context.Background(), LookupLanguage, LookupInput{Name: "english"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceCreateLookupRejectsBlankName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateLookup(context.Background(), LookupTag, LookupInput{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
