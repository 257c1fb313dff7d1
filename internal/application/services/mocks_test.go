package services_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/providers"
	"github.com/medoraclinic/medora-site/backend/internal/domain/repositories"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

// MockProcedureRepository mocks the procedure repository and content writer
type MockProcedureRepository struct {
	mock.Mock
}

func (m *MockProcedureRepository) Create(ctx context.Context, procedure *entities.Procedure) error {
	args := m.Called(ctx, procedure)
	return args.Error(0)
}

func (m *MockProcedureRepository) GetBySlug(ctx context.Context, slug string) (*entities.Procedure, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Procedure), args.Error(1)
}

func (m *MockProcedureRepository) GetByDisplayName(ctx context.Context, name string) (*entities.Procedure, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Procedure), args.Error(1)
}

func (m *MockProcedureRepository) FindByNamePrefix(ctx context.Context, prefix string, limit int) ([]*entities.Procedure, error) {
	args := m.Called(ctx, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Procedure), args.Error(1)
}

func (m *MockProcedureRepository) List(ctx context.Context, filter repositories.ProcedureFilter) ([]*entities.Procedure, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Procedure), args.Error(1)
}

func (m *MockProcedureRepository) Children(ctx context.Context, procedureID, languageCode string) (*entities.ProcedureChildren, error) {
	args := m.Called(ctx, procedureID, languageCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProcedureChildren), args.Error(1)
}

func (m *MockProcedureRepository) InsertContent(ctx context.Context, procedureID string, content *entities.ProcedureChildren) error {
	args := m.Called(ctx, procedureID, content)
	return args.Error(0)
}

func (m *MockProcedureRepository) ReplaceContent(ctx context.Context, procedureID, languageCode string, content *entities.ProcedureChildren) error {
	args := m.Called(ctx, procedureID, languageCode, content)
	return args.Error(0)
}

// MockCaseRepository mocks the procedure case repository
type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) ListByProcedure(ctx context.Context, procedureID string) ([]*entities.ProcedureCase, error) {
	args := m.Called(ctx, procedureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ProcedureCase), args.Error(1)
}

func (m *MockCaseRepository) Upsert(ctx context.Context, c *entities.ProcedureCase) (*entities.ProcedureCase, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProcedureCase), args.Error(1)
}

func (m *MockCaseRepository) Delete(ctx context.Context, procedureID, caseNumber string) error {
	args := m.Called(ctx, procedureID, caseNumber)
	return args.Error(0)
}

// MockSurgeonRepository mocks the surgeon repository
type MockSurgeonRepository struct {
	mock.Mock
}

func (m *MockSurgeonRepository) List(ctx context.Context) ([]*entities.Surgeon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Surgeon), args.Error(1)
}

func (m *MockSurgeonRepository) GetBySurgeonID(ctx context.Context, surgeonID string) (*entities.Surgeon, error) {
	args := m.Called(ctx, surgeonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Surgeon), args.Error(1)
}

func (m *MockSurgeonRepository) GetImages(ctx context.Context, ref string) (*entities.SurgeonImages, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SurgeonImages), args.Error(1)
}

func (m *MockSurgeonRepository) ReplaceImages(ctx context.Context, id string, images map[string]string, expectedVersion int64) (int64, error) {
	args := m.Called(ctx, id, images, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}

// MockObjectStorage mocks the image bucket
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, key string, body io.Reader, size int64, opts providers.PutOptions) (string, error) {
	args := m.Called(ctx, key, body, size, opts)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) List(ctx context.Context, prefix string) ([]entities.StoredObject, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.StoredObject), args.Error(1)
}

func (m *MockObjectStorage) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// MockAssetReferenceRepository mocks the asset reference repository
type MockAssetReferenceRepository struct {
	mock.Mock
}

func (m *MockAssetReferenceRepository) Record(ctx context.Context, ref *entities.AssetReference) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *MockAssetReferenceRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entities.AssetReference, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AssetReference), args.Error(1)
}

func (m *MockAssetReferenceRepository) DeleteByKey(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

// MockCacheProvider mocks the response cache
type MockCacheProvider struct {
	mock.Mock
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	args := m.Called(ctx, key, value, expirationSeconds)
	return args.Error(0)
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheProvider) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

// requireAppError checks the classified type and caller-facing message of err
func requireAppError(t *testing.T, err error, want apperrors.ErrorType, message string) {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected *AppError, got %v", err)
	assert.Equal(t, want, appErr.Type)
	assert.Equal(t, message, appErr.Message)
}
