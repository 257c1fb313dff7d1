package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medoraclinic/medora-site/backend/internal/application/services"
	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/providers"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

// inMemoryCaseRepository keeps one row per (procedure_id, case_number)
type inMemoryCaseRepository struct {
	mu   sync.Mutex
	rows map[[2]string]*entities.ProcedureCase
}

func newInMemoryCaseRepository() *inMemoryCaseRepository {
	return &inMemoryCaseRepository{rows: make(map[[2]string]*entities.ProcedureCase)}
}

func (r *inMemoryCaseRepository) ListByProcedure(ctx context.Context, procedureID string) ([]*entities.ProcedureCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ProcedureCase
	for key, c := range r.rows {
		if key[0] == procedureID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *inMemoryCaseRepository) Upsert(ctx context.Context, c *entities.ProcedureCase) (*entities.ProcedureCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{c.ProcedureID, c.CaseNumber}
	stored := *c
	if existing, ok := r.rows[key]; ok {
		stored.ID = existing.ID
	}
	r.rows[key] = &stored
	cp := stored
	return &cp, nil
}

func (r *inMemoryCaseRepository) Delete(ctx context.Context, procedureID, caseNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, [2]string{procedureID, caseNumber})
	return nil
}

func intPtr(v int) *int { return &v }

func TestCaseService_Upsert_AppliesDefaults(t *testing.T) {
	procedures := new(MockProcedureRepository)
	cases := new(MockCaseRepository)
	service := services.NewCaseService(procedures, cases, nil)

	procedures.On("GetBySlug", mock.Anything, "facelift").Return(&entities.Procedure{ID: "p1"}, nil)
	cases.On("Upsert", mock.Anything, mock.MatchedBy(func(c *entities.ProcedureCase) bool {
		return c.ProcedureID == "p1" &&
			c.CaseNumber == "7" &&
			c.ProviderName == entities.DefaultProviderName &&
			c.ImageCount == entities.DefaultCaseImageCount &&
			c.SortOrder == 0 &&
			c.Description == "" &&
			c.ID != ""
	})).Return(&entities.ProcedureCase{ID: "c1", ProcedureID: "p1", CaseNumber: "7"}, nil)

	saved, err := service.Upsert(context.Background(), services.CaseInput{Slug: "facelift", CaseNumber: "7"})

	require.NoError(t, err)
	assert.Equal(t, "c1", saved.ID)
	cases.AssertExpectations(t)
}

func TestCaseService_Upsert_ImageCountIsAdvisory(t *testing.T) {
	tests := []struct {
		given int
		want  int
	}{
		{given: 0, want: entities.DefaultCaseImageCount},
		{given: -1, want: entities.DefaultCaseImageCount},
		{given: 1, want: 1},
		{given: 4, want: 4},
		{given: 5, want: 5},
		{given: 6, want: 6},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("image_count=%d", tt.given), func(t *testing.T) {
			procedures := new(MockProcedureRepository)
			cases := new(MockCaseRepository)
			service := services.NewCaseService(procedures, cases, nil)

			procedures.On("GetBySlug", mock.Anything, "facelift").Return(&entities.Procedure{ID: "p1"}, nil)
			cases.On("Upsert", mock.Anything, mock.MatchedBy(func(c *entities.ProcedureCase) bool {
				return c.ImageCount == tt.want
			})).Return(&entities.ProcedureCase{ID: "c1", ImageCount: tt.want}, nil)

			saved, err := service.Upsert(context.Background(), services.CaseInput{
				Slug:       "facelift",
				CaseNumber: "1",
				ImageCount: intPtr(tt.given),
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, saved.ImageCount)
			cases.AssertExpectations(t)
		})
	}
}

func TestCaseService_Upsert_Validation(t *testing.T) {
	procedures := new(MockProcedureRepository)
	service := services.NewCaseService(procedures, new(MockCaseRepository), nil)

	_, err := service.Upsert(context.Background(), services.CaseInput{Slug: "facelift"})
	require.Error(t, err)
	requireAppError(t, err, apperrors.ErrorTypeValidation, "Slug and case_number are required")

	procedures.AssertNotCalled(t, "GetBySlug", mock.Anything, mock.Anything)
}

func TestCaseService_Upsert_UnknownSlug(t *testing.T) {
	procedures := new(MockProcedureRepository)
	cases := new(MockCaseRepository)
	service := services.NewCaseService(procedures, cases, nil)

	procedures.On("GetBySlug", mock.Anything, "nope").Return(nil, apperrors.NewNotFoundError("procedure not found"))

	_, err := service.Upsert(context.Background(), services.CaseInput{Slug: "nope", CaseNumber: "1"})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	requireAppError(t, err, apperrors.ErrorTypeNotFound, "Procedure not found")
	cases.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCaseService_DoubleUpsertKeepsOneRowWithLatestDescription(t *testing.T) {
	procedures := new(MockProcedureRepository)
	repo := newInMemoryCaseRepository()
	service := services.NewCaseService(procedures, repo, nil)

	procedures.On("GetBySlug", mock.Anything, "facelift").Return(&entities.Procedure{ID: "p1"}, nil)

	first, err := service.Upsert(context.Background(), services.CaseInput{Slug: "facelift", CaseNumber: "3", Description: "before"})
	require.NoError(t, err)
	second, err := service.Upsert(context.Background(), services.CaseInput{Slug: "facelift", CaseNumber: "3", Description: "after"})
	require.NoError(t, err)

	list, err := service.CasesBySlug(context.Background(), "facelift")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "after", list[0].Description)
	assert.Equal(t, first.ID, second.ID)
}

func TestCaseService_CasesBySlug_UnknownSlugIsEmpty(t *testing.T) {
	procedures := new(MockProcedureRepository)
	service := services.NewCaseService(procedures, new(MockCaseRepository), nil)

	procedures.On("GetBySlug", mock.Anything, "ghost").Return(nil, apperrors.NewNotFoundError("procedure not found"))

	list, err := service.CasesBySlug(context.Background(), "ghost")

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCaseService_Delete_MissingCaseSucceeds(t *testing.T) {
	procedures := new(MockProcedureRepository)
	service := services.NewCaseService(procedures, newInMemoryCaseRepository(), nil)

	procedures.On("GetBySlug", mock.Anything, "facelift").Return(&entities.Procedure{ID: "p1"}, nil)

	require.NoError(t, service.Delete(context.Background(), "facelift", "404"))
	require.NoError(t, service.Delete(context.Background(), "facelift", "404"))
}

func TestCaseService_Delete_InvalidatesCachedRoutes(t *testing.T) {
	procedures := new(MockProcedureRepository)
	cases := new(MockCaseRepository)
	cache := new(MockCacheProvider)
	service := services.NewCaseService(procedures, cases, services.NewCacheInvalidationService(cache))

	procedures.On("GetBySlug", mock.Anything, "facelift").Return(&entities.Procedure{ID: "p1"}, nil)
	cases.On("Delete", mock.Anything, "p1", "4").Return(nil)
	cache.On("DeletePattern", mock.Anything, providers.ResponseCachePattern("/api/cases")).Return(nil)
	cache.On("DeletePattern", mock.Anything, providers.ResponseCachePattern("/api/procedures")).Return(nil)

	err := service.Delete(context.Background(), "facelift", "4")

	require.NoError(t, err)
	cache.AssertExpectations(t)
}
