package repositories

import (
	"context"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

// ProcedureCaseRepository defines the interface for before/after cases
type ProcedureCaseRepository interface {
	// ListByProcedure returns the cases of a procedure ordered by sort_order
	ListByProcedure(ctx context.Context, procedureID string) ([]*entities.ProcedureCase, error)

	// Upsert inserts or replaces the case keyed by (procedure_id, case_number)
	// and returns the stored row
	Upsert(ctx context.Context, c *entities.ProcedureCase) (*entities.ProcedureCase, error)

	// Delete removes the case keyed by (procedure_id, case_number)
	Delete(ctx context.Context, procedureID, caseNumber string) error
}
