package repositories

import (
	"context"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

// ProcedureRepository defines the interface for procedure data operations
type ProcedureRepository interface {
	// Create inserts a procedure and its ID
	Create(ctx context.Context, procedure *entities.Procedure) error

	// GetBySlug retrieves a procedure by exact slug
	GetBySlug(ctx context.Context, slug string) (*entities.Procedure, error)

	// GetByDisplayName retrieves a procedure by exact display name
	GetByDisplayName(ctx context.Context, name string) (*entities.Procedure, error)

	// FindByNamePrefix returns procedures whose display name starts with
	// prefix, case-insensitively, ordered by display name then id
	FindByNamePrefix(ctx context.Context, prefix string, limit int) ([]*entities.Procedure, error)

	// List retrieves procedures with filters
	List(ctx context.Context, filter ProcedureFilter) ([]*entities.Procedure, error)

	// Children loads every child collection of a procedure for one language,
	// each ordered by sort_order
	Children(ctx context.Context, procedureID, languageCode string) (*entities.ProcedureChildren, error)
}

// ProcedureFilter defines filters for listing procedures
type ProcedureFilter struct {
	Category entities.Category
	Limit    int
	Offset   int
}

// ProcedureContentWriter persists the per-language content of a procedure.
// It is only used by the importer.
type ProcedureContentWriter interface {
	// InsertContent adds content rows to a freshly created procedure
	InsertContent(ctx context.Context, procedureID string, content *entities.ProcedureChildren) error

	// ReplaceContent swaps every child row of one language atomically
	ReplaceContent(ctx context.Context, procedureID, languageCode string, content *entities.ProcedureChildren) error
}
