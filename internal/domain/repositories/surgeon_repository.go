package repositories

import (
	"context"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

// SurgeonRepository defines the interface for surgeon data operations
type SurgeonRepository interface {
	// List returns every surgeon ordered by name
	List(ctx context.Context) ([]*entities.Surgeon, error)

	// GetBySurgeonID retrieves a surgeon by public slug
	GetBySurgeonID(ctx context.Context, surgeonID string) (*entities.Surgeon, error)

	// GetImages reads the images map and its version. ref matches either
	// the row id or the public surgeon_id
	GetImages(ctx context.Context, ref string) (*entities.SurgeonImages, error)

	// ReplaceImages writes the whole images map if the stored version still
	// equals expectedVersion, and returns the new version. A stale
	// expectedVersion yields a conflict error.
	ReplaceImages(ctx context.Context, id string, images map[string]string, expectedVersion int64) (int64, error)
}
