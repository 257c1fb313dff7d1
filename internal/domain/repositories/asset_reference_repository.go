package repositories

import (
	"context"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

// AssetReferenceRepository tracks which entity an uploaded object belongs to
type AssetReferenceRepository interface {
	// Record stores a reference, replacing any previous row for the same key
	Record(ctx context.Context, ref *entities.AssetReference) error

	// ListByEntity returns references for one entity ordered by role
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entities.AssetReference, error)

	// DeleteByKey removes references to a storage key
	DeleteByKey(ctx context.Context, storageKey string) error
}
