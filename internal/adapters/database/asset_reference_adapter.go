package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/repositories"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

var assetReferenceColumns = []any{
	"id", "entity_type", "entity_id", "role", "storage_key", "checksum", "size", "created_at",
}

// AssetReferenceAdapter implements AssetReferenceRepository
type AssetReferenceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAssetReferenceAdapter creates a new asset reference adapter
func NewAssetReferenceAdapter(client *postgres.Client) repositories.AssetReferenceRepository {
	return &AssetReferenceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Record stores ref. A re-upload to the same key replaces the previous row.
func (a *AssetReferenceAdapter) Record(ctx context.Context, ref *entities.AssetReference) error {
	if ref.CreatedAt.IsZero() {
		ref.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"id":          ref.ID,
		"entity_type": ref.EntityType,
		"entity_id":   ref.EntityID,
		"role":        ref.Role,
		"storage_key": ref.StorageKey,
		"checksum":    ref.Checksum,
		"size":        ref.Size,
		"created_at":  ref.CreatedAt,
	}

	query, args, err := a.db.Insert("asset_references").
		Rows(record).
		OnConflict(goqu.DoUpdate("storage_key", goqu.Record{
			"entity_type": goqu.L("EXCLUDED.entity_type"),
			"entity_id":   goqu.L("EXCLUDED.entity_id"),
			"role":        goqu.L("EXCLUDED.role"),
			"checksum":    goqu.L("EXCLUDED.checksum"),
			"size":        goqu.L("EXCLUDED.size"),
			"created_at":  goqu.L("EXCLUDED.created_at"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to record asset reference", err)
	}
	return nil
}

// ListByEntity returns references for one entity ordered by role
func (a *AssetReferenceAdapter) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entities.AssetReference, error) {
	query, args, err := a.db.Select(assetReferenceColumns...).
		From("asset_references").
		Where(goqu.Ex{"entity_type": entityType, "entity_id": entityID}).
		Order(goqu.C("role").Asc(), goqu.C("storage_key").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list asset references", err)
	}
	defer rows.Close()

	refs := []*entities.AssetReference{}
	for rows.Next() {
		r := &entities.AssetReference{}
		if err := rows.Scan(&r.ID, &r.EntityType, &r.EntityID, &r.Role, &r.StorageKey, &r.Checksum, &r.Size, &r.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan asset reference", err)
		}
		refs = append(refs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate asset references", err)
	}

	return refs, nil
}

// DeleteByKey removes references to a storage key. Missing rows are fine.
func (a *AssetReferenceAdapter) DeleteByKey(ctx context.Context, storageKey string) error {
	query, args, err := a.db.Delete("asset_references").
		Where(goqu.Ex{"storage_key": storageKey}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete asset references", err)
	}
	return nil
}
