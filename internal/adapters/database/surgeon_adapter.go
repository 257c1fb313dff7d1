package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/repositories"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

var surgeonColumns = []any{
	"id", "surgeon_id", "name", "title", "experience_years", "image_url",
	"specialties", "languages", "education", "certifications",
	"procedures_count", "bio", "images", "images_version", "translations",
	"created_at", "updated_at",
}

// SurgeonAdapter implements SurgeonRepository
type SurgeonAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSurgeonAdapter creates a new surgeon adapter
func NewSurgeonAdapter(client *postgres.Client) repositories.SurgeonRepository {
	return &SurgeonAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List returns every surgeon ordered by name
func (a *SurgeonAdapter) List(ctx context.Context) ([]*entities.Surgeon, error) {
	query, args, err := a.db.Select(surgeonColumns...).
		From("surgeons").
		Order(goqu.C("name").Asc(), goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list surgeons", err)
	}
	defer rows.Close()

	surgeons := []*entities.Surgeon{}
	for rows.Next() {
		s := &entities.Surgeon{}
		if err := scanSurgeon(rows, s); err != nil {
			return nil, apperrors.NewInternalError("failed to scan surgeon", err)
		}
		surgeons = append(surgeons, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate surgeons", err)
	}

	return surgeons, nil
}

// GetBySurgeonID retrieves a surgeon by public slug
func (a *SurgeonAdapter) GetBySurgeonID(ctx context.Context, surgeonID string) (*entities.Surgeon, error) {
	query, args, err := a.db.Select(surgeonColumns...).
		From("surgeons").
		Where(goqu.Ex{"surgeon_id": surgeonID}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	s := &entities.Surgeon{}
	err = scanSurgeon(a.client.DB().QueryRowContext(ctx, query, args...), s)
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError("Surgeon not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get surgeon", err)
	}

	return s, nil
}

// GetImages reads the images map and the version it was read at. ref may be
// the row id or the public surgeon_id.
func (a *SurgeonAdapter) GetImages(ctx context.Context, ref string) (*entities.SurgeonImages, error) {
	query, args, err := a.db.Select("id", "images", "images_version").
		From("surgeons").
		Where(goqu.Or(
			goqu.L(`"id"::text`).Eq(ref),
			goqu.C("surgeon_id").Eq(ref),
		)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	out := &entities.SurgeonImages{}
	var raw []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&out.ID, &raw, &out.Version)
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError("Surgeon not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get surgeon images", err)
	}

	out.Images = map[string]string{}
	if err := decodeJSON(raw, &out.Images); err != nil {
		return nil, apperrors.NewInternalError("failed to decode surgeon images", err)
	}

	return out, nil
}

// ReplaceImages is a compare-and-swap on images_version. Zero affected rows
// means another writer got there first.
func (a *SurgeonAdapter) ReplaceImages(ctx context.Context, id string, images map[string]string, expectedVersion int64) (int64, error) {
	encoded, err := json.Marshal(images)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to encode surgeon images", err)
	}

	next := expectedVersion + 1
	query, args, err := a.db.Update("surgeons").
		Set(goqu.Record{
			"images":         string(encoded),
			"images_version": next,
			"updated_at":     time.Now(),
		}).
		Where(goqu.Ex{"id": id, "images_version": expectedVersion}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to update surgeon images", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return 0, apperrors.NewConflictError(fmt.Sprintf("surgeon images changed since version %d; reload and retry", expectedVersion))
	}

	return next, nil
}

func scanSurgeon(row rowScanner, s *entities.Surgeon) error {
	var (
		imageURL                                   sql.NullString
		proceduresCount, bio, images, translations []byte
		specialties, languages, education, certs   pq.StringArray
	)
	err := row.Scan(
		&s.ID,
		&s.SurgeonID,
		&s.Name,
		&s.Title,
		&s.ExperienceYears,
		&imageURL,
		&specialties,
		&languages,
		&education,
		&certs,
		&proceduresCount,
		&bio,
		&images,
		&s.ImagesVersion,
		&translations,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.ImageURL = imageURL.String
	s.Specialties = []string(specialties)
	s.Languages = []string(languages)
	s.Education = []string(education)
	s.Certifications = []string(certs)

	if err := decodeJSON(proceduresCount, &s.ProceduresCount); err != nil {
		return fmt.Errorf("procedures_count: %w", err)
	}
	if err := decodeJSON(bio, &s.Bio); err != nil {
		return fmt.Errorf("bio: %w", err)
	}
	if err := decodeJSON(images, &s.Images); err != nil {
		return fmt.Errorf("images: %w", err)
	}
	if err := decodeJSON(translations, &s.Translations); err != nil {
		return fmt.Errorf("translations: %w", err)
	}
	return nil
}

// decodeJSON leaves dst untouched for NULL or empty columns.
func decodeJSON(raw []byte, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
