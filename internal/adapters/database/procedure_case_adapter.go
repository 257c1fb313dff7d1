package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/rs/zerolog/log"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/repositories"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

var caseColumns = []any{
	"id", "procedure_id", "case_number", "description", "provider_name",
	"patient_age", "patient_gender", "image_count", "sort_order", "created_at", "updated_at",
}

// ProcedureCaseAdapter implements ProcedureCaseRepository
type ProcedureCaseAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProcedureCaseAdapter creates a new procedure case adapter
func NewProcedureCaseAdapter(client *postgres.Client) repositories.ProcedureCaseRepository {
	return &ProcedureCaseAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListByProcedure returns the cases of a procedure ordered by sort_order
func (a *ProcedureCaseAdapter) ListByProcedure(ctx context.Context, procedureID string) ([]*entities.ProcedureCase, error) {
	query, args, err := a.db.Select(caseColumns...).
		From("procedure_cases").
		Where(goqu.Ex{"procedure_id": procedureID}).
		Order(goqu.C("sort_order").Asc(), goqu.C("case_number").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list procedure cases", err)
	}
	defer rows.Close()

	cases := []*entities.ProcedureCase{}
	for rows.Next() {
		c := &entities.ProcedureCase{}
		if err := scanCase(rows, c); err != nil {
			return nil, apperrors.NewInternalError("failed to scan procedure case", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate procedure cases", err)
	}

	return cases, nil
}

// Upsert inserts the case or overwrites the row with the same
// (procedure_id, case_number). The database resolves concurrent upserts, so
// the last writer wins and exactly one row remains.
func (a *ProcedureCaseAdapter) Upsert(ctx context.Context, c *entities.ProcedureCase) (*entities.ProcedureCase, error) {
	now := time.Now()

	record := goqu.Record{
		"id":             c.ID,
		"procedure_id":   c.ProcedureID,
		"case_number":    c.CaseNumber,
		"description":    c.Description,
		"provider_name":  c.ProviderName,
		"patient_age":    nullInt(c.PatientAge),
		"patient_gender": nullString(c.PatientGender),
		"image_count":    c.ImageCount,
		"sort_order":     c.SortOrder,
		"created_at":     now,
		"updated_at":     now,
	}

	update := goqu.Record{
		"description":    goqu.L("EXCLUDED.description"),
		"provider_name":  goqu.L("EXCLUDED.provider_name"),
		"patient_age":    goqu.L("EXCLUDED.patient_age"),
		"patient_gender": goqu.L("EXCLUDED.patient_gender"),
		"image_count":    goqu.L("EXCLUDED.image_count"),
		"sort_order":     goqu.L("EXCLUDED.sort_order"),
		"updated_at":     goqu.L("EXCLUDED.updated_at"),
	}

	query, args, err := a.db.Insert("procedure_cases").
		Rows(record).
		OnConflict(goqu.DoUpdate("procedure_id, case_number", update)).
		Returning(caseColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build upsert query", err)
	}

	stored := &entities.ProcedureCase{}
	if err := scanCase(a.client.DB().QueryRowContext(ctx, query, args...), stored); err != nil {
		return nil, apperrors.NewInternalError("failed to save procedure case", err)
	}

	return stored, nil
}

// Delete removes the case keyed by (procedure_id, case_number). Deleting a
// case that does not exist succeeds.
func (a *ProcedureCaseAdapter) Delete(ctx context.Context, procedureID, caseNumber string) error {
	query, args, err := a.db.Delete("procedure_cases").
		Where(goqu.Ex{"procedure_id": procedureID, "case_number": caseNumber}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete procedure case", err)
	}

	if rowsAffected, err := result.RowsAffected(); err == nil && rowsAffected == 0 {
		log.Debug().Str("procedure_id", procedureID).Str("case_number", caseNumber).Msg("case already absent")
	}

	return nil
}

func scanCase(row rowScanner, c *entities.ProcedureCase) error {
	var (
		description, provider, gender sql.NullString
		age                           sql.NullInt64
	)
	err := row.Scan(
		&c.ID,
		&c.ProcedureID,
		&c.CaseNumber,
		&description,
		&provider,
		&age,
		&gender,
		&c.ImageCount,
		&c.SortOrder,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return err
	}

	c.Description = description.String
	c.ProviderName = provider.String
	if age.Valid {
		v := int(age.Int64)
		c.PatientAge = &v
	}
	if gender.Valid {
		c.PatientGender = &gender.String
	}
	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil || *v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

// isNoRows keeps the sql.ErrNoRows check in one place for adapters that map
// it to a typed not-found error.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
