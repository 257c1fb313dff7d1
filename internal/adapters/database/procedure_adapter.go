package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/repositories"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

const uniqueViolation = "23505"

var procedureColumns = []any{"id", "procedure_name", "slug", "category", "created_at", "updated_at"}

// ProcedureAdapter implements ProcedureRepository and ProcedureContentWriter
type ProcedureAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProcedureAdapter creates a new procedure adapter
func NewProcedureAdapter(client *postgres.Client) *ProcedureAdapter {
	return &ProcedureAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var (
	_ repositories.ProcedureRepository    = (*ProcedureAdapter)(nil)
	_ repositories.ProcedureContentWriter = (*ProcedureAdapter)(nil)
)

// Create inserts a procedure. A duplicate slug or name is a conflict.
func (a *ProcedureAdapter) Create(ctx context.Context, procedure *entities.Procedure) error {
	now := time.Now()
	if procedure.CreatedAt.IsZero() {
		procedure.CreatedAt = now
	}
	procedure.UpdatedAt = now

	record := goqu.Record{
		"id":             procedure.ID,
		"procedure_name": procedure.DisplayName,
		"slug":           procedure.Slug,
		"category":       string(procedure.Category),
		"created_at":     procedure.CreatedAt,
		"updated_at":     procedure.UpdatedAt,
	}

	query, args, err := a.db.Insert("procedures").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("procedure %q or slug %q already exists", procedure.DisplayName, procedure.Slug))
		}
		return apperrors.NewInternalError("failed to create procedure", err)
	}

	return nil
}

// GetBySlug retrieves a procedure by exact slug
func (a *ProcedureAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Procedure, error) {
	return a.getByField(ctx, "slug", slug)
}

// GetByDisplayName retrieves a procedure by exact display name
func (a *ProcedureAdapter) GetByDisplayName(ctx context.Context, name string) (*entities.Procedure, error) {
	return a.getByField(ctx, "procedure_name", name)
}

func (a *ProcedureAdapter) getByField(ctx context.Context, field, value string) (*entities.Procedure, error) {
	query, args, err := a.db.Select(procedureColumns...).
		From("procedures").
		Where(goqu.Ex{field: value}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	procedure := &entities.Procedure{}
	err = scanProcedure(a.client.DB().QueryRowContext(ctx, query, args...), procedure)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("procedure with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get procedure", err)
	}

	return procedure, nil
}

// FindByNamePrefix matches procedure_name ILIKE prefix%, ordered by name then
// id so equal inputs always resolve to the same row.
func (a *ProcedureAdapter) FindByNamePrefix(ctx context.Context, prefix string, limit int) ([]*entities.Procedure, error) {
	pattern := escapeLike(prefix) + "%"
	ds := a.db.Select(procedureColumns...).
		From("procedures").
		Where(goqu.C("procedure_name").ILike(pattern)).
		Order(goqu.C("procedure_name").Asc(), goqu.C("id").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	return a.queryProcedures(ctx, ds)
}

// List retrieves procedures with filters, ordered by name
func (a *ProcedureAdapter) List(ctx context.Context, filter repositories.ProcedureFilter) ([]*entities.Procedure, error) {
	ds := a.db.Select(procedureColumns...).
		From("procedures").
		Order(goqu.C("procedure_name").Asc(), goqu.C("id").Asc())

	if filter.Category != "" {
		ds = ds.Where(goqu.Ex{"category": string(filter.Category)})
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	return a.queryProcedures(ctx, ds)
}

func (a *ProcedureAdapter) queryProcedures(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Procedure, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list procedures", err)
	}
	defer rows.Close()

	procedures := []*entities.Procedure{}
	for rows.Next() {
		procedure := &entities.Procedure{}
		if err := scanProcedure(rows, procedure); err != nil {
			return nil, apperrors.NewInternalError("failed to scan procedure", err)
		}
		procedures = append(procedures, procedure)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate procedures", err)
	}

	return procedures, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProcedure(row rowScanner, p *entities.Procedure) error {
	var category string
	if err := row.Scan(&p.ID, &p.DisplayName, &p.Slug, &category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}
	p.Category = entities.Category(category)
	return nil
}

// Children loads the nine child collections of a procedure for one language.
// The queries run concurrently on the pool; any failure fails the whole load.
func (a *ProcedureAdapter) Children(ctx context.Context, procedureID, languageCode string) (*entities.ProcedureChildren, error) {
	c := &entities.ProcedureChildren{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		c.Translations, err = queryChild(gctx, a, "procedure_translations",
			[]any{"id", "procedure_id", "language_code", "overview", "anesthesia", "procedure_description"},
			procedureID, languageCode, false,
			func(r rowScanner) (entities.ProcedureTranslation, error) {
				var t entities.ProcedureTranslation
				var overview, anesthesia, description sql.NullString
				err := r.Scan(&t.ID, &t.ProcedureID, &t.LanguageCode, &overview, &anesthesia, &description)
				t.Overview, t.Anesthesia, t.ProcedureDescription = overview.String, anesthesia.String, description.String
				return t, err
			})
		return err
	})
	g.Go(func() (err error) {
		c.Recovery, err = queryChild(gctx, a, "procedure_recovery",
			[]any{"id", "procedure_id", "language_code", "recovery_time", "ready_to_go_out", "resume_exercise", "final_results"},
			procedureID, languageCode, false,
			func(r rowScanner) (entities.ProcedureRecovery, error) {
				var v entities.ProcedureRecovery
				var rt, out, ex, fin sql.NullString
				err := r.Scan(&v.ID, &v.ProcedureID, &v.LanguageCode, &rt, &out, &ex, &fin)
				v.RecoveryTime, v.ReadyToGoOut, v.ResumeExercise, v.FinalResults = rt.String, out.String, ex.String, fin.String
				return v, err
			})
		return err
	})
	g.Go(func() (err error) {
		c.Benefits, err = queryChild(gctx, a, "procedure_benefits",
			[]any{"id", "procedure_id", "language_code", "benefit_text", "sort_order"},
			procedureID, languageCode, true,
			func(r rowScanner) (entities.ProcedureBenefit, error) {
				var v entities.ProcedureBenefit
				return v, r.Scan(&v.ID, &v.ProcedureID, &v.LanguageCode, &v.BenefitText, &v.SortOrder)
			})
		return err
	})
	g.Go(func() (err error) {
		c.Candidacy, err = queryChild(gctx, a, "procedure_candidacy",
			[]any{"id", "procedure_id", "language_code", "candidacy_text", "sort_order"},
			procedureID, languageCode, true,
			func(r rowScanner) (entities.ProcedureCandidacy, error) {
				var v entities.ProcedureCandidacy
				return v, r.Scan(&v.ID, &v.ProcedureID, &v.LanguageCode, &v.CandidacyText, &v.SortOrder)
			})
		return err
	})
	g.Go(func() (err error) {
		c.Techniques, err = queryChild(gctx, a, "procedure_techniques",
			[]any{"id", "procedure_id", "language_code", "technique_name", "description", "sort_order"},
			procedureID, languageCode, true,
			func(r rowScanner) (entities.ProcedureTechnique, error) {
				var v entities.ProcedureTechnique
				var desc sql.NullString
				err := r.Scan(&v.ID, &v.ProcedureID, &v.LanguageCode, &v.TechniqueName, &desc, &v.SortOrder)
				v.Description = desc.String
				return v, err
			})
		return err
	})
	g.Go(func() (err error) {
		c.Timeline, err = queryChild(gctx, a, "procedure_recovery_timeline",
			[]any{"id", "procedure_id", "language_code", "timepoint", "guidance", "sort_order"},
			procedureID, languageCode, true,
			func(r rowScanner) (entities.RecoveryTimelineEntry, error) {
				var v entities.RecoveryTimelineEntry
				return v, r.Scan(&v.ID, &v.ProcedureID, &v.LanguageCode, &v.Timepoint, &v.Guidance, &v.SortOrder)
			})
		return err
	})
	g.Go(func() (err error) {
		c.RecoveryTips, err = queryChild(gctx, a, "procedure_recovery_tips",
			[]any{"id", "procedure_id", "language_code", "tip_text", "sort_order"},
			procedureID, languageCode, true,
			func(r rowScanner) (entities.RecoveryTip, error) {
				var v entities.RecoveryTip
				return v, r.Scan(&v.ID, &v.ProcedureID, &v.LanguageCode, &v.TipText, &v.SortOrder)
			})
		return err
	})
	g.Go(func() (err error) {
		c.Complementary, err = queryChild(gctx, a, "complementary_procedures",
			[]any{"id", "procedure_id", "language_code", "complementary_name", "reason", "sort_order"},
			procedureID, languageCode, true,
			func(r rowScanner) (entities.ComplementaryProcedure, error) {
				var v entities.ComplementaryProcedure
				var reason sql.NullString
				err := r.Scan(&v.ID, &v.ProcedureID, &v.LanguageCode, &v.ComplementaryName, &reason, &v.SortOrder)
				v.Reason = reason.String
				return v, err
			})
		return err
	})
	g.Go(func() (err error) {
		c.Risks, err = queryChild(gctx, a, "procedure_risks",
			[]any{"id", "procedure_id", "language_code", "risk_text", "sort_order"},
			procedureID, languageCode, true,
			func(r rowScanner) (entities.ProcedureRisk, error) {
				var v entities.ProcedureRisk
				return v, r.Scan(&v.ID, &v.ProcedureID, &v.LanguageCode, &v.RiskText, &v.SortOrder)
			})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

func queryChild[T any](ctx context.Context, a *ProcedureAdapter, table string, columns []any, procedureID, languageCode string, ordered bool, scan func(rowScanner) (T, error)) ([]T, error) {
	ds := a.db.Select(columns...).
		From(table).
		Where(goqu.Ex{"procedure_id": procedureID, "language_code": languageCode})
	if ordered {
		ds = ds.Order(goqu.C("sort_order").Asc())
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to load %s", table), err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, apperrors.NewInternalError(fmt.Sprintf("failed to scan %s", table), err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to iterate %s", table), err)
	}
	return out, nil
}

// InsertContent writes every non-empty child collection of content in one
// transaction. Rows are inserted as given; IDs must already be set.
func (a *ProcedureAdapter) InsertContent(ctx context.Context, procedureID string, content *entities.ProcedureChildren) error {
	return a.writeContent(ctx, procedureID, "", content)
}

// ReplaceContent deletes every child row of procedureID in languageCode and
// inserts content in the same transaction.
func (a *ProcedureAdapter) ReplaceContent(ctx context.Context, procedureID, languageCode string, content *entities.ProcedureChildren) error {
	if languageCode == "" {
		return apperrors.NewValidationError("language code is required")
	}
	return a.writeContent(ctx, procedureID, languageCode, content)
}

func (a *ProcedureAdapter) writeContent(ctx context.Context, procedureID, replaceLanguage string, content *entities.ProcedureChildren) error {
	batches := contentBatches(procedureID, content)

	return a.client.WithTx(ctx, func(tx *sql.Tx) error {
		for _, b := range batches {
			if replaceLanguage != "" {
				query, args, err := a.db.Delete(b.table).Where(
					goqu.C("procedure_id").Eq(procedureID),
					goqu.C("language_code").Eq(replaceLanguage),
				).ToSQL()
				if err != nil {
					return apperrors.NewInternalError("failed to build delete query", err)
				}
				if _, err := tx.ExecContext(ctx, query, args...); err != nil {
					return apperrors.NewInternalError(fmt.Sprintf("failed to clear %s", b.table), err)
				}
			}
			if len(b.rows) == 0 {
				continue
			}
			query, args, err := a.db.Insert(b.table).Rows(b.rows...).ToSQL()
			if err != nil {
				return apperrors.NewInternalError("failed to build insert query", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return apperrors.NewInternalError(fmt.Sprintf("failed to insert %s", b.table), err)
			}
		}
		return nil
	})
}

type insertBatch struct {
	table string
	rows  []any
}

func contentBatches(procedureID string, c *entities.ProcedureChildren) []insertBatch {
	var translations, recovery, benefits, candidacy, techniques []any
	var timeline, tips, complementary, risks []any

	for _, t := range c.Translations {
		translations = append(translations, goqu.Record{
			"id": t.ID, "procedure_id": procedureID, "language_code": t.LanguageCode,
			"overview": t.Overview, "anesthesia": t.Anesthesia, "procedure_description": t.ProcedureDescription,
		})
	}
	for _, r := range c.Recovery {
		recovery = append(recovery, goqu.Record{
			"id": r.ID, "procedure_id": procedureID, "language_code": r.LanguageCode,
			"recovery_time": r.RecoveryTime, "ready_to_go_out": r.ReadyToGoOut,
			"resume_exercise": r.ResumeExercise, "final_results": r.FinalResults,
		})
	}
	for _, r := range c.Benefits {
		benefits = append(benefits, childRecord(r.ID, procedureID, r.LanguageCode, r.SortOrder, goqu.Record{"benefit_text": r.BenefitText}))
	}
	for _, r := range c.Candidacy {
		candidacy = append(candidacy, childRecord(r.ID, procedureID, r.LanguageCode, r.SortOrder, goqu.Record{"candidacy_text": r.CandidacyText}))
	}
	for _, r := range c.Techniques {
		techniques = append(techniques, childRecord(r.ID, procedureID, r.LanguageCode, r.SortOrder, goqu.Record{"technique_name": r.TechniqueName, "description": r.Description}))
	}
	for _, r := range c.Timeline {
		timeline = append(timeline, childRecord(r.ID, procedureID, r.LanguageCode, r.SortOrder, goqu.Record{"timepoint": r.Timepoint, "guidance": r.Guidance}))
	}
	for _, r := range c.RecoveryTips {
		tips = append(tips, childRecord(r.ID, procedureID, r.LanguageCode, r.SortOrder, goqu.Record{"tip_text": r.TipText}))
	}
	for _, r := range c.Complementary {
		complementary = append(complementary, childRecord(r.ID, procedureID, r.LanguageCode, r.SortOrder, goqu.Record{"complementary_name": r.ComplementaryName, "reason": r.Reason}))
	}
	for _, r := range c.Risks {
		risks = append(risks, childRecord(r.ID, procedureID, r.LanguageCode, r.SortOrder, goqu.Record{"risk_text": r.RiskText}))
	}

	return []insertBatch{
		{table: "procedure_translations", rows: translations},
		{table: "procedure_recovery", rows: recovery},
		{table: "procedure_benefits", rows: benefits},
		{table: "procedure_candidacy", rows: candidacy},
		{table: "procedure_techniques", rows: techniques},
		{table: "procedure_recovery_timeline", rows: timeline},
		{table: "procedure_recovery_tips", rows: tips},
		{table: "complementary_procedures", rows: complementary},
		{table: "procedure_risks", rows: risks},
	}
}

func childRecord(id, procedureID, lang string, sortOrder int, fields goqu.Record) goqu.Record {
	fields["id"] = id
	fields["procedure_id"] = procedureID
	fields["language_code"] = lang
	fields["sort_order"] = sortOrder
	return fields
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input literal inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
