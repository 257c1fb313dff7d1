package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/medoraclinic/medora-site/backend/internal/adapters/database"
	"github.com/medoraclinic/medora-site/backend/internal/application/services"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/clients/postgres"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/observability"
	"github.com/medoraclinic/medora-site/backend/pkg/config"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// sampleCases are demo before/after cases for procedures created by the
// content importer
var sampleCases = []services.CaseInput{
	{
		Slug:          "brow-lift-forehead-lift",
		CaseNumber:    "1001510",
		Description:   "This patient came to us seeking a more refreshed and youthful appearance. She was bothered by deep forehead lines and sagging eyebrows that made her look tired.",
		ProviderName:  "Dr. Heather Lee",
		PatientAge:    intPtr(42),
		PatientGender: strPtr("female"),
		ImageCount:    intPtr(4),
		SortOrder:     intPtr(1),
	},
	{
		Slug:          "brow-lift-forehead-lift",
		CaseNumber:    "1002341",
		Description:   "Patient desired correction of asymmetric brows and reduction of horizontal forehead lines.",
		ProviderName:  "Dr. Vito Medora",
		PatientAge:    intPtr(38),
		PatientGender: strPtr("female"),
		ImageCount:    intPtr(2),
		SortOrder:     intPtr(2),
	},
	{
		Slug:          "breast-augmentation-augmentation-mammoplasty",
		CaseNumber:    "1003567",
		Description:   "Patient desired fuller, more proportionate breasts while maintaining a natural appearance.",
		ProviderName:  "Dr. Heather Lee",
		PatientAge:    intPtr(29),
		PatientGender: strPtr("female"),
		ImageCount:    intPtr(2),
		SortOrder:     intPtr(1),
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-seed", cfg.Env, cfg.LogLevel)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating cases before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE procedure_cases`); err != nil {
			log.Fatal().Err(err).Msg("Failed to truncate cases")
		}
	}

	caseService := services.NewCaseService(
		database.NewProcedureAdapter(pgClient),
		database.NewProcedureCaseAdapter(pgClient),
		nil,
	)

	seeded, failed := 0, 0
	for _, in := range sampleCases {
		c, err := caseService.Upsert(ctx, in)
		if err != nil {
			failed++
			log.Error().Err(err).Str("slug", in.Slug).Str("case_number", in.CaseNumber).Msg("Failed to seed case")
			continue
		}
		seeded++
		log.Info().Str("slug", in.Slug).Str("case_number", c.CaseNumber).Msg("Seeded case")
	}

	log.Info().Int("seeded", seeded).Int("failed", failed).Msg("Seeding completed")
}
