package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/medoraclinic/medora-site/backend/internal/adapters/database"
	"github.com/medoraclinic/medora-site/backend/internal/application/services"
	"github.com/medoraclinic/medora-site/backend/internal/i18n"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/clients/postgres"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/observability"
	"github.com/medoraclinic/medora-site/backend/pkg/config"
)

func main() {
	var englishPath, translationPath, lang string
	flag.StringVar(&englishPath, "file", "procedures_content_en.json", "English procedure content file")
	flag.StringVar(&translationPath, "translation", "", "translated content file, positionally aligned with -file")
	flag.StringVar(&lang, "lang", i18n.DefaultLanguage, "language of -translation")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-importer", cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	importer := services.NewImportService(database.NewProcedureAdapter(pgClient))

	english, err := readContentFile(englishPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read English content")
	}

	var report services.ImportReport
	if i18n.IsDefault(lang) {
		if translationPath != "" {
			log.Fatal().Msg("-translation needs a non-default -lang")
		}
		report = importer.ImportEnglish(ctx, english)
	} else {
		if translationPath == "" {
			log.Fatal().Str("lang", lang).Msg("-translation is required with -lang")
		}
		translated, err := readContentFile(translationPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read translated content")
		}
		report, err = importer.ImportTranslations(ctx, lang, english, translated)
		if err != nil {
			log.Fatal().Err(err).Msg("Translation import rejected")
		}
	}

	log.Info().
		Str("lang", lang).
		Int("created", report.Created).
		Int("skipped", report.Skipped).
		Int("collisions", report.Collisions).
		Int("failed", report.Failed).
		Int("succeeded", report.Succeeded()).
		Msg("Import finished")

	if report.Failed > 0 {
		pgClient.Close()
		os.Exit(1)
	}
}

func readContentFile(path string) (*services.ContentFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file services.ContentFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &file, nil
}
