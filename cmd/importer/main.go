// Command importer loads a pharmacies or users JSON document into the
// configured database.
//
//	importer -kind pharmacies -file data/pharmacies.json
//	importer -kind users -file data/users.json
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/ouola/Phantom-backend/internal/config"
	"github.com/ouola/Phantom-backend/internal/importer"
	"github.com/ouola/Phantom-backend/internal/infra"
	"github.com/ouola/Phantom-backend/internal/repository"
	"github.com/ouola/Phantom-backend/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	kind := flag.String("kind", "", "document kind: pharmacies | users")
	file := flag.String("file", "", "path to the JSON document")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if *file == "" || (*kind != string(importer.KindPharmacies) && *kind != string(importer.KindUsers)) {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timezone")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to read document")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := infra.NewDatabase(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, mask cache will not be invalidated")
		rdb = nil
	}

	pharmacyRepo := repository.NewPharmacyRepository(db)
	maskRepo := repository.NewMaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	hourRepo := repository.NewOpeningHourRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	cache := infra.NewCache(rdb, infra.NewCircuitBreaker(infra.DefaultCacheCBConfig()), cfg.CacheTTL())

	im := importer.New(db, pharmacyRepo, maskRepo, userRepo, purchaseRepo,
		service.NewScheduleService(pharmacyRepo, hourRepo),
		service.NewCatalogService(pharmacyRepo, maskRepo, hourRepo, cache),
		loc)

	rep, err := im.Import(ctx, importer.Kind(*kind), data)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("import failed")
	}
	log.Info().Str("kind", *kind).Interface("report", rep).Msg("import finished")
}
