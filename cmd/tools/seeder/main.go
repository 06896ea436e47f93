package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-roti/internal/catalog"
	"github.com/noah-isme/backend-roti/internal/config"
	"github.com/noah-isme/backend-roti/internal/db"
	"github.com/noah-isme/backend-roti/internal/obs"
)

func main() {
	skipMigrate := flag.Bool("skip-migrate", false, "do not apply migrations before seeding")
	flag.Parse()

	cfg := config.MustLoad()
	logger := obs.NewLogger(os.Getenv("OBS_LOG_FORMAT"), "info").With().Str("tool", "seeder").Str("env", cfg.AppEnv).Logger()

	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	if !*skipMigrate {
		if err := db.RunMigrations(dbURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	store := catalog.PostgresStore{DB: pool}
	for _, p := range catalog.DefaultProducts() {
		if err := store.Upsert(ctx, p); err != nil {
			logger.Fatal().Err(err).Str("product_id", p.ID).Msg("seed product")
		}
		logger.Info().Str("product_id", p.ID).Int64("base_price", p.BasePrice).Bool("has_cost", p.CostOfGoods != nil).Msg("product seeded")
	}
	logger.Info().Int("count", len(catalog.DefaultProducts())).Msg("seeding completed")
}
