package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotelbook/internal/adapters/catalog"
	"hotelbook/internal/adapters/observability"
	redisad "hotelbook/internal/adapters/redis"
	"hotelbook/internal/app"
	"hotelbook/internal/domain"
	"hotelbook/internal/shared"
	mysqlrepo "hotelbook/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.CatalogBase).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	feed := catalog.New(cfg.CatalogBase, 5)
	seeder := app.NewSeedService(feed, repo, cache)

	hotels := app.BaseHotels()
	if fetched, err := seeder.FetchHotels(ctx, 20); err != nil {
		log.Warn().Err(err).Msg("catalog feed unavailable, seeding base set only")
	} else {
		hotels = append(hotels, fetched...)
	}

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, h := range hotels {
		h := h

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(h domain.Hotel) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := seeder.SeedHotel(ctx, h); err != nil {
				log.Warn().Str("id", h.ID).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("id", h.ID).Str("name", h.Name).Msg("seed ok")
		}(h)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
