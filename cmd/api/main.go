package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotelbook/internal/adapters/catalog"
	server "hotelbook/internal/adapters/http_server"
	"hotelbook/internal/adapters/identity"
	"hotelbook/internal/adapters/observability"
	redisad "hotelbook/internal/adapters/redis"
	"hotelbook/internal/app"
	"hotelbook/internal/shared"
	mysqlrepo "hotelbook/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ids, err := identity.New(cfg.IdentityBase, cfg.IdentityKey, 10)
	if err != nil {
		log.Fatal().Err(err).Msg("identity client init failed")
	}
	feed := catalog.New(cfg.CatalogBase, 5)

	q := app.NewQueryService(repo, repo, repo, cache, cfg.CacheTTL)
	deals := app.NewDealsService(feed, cache, cfg.CacheTTL, cfg.DealCount)
	bookings := app.NewBookingService(repo, repo)
	reviews := app.NewReviewService(repo, repo, cache, cfg.CacheTTL)
	accounts := app.NewAccountService(ids, repo)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:        q,
		Deals:    deals,
		Bookings: bookings,
		Reviews:  reviews,
		Accounts: accounts,
		IDs:      ids,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
