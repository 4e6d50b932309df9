package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	CatalogBase  string
	IdentityBase string
	IdentityKey  string
	SeedWorkers  int
	DealCount    int
	CacheTTL     time.Duration
}

func Load() Config {
	// .env is a dev convenience; absence is fine.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotelbook?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		CatalogBase:  env("CATALOG_BASE_URL", "https://fakestoreapi.com"),
		IdentityBase: env("IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com/v1"),
		IdentityKey:  env("IDENTITY_API_KEY", ""),
		SeedWorkers:  atoi("SEED_WORKERS", 8),
		DealCount:    atoi("DEAL_COUNT", 6),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.IdentityKey == "" {
		log.Warn().Msg("IDENTITY_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
