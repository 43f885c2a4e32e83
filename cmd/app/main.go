package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"logistics/cmd"
	"logistics/internal/adapters/out/rediscache"
	"logistics/internal/jobs"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs(logger)
	ctx := context.Background()

	gormDB, err := gorm.Open(postgres.Open(configs.PostgresDSN()), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	cache, err := rediscache.NewRedisCache(ctx, configs.RedisAddr, configs.RedisPassword, configs.CacheTTL)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer func() { _ = cache.Close() }()

	app := cmd.NewCompositionRoot(configs, gormDB, cache)

	if err = app.EnsureAdminAccount(ctx, configs, logger); err != nil {
		logger.Error("Failed to seed administrator account", "error", err)
		os.Exit(1)
	}

	jobManager := jobs.NewJobManager(app.CreateGetLowStockItemsQueryHandler(), configs.LowStockSchedule, logger)
	if err = jobManager.StartAll(); err != nil {
		logger.Error("Failed to start jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	app.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Warn("No .env file found, using system environment", "error", err)
	}

	return cmd.Config{
		HTTPPort:         envOr("HTTP_PORT", "8080"),
		DBHost:           envOr("DB_HOST", "localhost"),
		DBPort:           envOr("DB_PORT", "5432"),
		DBUser:           envOr("DB_USER", "postgres"),
		DBPassword:       envOr("DB_PASSWORD", "postgres"),
		DBName:           envOr("DB_NAME", "logistics"),
		DBSslMode:        envOr("DB_SSLMODE", "disable"),
		RedisAddr:        envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		CacheTTL:         durationOr("CACHE_TTL", 5*time.Minute, logger),
		JWTSecret:        mustEnv("JWT_SECRET", logger),
		TokenExpiry:      durationOr("TOKEN_EXPIRY", 24*time.Hour, logger),
		LowStockSchedule: envOr("LOW_STOCK_SCHEDULE", "0 0 * * * *"),
		AdminEmail:       envOr("ADMIN_EMAIL", "admin@logistics.local"),
		AdminPassword:    mustEnv("ADMIN_PASSWORD", logger),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func mustEnv(key string, logger *slog.Logger) string {
	value := os.Getenv(key)
	if value == "" {
		logger.Error("Required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return value
}

func durationOr(key string, fallback time.Duration, logger *slog.Logger) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		logger.Warn("Invalid duration, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return value
}
