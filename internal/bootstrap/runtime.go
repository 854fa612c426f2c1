// Package bootstrap wires the process-wide runtime: logging, database, Redis
// and optional demo data.
package bootstrap

import (
	"fmt"
	"log/slog"

	"friendsapp/internal/cache"
	"friendsapp/internal/config"
	"friendsapp/internal/database"
	"friendsapp/internal/middleware"
	"friendsapp/internal/models"
	"friendsapp/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedIfEmpty fills an empty database with demo users, posts and follows.
	SeedIfEmpty bool
	Seed        seed.Options
}

// InitRuntime connects to DB and Redis and optionally seeds demo data. The
// Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	middleware.InitLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedIfEmpty {
		if err := seedIfEmpty(db, cfg, opts.Seed); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

func seedIfEmpty(db *gorm.DB, cfg *config.Config, opts seed.Options) error {
	if cfg.IsProduction() {
		return fmt.Errorf("demo data is never seeded in %s", cfg.Env)
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		middleware.Logger.Info("database already has users, skipping demo data", slog.Int64("users", users))
		return nil
	}

	if opts.BcryptCost == 0 {
		opts.BcryptCost = cfg.BcryptCost
	}
	seeder, err := seed.NewSeeder(db, opts)
	if err != nil {
		return err
	}
	_, err = seeder.Run()
	return err
}
