// Package bootstrap opens the process runtime: database, Redis and optional
// demo data.
package bootstrap

import (
	"context"
	"fmt"

	"gymvy/internal/cache"
	"gymvy/internal/config"
	"gymvy/internal/database"
	"gymvy/internal/middleware"
	"gymvy/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty database with a demo social graph.
	SeedDemo bool
	Seed     seed.Options
}

// OptionsFromConfig derives Options from cfg. Seeding never runs in production.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SeedDemo: cfg.SeedDemo && !cfg.IsProduction(),
		Seed:     seed.DefaultOptions(),
	}
}

// InitRuntime connects to the database and Redis, then seeds when asked.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.Connect(cfg.RedisURL)

	if opts.SeedDemo {
		if err := SeedIfEmpty(ctx, db, opts.Seed); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, rdb, nil
}

// SeedIfEmpty runs the seeder only when no users exist yet.
func SeedIfEmpty(ctx context.Context, db *gorm.DB, opts seed.Options) error {
	var users int64
	if err := db.WithContext(ctx).Table("users").Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		middleware.Logger.InfoContext(ctx, "skipping demo seed, database not empty", "users", users)
		return nil
	}
	opts.ShouldClean = false
	_, err := seed.NewSeeder(db, opts).Run(ctx)
	return err
}
