package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/config"
	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/db"
	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/member"
	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/redis"
)

// setupStore opens the configured record backend and returns it with a
// cleanup for whatever was opened.
func setupStore(ctx context.Context, cfg config.Config) (member.Store, func() error, error) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		log.Info().Msg("redis ready")
		return member.NewRedisStore(redisClient.Client), redisClient.Close, nil

	default:
		sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("postgres ping: %w", err)
		}
		if err := db.RunSubscribersMigration(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("migration: %w", err)
		}
		log.Info().Msg("database ready")
		return member.NewPostgresStore(&db.DB{DB: sqlDB}), sqlDB.Close, nil
	}
}
