package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/linemk/marketplace-shop/internal/config"
	"github.com/linemk/marketplace-shop/internal/lib/logger"
	"github.com/linemk/marketplace-shop/internal/storage/kv"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
	Redis  *redis.Client // nil, если корзины хранятся в памяти
	CartKV kv.Store
}

// NewApp создаёт новый экземпляр App
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is not set")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client, store, err := NewCartKV(context.Background(), log, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	app := &App{
		Config: cfg,
		Logger: log,
		DB:     db,
		Redis:  client,
		CartKV: store,
	}

	return app, nil
}

// NewCartKV подключает хранилище корзин. Без адреса Redis хранение в памяти
// разрешено только локально: в остальных окружениях корзины не должны теряться при рестарте.
func NewCartKV(ctx context.Context, log *slog.Logger, cfg *config.Config) (*redis.Client, kv.Store, error) {
	if cfg.Redis.Address == "" {
		if cfg.Env != logger.EnvLocal {
			return nil, nil, fmt.Errorf("redis address is required in %q environment", cfg.Env)
		}
		log.Warn("redis address is empty, carts are kept in memory")
		return nil, kv.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, kv.NewRedisStore(client), nil
}

// Close закрывает подключения к БД и Redis
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("failed to close redis", slog.Any("error", err))
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("failed to close database", slog.Any("error", err))
	}
}
