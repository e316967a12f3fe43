// =============================================================================
// Buyer Ledger - Store Wiring
// =============================================================================
//
// Shared store construction for the CLI commands. Redis is the primary
// ledger; when a Postgres DSN is configured the store mirrors every write
// into the relational copy.
//
// =============================================================================

package cmd

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/skdtraders/buyer-ledger/internal/config"
	"github.com/skdtraders/buyer-ledger/internal/store"
	"github.com/skdtraders/buyer-ledger/internal/store/postgres"
)

// openStore connects the configured backends and returns the ledger store
// plus a cleanup function closing the connections.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	redisStore := store.NewRedisStore(client)
	if err := redisStore.Ping(ctx); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis at %s: %w", cfg.Redis.Addr, err)
	}

	if !cfg.Postgres.Enabled {
		return redisStore, func() { client.Close() }, nil
	}

	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		client.Close()
		db.Close()
		return nil, nil, fmt.Errorf("postgres: %w", err)
	}

	repo := postgres.NewBuyerRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		client.Close()
		db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		client.Close()
		db.Close()
	}
	return store.NewMirrored(redisStore, repo), cleanup, nil
}
