package database

import (
	"context"
	"log"
	"time"

	"pbm-backend/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool against the configured database and verifies it
// with a ping. Startup fails fast if the database is unreachable.
func Connect(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to database %s@%s:%d: %v",
			cfg.Database.Name, cfg.Database.Host, cfg.Database.Port, err)
	}

	log.Printf("Connected to database %s@%s:%d", cfg.Database.Name, cfg.Database.Host, cfg.Database.Port)
	return pool
}
