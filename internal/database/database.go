// Package database opens the Postgres pool and exposes it to repositories
// through a narrow connection provider.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/logger"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// Conn is a single connection checked out from a Provider.
// Callers must call Release exactly once, on every path.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Release()
}

// Provider hands out connections on demand. Pooling, credentials and
// retries are its business, not the caller's.
type Provider interface {
	Acquire(ctx context.Context) (Conn, error)
}

// PoolProvider adapts a pgx pool to Provider.
type PoolProvider struct {
	pool *pgxpool.Pool
}

func NewPoolProvider(pool *pgxpool.Pool) *PoolProvider {
	return &PoolProvider{pool: pool}
}

func (p *PoolProvider) Acquire(ctx context.Context) (Conn, error) {
	c, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// New parses the DSN, attaches SQL tracing when enabled, and pings the
// pool before returning it.
func New(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database dsn is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse pgx pool config: %w", err)
	}
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	if cfg.TraceSQL {
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(log.With().Str("component", "pgx").Logger()),
			LogLevel: logger.PgxLogLevel(log.GetLevel()),
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", Target(&poolCfg.ConnConfig.Config), err)
	}

	log.Info().Int32("max_conns", poolCfg.MaxConns).Bool("trace_sql", cfg.TraceSQL).Msg("database connection OK")
	return pool, nil
}
