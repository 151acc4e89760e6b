package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"lead-insights-service/internal/config"
)

// NewConnection opens a ClickHouse connection pool configured from the
// DSN in DATABASE_URL plus pool settings from config.
func NewConnection(ctx context.Context, cfg *config.Config) (clickhouse.Conn, error) {
	opts, err := clickhouse.ParseDSN(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	opts.MaxOpenConns = int(cfg.DBMaxConns)
	opts.MaxIdleConns = int(cfg.DBMinConns)
	opts.ConnMaxLifetime = cfg.DBMaxConnLifetime
	opts.DialTimeout = 10 * time.Second

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return conn, nil
}
