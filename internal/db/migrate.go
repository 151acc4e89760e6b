package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// RunMigrations ensures required tables exist. This keeps the service
// self-contained without an external migration step.
func RunMigrations(ctx context.Context, conn clickhouse.Conn) error {
	statements := []string{`
CREATE TABLE IF NOT EXISTS leads
(
	id              String,
	name            String,
	phone           String,
	client_id       Int64,
	source          String,
	campaign        Nullable(String),
	ad_set          Nullable(String),
	ad              Nullable(String),
	keyword         Nullable(String),
	device          String,
	browser         String DEFAULT '',
	location        String DEFAULT '',
	created_at      DateTime64(3, 'UTC'),
	ingested_at     DateTime DEFAULT now()
)
ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMMDD(created_at)
ORDER BY (client_id, created_at, id)
SETTINGS
    index_granularity = 8192;
`, `
CREATE TABLE IF NOT EXISTS clients
(
	id          Int64,
	name        String,
	email       String,
	instance    String DEFAULT ''
)
ENGINE = ReplacingMergeTree
ORDER BY id;
`}

	for _, stmt := range statements {
		if err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
