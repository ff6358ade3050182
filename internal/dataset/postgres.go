package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is the table read when none is configured.
const DefaultTable = "standards"

// PostgresConfig holds the connection pool settings for LoadPostgres callers.
type PostgresConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Connect opens and pings a connection pool.
func Connect(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// columnName returns the SQL column for a field: camelCase becomes snake_case.
func columnName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// selectQuery builds the snapshot query for table. Rows are ordered by id so
// the dataset order is stable across restarts.
func selectQuery(table string) string {
	cols := core.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = pgx.Identifier{columnName(c.Field)}.Sanitize()
	}
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(names, ", "), ident, names[0])
}

// LoadPostgres reads a one-time snapshot of table into a dataset. The table
// is never queried again; filtering happens in memory.
func LoadPostgres(ctx context.Context, pool *pgxpool.Pool, table string) (*core.Dataset, error) {
	if table == "" {
		table = DefaultTable
	}
	start := time.Now()

	rows, err := pool.Query(ctx, selectQuery(table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	cols := core.Columns()
	var records []core.StandardRecord
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		var rec core.StandardRecord
		for i, v := range values {
			if i < len(cols) {
				rec.Set(cols[i].Field, Stringify(v))
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}

	ds, err := core.NewDataset(records)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", table, err)
	}

	slog.Info("dataset snapshot loaded",
		"table", table,
		"records", ds.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds, nil
}
