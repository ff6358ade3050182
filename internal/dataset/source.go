package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/StandardsTable/internal/core"
)

// Source describes where to load records from. Path wins over Postgres.URL;
// with neither set the embedded sample is used.
type Source struct {
	Path        string
	Postgres    PostgresConfig
	Table       string
	LoadTimeout time.Duration
}

// Kind names the source that Open will read: "file", "postgres", or "embedded".
func (s Source) Kind() string {
	switch {
	case s.Path != "":
		return "file"
	case s.Postgres.URL != "":
		return "postgres"
	default:
		return "embedded"
	}
}

// Open loads the dataset described by src. A PostgreSQL pool is opened only
// for the snapshot and closed before returning.
func Open(ctx context.Context, src Source) (*core.Dataset, error) {
	var (
		ds  *core.Dataset
		err error
	)

	switch src.Kind() {
	case "file":
		ds, err = Load(src.Path)
	case "postgres":
		ds, err = openPostgres(ctx, src)
	default:
		ds, err = Embedded()
	}
	if err != nil {
		return nil, err
	}

	slog.Info("dataset loaded",
		"source", src.Kind(),
		"records", ds.Len(),
		"countries", len(core.FacetValues(ds.Records())),
		"fingerprint", Fingerprint(ds),
	)
	return ds, nil
}

func openPostgres(ctx context.Context, src Source) (*core.Dataset, error) {
	if src.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, src.LoadTimeout)
		defer cancel()
	}

	pool, err := Connect(ctx, src.Postgres)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	ds, err := LoadPostgres(ctx, pool, src.Table)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return ds, nil
}
