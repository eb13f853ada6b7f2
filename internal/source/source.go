// Package source supplies raw incident records to the ingest pipeline.
// The core never parses the on-disk format itself; each source yields
// model.Record values with string-typed raw fields, and cleaning happens
// downstream.
package source

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/civicdata/crimemap/internal/config"
	"github.com/civicdata/crimemap/internal/model"
)

// Source yields the full raw record set in one batch.
type Source interface {
	Records(ctx context.Context) ([]model.Record, error)
	Close() error
}

// Open builds the source selected by cfg.Source.Driver.
func Open(cfg config.SourceConfig) (Source, error) {
	switch cfg.Driver {
	case "csv", "":
		return NewCSV(cfg.CSVPath), nil
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("source: unknown driver %q", cfg.Driver)
	}
}
