package source

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/civicdata/crimemap/internal/model"
)

// Pool is the subset of pgxpool.Pool the postgres source needs. pgxmock
// satisfies it in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// Postgres reads records from a shared incidents database.
type Postgres struct {
	pool Pool
}

// NewPostgres connects to the database at dsn.
func NewPostgres(dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, eris.Wrap(err, "source: postgres connect")
	}
	return &Postgres{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests.
func NewPostgresFromPool(pool Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Records reads the full incidents table.
func (p *Postgres) Records(ctx context.Context) ([]model.Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, occurred_at, part_code, description, division, lat, lon FROM incidents`)
	if err != nil {
		return nil, eris.Wrap(err, "source: postgres query incidents")
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.ID, &r.OccurredAt, &r.PartCode, &r.Description, &r.DivisionName, &r.Lat, &r.Lon); err != nil {
			return nil, eris.Wrap(err, "source: postgres scan incident")
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "source: postgres iterate incidents")
	}
	return records, nil
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
