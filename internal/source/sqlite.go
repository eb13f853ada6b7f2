package source

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/civicdata/crimemap/internal/model"
)

// SQLite reads records from a local snapshot database written by the
// import command. The snapshot holds raw records, not aggregates;
// aggregation is always recomputed at startup.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the snapshot database and configures WAL mode.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "source: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "source: sqlite exec %s", pragma)
		}
	}
	return &SQLite{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS incidents (
	id          TEXT NOT NULL,
	occurred_at TEXT NOT NULL,
	part_code   INTEGER NOT NULL,
	description TEXT NOT NULL,
	division    TEXT NOT NULL,
	lat         REAL NOT NULL,
	lon         REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_incidents_division ON incidents(division);
`

// Migrate creates the incidents table.
func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "source: sqlite migrate")
}

// Records reads back the full snapshot.
func (s *SQLite) Records(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, occurred_at, part_code, description, division, lat, lon FROM incidents`)
	if err != nil {
		return nil, eris.Wrap(err, "source: sqlite query incidents")
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.ID, &r.OccurredAt, &r.PartCode, &r.Description, &r.DivisionName, &r.Lat, &r.Lon); err != nil {
			return nil, eris.Wrap(err, "source: sqlite scan incident")
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "source: sqlite iterate incidents")
	}
	return records, nil
}

// Replace overwrites the snapshot with the given record set in one
// transaction. Used by the import command.
func (s *SQLite) Replace(ctx context.Context, records []model.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "source: sqlite begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM incidents`); err != nil {
		return eris.Wrap(err, "source: sqlite clear incidents")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO incidents (id, occurred_at, part_code, description, division, lat, lon)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "source: sqlite prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ID, r.OccurredAt, r.PartCode, r.Description, r.DivisionName, r.Lat, r.Lon); err != nil {
			return eris.Wrap(err, "source: sqlite insert incident")
		}
	}

	return eris.Wrap(tx.Commit(), "source: sqlite commit")
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
