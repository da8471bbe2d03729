// Package store persists compile history: one row per compile job,
// recording its source, outcome, and artifacts. It follows the
// teacher's pkg/database dispatch-by-driver-string pattern (Config,
// ParseConnectionString) but narrows the generic Database interface
// down to the handful of operations a compile log needs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Record is one logged compile job.
type Record struct {
	JobID     string
	Source    string
	Outcome   string // success | lex_error | parse_error | semantic_error | compile_error
	Error     string
	TAC       string
	Assembly  string
	CreatedAt time.Time
}

// Store is what pkg/server and cmd/triadc depend on. SQLStore and
// MongoStore both satisfy it.
type Store interface {
	Record(ctx context.Context, rec Record) error
	History(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// SQLStore backs Store with database/sql, driven by any of the three
// drivers registered above: postgres, mysql, and sqlite are all
// first-class backends; the default is sqlite so `triadc serve` and
// `triadc history` work with zero external services.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQLStore opens driver (postgres|mysql|sqlite) against dsn and
// ensures the compile_history table exists.
func OpenSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s store: %w", driver, err)
	}

	s := &SQLStore{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS compile_history (
	job_id     TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	error      TEXT,
	tac        TEXT,
	assembly   TEXT,
	created_at TIMESTAMP NOT NULL
)`)
	return err
}

// placeholders returns the n bind-parameter markers for the store's
// driver: postgres uses $1.. while mysql and sqlite use plain `?`.
func (s *SQLStore) placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		if s.driver == "postgres" {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

func (s *SQLStore) Record(ctx context.Context, rec Record) error {
	ph := s.placeholders(7)
	query := fmt.Sprintf(`
INSERT INTO compile_history (job_id, source, outcome, error, tac, assembly, created_at)
VALUES (%s, %s, %s, %s, %s, %s, %s)`, ph[0], ph[1], ph[2], ph[3], ph[4], ph[5], ph[6])
	_, err := s.db.ExecContext(ctx, query,
		rec.JobID, rec.Source, rec.Outcome, rec.Error, rec.TAC, rec.Assembly, rec.CreatedAt)
	return err
}

func (s *SQLStore) History(ctx context.Context, limit int) ([]Record, error) {
	ph := s.placeholders(1)
	query := fmt.Sprintf(`
SELECT job_id, source, outcome, error, tac, assembly, created_at
FROM compile_history ORDER BY created_at DESC LIMIT %s`, ph[0])
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var errText sql.NullString
		if err := rows.Scan(&rec.JobID, &rec.Source, &rec.Outcome, &errText, &rec.TAC, &rec.Assembly, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Error = errText.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
