package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/geostat-cli/internal/model"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = eris.New("store: run not found")

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS classification_runs (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	field       TEXT NOT NULL,
	scheme      TEXT NOT NULL,
	k           INTEGER NOT NULL,
	bins        TEXT NOT NULL,
	counts      TEXT NOT NULL,
	fit_measure REAL NOT NULL,
	gvf         REAL NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_class_runs_scheme ON classification_runs(scheme);
CREATE INDEX IF NOT EXISTS idx_class_runs_field ON classification_runs(field);
CREATE INDEX IF NOT EXISTS idx_class_runs_created ON classification_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun persists a run, assigning its ID and CreatedAt when unset.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	binsJSON, err := json.Marshal(run.Bins)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal bins")
	}
	countsJSON, err := json.Marshal(run.Counts)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal counts")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO classification_runs
			(id, source, field, scheme, k, bins, counts, fit_measure, gvf, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Field, run.Scheme, run.K,
		string(binsJSON), string(countsJSON), run.FitMeasure, run.GVF, run.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, field, scheme, k, bins, counts, fit_measure, gvf, created_at
		 FROM classification_runs WHERE id = ?`,
		runID,
	)

	run, err := scanRun(row.Scan)
	if eris.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "id %s", runID)
	}
	return run, err
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, source, field, scheme, k, bins, counts, fit_measure, gvf, created_at
		FROM classification_runs WHERE 1=1`
	var args []any

	if filter.Scheme != "" {
		query += ` AND scheme = ?`
		args = append(args, filter.Scheme)
	}
	if filter.Field != "" {
		query += ` AND field = ?`
		args = append(args, filter.Field)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// scanRun reads one run row through the given Scan function.
func scanRun(scan func(...any) error) (*model.Run, error) {
	var run model.Run
	var binsJSON, countsJSON string

	err := scan(&run.ID, &run.Source, &run.Field, &run.Scheme, &run.K,
		&binsJSON, &countsJSON, &run.FitMeasure, &run.GVF, &run.CreatedAt)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if err := json.Unmarshal([]byte(binsJSON), &run.Bins); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal bins")
	}
	if err := json.Unmarshal([]byte(countsJSON), &run.Counts); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal counts")
	}
	return &run, nil
}
