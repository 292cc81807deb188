package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mkoecher/audit-cockpit/constants"
	"github.com/mkoecher/audit-cockpit/internal/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_run (
	id             TEXT PRIMARY KEY,
	started_at     TEXT NOT NULL,
	finished_at    TEXT NOT NULL,
	total_items    INTEGER NOT NULL,
	critical_count INTEGER NOT NULL,
	risk_total     TEXT NOT NULL,
	status         TEXT NOT NULL,
	csv            TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_run_started_at ON audit_run (started_at DESC);
`

// Run is one archived audit run: the summary numbers plus a CSV snapshot of
// the labeled table, enough to revisit a past audit without the source PDFs.
type Run struct {
	ID            uuid.UUID           `json:"id"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    time.Time           `json:"finished_at"`
	TotalItems    int                 `json:"total_items"`
	CriticalCount int                 `json:"critical_count"`
	RiskTotal     string              `json:"risk_total"`
	Status        constants.RunStatus `json:"status"`
	CSV           string              `json:"-"`
}

// Store persists audit runs to an embedded SQLite database.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open connects to the archive database and ensures the schema exists.
func Open(ctx context.Context, dsn string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	log.Info("archive.open", "dsn", dsn)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping archive db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply archive schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	s.log.Info("archive.close")
	return s.db.Close()
}

// SaveRun inserts one finished run.
func (s *Store) SaveRun(ctx context.Context, r Run) error {
	if r.Status == "" {
		r.Status = constants.RunStatusMatched
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_run (id, started_at, finished_at, total_items, critical_count, risk_total, status, csv)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(),
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.FinishedAt.UTC().Format(time.RFC3339Nano),
		r.TotalItems,
		r.CriticalCount,
		r.RiskTotal,
		string(r.Status),
		r.CSV,
	)
	if err != nil {
		return fmt.Errorf("insert audit run: %w", err)
	}
	s.log.Info("archive.run_saved", "run_id", r.ID.String(), "items", r.TotalItems)
	return nil
}

// ListRuns returns the most recent runs, newest first, without CSV payloads.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, total_items, critical_count, risk_total, status
		 FROM audit_run ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit runs: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.log.Warn("archive.rows_close_error", "error", cerr)
		}
	}()

	var out []Run
	for rows.Next() {
		var (
			r            Run
			id           string
			started, end string
			status       string
		)
		if err := rows.Scan(&id, &started, &end, &r.TotalItems, &r.CriticalCount, &r.RiskTotal, &status); err != nil {
			return nil, fmt.Errorf("scan audit run: %w", err)
		}
		r.Status = constants.RunStatus(status)
		r.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse run id %q: %w", id, err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", started, err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, end); err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", end, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRunCSV returns the stored CSV snapshot for one run.
func (s *Store) GetRunCSV(ctx context.Context, id uuid.UUID) (string, error) {
	var csv string
	err := s.db.QueryRowContext(ctx, `SELECT csv FROM audit_run WHERE id = ?`, id.String()).Scan(&csv)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("query run csv: %w", err)
	}
	return csv, nil
}
