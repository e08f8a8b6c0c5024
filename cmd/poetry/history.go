package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS poem_runs (
    run_id TEXT PRIMARY KEY,
    start_word TEXT NOT NULL,
    requested_length INTEGER NOT NULL,
    actual_length INTEGER NOT NULL,
    truncated INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
`

// RunRecord is one generation run as stored in the history database.
// Actual is the number of tokens the walk emitted; it is less than
// Requested when generation stopped early.
type RunRecord struct {
	ID        string
	StartWord string
	Requested int
	Actual    int
	Truncated bool
	Duration  time.Duration
	CreatedAt time.Time
}

// HistoryStore records generation runs in a SQLite database.
type HistoryStore struct {
	db             *sql.DB
	logger         *slog.Logger
	stmtInsertRun  *sql.Stmt
	stmtRecentRuns *sql.Stmt
}

// NewHistoryStore initializes the schema and prepares the statements.
func NewHistoryStore(db *sql.DB, logger *slog.Logger) (*HistoryStore, error) {
	if _, err := db.Exec(historySchema); err != nil {
		return nil, fmt.Errorf("could not create history schema: %w", err)
	}

	stmtInsertRun, err := db.Prepare(`INSERT INTO poem_runs (run_id, start_word, requested_length, actual_length, truncated, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtRecentRuns, err := db.Prepare(`SELECT run_id, start_word, requested_length, actual_length, truncated, duration_ms, created_at FROM poem_runs ORDER BY created_at DESC, rowid DESC LIMIT ?;`)
	if err != nil {
		return nil, err
	}

	return &HistoryStore{
		db:             db,
		logger:         logger,
		stmtInsertRun:  stmtInsertRun,
		stmtRecentRuns: stmtRecentRuns,
	}, nil
}

// Close releases the prepared statements held by the store.
func (h *HistoryStore) Close() {
	_ = h.stmtInsertRun.Close()
	_ = h.stmtRecentRuns.Close()
}

// RecordRun inserts a run row and returns its generated ID.
func (h *HistoryStore) RecordRun(ctx context.Context, rec RunRecord) (string, error) {
	id := uuid.NewString()
	truncated := 0
	if rec.Truncated {
		truncated = 1
	}
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err := h.stmtInsertRun.ExecContext(ctx, id, rec.StartWord, rec.Requested, rec.Actual, truncated, rec.Duration.Milliseconds(), createdAt)
	if err != nil {
		return "", fmt.Errorf("could not record run: %w", err)
	}

	h.logger.Debug("Run recorded",
		slog.String("run_id", id),
		slog.String("start_word", rec.StartWord),
		slog.Int("requested_length", rec.Requested),
	)
	return id, nil
}

// RecentRuns returns the latest n runs, newest first.
func (h *HistoryStore) RecentRuns(ctx context.Context, n int) ([]RunRecord, error) {
	rows, err := h.stmtRecentRuns.QueryContext(ctx, n)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var truncated int
		var durationMs int64
		var createdAt string
		if err = rows.Scan(&rec.ID, &rec.StartWord, &rec.Requested, &rec.Actual, &truncated, &durationMs, &createdAt); err != nil {
			return nil, err
		}
		rec.Truncated = truncated != 0
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
