package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nutrition-advisor/internal/shared"
)

// timeLayout keeps timestamps fixed-width so SQL string comparison is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run records metadata for a single engine invocation.
type Run struct {
	Operation        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Items            int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Record saves a run to the database.
func (s *Store) Record(ctx context.Context, r Run) error {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO engine_runs
		(operation, model, prompt_tokens, completion_tokens, items, latency_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Operation, r.Model, r.PromptTokens, r.CompletionTokens, r.Items, r.LatencyMS,
		ts.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert engine run: %w", err)
	}
	return nil
}

// RecordMeta records a run directly from shared.RunMeta.
func (s *Store) RecordMeta(ctx context.Context, meta shared.RunMeta) error {
	return s.Record(ctx, MapMeta(meta))
}

// DailyUsage represents totals for a single day.
type DailyUsage struct {
	Date            string `json:"date"`
	TotalPrompt     int    `json:"totalPrompt"`
	TotalCompletion int    `json:"totalCompletion"`
	TotalRuns       int    `json:"totalRuns"`
	TotalItems      int    `json:"totalItems"`
	AvgLatencyMS    int64  `json:"avgLatencyMs"`
}

// GetDailyUsage retrieves usage for the last N days, most recent day first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := s.now().AddDate(0, 0, -days).Format(timeLayout)
	rows, err := s.db.QueryContext(ctx, `SELECT substr(timestamp, 1, 10) AS day,
			COALESCE(SUM(prompt_tokens), 0), COALESCE(SUM(completion_tokens), 0),
			COUNT(*), COALESCE(SUM(items), 0), CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER)
		FROM engine_runs
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.TotalPrompt, &u.TotalCompletion, &u.TotalRuns, &u.TotalItems, &u.AvgLatencyMS); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := s.now().AddDate(0, 0, -olderThanDays).Format(timeLayout)
	res, err := s.db.ExecContext(ctx, `DELETE FROM engine_runs WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up engine runs: %w", err)
	}
	return res.RowsAffected()
}

// MapMeta converts shared.RunMeta to a Run. The timestamp is left for Record to set.
func MapMeta(meta shared.RunMeta) Run {
	return Run{
		Operation:        meta.Operation,
		Model:            meta.Usage.Model,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		Items:            meta.Items,
		LatencyMS:        meta.Latency.Milliseconds(),
	}
}
