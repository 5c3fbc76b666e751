// Package history keeps past recommendation sets per user.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"nutrition-advisor/internal/recommend"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry represents a stored recommendation set.
type Entry struct {
	ID        int64                       `json:"id"`
	UserID    string                      `json:"userId"`
	Set       recommend.RecommendationSet `json:"recommendations"`
	CreatedAt time.Time                   `json:"createdAt"`
}

// Repository is a database-backed repository for recommendation history.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		db:  d,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Save inserts a new recommendation set for the user.
func (r *Repository) Save(ctx context.Context, userID string, set recommend.RecommendationSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation set: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO recommendation_history (user_id, payload, created_at) VALUES (?, ?, ?)`,
		userID, string(payload), r.now().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to save recommendation set for user %s: %w", userID, err)
	}
	return nil
}

// ListRecent retrieves the N most recent recommendation sets for a given user, newest first.
func (r *Repository) ListRecent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, payload, created_at
		FROM recommendation_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent recommendations for user %s: %w", userID, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			payload   string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation history: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &e.Set); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendation set %d: %w", e.ID, err)
		}
		e.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at of entry %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
