package meal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the fixed-width UTC layout used for timestamp columns so that
// string comparison in SQL matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = `id, day, meal_type, dish_name, calories, carbohydrates, protein, fats,
	free_sugar, fibre, sodium, calcium, iron, vitamin_c, folate, created_at`

// Filter narrows a catalog listing. Zero values mean "no filter".
type Filter struct {
	Day      string
	MealType string
	Limit    int
}

// Repository is a database-backed store for meal records (the nutrition_data table).
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

// SaveAll inserts the records in a single transaction. Records without an ID
// get a new UUID and records without a timestamp are stamped with the current time.
// The stored copies are returned.
func (r *Repository) SaveAll(ctx context.Context, records []Record) ([]Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO nutrition_data (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	saved := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = r.now()
		}

		var sugar sql.NullFloat64
		if rec.FreeSugar != nil {
			sugar = sql.NullFloat64{Float64: *rec.FreeSugar, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Day, rec.MealType, rec.DishName,
			rec.Calories, rec.Carbohydrates, rec.Protein, rec.Fats,
			sugar, rec.Fibre, rec.Sodium, rec.Calcium, rec.Iron, rec.VitaminC, rec.Folate,
			rec.CreatedAt.UTC().Format(TimeLayout),
		); err != nil {
			return nil, fmt.Errorf("failed to insert meal %q: %w", rec.DishName, err)
		}
		saved = append(saved, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit meals: %w", err)
	}
	return saved, nil
}

// List returns the catalog ordered by day, optionally filtered by day and meal type.
func (r *Repository) List(ctx context.Context, f Filter) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if f.Day != "" {
		where = append(where, "day = ?")
		args = append(args, f.Day)
	}
	if f.MealType != "" {
		where = append(where, "lower(meal_type) = lower(?)")
		args = append(args, f.MealType)
	}

	query := "SELECT " + selectColumns + " FROM nutrition_data"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY day ASC, created_at ASC, rowid ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	return r.query(ctx, query, args...)
}

// Catalog returns up to limit records in insertion order. A limit <= 0 returns all of them.
func (r *Repository) Catalog(ctx context.Context, limit int) ([]Record, error) {
	query := "SELECT " + selectColumns + " FROM nutrition_data ORDER BY rowid ASC"
	if limit > 0 {
		return r.query(ctx, query+" LIMIT ?", limit)
	}
	return r.query(ctx, query)
}

// ListBetween returns the records created within [start, end], oldest first.
func (r *Repository) ListBetween(ctx context.Context, start, end time.Time) ([]Record, error) {
	query := "SELECT " + selectColumns + ` FROM nutrition_data
		WHERE created_at >= ? AND created_at <= ?
		ORDER BY created_at ASC, rowid ASC`
	return r.query(ctx, query, start.UTC().Format(TimeLayout), end.UTC().Format(TimeLayout))
}

// Count returns the number of stored records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nutrition_data").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count meals: %w", err)
	}
	return n, nil
}

// FindByDishName returns the first record whose dish name matches, ignoring case.
// It returns nil when nothing matches.
func (r *Repository) FindByDishName(ctx context.Context, name string) (*Record, error) {
	recs, err := r.query(ctx, "SELECT "+selectColumns+` FROM nutrition_data
		WHERE lower(dish_name) = lower(?) ORDER BY created_at DESC LIMIT 1`, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec       Record
			sugar     sql.NullFloat64
			createdAt string
		)
		if err := rows.Scan(
			&rec.ID, &rec.Day, &rec.MealType, &rec.DishName,
			&rec.Calories, &rec.Carbohydrates, &rec.Protein, &rec.Fats,
			&sugar, &rec.Fibre, &rec.Sodium, &rec.Calcium, &rec.Iron, &rec.VitaminC, &rec.Folate,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan meal row: %w", err)
		}
		if sugar.Valid {
			rec.FreeSugar = Float(sugar.Float64)
		}
		if ts, err := time.Parse(TimeLayout, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal rows: %w", err)
	}
	return records, nil
}
