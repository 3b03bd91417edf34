package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/shengxiao-api/internal/festival"
)

// queryer is satisfied by both *DB and *Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}

	return nil
}

// =============================================================================
// Festival Date Queries
// =============================================================================

// GetFestivalDate returns the stored date for year tagged with
// festival.SourceStore. Returns ErrNotFound if the year has no override.
//
// *DB implements festival.Store through this method.
func (db *DB) GetFestivalDate(ctx context.Context, year int) (festival.Date, error) {
	o, err := db.GetFestivalOverride(ctx, year)
	if err != nil {
		return festival.Date{}, err
	}
	return festival.Date{Month: o.Month, Day: o.Day, Source: festival.SourceStore}, nil
}

// GetFestivalOverride returns the full override row for year.
func (db *DB) GetFestivalOverride(ctx context.Context, year int) (*FestivalOverride, error) {
	query := `
		SELECT year, month, day, note, created_at, updated_at
		FROM festival_dates
		WHERE year = ?
	`

	var o FestivalOverride
	var note, createdAt, updatedAt sql.NullString

	err := db.QueryRowContext(ctx, query, year).Scan(
		&o.Year, &o.Month, &o.Day, &note, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query festival date: %w", err)
	}

	if note.Valid {
		o.Note = &note.String
	}
	if t := parseTimestamp(createdAt); t != nil {
		o.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAt); t != nil {
		o.UpdatedAt = *t
	}

	return &o, nil
}

// ListFestivalDates returns all overrides ordered by year.
func (db *DB) ListFestivalDates(ctx context.Context) ([]FestivalOverride, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT year, month, day, note, created_at, updated_at
		FROM festival_dates
		ORDER BY year ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query festival dates: %w", err)
	}
	defer rows.Close()

	overrides := []FestivalOverride{}
	for rows.Next() {
		var o FestivalOverride
		var note, createdAt, updatedAt sql.NullString

		if err := rows.Scan(&o.Year, &o.Month, &o.Day, &note, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan festival date: %w", err)
		}
		if note.Valid {
			o.Note = &note.String
		}
		if t := parseTimestamp(createdAt); t != nil {
			o.CreatedAt = *t
		}
		if t := parseTimestamp(updatedAt); t != nil {
			o.UpdatedAt = *t
		}
		overrides = append(overrides, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate festival dates: %w", err)
	}

	return overrides, nil
}

// UpsertFestivalDate inserts or replaces the override for o.Year.
func (db *DB) UpsertFestivalDate(ctx context.Context, o FestivalOverride) error {
	return upsertFestivalDate(ctx, db, o)
}

// UpsertFestivalDate inserts or replaces the override within the transaction.
func (tx *Tx) UpsertFestivalDate(ctx context.Context, o FestivalOverride) error {
	return upsertFestivalDate(ctx, tx, o)
}

func upsertFestivalDate(ctx context.Context, q queryer, o FestivalOverride) error {
	if !o.Valid() {
		return fmt.Errorf("%w: %d-%d-%d", ErrInvalidDate, o.Year, o.Month, o.Day)
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO festival_dates (year, month, day, note)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			month = excluded.month,
			day = excluded.day,
			note = excluded.note,
			updated_at = datetime('now')
	`, o.Year, o.Month, o.Day, o.Note)
	if err != nil {
		return fmt.Errorf("upsert festival date %d: %w", o.Year, err)
	}

	return nil
}

// DeleteFestivalDate removes the override for year.
// Returns ErrNotFound if the year has no override.
func (db *DB) DeleteFestivalDate(ctx context.Context, year int) error {
	result, err := db.ExecContext(ctx, "DELETE FROM festival_dates WHERE year = ?", year)
	if err != nil {
		return fmt.Errorf("delete festival date: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
