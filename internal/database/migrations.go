package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1FestivalDates,
}

// migrationV1FestivalDates creates the override table.
//
// One row per Gregorian year. Rows take precedence over the built-in
// table when live sources are unavailable.
const migrationV1FestivalDates = `
CREATE TABLE IF NOT EXISTS festival_dates (
    year INTEGER PRIMARY KEY,
    month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
    day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 31),

    -- Where the date was verified, free text
    note TEXT,

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
