// Command import loads verified Spring Festival dates from YAML into the
// SQLite override store.
//
// Usage:
//
//	go run ./cmd/import -yaml data/festival_overrides.yaml -db data/shengxiao.db
//
// This tool:
// 1. Parses the YAML file and validates every date
// 2. Creates/opens the SQLite database and runs migrations
// 3. Upserts all overrides in a single transaction
//
// The import is idempotent. Re-running it replaces existing rows for the
// same years.
//
// File format:
//
//	metadata:
//	  source: Purple Mountain Observatory
//	overrides:
//	  - year: 2024
//	    month: 2
//	    day: 10
//	    note: verified
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/shengxiao-api/internal/database"
	"github.com/zapponejosh/shengxiao-api/internal/logger"
)

func main() {
	yamlPath := flag.String("yaml", "data/festival_overrides.yaml", "Path to overrides YAML file")
	dbPath := flag.String("db", "data/shengxiao.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.New(os.Stdout, level, "text")

	stats, err := run(context.Background(), *yamlPath, *dbPath, log)
	if err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	printSummary(os.Stdout, stats)
	log.Info("import complete")
}

// ImportStats tracks import statistics.
type ImportStats struct {
	Overrides int
	Stored    int
	Elapsed   time.Duration
}

func run(ctx context.Context, yamlPath, dbPath string, log *slog.Logger) (ImportStats, error) {
	var stats ImportStats
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read, parse and validate YAML
	// =========================================================================
	log.Info("reading YAML file", slog.String("path", yamlPath))

	importData, err := loadOverrides(yamlPath)
	if err != nil {
		return stats, err
	}

	log.Info("parsed YAML",
		slog.Int("overrides", len(importData.Overrides)),
		slog.String("source", importData.Metadata.Source),
	)

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	log.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return stats, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return stats, fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Import data in a transaction
	// =========================================================================
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		for _, o := range importData.Overrides {
			if err := tx.UpsertFestivalDate(ctx, o); err != nil {
				return fmt.Errorf("upsert %d: %w", o.Year, err)
			}
			log.Debug("override imported",
				slog.Int("year", o.Year),
				slog.Int("month", o.Month),
				slog.Int("day", o.Day),
			)
			stats.Overrides++
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("import data: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	all, err := db.ListFestivalDates(ctx)
	if err != nil {
		return stats, fmt.Errorf("list overrides: %w", err)
	}
	stats.Stored = len(all)
	stats.Elapsed = time.Since(startTime)

	log.Info("import verified",
		slog.Int("imported", stats.Overrides),
		slog.Int("stored", stats.Stored),
		slog.Duration("elapsed", stats.Elapsed),
	)

	return stats, nil
}

// loadOverrides parses the YAML file and rejects invalid or duplicate years
// before anything touches the database.
func loadOverrides(path string) (*database.ImportData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read YAML file: %w", err)
	}

	var importData database.ImportData
	if err := yaml.Unmarshal(data, &importData); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	seen := make(map[int]bool, len(importData.Overrides))
	for i, o := range importData.Overrides {
		if !o.Valid() {
			return nil, fmt.Errorf("override %d: %d-%d-%d: %w", i+1, o.Year, o.Month, o.Day, database.ErrInvalidDate)
		}
		if seen[o.Year] {
			return nil, fmt.Errorf("override %d: duplicate year %d", i+1, o.Year)
		}
		seen[o.Year] = true
	}

	return &importData, nil
}

func printSummary(w io.Writer, stats ImportStats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Import Summary ===")
	fmt.Fprintf(w, "Overrides imported:  %d\n", stats.Overrides)
	fmt.Fprintf(w, "Overrides stored:    %d\n", stats.Stored)
	fmt.Fprintf(w, "Time elapsed:        %v\n", stats.Elapsed.Round(time.Millisecond))
}
