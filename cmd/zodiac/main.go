// Package main implements the zodiac command line tool.
//
// Usage:
//
//	zodiac lookup 2024-02-09 [--rule spring-festival] [--offline] [--json]
//	zodiac festival 2025 [--offline]
//	zodiac table [--from 2020 --to 2030]
//	zodiac self-test [--file cases.yaml]
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/shengxiao-api/internal/database"
	"github.com/zapponejosh/shengxiao-api/internal/festival"
	"github.com/zapponejosh/shengxiao-api/internal/logger"
)

// rootOptions are the persistent flags shared by all subcommands.
type rootOptions struct {
	offline  bool
	timeout  time.Duration
	dbPath   string
	logLevel string
	asJSON   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "zodiac",
		Short: "Chinese zodiac lookups with Spring Festival boundaries",
		Long: `Resolve the Chinese zodiac year for a birth date.

Available subcommands:
  lookup    - Zodiac year and identity for a date
  festival  - Spring Festival date for a year
  table     - Built-in Spring Festival table with identities
  self-test - Check boundary cases against the built-in table`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&opts.offline, "offline", false, "skip live festival sources")
	pf.DurationVar(&opts.timeout, "timeout", festival.DefaultTimeout, "per-source timeout for live lookups")
	pf.StringVar(&opts.dbPath, "db", "", "SQLite override store to consult (optional)")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		newLookupCmd(opts),
		newFestivalCmd(opts),
		newTableCmd(opts),
		newSelfTestCmd(opts),
	)

	return root
}

// resolver builds the festival chain from the persistent flags. The
// returned cleanup closes the store when one was opened.
func (o *rootOptions) resolver(cmd *cobra.Command) (*festival.Resolver, func(), error) {
	log := logger.New(cmd.ErrOrStderr(), o.logLevel, "text")

	resolvOpts := []festival.Option{
		festival.WithTimeout(o.timeout),
		festival.WithLogger(log),
	}
	if o.offline {
		resolvOpts = append(resolvOpts, festival.WithSources())
	}

	cleanup := func() {}
	if o.dbPath != "" {
		db, err := database.Open(database.DefaultConfig(o.dbPath), log)
		if err != nil {
			return nil, nil, fmt.Errorf("open override store: %w", err)
		}
		if _, err := db.Migrate(cmd.Context()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate override store: %w", err)
		}
		resolvOpts = append(resolvOpts, festival.WithStore(db))
		cleanup = func() {
			if err := db.Close(); err != nil {
				log.Warn("close override store", slog.Any("error", err))
			}
		}
	}

	return festival.NewResolver(resolvOpts...), cleanup, nil
}
