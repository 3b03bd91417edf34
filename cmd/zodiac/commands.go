package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/shengxiao-api/internal/calendar"
	"github.com/zapponejosh/shengxiao-api/internal/festival"
	"github.com/zapponejosh/shengxiao-api/internal/zodiac"
)

// =============================================================================
// lookup
// =============================================================================

type lookupResult struct {
	*calendar.Resolution
	Identity        zodiac.Identity `json:"identity"`
	SameAnimalYears []int           `json:"same_animal_years"`
}

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var ruleName string

	cmd := &cobra.Command{
		Use:   "lookup YYYY-MM-DD",
		Short: "Zodiac year and identity for a birth date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := calendar.ParseDateString(args[0])
			if err != nil {
				return err
			}

			rule, err := calendar.ParseBoundaryRule(ruleName)
			if err != nil {
				return err
			}

			resolver, cleanup, err := opts.resolver(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := calendar.NewBoundaryResolver(resolver).
				ResolveZodiacYear(cmd.Context(), date.Year, date.Month, date.Day, rule)
			if err != nil {
				return err
			}

			out := lookupResult{
				Resolution:      res,
				Identity:        zodiac.ForYear(res.ZodiacYear),
				SameAnimalYears: zodiac.SameAnimalYears(res.ZodiacYear, zodiac.DefaultSameYearsCount),
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %d %s (%s)\n", date, out.ZodiacYear, out.Identity.Name, out.Identity.Animal)
			fmt.Fprintf(w, "rule: %s\n", out.RuleDescription)
			fmt.Fprintf(w, "%s\n", out.Identity.Description)
			fmt.Fprintf(w, "same animal years: %v\n", out.SameAnimalYears)
			return nil
		},
	}

	cmd.Flags().StringVar(&ruleName, "rule", calendar.RuleExactFestival.String(), "boundary rule: lichun or spring-festival")
	return cmd
}

// =============================================================================
// festival
// =============================================================================

func newFestivalCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "festival YEAR",
		Short: "Spring Festival date for a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}

			resolver, cleanup, err := opts.resolver(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			sf := resolver.Resolve(cmd.Context(), year)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"year":        year,
					"date":        sf.Format(year),
					"source":      sf.Source,
					"approximate": sf.IsApproximate(),
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", sf.Format(year), sf.Source)
			return nil
		},
	}
}

// =============================================================================
// table
// =============================================================================

type tableRow struct {
	Year           int    `json:"year"`
	SpringFestival string `json:"spring_festival"`
	Name           string `json:"name"`
	Animal         string `json:"animal"`
}

func newTableCmd(opts *rootOptions) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Built-in Spring Festival table with identities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from > to {
				return fmt.Errorf("--from %d is after --to %d", from, to)
			}
			if !festival.InTableRange(from) || !festival.InTableRange(to) {
				return fmt.Errorf("%w: table covers %d-%d", festival.ErrYearOutOfRange, festival.TableFirstYear, festival.TableLastYear)
			}

			rows := make([]tableRow, 0, to-from+1)
			for year := from; year <= to; year++ {
				sf, _ := festival.TableLookup(year)
				id := zodiac.ForYear(year)
				rows = append(rows, tableRow{
					Year:           year,
					SpringFestival: sf.Format(year),
					Name:           id.Name,
					Animal:         id.Animal,
				})
			}

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  %s %s\n", r.Year, r.SpringFestival, r.Name, r.Animal)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", festival.TableFirstYear, "first year")
	cmd.Flags().IntVar(&to, "to", festival.TableLastYear, "last year")
	return cmd
}

// =============================================================================
// self-test
// =============================================================================

func newSelfTestCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "self-test",
		Short: "Check boundary cases against the built-in table",
		Long: `Check boundary cases against the built-in table.

Without --file the built-in 2024/2025 cases are used. A case file is a YAML
list of {year, month, day, expected_zodiac_year}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cases := festival.DefaultBoundaryCases
			if file != "" {
				loaded, err := loadCases(file)
				if err != nil {
					return err
				}
				cases = loaded
			}

			results := festival.ValidateBoundary(cases)
			failed := 0
			for _, r := range results {
				if !r.Pass {
					failed++
				}
			}

			if opts.asJSON {
				if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					status := "PASS"
					if !r.Pass {
						status = "FAIL"
					}
					if r.Error != "" {
						fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", status, r.Input, r.Error)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  festival %s  zodiac year %d\n", status, r.Input, r.SpringFestival, r.ZodiacYear)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d boundary cases failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML file of boundary cases")
	return cmd
}

func loadCases(path string) ([]festival.BoundaryCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}

	var cases []festival.BoundaryCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parse cases: %w", err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("no cases in %s", path)
	}
	return cases, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
