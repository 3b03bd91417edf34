// Command coverage sweeps a year range against a running Shengxiao API and
// reports where each Spring Festival date came from and whether the zodiac
// boundary flips on that date.
//
// Usage:
//
//	go run ./cmd/coverage -url http://localhost:8080 -start 1900 -years 201 [-o report.json]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

// APIResponse matches the API response structure
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type festivalData struct {
	Date        string `json:"date"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	Source      string `json:"source"`
	Approximate bool   `json:"approximate"`
}

type zodiacData struct {
	ZodiacYear int `json:"zodiac_year"`
}

// YearResult holds the result for a single year
type YearResult struct {
	Year       int    `json:"year"`
	Festival   string `json:"festival,omitempty"`
	Source     string `json:"source,omitempty"`
	BoundaryOK bool   `json:"boundary_ok"`
	Error      string `json:"error,omitempty"`
}

// SourceStats tracks statistics for each festival source
type SourceStats struct {
	Source string `json:"source"`
	Years  int    `json:"years"`
}

// Analysis summarizes a sweep.
type Analysis struct {
	TotalYears  int            `json:"total_years"`
	Exact       int            `json:"exact"`
	Approximate int            `json:"approximate"`
	Failed      int            `json:"failed"`
	BySource    []*SourceStats `json:"by_source"`
	Failures    []YearResult   `json:"failures,omitempty"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	startYear := flag.Int("start", 1900, "Start year")
	years := flag.Int("years", 201, "Number of years to test")
	verbose := flag.Bool("v", false, "Verbose output (show each year)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Shengxiao API - Festival Coverage Sweep")
	fmt.Println("================================================================")
	fmt.Printf("Base URL:    %s\n", *baseURL)
	fmt.Printf("Year Range:  %d to %d\n", *startYear, endYear)
	fmt.Println()

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	results := sweep(client, strings.TrimSuffix(*baseURL, "/"), *startYear, endYear, *verbose, os.Stdout)
	analysis := analyzeResults(results)
	printSummary(os.Stdout, analysis)

	if *outputFile != "" {
		if err := saveResults(*outputFile, results, analysis); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Results written to %s\n", *outputFile)
	}

	if analysis.Failed > 0 {
		os.Exit(1)
	}
}

func sweep(client *http.Client, baseURL string, startYear, endYear int, verbose bool, out io.Writer) []YearResult {
	results := make([]YearResult, 0, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		r := testYear(client, baseURL, year)
		results = append(results, r)

		if verbose {
			status := "✓"
			if r.Error != "" {
				status = "✗"
			}
			fmt.Fprintf(out, "  %s %d: %s (%s)\n", status, year, r.Festival, r.Source)
			if r.Error != "" {
				fmt.Fprintf(out, "      Error: %s\n", r.Error)
			}
		}
	}
	return results
}

// testYear fetches the festival date for year, then checks that the day
// before belongs to the previous zodiac year and the day itself does not.
// Approximate dates are not checked against the boundary.
func testYear(client *http.Client, baseURL string, year int) YearResult {
	result := YearResult{Year: year}

	var fest festivalData
	if err := fetch(client, fmt.Sprintf("%s/api/v1/festival/%d", baseURL, year), &fest); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Festival = fest.Date
	result.Source = fest.Source

	if fest.Approximate {
		result.BoundaryOK = true
		return result
	}

	day := time.Date(year, time.Month(fest.Month), fest.Day, 0, 0, 0, 0, time.UTC)
	eve := day.AddDate(0, 0, -1)

	var onDay, onEve zodiacData
	if err := fetch(client, fmt.Sprintf("%s/api/v1/zodiac/date/%s", baseURL, day.Format("2006-01-02")), &onDay); err != nil {
		result.Error = err.Error()
		return result
	}
	if err := fetch(client, fmt.Sprintf("%s/api/v1/zodiac/date/%s", baseURL, eve.Format("2006-01-02")), &onEve); err != nil {
		result.Error = err.Error()
		return result
	}

	if onDay.ZodiacYear != year || onEve.ZodiacYear != year-1 {
		result.Error = fmt.Sprintf("boundary mismatch: eve=%d day=%d", onEve.ZodiacYear, onDay.ZodiacYear)
		return result
	}

	result.BoundaryOK = true
	return result
}

func fetch(client *http.Client, url string, target interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error: %s", errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func analyzeResults(results []YearResult) *Analysis {
	analysis := &Analysis{}
	bySource := make(map[string]*SourceStats)

	for _, r := range results {
		analysis.TotalYears++

		if r.Error != "" {
			analysis.Failed++
			analysis.Failures = append(analysis.Failures, r)
			continue
		}

		if _, ok := bySource[r.Source]; !ok {
			bySource[r.Source] = &SourceStats{Source: r.Source}
		}
		bySource[r.Source].Years++

		if r.Source == "fallback-approximate" {
			analysis.Approximate++
		} else {
			analysis.Exact++
		}
	}

	for _, s := range bySource {
		analysis.BySource = append(analysis.BySource, s)
	}
	sort.Slice(analysis.BySource, func(i, j int) bool {
		return analysis.BySource[i].Source < analysis.BySource[j].Source
	})

	return analysis
}

func printSummary(w io.Writer, analysis *Analysis) {
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintf(w, "Total Years Tested: %d\n", analysis.TotalYears)
	fmt.Fprintf(w, "Exact:              %d\n", analysis.Exact)
	fmt.Fprintf(w, "Approximate:        %d\n", analysis.Approximate)
	fmt.Fprintf(w, "Failed:             %d\n", analysis.Failed)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "By source:")
	for _, s := range analysis.BySource {
		fmt.Fprintf(w, "  %-24s %d\n", s.Source, s.Years)
	}

	if len(analysis.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failures:")
		for _, f := range analysis.Failures {
			fmt.Fprintf(w, "  • %d: %s\n", f.Year, f.Error)
		}
	}
	fmt.Fprintln(w)
}

func saveResults(path string, results []YearResult, analysis *Analysis) error {
	report := struct {
		GeneratedAt string       `json:"generated_at"`
		Analysis    *Analysis    `json:"analysis"`
		Results     []YearResult `json:"results"`
	}{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Analysis:    analysis,
		Results:     results,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
