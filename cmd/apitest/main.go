// Command apitest runs a smoke test suite against a running Shengxiao API.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 [-v]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	MaxDay  int    `json:"max_day,omitempty"`
}

// ZodiacResponse is the response for /zodiac and /zodiac/date/{date}
type ZodiacResponse struct {
	ZodiacYear      int    `json:"zodiac_year"`
	Rule            string `json:"rule"`
	RuleDescription string `json:"rule_description"`
	Identity        struct {
		Name   string `json:"name"`
		Animal string `json:"animal"`
	} `json:"identity"`
	SameAnimalYears []int `json:"same_animal_years"`
}

// FestivalResponse is the response for /festival/{year}
type FestivalResponse struct {
	Year        int    `json:"year"`
	Date        string `json:"date"`
	Source      string `json:"source"`
	Approximate bool   `json:"approximate"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	out          io.Writer
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, client *http.Client, out io.Writer, verbose bool) *TestRunner {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		out:     out,
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Shengxiao API Test Suite")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testBoundaryDates()
	tr.testLichunRule()
	tr.testValidation()
	tr.testFestival()
	tr.testSelfTest()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := json.Unmarshal(resp.Data, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (store: %s)", health.Store))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testBoundaryDates() {
	tr.printSection("Spring Festival Boundaries")

	testCases := []struct {
		date       string
		wantYear   int
		wantAnimal string
	}{
		{"2024-02-09", 2023, "Rabbit"},
		{"2024-02-10", 2024, "Dragon"},
		{"2025-01-28", 2024, "Dragon"},
		{"2025-01-29", 2025, "Snake"},
	}

	for _, tc := range testCases {
		tr.checkZodiac(fmt.Sprintf("/api/v1/zodiac/date/%s", tc.date), tc.date, tc.wantYear, tc.wantAnimal)
	}
}

func (tr *TestRunner) testLichunRule() {
	tr.printSection("Start of Spring Rule")

	tr.checkZodiac("/api/v1/zodiac?year=2024&month=2&day=3&rule=lichun", "2024-02-03 lichun", 2023, "Rabbit")
	tr.checkZodiac("/api/v1/zodiac?year=2024&month=2&day=4&rule=lichun", "2024-02-04 lichun", 2024, "Dragon")
}

func (tr *TestRunner) testValidation() {
	tr.printSection("Validation")

	testCases := []struct {
		path     string
		wantCode string
	}{
		{"/api/v1/zodiac?year=2023&month=2&day=29", "DAY_OUT_OF_RANGE"},
		{"/api/v1/zodiac?year=2024&month=4&day=31", "DAY_OUT_OF_RANGE"},
		{"/api/v1/zodiac?year=1899&month=6&day=1", "YEAR_OUT_OF_RANGE"},
		{"/api/v1/zodiac?year=2024&month=13&day=1", "MONTH_OUT_OF_RANGE"},
		{"/api/v1/zodiac?year=2024.5&month=1&day=1", "NOT_INTEGER"},
		{"/api/v1/zodiac?year=2024&month=2&day=9&rule=equinox", "UNKNOWN_RULE"},
	}

	for _, tc := range testCases {
		resp, status, err := tr.getAny(tc.path)
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		if status != http.StatusBadRequest || resp.Error == nil || resp.Error.Code != tc.wantCode {
			tr.recordError(tc.path, fmt.Sprintf("Expected 400 %s, got %d %+v", tc.wantCode, status, resp.Error))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s rejected: %s", tc.wantCode, resp.Error.Message))
	}
}

func (tr *TestRunner) testFestival() {
	tr.printSection("Festival Dates")

	testCases := []struct {
		year            int
		wantDate        string
		wantApproximate bool
	}{
		{2024, "2024-02-10", false},
		{2025, "2025-01-29", false},
		{2200, "2200-02-04", true},
	}

	for _, tc := range testCases {
		resp, err := tr.get(fmt.Sprintf("/api/v1/festival/%d", tc.year))
		if err != nil {
			tr.recordError(fmt.Sprint(tc.year), err.Error())
			continue
		}

		var data FestivalResponse
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			tr.recordError(fmt.Sprint(tc.year), err.Error())
			continue
		}

		if data.Date == tc.wantDate && data.Approximate == tc.wantApproximate {
			tr.recordSuccess(fmt.Sprintf("%d: %s (%s)", tc.year, data.Date, data.Source))
		} else {
			tr.recordError(fmt.Sprint(tc.year), fmt.Sprintf("Expected %s, got %s (%s)", tc.wantDate, data.Date, data.Source))
		}
	}
}

func (tr *TestRunner) testSelfTest() {
	tr.printSection("Self Test")

	httpResp, err := tr.client.Post(tr.baseURL+"/api/v1/festival/self-test", "application/json", nil)
	if err != nil {
		tr.recordError("Self test", err.Error())
		return
	}
	defer httpResp.Body.Close()

	resp, err := decode(httpResp.Body)
	if err != nil {
		tr.recordError("Self test", err.Error())
		return
	}

	var data struct {
		Passed int `json:"passed"`
		Total  int `json:"total"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		tr.recordError("Self test", err.Error())
		return
	}

	if data.Total > 0 && data.Passed == data.Total {
		tr.recordSuccess(fmt.Sprintf("Self test passed %d/%d", data.Passed, data.Total))
	} else {
		tr.recordError("Self test", fmt.Sprintf("passed %d/%d", data.Passed, data.Total))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) checkZodiac(path, label string, wantYear int, wantAnimal string) {
	resp, err := tr.get(path)
	if err != nil {
		tr.recordError(label, err.Error())
		return
	}

	var data ZodiacResponse
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		tr.recordError(label, err.Error())
		return
	}

	if data.ZodiacYear != wantYear || data.Identity.Animal != wantAnimal {
		tr.recordError(label, fmt.Sprintf("Expected %d %s, got %d %s",
			wantYear, wantAnimal, data.ZodiacYear, data.Identity.Animal))
		return
	}

	tr.recordSuccess(fmt.Sprintf("%s: %d %s (%s)", label, data.ZodiacYear, data.Identity.Animal, data.Identity.Name))
	if tr.verbose {
		fmt.Fprintf(tr.out, "    Rule: %s\n", data.RuleDescription)
		fmt.Fprintf(tr.out, "    Same animal years: %v\n", data.SameAnimalYears)
	}
}

// get fetches path and fails unless the envelope reports success.
func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, _, err := tr.getAny(path)
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		errMsg := "unknown error"
		if resp.Error != nil {
			errMsg = resp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return resp, nil
}

// getAny fetches path and decodes the envelope regardless of status.
func (tr *TestRunner) getAny(path string) (*APIResponse, int, error) {
	httpResp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		return nil, 0, err
	}
	defer httpResp.Body.Close()

	resp, err := decode(httpResp.Body)
	if err != nil {
		return nil, httpResp.StatusCode, err
	}
	return resp, httpResp.StatusCode, nil
}

func decode(r io.Reader) (*APIResponse, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &apiResp, nil
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintln(tr.out)
	fmt.Fprintf(tr.out, "--- %s ---\n", name)
	fmt.Fprintln(tr.out)
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Summary")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)
	fmt.Fprintln(tr.out)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "Failures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		fmt.Fprintln(tr.out)
		fmt.Fprintf(tr.out, "Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}

	fmt.Fprintln(tr.out, "All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show rule details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, nil, os.Stdout, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
