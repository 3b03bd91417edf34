package festival

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// quietLogger keeps resolver debug output out of test logs.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// fakeStore is an in-memory Store.
type fakeStore struct {
	dates map[int]Date
	err   error
}

func (s *fakeStore) GetFestivalDate(ctx context.Context, year int) (Date, error) {
	if s.err != nil {
		return Date{}, s.err
	}
	d, ok := s.dates[year]
	if !ok {
		return Date{}, errors.New("not found")
	}
	return d, nil
}

// serveJSON starts a server returning body with status for every request.
func serveJSON(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func templateFor(srv *httptest.Server, label string) TemplateSource {
	return TemplateSource{Label: label, Template: srv.URL + "/sf/{year}"}
}

func TestResolve_LiveSourceWins(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{"date":"2024-02-11"}`)

	r := NewResolver(
		WithSources(templateFor(srv, "fake")),
		WithLogger(quietLogger()),
	)

	got := r.Resolve(context.Background(), 2024)
	want := Date{Month: 2, Day: 11, Source: "api:fake"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_TimorSourceAgainstFake(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"code":0,"holiday":{"01-29":{"holiday":true,"name":"初一","date":"2025-01-29"}}}`)
	}))
	defer srv.Close()

	r := NewResolver(
		WithSources(TimorSource{URLFormat: srv.URL + "/api/holiday/year/%d/"}),
		WithLogger(quietLogger()),
	)

	got := r.Resolve(context.Background(), 2025)
	if got.Month != 1 || got.Day != 29 || got.Source != "api:timor.tech" {
		t.Errorf("Resolve() = %+v", got)
	}
	if gotPath != "/api/holiday/year/2025/" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestResolve_FailingSourcesFallThrough(t *testing.T) {
	serverError := serveJSON(t, http.StatusInternalServerError, `{"date":"2024-02-10"}`)
	malformed := serveJSON(t, http.StatusOK, `not json`)
	wrongYear := serveJSON(t, http.StatusOK, `{"date":"2023-01-22"}`)
	impossible := serveJSON(t, http.StatusOK, `{"year":2024,"month":2,"day":30}`)
	good := serveJSON(t, http.StatusOK, `{"year":2024,"month":2,"day":10}`)

	r := NewResolver(
		WithSources(
			templateFor(serverError, "500"),
			templateFor(malformed, "malformed"),
			templateFor(wrongYear, "wrong-year"),
			templateFor(impossible, "impossible"),
			templateFor(good, "good"),
		),
		WithLogger(quietLogger()),
	)

	got := r.Resolve(context.Background(), 2024)
	if got.Source != "api:good" {
		t.Errorf("Source = %q, want %q", got.Source, "api:good")
	}
}

func TestResolve_FirstSuccessSkipsRest(t *testing.T) {
	first := serveJSON(t, http.StatusOK, `{"date":"2024-02-10"}`)

	calls := 0
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"date":"2024-02-09"}`)
	}))
	defer second.Close()

	r := NewResolver(
		WithSources(templateFor(first, "first"), templateFor(second, "second")),
		WithLogger(quietLogger()),
	)

	got := r.Resolve(context.Background(), 2024)
	if got.Source != "api:first" {
		t.Errorf("Source = %q, want api:first", got.Source)
	}
	if calls != 0 {
		t.Errorf("second source called %d times, want 0", calls)
	}
}

func TestResolve_TimeoutFallsBackToTable(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		fmt.Fprint(w, `{"date":"2024-02-01"}`)
	}))
	defer slow.Close()

	r := NewResolver(
		WithSources(templateFor(slow, "slow")),
		WithTimeout(50*time.Millisecond),
		WithLogger(quietLogger()),
	)

	start := time.Now()
	got := r.Resolve(context.Background(), 2024)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Resolve() took %v, timeout not applied", elapsed)
	}

	want := Date{Month: 2, Day: 10, Source: SourceTable}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_UnreachableSource(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := NewResolver(
		WithSources(TemplateSource{Label: "gone", Template: url + "/{year}"}),
		WithLogger(quietLogger()),
	)

	got := r.Resolve(context.Background(), 2025)
	if got.Source != SourceTable || got.Month != 1 || got.Day != 29 {
		t.Errorf("Resolve() = %+v, want table 1-29", got)
	}
}

func TestResolve_StoreBeforeTable(t *testing.T) {
	store := &fakeStore{dates: map[int]Date{
		2024: {Month: 2, Day: 10},
		2200: {Month: 2, Day: 7},
		2201: {Month: 2, Day: 31},
	}}

	r := NewOfflineResolver(WithStore(store), WithLogger(quietLogger()))
	ctx := context.Background()

	if got := r.Resolve(ctx, 2024); got.Source != SourceStore {
		t.Errorf("Resolve(2024).Source = %q, want %q", got.Source, SourceStore)
	}
	if got := r.Resolve(ctx, 2200); got != (Date{Month: 2, Day: 7, Source: SourceStore}) {
		t.Errorf("Resolve(2200) = %+v", got)
	}
	// An impossible stored date is ignored.
	if got := r.Resolve(ctx, 2201); got.Source != SourceFallback {
		t.Errorf("Resolve(2201).Source = %q, want %q", got.Source, SourceFallback)
	}
	// Store miss goes to the table.
	if got := r.Resolve(ctx, 2025); got.Source != SourceTable {
		t.Errorf("Resolve(2025).Source = %q, want %q", got.Source, SourceTable)
	}
}

func TestResolve_StoreErrorIsSilent(t *testing.T) {
	r := NewOfflineResolver(
		WithStore(&fakeStore{err: errors.New("database is locked")}),
		WithLogger(quietLogger()),
	)

	got := r.Resolve(context.Background(), 2024)
	if got.Source != SourceTable {
		t.Errorf("Source = %q, want %q", got.Source, SourceTable)
	}
}

func TestResolve_Total(t *testing.T) {
	srv := serveJSON(t, http.StatusBadGateway, ``)
	r := NewResolver(
		WithSources(templateFor(srv, "down")),
		WithLogger(quietLogger()),
	)
	ctx := context.Background()

	for _, year := range []int{-4000, 0, 1899, 2101, 99999} {
		got := r.Resolve(ctx, year)
		want := Date{Month: FallbackMonth, Day: FallbackDay, Source: SourceFallback}
		if got != want {
			t.Errorf("Resolve(%d) = %+v, want %+v", year, got, want)
		}
		if !got.IsApproximate() {
			t.Errorf("Resolve(%d).IsApproximate() = false", year)
		}
	}

	for year := TableFirstYear; year <= TableLastYear; year++ {
		got := r.Resolve(ctx, year)
		if got.Source == "" {
			t.Fatalf("Resolve(%d) has empty source", year)
		}
		if !isCalendarDate(year, got.Month, got.Day) {
			t.Fatalf("Resolve(%d) = %+v is not a calendar date", year, got)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{"date":"2024-02-10"}`)
	r := NewResolver(WithSources(templateFor(srv, "fake")), WithLogger(quietLogger()))
	ctx := context.Background()

	first := r.Resolve(ctx, 2024)
	second := r.Resolve(ctx, 2024)
	if first != second {
		t.Errorf("Resolve() not idempotent: %+v vs %+v", first, second)
	}
}

func TestNewResolver_Defaults(t *testing.T) {
	r := NewResolver()
	if diff := cmp.Diff([]string{"timor.tech"}, r.Sources()); diff != "" {
		t.Errorf("Sources() mismatch (-want +got):\n%s", diff)
	}
	if r.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", r.timeout, DefaultTimeout)
	}

	if got := NewOfflineResolver().Sources(); len(got) != 0 {
		t.Errorf("offline Sources() = %v, want none", got)
	}
}
