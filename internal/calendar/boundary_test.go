package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/zapponejosh/shengxiao-api/internal/festival"
)

// countingResolver records how often the festival source is consulted.
type countingResolver struct {
	inner FestivalResolver
	calls int
}

func (c *countingResolver) Resolve(ctx context.Context, year int) festival.Date {
	c.calls++
	return c.inner.Resolve(ctx, year)
}

// fixedResolver always answers with the same date.
type fixedResolver festival.Date

func (f fixedResolver) Resolve(ctx context.Context, year int) festival.Date {
	return festival.Date(f)
}

func newTableResolver() *BoundaryResolver {
	return NewBoundaryResolver(festival.NewOfflineResolver())
}

func TestResolveZodiacYear_ExactFestival(t *testing.T) {
	br := newTableResolver()
	ctx := context.Background()

	tests := []struct {
		y, m, d int
		want    int
	}{
		{2024, 2, 9, 2023},
		{2024, 2, 10, 2024},
		{2025, 1, 28, 2024},
		{2025, 1, 29, 2025},
		{2024, 12, 31, 2024},
		{2024, 1, 1, 2023},
	}

	for _, tt := range tests {
		res, err := br.ResolveZodiacYear(ctx, tt.y, tt.m, tt.d, RuleExactFestival)
		if err != nil {
			t.Fatalf("ResolveZodiacYear(%d-%d-%d) error = %v", tt.y, tt.m, tt.d, err)
		}
		if res.ZodiacYear != tt.want {
			t.Errorf("ResolveZodiacYear(%d-%d-%d) = %d, want %d", tt.y, tt.m, tt.d, res.ZodiacYear, tt.want)
		}
		if res.Festival == nil || res.Festival.Source != festival.SourceTable {
			t.Errorf("Festival = %+v, want table source", res.Festival)
		}
	}
}

func TestResolveZodiacYear_DescriptionNamesFestivalAndSource(t *testing.T) {
	br := newTableResolver()

	res, err := br.ResolveZodiacYear(context.Background(), 2024, 2, 9, RuleExactFestival)
	if err != nil {
		t.Fatalf("ResolveZodiacYear() error = %v", err)
	}
	if !strings.Contains(res.RuleDescription, "2024-02-10") {
		t.Errorf("RuleDescription %q missing festival date", res.RuleDescription)
	}
	if !strings.Contains(res.RuleDescription, festival.SourceTable) {
		t.Errorf("RuleDescription %q missing source", res.RuleDescription)
	}
}

func TestResolveZodiacYear_FixedApproximate(t *testing.T) {
	counter := &countingResolver{inner: festival.NewOfflineResolver()}
	br := NewBoundaryResolver(counter)
	ctx := context.Background()

	tests := []struct {
		y, m, d int
		want    int
	}{
		{2023, 2, 3, 2022},
		{2023, 2, 4, 2023},
		{2023, 1, 31, 2022},
		{2023, 3, 1, 2023},
	}

	for _, tt := range tests {
		res, err := br.ResolveZodiacYear(ctx, tt.y, tt.m, tt.d, RuleFixedApproximate)
		if err != nil {
			t.Fatalf("ResolveZodiacYear() error = %v", err)
		}
		if res.ZodiacYear != tt.want {
			t.Errorf("ResolveZodiacYear(%d-%d-%d) = %d, want %d", tt.y, tt.m, tt.d, res.ZodiacYear, tt.want)
		}
		if res.Festival != nil {
			t.Errorf("Festival = %+v, want nil for fixed rule", res.Festival)
		}
	}

	if counter.calls != 0 {
		t.Errorf("festival source consulted %d times for fixed rule", counter.calls)
	}
}

func TestResolveZodiacYear_UsesResolvedFestival(t *testing.T) {
	br := NewBoundaryResolver(fixedResolver{Month: 2, Day: 4, Source: festival.SourceFallback})

	res, err := br.ResolveZodiacYear(context.Background(), 2500, 2, 3, RuleExactFestival)
	if err != nil {
		t.Fatalf("ResolveZodiacYear() error = %v", err)
	}
	if res.ZodiacYear != 2499 {
		t.Errorf("ZodiacYear = %d, want 2499", res.ZodiacYear)
	}
	if !strings.Contains(res.RuleDescription, festival.SourceFallback) {
		t.Errorf("RuleDescription %q missing fallback tag", res.RuleDescription)
	}
}

func TestResolveZodiacYear_InvalidRule(t *testing.T) {
	br := newTableResolver()

	_, err := br.ResolveZodiacYear(context.Background(), 2024, 2, 9, BoundaryRule(99))
	if !errors.Is(err, ErrUnknownRule) {
		t.Errorf("error = %v, want ErrUnknownRule", err)
	}
}

func TestResolveZodiacYear_Idempotent(t *testing.T) {
	br := newTableResolver()
	ctx := context.Background()

	a, err := br.ResolveZodiacYear(ctx, 2025, 1, 28, RuleExactFestival)
	if err != nil {
		t.Fatal(err)
	}
	b, err := br.ResolveZodiacYear(ctx, 2025, 1, 28, RuleExactFestival)
	if err != nil {
		t.Fatal(err)
	}
	if a.ZodiacYear != b.ZodiacYear || a.RuleDescription != b.RuleDescription || *a.Festival != *b.Festival {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
}

func TestParseBoundaryRule(t *testing.T) {
	tests := []struct {
		in      string
		want    BoundaryRule
		wantErr bool
	}{
		{"lichun", RuleFixedApproximate, false},
		{"fixed", RuleFixedApproximate, false},
		{"Fixed-Approximate", RuleFixedApproximate, false},
		{"spring-festival", RuleExactFestival, false},
		{"exact", RuleExactFestival, false},
		{"", RuleExactFestival, false},
		{"lunar", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseBoundaryRule(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBoundaryRule(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownRule) {
			t.Errorf("ParseBoundaryRule(%q) error = %v, want ErrUnknownRule", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseBoundaryRule(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBoundaryRule_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Rule BoundaryRule `json:"rule"`
	}{RuleFixedApproximate})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"rule":"lichun"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var decoded struct {
		Rule BoundaryRule `json:"rule"`
	}
	if err := json.Unmarshal([]byte(`{"rule":"exact"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Rule != RuleExactFestival {
		t.Errorf("Rule = %v, want %v", decoded.Rule, RuleExactFestival)
	}

	if err := json.Unmarshal([]byte(`{"rule":"bogus"}`), &decoded); err == nil {
		t.Error("Unmarshal() of unknown rule should fail")
	}
}
