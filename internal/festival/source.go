package festival

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// Source is a live data source for Spring Festival dates.
//
// BuildRequest prepares the HTTP request for a year. Parse extracts a
// candidate month/day from the response body and must reject payloads
// describing a different year.
type Source interface {
	Name() string
	BuildRequest(ctx context.Context, year int) (*http.Request, error)
	Parse(payload []byte, year int) (month, day int, ok bool)
}

// fullDatePattern matches YYYY-M-D with optional zero padding.
var fullDatePattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)

// monthDayPattern matches M-D keys used by holiday listings.
var monthDayPattern = regexp.MustCompile(`^\d{1,2}-\d{1,2}$`)

// parseFullDate splits a YYYY-MM-DD string into its parts.
func parseFullDate(s string) (year, month, day int, ok bool) {
	m := fullDatePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	day, _ = strconv.Atoi(m[3])
	return year, month, day, true
}

// =============================================================================
// timor.tech holiday listing
// =============================================================================

// DefaultTimorURL is the timor.tech yearly holiday endpoint.
const DefaultTimorURL = "https://timor.tech/api/holiday/year/%d/"

// timorFirstDayName is the label timor.tech uses for the first day of the lunar year.
const timorFirstDayName = "初一"

// TimorSource reads the yearly holiday listing published by timor.tech.
type TimorSource struct {
	// URLFormat is a fmt pattern taking the year. Defaults to DefaultTimorURL.
	URLFormat string
}

type timorPayload struct {
	Holiday map[string]*timorHoliday `json:"holiday"`
}

type timorHoliday struct {
	Holiday bool   `json:"holiday"`
	Name    string `json:"name"`
	Date    string `json:"date"`
}

// Name implements Source.
func (s TimorSource) Name() string { return "timor.tech" }

// BuildRequest implements Source.
func (s TimorSource) BuildRequest(ctx context.Context, year int) (*http.Request, error) {
	format := s.URLFormat
	if format == "" {
		format = DefaultTimorURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(format, year), nil)
	if err != nil {
		return nil, fmt.Errorf("build timor request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Parse implements Source. The listing may contain several qualifying
// entries; the earliest by calendar order wins.
func (s TimorSource) Parse(payload []byte, year int) (int, int, bool) {
	var p timorPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Holiday == nil {
		return 0, 0, false
	}

	bestMonth, bestDay := 0, 0
	found := false
	for key, info := range p.Holiday {
		if info == nil || !info.Holiday || info.Name != timorFirstDayName {
			continue
		}

		full := info.Date
		if full == "" && monthDayPattern.MatchString(key) {
			full = fmt.Sprintf("%d-%s", year, key)
		}

		y, m, d, ok := parseFullDate(full)
		if !ok || y != year {
			continue
		}

		if !found || m*100+d < bestMonth*100+bestDay {
			bestMonth, bestDay = m, d
			found = true
		}
	}

	return bestMonth, bestDay, found
}

// =============================================================================
// Templated single-date source
// =============================================================================

// TemplateSource fetches a single date from a URL template containing
// "{year}". The response is either {"date":"YYYY-MM-DD"} or
// {"year":Y,"month":M,"day":D}.
type TemplateSource struct {
	Label    string
	Template string
}

type templatePayload struct {
	Date  string `json:"date"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Day   int    `json:"day"`
}

// Name implements Source.
func (s TemplateSource) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Template
}

// BuildRequest implements Source.
func (s TemplateSource) BuildRequest(ctx context.Context, year int) (*http.Request, error) {
	if !strings.Contains(s.Template, "{year}") {
		return nil, fmt.Errorf("source template %q has no {year} placeholder", s.Template)
	}
	url := strings.ReplaceAll(s.Template, "{year}", strconv.Itoa(year))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build template request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Parse implements Source.
func (s TemplateSource) Parse(payload []byte, year int) (int, int, bool) {
	var p templatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return 0, 0, false
	}

	if p.Date != "" {
		y, m, d, ok := parseFullDate(p.Date)
		if !ok || y != year {
			return 0, 0, false
		}
		return m, d, true
	}

	if p.Year != year || p.Month == 0 || p.Day == 0 {
		return 0, 0, false
	}
	return p.Month, p.Day, true
}

// ParseTemplateSources builds TemplateSources from a list of URL
// templates, labelling each by its host.
func ParseTemplateSources(templates []string) ([]Source, error) {
	var sources []Source
	for _, tmpl := range templates {
		tmpl = strings.TrimSpace(tmpl)
		if tmpl == "" {
			continue
		}
		if !strings.Contains(tmpl, "{year}") {
			return nil, fmt.Errorf("source template %q has no {year} placeholder", tmpl)
		}
		sources = append(sources, TemplateSource{Label: hostLabel(tmpl), Template: tmpl})
	}
	return sources, nil
}

// hostLabel returns the host portion of a URL template, or the template itself.
func hostLabel(tmpl string) string {
	rest := tmpl
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return tmpl
	}
	return rest
}
