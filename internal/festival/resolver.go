package festival

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds each live source attempt.
const DefaultTimeout = 5 * time.Second

// maxPayloadBytes caps how much of a source response is read.
const maxPayloadBytes = 1 << 20

// Store is a read-only view of locally persisted festival dates.
// Implementations return an error when the year has no entry.
type Store interface {
	GetFestivalDate(ctx context.Context, year int) (Date, error)
}

// Resolver resolves Spring Festival dates through the source chain.
//
// A Resolver holds no mutable state and is safe for concurrent use.
type Resolver struct {
	client  *http.Client
	sources []Source
	store   Store
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the client used for live sources.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// WithSources replaces the live source list. An empty list disables live lookups.
func WithSources(sources ...Source) Option {
	return func(r *Resolver) { r.sources = sources }
}

// WithStore enables the local override store.
func WithStore(s Store) Option {
	return func(r *Resolver) { r.store = s }
}

// WithTimeout sets the per-source timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger used for source failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a resolver. By default it queries timor.tech with a
// five second timeout and has no store.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		client:  http.DefaultClient,
		sources: []Source{TimorSource{}},
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewOfflineResolver creates a resolver that never contacts live sources.
func NewOfflineResolver(opts ...Option) *Resolver {
	return NewResolver(append([]Option{WithSources()}, opts...)...)
}

// Sources returns the names of the configured live sources in order.
func (r *Resolver) Sources() []string {
	names := make([]string, len(r.sources))
	for i, s := range r.sources {
		names[i] = s.Name()
	}
	return names
}

// Resolve returns the Spring Festival date for year.
//
// Live sources are tried in order, then the store, then the built-in
// table. Years with no answer anywhere get the Feb 4 approximation.
// Resolve never fails; Date.Source tells the caller how precise the answer is.
func (r *Resolver) Resolve(ctx context.Context, year int) Date {
	for _, src := range r.sources {
		month, day, err := r.fetch(ctx, src, year)
		if err != nil {
			r.logger.DebugContext(ctx, "festival source failed",
				slog.String("source", src.Name()),
				slog.Int("year", year),
				slog.Any("error", err),
			)
			continue
		}
		return Date{Month: month, Day: day, Source: SourceAPIPrefix + src.Name()}
	}

	if r.store != nil {
		d, err := r.store.GetFestivalDate(ctx, year)
		if err == nil && isCalendarDate(year, d.Month, d.Day) {
			d.Source = SourceStore
			return d
		}
		if err != nil {
			r.logger.DebugContext(ctx, "festival store miss",
				slog.Int("year", year),
				slog.Any("error", err),
			)
		}
	}

	if d, ok := TableLookup(year); ok {
		return d
	}

	return fallbackDate()
}

// fetch runs a single source attempt bounded by the per-source timeout.
func (r *Resolver) fetch(ctx context.Context, src Source, year int) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := src.BuildRequest(ctx, year)
	if err != nil {
		return 0, 0, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return 0, 0, fmt.Errorf("read body: %w", err)
	}

	month, day, ok := src.Parse(payload, year)
	if !ok {
		return 0, 0, fmt.Errorf("no festival date for %d in payload", year)
	}
	if !isCalendarDate(year, month, day) {
		return 0, 0, fmt.Errorf("invalid date %d-%d for %d", month, day, year)
	}

	return month, day, nil
}
