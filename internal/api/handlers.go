package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/shengxiao-api/internal/calendar"
	"github.com/zapponejosh/shengxiao-api/internal/config"
	"github.com/zapponejosh/shengxiao-api/internal/database"
	"github.com/zapponejosh/shengxiao-api/internal/festival"
	"github.com/zapponejosh/shengxiao-api/internal/zodiac"
)

// OverrideStore is the subset of *database.DB used by the handlers.
type OverrideStore interface {
	Health(ctx context.Context) error
	GetFestivalOverride(ctx context.Context, year int) (*database.FestivalOverride, error)
	ListFestivalDates(ctx context.Context) ([]database.FestivalOverride, error)
	UpsertFestivalDate(ctx context.Context, o database.FestivalOverride) error
	DeleteFestivalDate(ctx context.Context, year int) error
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	festivals calendar.FestivalResolver
	boundary  *calendar.BoundaryResolver
	store     OverrideStore // nil when the store is disabled
	cfg       *config.Config
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance. store may be nil.
func NewHandlers(festivals calendar.FestivalResolver, store OverrideStore, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		festivals: festivals,
		boundary:  calendar.NewBoundaryResolver(festivals),
		store:     store,
		cfg:       cfg,
		logger:    logger,
	}
}

// ZodiacResponse is the result of a zodiac lookup.
type ZodiacResponse struct {
	*calendar.Resolution
	Identity        zodiac.Identity `json:"identity"`
	SameAnimalYears []int           `json:"same_animal_years"`
}

// IdentityResponse describes one zodiac year.
type IdentityResponse struct {
	ZodiacYear      int             `json:"zodiac_year"`
	Identity        zodiac.Identity `json:"identity"`
	SameAnimalYears []int           `json:"same_animal_years"`
}

// FestivalResponse is the resolved Spring Festival date for a year.
type FestivalResponse struct {
	Year        int    `json:"year"`
	Date        string `json:"date"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	Source      string `json:"source"`
	Approximate bool   `json:"approximate"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "healthy", "store": "disabled"}

	if h.store != nil {
		if err := h.store.Health(r.Context()); err != nil {
			h.logger.Warn("health check failed", slog.Any("error", err))
			WriteServiceUnavailable(w, "Database unhealthy", "HEALTH_CHECK_FAILED")
			return
		}
		status["store"] = "ok"
	}

	WriteSuccess(w, status)
}

// GetZodiac handles GET /api/v1/zodiac?year=&month=&day=&rule=
func (h *Handlers) GetZodiac(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	date, err := calendar.ValidateStrings(q.Get("year"), q.Get("month"), q.Get("day"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	h.writeZodiac(w, r, date, q.Get("rule"))
}

// GetZodiacByDate handles GET /api/v1/zodiac/date/{date}?rule=
func (h *Handlers) GetZodiacByDate(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDateString(chi.URLParam(r, "date"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	h.writeZodiac(w, r, date, r.URL.Query().Get("rule"))
}

func (h *Handlers) writeZodiac(w http.ResponseWriter, r *http.Request, date calendar.Date, ruleName string) {
	rule, err := calendar.ParseBoundaryRule(ruleName)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Unknown rule %q. Use lichun or spring-festival", ruleName), "UNKNOWN_RULE")
		return
	}

	res, err := h.boundary.ResolveZodiacYear(r.Context(), date.Year, date.Month, date.Day, rule)
	if err != nil {
		h.logger.Error("failed to resolve zodiac year",
			slog.String("date", date.String()),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve zodiac year")
		return
	}

	WriteSuccess(w, ZodiacResponse{
		Resolution:      res,
		Identity:        zodiac.ForYear(res.ZodiacYear),
		SameAnimalYears: zodiac.SameAnimalYears(res.ZodiacYear, zodiac.DefaultSameYearsCount),
	})
}

// GetIdentity handles GET /api/v1/zodiac/years/{year}
func (h *Handlers) GetIdentity(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	WriteSuccess(w, IdentityResponse{
		ZodiacYear:      year,
		Identity:        zodiac.ForYear(year),
		SameAnimalYears: zodiac.SameAnimalYears(year, zodiac.DefaultSameYearsCount),
	})
}

// GetTable handles GET /api/v1/zodiac/table
func (h *Handlers) GetTable(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]interface{}{
		"anchor_year": zodiac.AnchorYear,
		"identities":  zodiac.All(),
	})
}

// GetFestival handles GET /api/v1/festival/{year}
func (h *Handlers) GetFestival(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	sf := h.festivals.Resolve(r.Context(), year)
	WriteSuccess(w, FestivalResponse{
		Year:        year,
		Date:        sf.Format(year),
		Month:       sf.Month,
		Day:         sf.Day,
		Source:      sf.Source,
		Approximate: sf.IsApproximate(),
	})
}

// SelfTest handles POST /api/v1/festival/self-test
//
// The body is a list of boundary cases. An empty body runs the built-in
// acceptance cases.
func (h *Handlers) SelfTest(w http.ResponseWriter, r *http.Request) {
	var cases []festival.BoundaryCase
	if err := decodeJSON(r, &cases); err != nil && !errors.Is(err, io.EOF) {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if len(cases) == 0 {
		cases = festival.DefaultBoundaryCases
	}

	results := festival.ValidateBoundary(cases)
	passed := 0
	for _, res := range results {
		if res.Pass {
			passed++
		}
	}

	WriteSuccess(w, map[string]interface{}{
		"results": results,
		"passed":  passed,
		"total":   len(results),
	})
}

// ListOverrides handles GET /api/v1/festival/overrides
func (h *Handlers) ListOverrides(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	overrides, err := h.store.ListFestivalDates(r.Context())
	if err != nil {
		h.logger.Error("failed to list overrides", slog.Any("error", err))
		WriteInternalError(w, "Failed to list overrides")
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"overrides": overrides,
		"count":     len(overrides),
	})
}

// PutOverride handles PUT /api/v1/festival/overrides/{year}
func (h *Handlers) PutOverride(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Month int    `json:"month"`
		Day   int    `json:"day"`
		Note  string `json:"note,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	override := database.FestivalOverride{Year: year, Month: req.Month, Day: req.Day}
	if req.Note != "" {
		override.Note = &req.Note
	}

	if err := h.store.UpsertFestivalDate(r.Context(), override); err != nil {
		if errors.Is(err, database.ErrInvalidDate) {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("%d-%d-%d is not a calendar date", year, req.Month, req.Day), "INVALID_DATE")
			return
		}
		h.logger.Error("failed to save override", slog.Int("year", year), slog.Any("error", err))
		WriteInternalError(w, "Failed to save override")
		return
	}

	saved, err := h.store.GetFestivalOverride(r.Context(), year)
	if err != nil {
		h.logger.Error("failed to read back override", slog.Int("year", year), slog.Any("error", err))
		WriteInternalError(w, "Failed to read override")
		return
	}

	h.logger.Info("festival override saved",
		slog.Int("year", year),
		slog.Int("month", saved.Month),
		slog.Int("day", saved.Day),
	)
	WriteSuccess(w, saved)
}

// DeleteOverride handles DELETE /api/v1/festival/overrides/{year}
func (h *Handlers) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteFestivalDate(r.Context(), year); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, fmt.Sprintf("No override for %d", year))
			return
		}
		h.logger.Error("failed to delete override", slog.Int("year", year), slog.Any("error", err))
		WriteInternalError(w, "Failed to delete override")
		return
	}

	WriteSuccess(w, map[string]string{"message": "Override deleted"})
}

func (h *Handlers) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		WriteServiceUnavailable(w, "Override store is disabled", "STORE_DISABLED")
		return false
	}
	return true
}

// yearParam reads the {year} path parameter, writing a 400 on failure.
func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %q", raw))
		return 0, false
	}
	return year, true
}

// writeValidationError maps a calendar validation failure to a 400.
func writeValidationError(w http.ResponseWriter, err error) {
	var ve *calendar.ValidationError
	if !errors.As(err, &ve) {
		WriteBadRequest(w, err.Error())
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Error: &ErrorInfo{
			Message: ve.Message,
			Code:    ve.Code,
			MaxDay:  ve.MaxDay,
		},
	})
}

// decodeJSON decodes JSON request body.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(v)
}
