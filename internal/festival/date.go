// Package festival resolves the solar-calendar date of the Spring Festival
// (Lunar New Year) for a Gregorian year.
//
// Resolution walks a chain of progressively coarser sources: live HTTP
// sources, an optional local override store, the built-in table and
// finally a fixed approximation. The chain never fails.
package festival

import (
	"errors"
	"fmt"
	"time"
)

// Provenance tags for Date.Source.
const (
	// SourceAPIPrefix prefixes the name of the live source that answered.
	SourceAPIPrefix = "api:"

	// SourceStore marks a date read from the local override store.
	SourceStore = "store:sqlite"

	// SourceTable marks a date from the built-in table.
	SourceTable = "built-in-table"

	// SourceFallback marks the fixed approximation used when nothing else answers.
	SourceFallback = "fallback-approximate"
)

// Fallback approximates the boundary with the Start of Spring solar term.
const (
	FallbackMonth = 2
	FallbackDay   = 4
)

// ErrYearOutOfRange is returned by direct table queries outside the built-in range.
var ErrYearOutOfRange = errors.New("year out of range")

// Date is the month and day of the Spring Festival in a given year,
// tagged with the source that produced it.
type Date struct {
	Month  int    `json:"month"`
	Day    int    `json:"day"`
	Source string `json:"source"`
}

// Format renders the date as YYYY-MM-DD for the given year.
func (d Date) Format(year int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, d.Month, d.Day)
}

// IsApproximate reports whether the date came from the fixed fallback.
func (d Date) IsApproximate() bool {
	return d.Source == SourceFallback
}

// Before reports whether (month, day) falls strictly before this date
// within the same year.
func (d Date) Before(month, day int) bool {
	return month < d.Month || (month == d.Month && day < d.Day)
}

func fallbackDate() Date {
	return Date{Month: FallbackMonth, Day: FallbackDay, Source: SourceFallback}
}

// isCalendarDate reports whether month/day exist in year.
func isCalendarDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Month() == time.Month(month) && t.Day() == day
}
