// Package calendar validates Gregorian birth dates and resolves the zodiac
// year they fall in under a chosen year-boundary rule.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Supported year range for input dates. This is a business limit matching
// the built-in festival table, not a calendar limit.
const (
	MinYear = 1900
	MaxYear = 2100
)

// Validation error codes.
const (
	CodeNotInteger      = "NOT_INTEGER"
	CodeYearOutOfRange  = "YEAR_OUT_OF_RANGE"
	CodeMonthOutOfRange = "MONTH_OUT_OF_RANGE"
	CodeDayOutOfRange   = "DAY_OUT_OF_RANGE"
)

// ValidationError describes why an input date was rejected.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	MaxDay  int    `json:"max_day,omitempty"` // set for DAY_OUT_OF_RANGE
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Date is a naive calendar date.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in month of year, or 0 for an
// invalid month.
func DaysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeap(year) {
		return 29
	}
	return monthDays[month-1]
}

// Validate checks that year/month/day is an existing date within the
// supported range. Checks run in order and stop at the first failure.
// It returns nil or a *ValidationError.
func Validate(year, month, day int) error {
	if year < MinYear || year > MaxYear {
		return &ValidationError{
			Code:    CodeYearOutOfRange,
			Message: fmt.Sprintf("year must be between %d and %d, got %d", MinYear, MaxYear, year),
		}
	}

	if month < 1 || month > 12 {
		return &ValidationError{
			Code:    CodeMonthOutOfRange,
			Message: fmt.Sprintf("month must be between 1 and 12, got %d", month),
		}
	}

	maxDay := DaysInMonth(year, month)
	if day < 1 || day > maxDay {
		return &ValidationError{
			Code:    CodeDayOutOfRange,
			Message: fmt.Sprintf("date does not exist: %04d-%02d has at most %d days, got %d", year, month, maxDay, day),
			MaxDay:  maxDay,
		}
	}

	return nil
}

// ValidateStrings parses raw year/month/day input and validates it.
// Non-numeric or fractional values fail with CodeNotInteger before the
// range checks run.
func ValidateStrings(year, month, day string) (Date, error) {
	var parsed [3]int
	for i, raw := range [3]string{year, month, day} {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Date{}, &ValidationError{
				Code:    CodeNotInteger,
				Message: "year, month and day must be whole numbers",
			}
		}
		parsed[i] = n
	}

	d := Date{Year: parsed[0], Month: parsed[1], Day: parsed[2]}
	if err := Validate(d.Year, d.Month, d.Day); err != nil {
		return Date{}, err
	}
	return d, nil
}

// ParseDateString parses and validates a YYYY-MM-DD string.
func ParseDateString(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Date{}, &ValidationError{
			Code:    CodeNotInteger,
			Message: fmt.Sprintf("invalid date %q, use YYYY-MM-DD", s),
		}
	}
	return ValidateStrings(parts[0], parts[1], parts[2])
}
