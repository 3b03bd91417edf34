package festival

import "fmt"

// BoundaryCase is one expected boundary outcome checked against the built-in table.
type BoundaryCase struct {
	Year               int `json:"year" yaml:"year"`
	Month              int `json:"month" yaml:"month"`
	Day                int `json:"day" yaml:"day"`
	ExpectedZodiacYear int `json:"expected_zodiac_year" yaml:"expected_zodiac_year"`
}

// BoundaryResult is the outcome of checking a BoundaryCase.
type BoundaryResult struct {
	Input          string `json:"input"`
	SpringFestival string `json:"spring_festival,omitempty"`
	ZodiacYear     int    `json:"zodiac_year,omitempty"`
	Pass           bool   `json:"pass"`
	Error          string `json:"error,omitempty"`
}

// DefaultBoundaryCases are the acceptance cases around the 2024 and 2025
// Spring Festivals.
var DefaultBoundaryCases = []BoundaryCase{
	{Year: 2024, Month: 2, Day: 9, ExpectedZodiacYear: 2023},
	{Year: 2024, Month: 2, Day: 10, ExpectedZodiacYear: 2024},
	{Year: 2025, Month: 1, Day: 28, ExpectedZodiacYear: 2024},
	{Year: 2025, Month: 1, Day: 29, ExpectedZodiacYear: 2025},
}

// ValidateBoundary checks each case against the built-in table only.
// Years outside the table are reported as ErrYearOutOfRange instead of
// being approximated.
func ValidateBoundary(cases []BoundaryCase) []BoundaryResult {
	results := make([]BoundaryResult, 0, len(cases))
	for _, c := range cases {
		sf, ok := TableLookup(c.Year)
		if !ok {
			results = append(results, BoundaryResult{
				Input: fmt.Sprintf("%d-%d-%d", c.Year, c.Month, c.Day),
				Error: ErrYearOutOfRange.Error(),
			})
			continue
		}

		zodiacYear := c.Year
		if sf.Before(c.Month, c.Day) {
			zodiacYear = c.Year - 1
		}

		results = append(results, BoundaryResult{
			Input:          fmt.Sprintf("%04d-%02d-%02d", c.Year, c.Month, c.Day),
			SpringFestival: sf.Format(c.Year),
			ZodiacYear:     zodiacYear,
			Pass:           zodiacYear == c.ExpectedZodiacYear,
		})
	}
	return results
}
