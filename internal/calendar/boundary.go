package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zapponejosh/shengxiao-api/internal/festival"
)

// BoundaryRule selects where a zodiac year starts.
type BoundaryRule int

const (
	// RuleFixedApproximate starts the year on Feb 4, approximating the
	// Start of Spring solar term.
	RuleFixedApproximate BoundaryRule = iota + 1

	// RuleExactFestival starts the year on the Spring Festival date.
	RuleExactFestival
)

// Fixed boundary used by RuleFixedApproximate.
const (
	FixedBoundaryMonth = 2
	FixedBoundaryDay   = 4
)

// ErrUnknownRule is returned for unrecognised boundary rule names.
var ErrUnknownRule = errors.New("unknown boundary rule")

// String returns the canonical name of the rule.
func (r BoundaryRule) String() string {
	switch r {
	case RuleFixedApproximate:
		return "lichun"
	case RuleExactFestival:
		return "spring-festival"
	default:
		return fmt.Sprintf("BoundaryRule(%d)", int(r))
	}
}

// IsValid reports whether r is one of the defined rules.
func (r BoundaryRule) IsValid() bool {
	return r == RuleFixedApproximate || r == RuleExactFestival
}

// MarshalText implements encoding.TextMarshaler.
func (r BoundaryRule) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRule, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *BoundaryRule) UnmarshalText(text []byte) error {
	rule, err := ParseBoundaryRule(string(text))
	if err != nil {
		return err
	}
	*r = rule
	return nil
}

// ParseBoundaryRule maps a rule name to a BoundaryRule.
//
// An empty name selects RuleExactFestival. Unrecognised names return
// ErrUnknownRule.
func ParseBoundaryRule(s string) (BoundaryRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lichun", "fixed", "fixed-approximate":
		return RuleFixedApproximate, nil
	case "", "spring-festival", "exact", "exact-festival":
		return RuleExactFestival, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRule, s)
	}
}

// FestivalResolver resolves Spring Festival dates. *festival.Resolver
// implements it.
type FestivalResolver interface {
	Resolve(ctx context.Context, year int) festival.Date
}

// Resolution is the zodiac year computed for a birth date.
type Resolution struct {
	BirthDate       Date           `json:"birth_date"`
	ZodiacYear      int            `json:"zodiac_year"`
	Rule            BoundaryRule   `json:"rule"`
	RuleDescription string         `json:"rule_description"`
	Festival        *festival.Date `json:"festival,omitempty"` // set for RuleExactFestival
}

// BoundaryResolver computes zodiac years for birth dates.
type BoundaryResolver struct {
	festivals FestivalResolver
}

// NewBoundaryResolver creates a resolver that looks up festival dates with f.
func NewBoundaryResolver(f FestivalResolver) *BoundaryResolver {
	return &BoundaryResolver{festivals: f}
}

// ResolveZodiacYear returns the zodiac year for year/month/day under rule.
//
// Only month and day are compared against the boundary; the year is
// assumed fixed. The festival source is consulted only for
// RuleExactFestival. The input is expected to have passed Validate.
func (br *BoundaryResolver) ResolveZodiacYear(ctx context.Context, year, month, day int, rule BoundaryRule) (*Resolution, error) {
	res := &Resolution{
		BirthDate: Date{Year: year, Month: month, Day: day},
		Rule:      rule,
	}

	switch rule {
	case RuleFixedApproximate:
		res.ZodiacYear = year
		if month < FixedBoundaryMonth || (month == FixedBoundaryMonth && day < FixedBoundaryDay) {
			res.ZodiacYear = year - 1
		}
		res.RuleDescription = "Start of Spring (approx. Feb 4)"

	case RuleExactFestival:
		sf := br.festivals.Resolve(ctx, year)
		res.ZodiacYear = year
		if sf.Before(month, day) {
			res.ZodiacYear = year - 1
		}
		res.RuleDescription = fmt.Sprintf("Spring Festival (%s, source: %s)", sf.Format(year), sf.Source)
		res.Festival = &sf

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownRule, int(rule))
	}

	return res, nil
}
