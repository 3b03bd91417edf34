package database

import (
	"time"
)

// FestivalOverride is a locally verified Spring Festival date for one year.
type FestivalOverride struct {
	Year      int       `json:"year" yaml:"year"`
	Month     int       `json:"month" yaml:"month"`
	Day       int       `json:"day" yaml:"day"`
	Note      *string   `json:"note,omitempty" yaml:"note,omitempty"` // nullable
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Valid reports whether the override is a real calendar date.
func (o FestivalOverride) Valid() bool {
	if o.Month < 1 || o.Month > 12 || o.Day < 1 {
		return false
	}
	t := time.Date(o.Year, time.Month(o.Month), o.Day, 0, 0, 0, 0, time.UTC)
	return t.Month() == time.Month(o.Month)
}

// ImportData is the YAML document loaded by the import command.
type ImportData struct {
	Metadata struct {
		Source      string `yaml:"source"`
		GeneratedAt string `yaml:"generated_at"`
	} `yaml:"metadata"`
	Overrides []FestivalOverride `yaml:"overrides"`
}
