package zodiac

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{2020, 0},
		{2021, 1},
		{2024, 4},
		{2031, 11},
		{2032, 0},
		{2019, 11},
		{2008, 0},
		{1900, 0},
		{0, 8},
		{-1, 7},
		{-2020, 4},
	}

	for _, tt := range tests {
		if got := Index(tt.year); got != tt.want {
			t.Errorf("Index(%d) = %d, want %d", tt.year, got, tt.want)
		}
	}
}

func TestForYear_Known(t *testing.T) {
	tests := []struct {
		year   int
		animal string
		branch string
	}{
		{2020, "Rat", "子"},
		{2023, "Rabbit", "卯"},
		{2024, "Dragon", "辰"},
		{2025, "Snake", "巳"},
		{1984, "Rat", "子"},
	}

	for _, tt := range tests {
		got := ForYear(tt.year)
		if got.Animal != tt.animal {
			t.Errorf("ForYear(%d).Animal = %q, want %q", tt.year, got.Animal, tt.animal)
		}
		if got.Branch != tt.branch {
			t.Errorf("ForYear(%d).Branch = %q, want %q", tt.year, got.Branch, tt.branch)
		}
	}
}

func TestForYear_Periodic(t *testing.T) {
	for year := -500; year <= 3000; year += 7 {
		a := ForYear(year)
		b := ForYear(year + CycleLength)
		if a != b {
			t.Fatalf("ForYear(%d) = %+v, ForYear(%d) = %+v, want equal", year, a, year+CycleLength, b)
		}
	}
}

func TestForYear_AlwaysInTable(t *testing.T) {
	seen := make(map[Identity]bool)
	for year := -30; year <= 30; year++ {
		seen[ForYear(year)] = true
	}
	if len(seen) != CycleLength {
		t.Errorf("distinct identities = %d, want %d", len(seen), CycleLength)
	}
	for id := range seen {
		found := false
		for _, entry := range identities {
			if entry == id {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("identity %+v not in table", id)
		}
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	if len(all) != CycleLength {
		t.Fatalf("len(All()) = %d, want %d", len(all), CycleLength)
	}

	all[0].Name = "changed"
	if ForYear(AnchorYear).Name != "鼠" {
		t.Error("mutating All() result changed the table")
	}
}

func TestSameAnimalYears(t *testing.T) {
	tests := []struct {
		name   string
		center int
		count  int
		want   []int
	}{
		{"odd count", 2024, 3, []int{2012, 2024, 2036}},
		{"even count", 2024, 4, []int{2000, 2012, 2024, 2036}},
		{"single", 1990, 1, []int{1990}},
		{"zero", 2024, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SameAnimalYears(tt.center, tt.count)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SameAnimalYears(%d, %d) mismatch (-want +got):\n%s", tt.center, tt.count, diff)
			}
		})
	}

	years := SameAnimalYears(2024, DefaultSameYearsCount)
	for _, y := range years {
		if ForYear(y) != ForYear(2024) {
			t.Errorf("year %d does not share identity with 2024", y)
		}
	}
}
