package festival

// Built-in table bounds.
const (
	TableFirstYear = 1900
	TableLastYear  = 2100
)

// springFestivalTable holds the solar-calendar date of Lunar New Year,
// one [month, day] entry per year starting at TableFirstYear.
//
// 1900–2030 are verified against astronomical tables. 2031–2100 come from a
// 19-year Metonic-cycle approximation and may be off by one day.
var springFestivalTable = [TableLastYear - TableFirstYear + 1][2]int{
	// 1900–1909
	{1, 31}, {2, 19}, {2, 8}, {1, 29}, {2, 16}, {2, 4}, {1, 25}, {2, 13}, {2, 2}, {1, 22},
	// 1910–1919
	{2, 10}, {1, 30}, {2, 18}, {2, 6}, {1, 26}, {2, 14}, {2, 3}, {1, 23}, {2, 11}, {2, 1},
	// 1920–1929
	{2, 20}, {2, 8}, {1, 28}, {2, 16}, {2, 5}, {1, 25}, {2, 13}, {2, 2}, {1, 23}, {2, 10},
	// 1930–1939
	{1, 30}, {2, 17}, {2, 6}, {1, 26}, {2, 14}, {2, 4}, {1, 24}, {2, 11}, {1, 31}, {2, 19},
	// 1940–1949
	{2, 8}, {1, 27}, {2, 15}, {2, 5}, {1, 25}, {2, 13}, {2, 2}, {1, 22}, {2, 10}, {1, 29},
	// 1950–1959
	{2, 17}, {2, 6}, {1, 27}, {2, 14}, {2, 3}, {1, 24}, {2, 12}, {1, 31}, {2, 18}, {2, 8},
	// 1960–1969
	{1, 28}, {2, 15}, {2, 5}, {1, 25}, {2, 13}, {2, 2}, {1, 21}, {2, 9}, {1, 30}, {2, 17},
	// 1970–1979
	{2, 6}, {1, 27}, {2, 15}, {2, 3}, {1, 23}, {2, 11}, {1, 31}, {2, 18}, {2, 7}, {1, 28},
	// 1980–1989
	{2, 16}, {2, 5}, {1, 25}, {2, 13}, {2, 2}, {2, 20}, {2, 9}, {1, 29}, {2, 17}, {2, 6},
	// 1990–1999
	{1, 27}, {2, 15}, {2, 4}, {1, 23}, {2, 10}, {1, 31}, {2, 19}, {2, 7}, {1, 28}, {2, 16},
	// 2000–2009
	{2, 5}, {1, 24}, {2, 12}, {2, 1}, {1, 22}, {2, 9}, {1, 29}, {2, 18}, {2, 7}, {1, 26},
	// 2010–2019
	{2, 14}, {2, 3}, {1, 23}, {2, 10}, {1, 31}, {2, 19}, {2, 8}, {1, 28}, {2, 16}, {2, 5},
	// 2020–2029
	{1, 25}, {2, 12}, {2, 1}, {1, 22}, {2, 10}, {1, 29}, {2, 17}, {2, 6}, {1, 26}, {2, 13},
	// 2030–2039
	{2, 3}, {1, 23}, {2, 11}, {1, 31}, {2, 19}, {2, 8}, {1, 28}, {2, 15}, {2, 4}, {1, 24},
	// 2040–2049
	{2, 12}, {2, 1}, {1, 22}, {2, 10}, {1, 30}, {2, 17}, {2, 6}, {1, 26}, {2, 14}, {2, 2},
	// 2050–2059
	{1, 23}, {2, 11}, {1, 31}, {2, 19}, {2, 8}, {1, 28}, {2, 15}, {2, 4}, {1, 24}, {2, 12},
	// 2060–2069
	{2, 2}, {1, 21}, {2, 9}, {1, 29}, {2, 17}, {2, 5}, {1, 26}, {2, 14}, {2, 3}, {1, 23},
	// 2070–2079
	{2, 11}, {1, 31}, {2, 19}, {2, 7}, {1, 28}, {2, 15}, {2, 5}, {1, 24}, {2, 12}, {2, 2},
	// 2080–2089
	{1, 22}, {2, 9}, {1, 29}, {2, 17}, {2, 6}, {1, 27}, {2, 14}, {2, 4}, {1, 24}, {2, 10},
	// 2090–2099
	{1, 30}, {2, 18}, {2, 7}, {1, 27}, {2, 15}, {2, 4}, {1, 24}, {2, 11}, {2, 1}, {1, 22},
	// 2100
	{2, 8},
}

// TableLookup returns the built-in Spring Festival date for year.
// The second result is false for years outside [TableFirstYear, TableLastYear].
func TableLookup(year int) (Date, bool) {
	idx := year - TableFirstYear
	if idx < 0 || idx >= len(springFestivalTable) {
		return Date{}, false
	}
	entry := springFestivalTable[idx]
	return Date{Month: entry[0], Day: entry[1], Source: SourceTable}, true
}

// InTableRange reports whether the built-in table has an entry for year.
func InTableRange(year int) bool {
	return year >= TableFirstYear && year <= TableLastYear
}
