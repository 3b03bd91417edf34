// Package zodiac provides the twelve zodiac identities and the year cycle.
package zodiac

// Cycle constants
const (
	// AnchorYear is the reference year for the cycle. 2020 is a Rat year,
	// the first entry of the table.
	AnchorYear = 2020

	// CycleLength is the number of identities in one cycle.
	CycleLength = 12

	// DefaultSameYearsCount is how many same-animal years are listed by default.
	DefaultSameYearsCount = 11
)

// Identity is one of the twelve zodiac animals.
type Identity struct {
	Name        string `json:"name"`        // Chinese animal name, e.g. 鼠
	Animal      string `json:"animal"`      // English label, e.g. Rat
	Branch      string `json:"branch"`      // Earthly branch, e.g. 子
	Description string `json:"description"` // Short temperament description
}

// identities is ordered so that index 0 is the identity of AnchorYear.
var identities = [CycleLength]Identity{
	{Name: "鼠", Animal: "Rat", Branch: "子", Description: "机敏灵活，适应力强。"},
	{Name: "牛", Animal: "Ox", Branch: "丑", Description: "踏实稳重，责任感强。"},
	{Name: "虎", Animal: "Tiger", Branch: "寅", Description: "自信果敢，行动力高。"},
	{Name: "兔", Animal: "Rabbit", Branch: "卯", Description: "温和细腻，亲和力好。"},
	{Name: "龙", Animal: "Dragon", Branch: "辰", Description: "格局开阔，创造力强。"},
	{Name: "蛇", Animal: "Snake", Branch: "巳", Description: "思维缜密，洞察力佳。"},
	{Name: "马", Animal: "Horse", Branch: "午", Description: "热情奔放，执行力强。"},
	{Name: "羊", Animal: "Goat", Branch: "未", Description: "温柔体贴，注重和谐。"},
	{Name: "猴", Animal: "Monkey", Branch: "申", Description: "聪明机变，创意丰富。"},
	{Name: "鸡", Animal: "Rooster", Branch: "酉", Description: "认真负责，讲求效率。"},
	{Name: "狗", Animal: "Dog", Branch: "戌", Description: "忠诚可靠，重视承诺。"},
	{Name: "猪", Animal: "Pig", Branch: "亥", Description: "真诚豁达，乐观包容。"},
}

// Index returns the table index for a zodiac year.
//
// The result is always in [0, 11], including for negative years.
func Index(year int) int {
	return ((year-AnchorYear)%CycleLength + CycleLength) % CycleLength
}

// ForYear returns the identity for a zodiac year.
func ForYear(year int) Identity {
	return identities[Index(year)]
}

// All returns a copy of the full table in cycle order.
func All() []Identity {
	out := make([]Identity, CycleLength)
	copy(out, identities[:])
	return out
}

// SameAnimalYears returns count years sharing the identity of center,
// spaced 12 years apart and centred on center.
//
// Examples:
//   - SameAnimalYears(2024, 3) = [2012, 2024, 2036]
//   - SameAnimalYears(2024, 4) = [2000, 2012, 2024, 2036]
func SameAnimalYears(center, count int) []int {
	if count <= 0 {
		return nil
	}
	start := center - CycleLength*(count/2)
	years := make([]int, count)
	for i := range years {
		years[i] = start + i*CycleLength
	}
	return years
}
