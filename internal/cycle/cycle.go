// Package cycle maps Gregorian dates onto the Chinese sexagenary calendar:
// stem-branch pillars for years, months and days, two-hour periods, and the
// derived 60-day day signature that keys the behavioral memory store.
package cycle

import (
	"time"

	"bazical/internal/domain"
)

// HeavenlyStems is the 10-symbol stem alphabet (天干).
var HeavenlyStems = []string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

// EarthlyBranches is the 12-symbol branch alphabet (地支).
var EarthlyBranches = []string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

// StemElements maps each stem index to its Five Elements phase.
var StemElements = []string{"Wood", "Wood", "Fire", "Fire", "Earth", "Earth", "Metal", "Metal", "Water", "Water"}

// StemElementsCN is the Chinese form of StemElements.
var StemElementsCN = []string{"木", "木", "火", "火", "土", "土", "金", "金", "水", "水"}

// The anchor is 2000-01-01, which sits at position 54 of the 60-term
// sequence ("戊午"). Every derived signature hangs off this fixed point;
// changing it would desync all previously logged pattern data.
const (
	anchorCyclePos = 54
	anchorDays     = 10957 // daysFromCivil(2000, 1, 1)
)

// mod returns x mod n normalized to [0, n).
func mod(x, n int) int {
	return ((x % n) + n) % n
}

// daysFromCivil converts a proleptic Gregorian date to a day count relative
// to 1970-01-01. Pure integer calendar arithmetic, valid for any year; a
// time.Duration would saturate a few centuries out.
func daysFromCivil(y int, m time.Month, d int) int {
	if m <= time.February {
		y--
	}
	era := y / 400
	if y < 0 {
		era = (y - 399) / 400
	}
	yoe := y - era*400
	mp := int(m) + 9
	if m > time.February {
		mp = int(m) - 3
	}
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilDays counts the calendar day of t, ignoring time-of-day and location.
func civilDays(t time.Time) int {
	y, m, d := t.Date()
	return daysFromCivil(y, m, d)
}

// YearPillar returns the stem-branch pair for a calendar year. Year 4 CE is
// 甲子 (both indices zero); any positive or negative year is accepted.
func YearPillar(year int) domain.Pillar {
	return domain.Pillar{
		Stem:   HeavenlyStems[mod(year-4, 10)],
		Branch: EarthlyBranches[mod(year-4, 12)],
	}
}

// YearStemIndex returns the 0-9 stem index for a calendar year.
func YearStemIndex(year int) int {
	return mod(year-4, 10)
}

// YearElement returns the Five Elements phase of a year's stem, in English
// and Chinese.
func YearElement(year int) (en, cn string) {
	i := YearStemIndex(year)
	return StemElements[i], StemElementsCN[i]
}

// MonthPillar returns the stem-branch pair for a Gregorian month
// (month0 is 0-based, January = 0).
//
// This is an approximation: the branch follows the Gregorian month index
// directly and the stem is offset from the year stem, without true
// solar-term month boundaries. Previously logged data was derived under
// this scheme, so it must not be corrected without a versioned migration.
func MonthPillar(year, month0 int) domain.Pillar {
	branch := mod(month0+2, 12)
	stem := mod((YearStemIndex(year)%5)*2+month0+2, 10)
	return domain.Pillar{
		Stem:   HeavenlyStems[stem],
		Branch: EarthlyBranches[branch],
	}
}

// DayPillar returns the stem-branch pair for a calendar day.
func DayPillar(t time.Time) domain.Pillar {
	diff := civilDays(t) - anchorDays
	pos := mod(mod(diff, 60)+anchorCyclePos, 60)
	return domain.Pillar{
		Stem:   HeavenlyStems[pos%10],
		Branch: EarthlyBranches[pos%12],
	}
}

// DaySignature returns the two-character stem-branch signature for a
// calendar day. Exactly 60 signatures exist; the same one recurs every 60
// days, which is what lets entries logged under a signature resurface on
// its next occurrence.
func DaySignature(t time.Time) string {
	p := DayPillar(t)
	return p.Stem + p.Branch
}

// ShichenIndex maps a 0-23 hour onto the 12 two-hour periods. The 子 period
// spans the day boundary: 23:00 wraps to index 0.
func ShichenIndex(hour int) int {
	if hour >= 23 {
		return 0
	}
	return (hour + 1) / 2
}

// Shichen describes one of the 12 two-hour periods.
type Shichen struct {
	Branch string
	Name   string
	Time   string
	Animal int // index into ZodiacAnimals
}

// ShichenTable lists the 12 periods in branch order, starting at 子时.
var ShichenTable = []Shichen{
	{Branch: "子", Name: "子时", Time: "23:00-01:00", Animal: 0},
	{Branch: "丑", Name: "丑时", Time: "01:00-03:00", Animal: 1},
	{Branch: "寅", Name: "寅时", Time: "03:00-05:00", Animal: 2},
	{Branch: "卯", Name: "卯时", Time: "05:00-07:00", Animal: 3},
	{Branch: "辰", Name: "辰时", Time: "07:00-09:00", Animal: 4},
	{Branch: "巳", Name: "巳时", Time: "09:00-11:00", Animal: 5},
	{Branch: "午", Name: "午时", Time: "11:00-13:00", Animal: 6},
	{Branch: "未", Name: "未时", Time: "13:00-15:00", Animal: 7},
	{Branch: "申", Name: "申时", Time: "15:00-17:00", Animal: 8},
	{Branch: "酉", Name: "酉时", Time: "17:00-19:00", Animal: 9},
	{Branch: "戌", Name: "戌时", Time: "19:00-21:00", Animal: 10},
	{Branch: "亥", Name: "亥时", Time: "21:00-23:00", Animal: 11},
}

// HourPairs returns the stem-branch label for each of the day's 12 periods.
// The stem rotation is the simplified day-of-year scheme (each day advances
// the starting stem by two), not the classical day-stem derivation.
func HourPairs(t time.Time) []string {
	y, _, _ := t.Date()
	dayOfYear := civilDays(t) - daysFromCivil(y-1, time.December, 31)
	stemOffset := (dayOfYear * 2) % 10

	pairs := make([]string, len(ShichenTable))
	for i, shi := range ShichenTable {
		pairs[i] = HeavenlyStems[(stemOffset+i)%10] + shi.Branch
	}
	return pairs
}

// ValidStem reports whether s is one of the ten heavenly stems.
func ValidStem(s string) bool {
	for _, stem := range HeavenlyStems {
		if stem == s {
			return true
		}
	}
	return false
}

// ValidBranch reports whether s is one of the twelve earthly branches.
func ValidBranch(s string) bool {
	for _, branch := range EarthlyBranches {
		if branch == s {
			return true
		}
	}
	return false
}

// ValidSignature reports whether sig is a stem immediately followed by a
// branch, the only shape a day signature can take.
func ValidSignature(sig string) bool {
	runes := []rune(sig)
	if len(runes) != 2 {
		return false
	}
	return ValidStem(string(runes[0])) && ValidBranch(string(runes[1]))
}
