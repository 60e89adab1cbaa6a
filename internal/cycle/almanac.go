package cycle

import "time"

// ZodiacAnimal is one of the 12 zodiac animals.
type ZodiacAnimal struct {
	Emoji string
	Name  string
	CN    string
}

// ZodiacAnimals in branch order, starting with Rat (子).
var ZodiacAnimals = []ZodiacAnimal{
	{Emoji: "🐀", Name: "Rat", CN: "鼠"},
	{Emoji: "🐂", Name: "Ox", CN: "牛"},
	{Emoji: "🐅", Name: "Tiger", CN: "虎"},
	{Emoji: "🐇", Name: "Rabbit", CN: "兔"},
	{Emoji: "🐉", Name: "Dragon", CN: "龙"},
	{Emoji: "🐍", Name: "Snake", CN: "蛇"},
	{Emoji: "🐴", Name: "Horse", CN: "马"},
	{Emoji: "🐐", Name: "Goat", CN: "羊"},
	{Emoji: "🐵", Name: "Monkey", CN: "猴"},
	{Emoji: "🐔", Name: "Rooster", CN: "鸡"},
	{Emoji: "🐶", Name: "Dog", CN: "狗"},
	{Emoji: "🐷", Name: "Pig", CN: "猪"},
}

// YearZodiac returns the zodiac animal for a calendar year.
func YearZodiac(year int) ZodiacAnimal {
	return ZodiacAnimals[mod(year-4, 12)]
}

// SolarTermInfo is one of the 24 solar terms with its approximate date.
type SolarTermInfo struct {
	Name  string
	EN    string
	Month int
	Day   int
}

// SolarTerms with approximate Gregorian dates. Real term dates drift a day
// either way across years; SolarTerm matches with ±1 day tolerance.
var SolarTerms = []SolarTermInfo{
	{Name: "立春", EN: "Start of Spring", Month: 2, Day: 4},
	{Name: "雨水", EN: "Rain Water", Month: 2, Day: 19},
	{Name: "惊蛰", EN: "Awakening of Insects", Month: 3, Day: 6},
	{Name: "春分", EN: "Spring Equinox", Month: 3, Day: 21},
	{Name: "清明", EN: "Clear and Bright", Month: 4, Day: 5},
	{Name: "谷雨", EN: "Grain Rain", Month: 4, Day: 20},
	{Name: "立夏", EN: "Start of Summer", Month: 5, Day: 6},
	{Name: "小满", EN: "Grain Buds", Month: 5, Day: 21},
	{Name: "芒种", EN: "Grain in Ear", Month: 6, Day: 6},
	{Name: "夏至", EN: "Summer Solstice", Month: 6, Day: 21},
	{Name: "小暑", EN: "Minor Heat", Month: 7, Day: 7},
	{Name: "大暑", EN: "Major Heat", Month: 7, Day: 23},
	{Name: "立秋", EN: "Start of Autumn", Month: 8, Day: 7},
	{Name: "处暑", EN: "End of Heat", Month: 8, Day: 23},
	{Name: "白露", EN: "White Dew", Month: 9, Day: 8},
	{Name: "秋分", EN: "Autumn Equinox", Month: 9, Day: 23},
	{Name: "寒露", EN: "Cold Dew", Month: 10, Day: 8},
	{Name: "霜降", EN: "Frost Descent", Month: 10, Day: 23},
	{Name: "立冬", EN: "Start of Winter", Month: 11, Day: 7},
	{Name: "小雪", EN: "Minor Snow", Month: 11, Day: 22},
	{Name: "大雪", EN: "Major Snow", Month: 12, Day: 7},
	{Name: "冬至", EN: "Winter Solstice", Month: 12, Day: 22},
	{Name: "小寒", EN: "Minor Cold", Month: 1, Day: 6},
	{Name: "大寒", EN: "Major Cold", Month: 1, Day: 20},
}

// SolarTerm returns the solar term falling within a day of the given
// month/day, if any.
func SolarTerm(month, day int) (SolarTermInfo, bool) {
	for _, t := range SolarTerms {
		d := t.Day - day
		if t.Month == month && d >= -1 && d <= 1 {
			return t, true
		}
	}
	return SolarTermInfo{}, false
}

// LunarDate is an approximate lunar calendar position.
type LunarDate struct {
	Month     int
	Day       int
	MonthName string
	DayName   string
}

var lunarDayNames = []string{
	"", "初一", "初二", "初三", "初四", "初五", "初六", "初七", "初八", "初九", "初十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
	"廿一", "廿二", "廿三", "廿四", "廿五", "廿六", "廿七", "廿八", "廿九", "三十",
}

var lunarMonthNames = []string{"正", "二", "三", "四", "五", "六", "七", "八", "九", "十", "冬", "腊"}

// lunarNewYear maps a Gregorian year to the month/day of its lunar new
// year. A hardcoded lookup, not an astronomical computation; years outside
// the table fall back to Feb 1.
var lunarNewYear = map[int][2]int{
	2020: {1, 25}, 2021: {2, 12}, 2022: {2, 1}, 2023: {1, 22},
	2024: {2, 10}, 2025: {1, 29}, 2026: {2, 17}, 2027: {2, 6},
	2028: {1, 26}, 2029: {2, 13},
}

// LunarYearRanges labels the lunar year span per Gregorian year, for
// yearly-view display.
var LunarYearRanges = map[int]string{
	2020: "L.Jan-25 — Feb-11 '21",
	2021: "L.Feb-12 — Jan-31 '22",
	2022: "L.Feb-01 — Jan-21 '23",
	2023: "L.Jan-22 — Feb-09 '24",
	2024: "L.Feb-10 — Jan-28 '25",
	2025: "L.Jan-29 — Feb-16 '26",
	2026: "L.Feb-17 — Feb-05 '27",
	2027: "L.Feb-06 — Jan-25 '28",
	2028: "L.Jan-26 — Feb-12 '29",
	2029: "L.Feb-13 — Feb-02 '30",
}

func lunarNewYearDays(year int) int {
	lny, ok := lunarNewYear[year]
	if !ok {
		lny = [2]int{2, 1}
	}
	return daysFromCivil(year, time.Month(lny[0]), lny[1])
}

// Lunar approximates the lunar date for a calendar day: days since the
// lunar new year spread over alternating 30/29-day months. Good enough for
// display labels, not for festival computation.
func Lunar(t time.Time) LunarDate {
	days := civilDays(t)
	year, _, _ := t.Date()

	diffDays := days - lunarNewYearDays(year)
	if diffDays < 0 {
		// Before this year's new year: count from the previous lunar year.
		diffDays = days - lunarNewYearDays(year-1)
	}

	month := 1
	remaining := diffDays
	for remaining >= 30 && month < 12 {
		if month%2 == 1 {
			remaining -= 30
		} else {
			remaining -= 29
		}
		month++
	}

	d := remaining + 1
	if d < 1 {
		d = 1
	}
	if d > 30 {
		d = 30
	}

	return LunarDate{
		Month:     month,
		Day:       d,
		MonthName: lunarMonthNames[month-1] + "月",
		DayName:   lunarDayNames[d],
	}
}
