package ingestion

import "time"

// National holidays with a fixed calendar date, keyed "MM-DD".
var fixedHolidays = map[string]string{
	"01-01": "Confraternização Universal",
	"04-21": "Tiradentes",
	"05-01": "Dia do Trabalho",
	"09-07": "Independência",
	"10-12": "Nossa Senhora Aparecida",
	"11-02": "Finados",
	"11-15": "Proclamação da República",
	"11-20": "Consciência Negra",
	"12-25": "Natal",
}

// Offsets in days from Easter Sunday of the movable B3 holidays.
var easterOffsets = []int{
	-48, // carnival monday
	-47, // carnival tuesday
	-2,  // good friday
	60,  // corpus christi
}

// LastNBusinessDays returns the last n B3 business days up to and including
// from, most recent first.
func LastNBusinessDays(n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	for d := truncateToDate(from); len(out) < n; d = d.AddDate(0, 0, -1) {
		if IsBusinessDay(d) {
			out = append(out, d)
		}
	}
	return out
}

// IsBusinessDay reports whether B3 trades on d: not a weekend, not a fixed
// national holiday and not one of the Easter-based holidays.
func IsBusinessDay(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if _, ok := fixedHolidays[d.Format("01-02")]; ok {
		return false
	}
	day := truncateToDate(d)
	easter := easterSunday(d.Year(), d.Location())
	for _, off := range easterOffsets {
		if day.Equal(easter.AddDate(0, 0, off)) {
			return false
		}
	}
	return true
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// easterSunday uses the anonymous Gregorian (Meeus/Jones/Butcher) algorithm.
func easterSunday(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}
