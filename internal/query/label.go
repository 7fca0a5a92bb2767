package query

import (
	"fmt"
	"strings"
	"time"
)

// Locale carries the wording of relative time labels.
type Locale struct {
	Tag     string
	JustNow string
	// Ago is a fmt pattern taking the count and the unit word.
	Ago string

	Minute, Minutes string
	Hour, Hours     string
	Day, Days       string

	Months [12]string

	// DayFirst renders absolute dates as "15 ene" instead of "Jan 15".
	DayFirst bool
}

var (
	English = Locale{
		Tag:     "en",
		JustNow: "just now",
		Ago:     "%d %s ago",
		Minute:  "minute",
		Minutes: "minutes",
		Hour:    "hour",
		Hours:   "hours",
		Day:     "day",
		Days:    "days",
		Months:  [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	}

	Spanish = Locale{
		Tag:      "es",
		JustNow:  "Ahora mismo",
		Ago:      "Hace %d %s",
		Minute:   "minuto",
		Minutes:  "minutos",
		Hour:     "hora",
		Hours:    "horas",
		Day:      "día",
		Days:     "días",
		Months:   [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
		DayFirst: true,
	}
)

// LookupLocale resolves a language tag such as "es" or "es-ES". Unknown
// tags fall back to English.
func LookupLocale(tag string) Locale {
	base, _, _ := strings.Cut(strings.ToLower(tag), "-")
	switch base {
	case "es":
		return Spanish
	default:
		return English
	}
}

// RelativeLabel describes ts relative to now using the coarsest matching
// tier: under a minute, minutes, hours, days (under a week), then an
// absolute date that carries the year only when ts is over 365 days old.
// Absolute dates are rendered in now's location.
func RelativeLabel(ts, now time.Time, loc Locale) string {
	elapsed := now.Sub(ts)
	minutes := floorDiv(int64(elapsed), int64(time.Minute))
	hours := floorDiv(minutes, 60)
	days := floorDiv(hours, 24)

	switch {
	case minutes < 1:
		return loc.JustNow
	case minutes < 60:
		return loc.ago(minutes, loc.Minute, loc.Minutes)
	case hours < 24:
		return loc.ago(hours, loc.Hour, loc.Hours)
	case days < 7:
		return loc.ago(days, loc.Day, loc.Days)
	}

	return loc.date(ts.In(now.Location()), days > 365)
}

// LabelFor is RelativeLabel for an optional timestamp; absent yields "".
func LabelFor(ts *time.Time, now time.Time, loc Locale) string {
	if ts == nil {
		return ""
	}
	return RelativeLabel(*ts, now, loc)
}

func (l Locale) ago(n int64, one, many string) string {
	unit := many
	if n == 1 {
		unit = one
	}
	return fmt.Sprintf(l.Ago, n, unit)
}

func (l Locale) date(t time.Time, withYear bool) string {
	month := l.Months[t.Month()-1]
	clock := t.Format("15:04")

	if l.DayFirst {
		if withYear {
			return fmt.Sprintf("%d %s %d, %s", t.Day(), month, t.Year(), clock)
		}
		return fmt.Sprintf("%d %s, %s", t.Day(), month, clock)
	}
	if withYear {
		return fmt.Sprintf("%s %d, %d, %s", month, t.Day(), t.Year(), clock)
	}
	return fmt.Sprintf("%s %d, %s", month, t.Day(), clock)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
