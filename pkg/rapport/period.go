package rapport

import (
	"strings"
	"time"

	"github.com/goodsign/monday"
)

const (
	layoutDayFull = "02. January 2006"
	layoutDay     = "2. January 2006"
	layoutMonth   = "January 2006"
)

// Period is a resolved date interval, inclusive on both ends.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the period.
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// ParsePeriod resolves the free-form period label of a report into a concrete
// interval. Labels are either machine-generated half-month presets
// ("01. - 15. März 2025"), a single picked date ("05. März 2025"), or a bare
// month ("März 2025"); anything else falls back to the current calendar month
// relative to now. The function is total: it always returns a usable interval
// with Start <= End. The second result is false when the fallback was taken,
// so callers can log the unparseable label.
func ParsePeriod(text string, now time.Time) (Period, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return currentMonth(now), false
	}

	if strings.Contains(text, "-") {
		parts := strings.Split(text, "-")
		if len(parts) != 2 {
			return currentMonth(now), false
		}
		left := strings.TrimSpace(parts[0])
		right := strings.TrimSpace(parts[1])
		// A left side without a year-looking substring is a bare day like
		// "01."; borrow month and year from the right side.
		if !strings.Contains(left, "20") {
			if fields := strings.Fields(right); len(fields) > 1 {
				left = left + " " + strings.Join(fields[1:], " ")
			}
		}
		start, okStart := parseGermanDate(left)
		end, okEnd := parseGermanDate(right)
		if okStart && okEnd {
			return Period{Start: start, End: end}, true
		}
		return currentMonth(now), false
	}

	if d, ok := parseGermanDate(text); ok {
		return Period{Start: d, End: d}, true
	}
	if m, err := monday.ParseInLocation(layoutMonth, text, time.UTC, monday.LocaleDeDE); err == nil {
		return monthSpan(m.Year(), m.Month()), true
	}
	return currentMonth(now), false
}

// parseGermanDate tries the zero-padded layout first, then the single-digit
// one; the first layout that yields a valid date wins.
func parseGermanDate(s string) (time.Time, bool) {
	for _, layout := range []string{layoutDayFull, layoutDay} {
		if t, err := monday.ParseInLocation(layout, s, time.UTC, monday.LocaleDeDE); err == nil {
			return midnight(t), true
		}
	}
	return time.Time{}, false
}

func currentMonth(now time.Time) Period {
	return monthSpan(now.Year(), now.Month())
}

func monthSpan(year int, month time.Month) Period {
	return Period{
		Start: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		// Day 0 of the following month is the last calendar day.
		End: time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC),
	}
}

// FirstHalf renders the preset label for day 1 through 15 of now's month.
func FirstHalf(now time.Time) string {
	return formatRange(
		time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		time.Date(now.Year(), now.Month(), 15, 0, 0, 0, 0, time.UTC),
	)
}

// SecondHalf renders the preset label for day 16 through the month's last day.
func SecondHalf(now time.Time) string {
	return formatRange(
		time.Date(now.Year(), now.Month(), 16, 0, 0, 0, 0, time.UTC),
		time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC),
	)
}

func formatRange(start, end time.Time) string {
	return start.Format("02.") + " - " + monday.Format(end, layoutDayFull, monday.LocaleDeDE)
}
