// Package rapport implements the reporting core: work entries, totals,
// period parsing, CSV rendering and chart grouping. Everything in here is
// pure and synchronous; persistence and transport live with the callers.
package rapport

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/goodsign/monday"
)

const isoDate = "2006-01-02"

// Entry is a single day's work record. Date is a calendar date (midnight
// UTC); locale formatting happens only at the CSV boundary.
type Entry struct {
	Date          time.Time
	OrderNumber   string
	Location      string
	Object        string
	Hours         float64
	Absences      float64
	Overtime      float64
	Expenses      string
	ExpenseAmount float64
	Notes         string
}

// IsZero reports whether the entry is an entirely-empty draft. The date does
// not count: a freshly created draft always carries today's date.
func (e Entry) IsZero() bool {
	return e.OrderNumber == "" && e.Location == "" && e.Object == "" &&
		e.Expenses == "" && e.Notes == "" &&
		e.Hours == 0 && e.Absences == 0 && e.Overtime == 0 && e.ExpenseAmount == 0
}

type entryWire struct {
	Date          string  `json:"date"`
	OrderNumber   string  `json:"orderNumber"`
	Location      string  `json:"location"`
	Object        string  `json:"object"`
	Hours         float64 `json:"hours"`
	Absences      float64 `json:"absences"`
	Overtime      float64 `json:"overtime"`
	Expenses      string  `json:"expenses"`
	ExpenseAmount float64 `json:"expenseAmount"`
	Notes         string  `json:"notes"`
}

// MarshalJSON writes the canonical wire form: ISO dates, numeric numerics.
func (e Entry) MarshalJSON() ([]byte, error) {
	w := entryWire{
		OrderNumber:   e.OrderNumber,
		Location:      e.Location,
		Object:        e.Object,
		Hours:         e.Hours,
		Absences:      e.Absences,
		Overtime:      e.Overtime,
		Expenses:      e.Expenses,
		ExpenseAmount: e.ExpenseAmount,
		Notes:         e.Notes,
	}
	if !e.Date.IsZero() {
		w.Date = e.Date.Format(isoDate)
	}
	return json.Marshal(w)
}

type entryLoose struct {
	Date          any `json:"date"`
	OrderNumber   any `json:"orderNumber"`
	Location      any `json:"location"`
	Object        any `json:"object"`
	Hours         any `json:"hours"`
	Absences      any `json:"absences"`
	Overtime      any `json:"overtime"`
	Expenses      any `json:"expenses"`
	ExpenseAmount any `json:"expenseAmount"`
	Notes         any `json:"notes"`
}

// UnmarshalJSON is the tolerant deserialization boundary for stored entries.
// Historical blobs carry numerics as numbers or strings and dates in several
// textual forms; anything that does not coerce falls back to the zero value
// instead of failing the whole report.
func (e *Entry) UnmarshalJSON(data []byte) error {
	*e = Entry{}
	var raw entryLoose
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if s := asString(raw.Date); s != "" {
		if d, ok := ParseDate(s); ok {
			e.Date = d
		}
	}
	e.OrderNumber = asString(raw.OrderNumber)
	e.Location = asString(raw.Location)
	e.Object = asString(raw.Object)
	e.Hours = asFloat(raw.Hours)
	e.Absences = asFloat(raw.Absences)
	e.Overtime = asFloat(raw.Overtime)
	e.Expenses = asString(raw.Expenses)
	e.ExpenseAmount = asFloat(raw.ExpenseAmount)
	e.Notes = asString(raw.Notes)
	return nil
}

// ParseDate resolves the date spellings found in stored reports: RFC3339
// timestamps, bare ISO dates, German numeric dd.MM.yyyy and the long German
// form used by the period picker. The result is truncated to a calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, isoDate, "02.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return midnight(t), true
		}
	}
	for _, layout := range []string{"02. January 2006", "2. January 2006"} {
		if t, err := monday.ParseInLocation(layout, s, time.UTC, monday.LocaleDeDE); err == nil {
			return midnight(t), true
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		n = strings.TrimSpace(strings.ReplaceAll(n, ",", "."))
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return 0
}
