package rapport

import (
	"errors"
	"sort"
	"time"
)

// ErrNoData means no entry matched the period (and object) filter at all.
// Callers must keep this distinct from a matched series that sums to zero
// hours; the two render differently.
var ErrNoData = errors.New("no entries in the selected period")

// UnknownObject labels entries whose object field is empty.
const UnknownObject = "Unbekannt"

// Series is a chart-ready label/value pairing.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// GroupByObject sums hours per distinct object over all entries of all given
// reports that fall inside p. Labels are ordered by descending hours; equal
// totals keep first-seen order. Entries without a resolvable date were
// already dropped at decode time and are skipped here via the zero check.
func GroupByObject(reports []Content, p Period) (Series, error) {
	hours := make(map[string]float64)
	var order []string
	for _, r := range reports {
		for _, e := range r.Entries {
			if e.Date.IsZero() || !p.Contains(e.Date) {
				continue
			}
			obj := e.Object
			if obj == "" {
				obj = UnknownObject
			}
			if _, seen := hours[obj]; !seen {
				order = append(order, obj)
			}
			hours[obj] += e.Hours
		}
	}
	if len(order) == 0 {
		return Series{}, ErrNoData
	}
	sort.SliceStable(order, func(i, j int) bool {
		return hours[order[i]] > hours[order[j]]
	})
	s := Series{Labels: order, Values: make([]float64, len(order))}
	for i, obj := range order {
		s.Values[i] = hours[obj]
	}
	return s, nil
}

// GroupByDay sums hours per day for one object over all entries that fall
// inside p, labeled dd.MM.yyyy and ordered by calendar date ascending.
func GroupByDay(reports []Content, p Period, object string) (Series, error) {
	daily := make(map[string]float64)
	days := make(map[string]time.Time)
	for _, r := range reports {
		for _, e := range r.Entries {
			if e.Date.IsZero() || !p.Contains(e.Date) || e.Object != object {
				continue
			}
			key := e.Date.Format("02.01.2006")
			daily[key] += e.Hours
			days[key] = e.Date
		}
	}
	if len(daily) == 0 {
		return Series{}, ErrNoData
	}
	labels := make([]string, 0, len(daily))
	for key := range daily {
		labels = append(labels, key)
	}
	sort.Slice(labels, func(i, j int) bool {
		return days[labels[i]].Before(days[labels[j]])
	})
	s := Series{Labels: labels, Values: make([]float64, len(labels))}
	for i, key := range labels {
		s.Values[i] = daily[key]
	}
	return s, nil
}
