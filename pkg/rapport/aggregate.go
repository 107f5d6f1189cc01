package rapport

// Totals are derived from a report's entries and never stored independently;
// recompute them whenever the entry set changes.
type Totals struct {
	Hours         float64
	Absences      float64
	Overtime      float64
	Expenses      float64
	RequiredHours float64
}

// Aggregate sums the numeric entry fields. RequiredHours is worked hours plus
// absence hours: contracted time is fulfilled by presence or excused absence.
// Plain float64 addition; amounts are human-entered and small.
func Aggregate(entries []Entry) Totals {
	var t Totals
	for _, e := range entries {
		t.Hours += e.Hours
		t.Absences += e.Absences
		t.Overtime += e.Overtime
		t.Expenses += e.ExpenseAmount
	}
	t.RequiredHours = t.Hours + t.Absences
	return t
}
