package rapport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Header is the fixed CSV column schema. The column order is load-bearing:
// rows, totals and the parser all index into it.
const Header = "Datum,Auftrag Nr.,Objekt oder Strasse,Ort,Std.,Absenzen,Überstd.,Auslagen und Bemerkungen,Auslagen Fr.,Notizen"

var whitespaceRE = regexp.MustCompile(`\s+`)

// BuildCSV renders a full report document: header, one row per entry, a blank
// separator line, the Total row and the Total Sollstunden row. Numbers use a
// comma as decimal separator; the delimiter stays a plain comma, so numeric
// cells span two tokens when split naively. ParseRow knows how to undo that.
func BuildCSV(name, period string, entries []Entry, totals Totals) string {
	var b strings.Builder
	b.WriteString(Header + "\n")
	for _, e := range entries {
		b.WriteString(Row(e) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(strings.Join([]string{
		"Total", "", "", "",
		decimal(totals.Hours),
		zeroBlank(totals.Absences),
		zeroBlank(totals.Overtime),
		"",
		decimal(totals.Expenses),
		"",
	}, ",") + "\n")
	b.WriteString(strings.Join([]string{
		"Total Sollstunden", "", "", "",
		decimal(totals.RequiredHours),
		"", "", "", "", "",
	}, ",") + "\n")
	return b.String()
}

// Row renders one entry as a CSV data row. Only the free-text expenses and
// notes columns are quoted; date and numeric cells are emitted raw.
func Row(e Entry) string {
	date := ""
	if !e.Date.IsZero() {
		date = e.Date.Format("02.01.2006")
	}
	return strings.Join([]string{
		date,
		e.OrderNumber,
		e.Object,
		e.Location,
		decimal(e.Hours),
		zeroBlank(e.Absences),
		zeroBlank(e.Overtime),
		quote(e.Expenses),
		zeroBlank(e.ExpenseAmount),
		quote(e.Notes),
	}, ",")
}

// ParseRow reconstructs an entry from a data row produced by Row. Unquoted
// numeric cells carry decimal commas, so a non-blank number occupies two
// comma-split tokens ("8,00" -> "8" + "00") while a blank one occupies one.
func ParseRow(line string) (Entry, error) {
	toks := splitQuoted(line)
	idx := 0
	next := func() string {
		if idx < len(toks) {
			v := toks[idx]
			idx++
			return v
		}
		return ""
	}
	number := func() float64 {
		t := next()
		if t == "" {
			return 0
		}
		frac := next()
		f, _ := strconv.ParseFloat(t+"."+frac, 64)
		return f
	}

	var e Entry
	date := next()
	e.OrderNumber = next()
	e.Object = next()
	e.Location = next()
	e.Hours = number()
	e.Absences = number()
	e.Overtime = number()
	e.Expenses = next()
	e.ExpenseAmount = number()
	e.Notes = next()
	if idx != len(toks) {
		return Entry{}, fmt.Errorf("malformed row: %d unconsumed fields", len(toks)-idx)
	}
	if date != "" {
		d, ok := ParseDate(date)
		if !ok {
			return Entry{}, fmt.Errorf("malformed row: bad date %q", date)
		}
		e.Date = d
	}
	return e, nil
}

// Filename builds the download name for a report export, with whitespace in
// the free-text name and period collapsed to underscores.
func Filename(name, period string) string {
	return "Arbeitsrapport_" +
		whitespaceRE.ReplaceAllString(name, "_") + "_" +
		whitespaceRE.ReplaceAllString(period, "_") + ".csv"
}

// CSVFromContent returns the CSV document for a stored report. A cached
// csv_content from a prior export is authoritative and returned verbatim;
// otherwise the document is rebuilt from the (tolerantly decoded) entries
// with freshly computed totals.
func CSVFromContent(c Content) string {
	if c.CSVContent != "" {
		return c.CSVContent
	}
	return BuildCSV(c.Name, c.Period, c.Entries, Aggregate(c.Entries))
}

// splitQuoted splits a row on commas outside double quotes, stripping the
// quotes and collapsing doubled quotes on the way.
func splitQuoted(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}

func decimal(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', 2, 64), ".", ",")
}

func zeroBlank(v float64) string {
	if v == 0 {
		return ""
	}
	return decimal(v)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
