package rapport

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowFormatting(t *testing.T) {
	e := Entry{
		Date:          date(2025, time.March, 1),
		OrderNumber:   "123",
		Location:      "Zürich",
		Object:        "Büro",
		Hours:         8,
		Expenses:      "",
		Notes:         "",
	}
	assert.Equal(t, `01.03.2025,123,Büro,Zürich,8,00,,,"",,""`, Row(e))
}

func TestRowZeroSuppressionAndQuoting(t *testing.T) {
	e := Entry{
		Date:          date(2025, time.March, 2),
		OrderNumber:   "A-77",
		Location:      "Bern",
		Object:        "Lager",
		Hours:         7.5,
		Absences:      1.25,
		Overtime:      0.5,
		Expenses:      `Parkhaus, "Zone 3"`,
		ExpenseAmount: 12.4,
		Notes:         "Schlüssel abgegeben",
	}
	row := Row(e)
	assert.Equal(t,
		`02.03.2025,A-77,Lager,Bern,7,50,1,25,0,50,"Parkhaus, ""Zone 3""",12,40,"Schlüssel abgegeben"`,
		row)
}

func TestRowRoundTrip(t *testing.T) {
	cases := []Entry{
		{
			Date:        date(2025, time.March, 1),
			OrderNumber: "123",
			Location:    "Zürich",
			Object:      "Büro",
			Hours:       8,
		},
		{
			Date:          date(2025, time.December, 31),
			OrderNumber:   "0815",
			Location:      "St. Gallen",
			Object:        "Inselweg 31",
			Hours:         4.25,
			Absences:      4,
			Overtime:      1.5,
			Expenses:      `Material, Schrauben, "Spezial"`,
			ExpenseAmount: 99.95,
			Notes:         "Nachmittag frei",
		},
		{
			Hours: 1, // no date
			Notes: "nur Notiz",
		},
	}
	for _, want := range cases {
		got, err := ParseRow(Row(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseRowRejectsGarbage(t *testing.T) {
	_, err := ParseRow("just,a,few,fields")
	assert.Error(t, err)
}

func TestBuildCSVDocument(t *testing.T) {
	entries := []Entry{{
		Date:        date(2025, time.March, 1),
		OrderNumber: "123",
		Location:    "Zürich",
		Object:      "Büro",
		Hours:       8,
	}}
	doc := BuildCSV("Max Muster", "01. - 15. März 2025", entries, Aggregate(entries))

	lines := strings.Split(doc, "\n")
	require.Len(t, lines, 6) // header, row, blank, Total, Sollstunden, trailing
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, `01.03.2025,123,Büro,Zürich,8,00,,,"",,""`, lines[1])
	assert.Equal(t, "", lines[2])
	// hours 8,00; absences and overtime blank; expenses total in its own column
	assert.Equal(t, "Total,,,,8,00,,,,0,00,", lines[3])
	assert.Equal(t, "Total Sollstunden,,,,8,00,,,,,", lines[4])
	assert.Equal(t, "", lines[5])
}

func TestBuildCSVEmptyReport(t *testing.T) {
	doc := BuildCSV("Leer", "März 2025", nil, Aggregate(nil))
	assert.True(t, strings.HasPrefix(doc, Header+"\n"))
	assert.Contains(t, doc, "Total,,,,0,00,,,,0,00,")
	assert.Contains(t, doc, "Total Sollstunden,,,,0,00,,,,,")
}

func TestFilename(t *testing.T) {
	assert.Equal(t,
		"Arbeitsrapport_Max_Muster_01._-_15._März_2025.csv",
		Filename("Max Muster", "01. - 15. März 2025"))
	assert.Equal(t, "Arbeitsrapport_X_Y.csv", Filename("X", "Y"))
}

func TestCSVFromContentPrefersCache(t *testing.T) {
	cached := "Datum,whatever\ncached\n"
	c := Content{
		Name:       "Alt",
		Period:     "März 2025",
		Entries:    []Entry{{Hours: 8, Object: "Büro"}},
		CSVContent: cached,
	}
	assert.Equal(t, cached, CSVFromContent(c))

	c.CSVContent = ""
	rebuilt := CSVFromContent(c)
	assert.True(t, strings.HasPrefix(rebuilt, Header+"\n"))
	assert.Contains(t, rebuilt, "8,00")
}

func TestCSVFromContentToleratesPartialEntries(t *testing.T) {
	raw := []byte(`{
		"name": "Teilweise",
		"period": "März 2025",
		"entries": [
			{"date": "2025-03-20", "object": "Goldhaldestr", "hours": "8"},
			{"hours": null},
			{"notes": 42}
		]
	}`)
	c, err := DecodeContent(raw)
	require.NoError(t, err)
	doc := CSVFromContent(c)
	assert.Contains(t, doc, "20.03.2025,,Goldhaldestr,,8,00")
	assert.Contains(t, doc, "Total,,,,8,00")
}
