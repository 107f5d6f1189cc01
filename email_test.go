package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"arbeitsrapport/pkg/rapport"
)

func TestBuildReportEmail(t *testing.T) {
	entries := []rapport.Entry{
		{
			Date:     time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
			Object:   "Goldhaldestr",
			Location: "Zürich",
			Hours:    8,
		},
		{
			Date:   time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC),
			Object: "Büro",
			Hours:  2.5,
		},
	}
	body := buildReportEmail("März 2025", "01. - 31. März 2025", entries)

	assert.Contains(t, body, "Arbeitsrapport für März 2025")
	assert.Contains(t, body, "Zeitraum:</strong> 01. - 31. März 2025")
	assert.Contains(t, body, "<td>03.03.2025</td><td>Goldhaldestr</td><td>Zürich</td>")
	assert.Contains(t, body, ">10.50</strong>")
	assert.Contains(t, body, "CSV-Datei")
}

func TestBuildReportEmailEscapesHTML(t *testing.T) {
	entries := []rapport.Entry{{Object: "<script>alert(1)</script>"}}
	body := buildReportEmail("A & B", "März 2025", entries)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "A &amp; B")
}
