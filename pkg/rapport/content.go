package rapport

import (
	"encoding/json"
	"fmt"
)

// ContentVersion is written into every newly encoded blob. Version 0 blobs
// are the pre-versioning ones written by earlier clients; they decode the
// same way.
const ContentVersion = 1

// Content is the persisted report blob. Reports are stored as one opaque
// JSON document and always written whole; the total_* fields and CSVContent
// are snapshot caches written at export time, never a source of truth for a
// live report.
type Content struct {
	Version            int     `json:"version,omitempty"`
	Name               string  `json:"name"`
	Period             string  `json:"period"`
	Entries            []Entry `json:"entries"`
	CSVContent         string  `json:"csv_content,omitempty"`
	TotalHours         float64 `json:"total_hours,omitempty"`
	TotalAbsences      float64 `json:"total_absences,omitempty"`
	TotalOvertime      float64 `json:"total_overtime,omitempty"`
	TotalExpenses      float64 `json:"total_expenses,omitempty"`
	TotalRequiredHours float64 `json:"total_required_hours,omitempty"`
	IsCSVExport        bool    `json:"is_csv_export,omitempty"`
}

// DecodeContent is the single boundary through which stored blobs re-enter
// the system. A malformed blob yields a usable zero-entry Content together
// with the error, so list-style callers can log and carry on while a
// single-report load can surface the failure.
func DecodeContent(raw []byte) (Content, error) {
	var c Content
	if len(raw) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return Content{}, fmt.Errorf("decode report content: %w", err)
	}
	return c, nil
}

// EncodeContent serializes a content blob at the current schema version.
func EncodeContent(c Content) []byte {
	c.Version = ContentVersion
	b, _ := json.Marshal(c)
	return b
}
