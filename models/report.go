package models

import "time"

// Report is a user's persisted work report. Content is the full serialized
// entry blob (see pkg/rapport.Content); saving a report always rewrites the
// whole blob, there is no partial sync. Name and Period are duplicated out
// of the blob for listing without decoding it.
type Report struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null"`
	Name      string `gorm:"size:255;not null"`
	Period    string `gorm:"size:128"`
	Date      string `gorm:"size:32"` // report date, ISO yyyy-mm-dd
	Content   string `gorm:"type:text"`
}
