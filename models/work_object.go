package models

import "time"

// WorkObject is one name in a user's autocomplete vocabulary for the
// object/site field of an entry. The set grows as users type new objects.
type WorkObject struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null;uniqueIndex:idx_user_object"`
	Name      string `gorm:"size:255;not null;uniqueIndex:idx_user_object"`
}
