package models

import "time"

// SMTPSetting is a user's outgoing mail configuration (one-to-one with User).
// Reports are mailed through the user's own SMTP account; server-wide env
// values act only as a fallback.
type SMTPSetting struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"uniqueIndex;not null"`
	Host      string `gorm:"size:255;not null"`
	Port      int    `gorm:"not null;default:587"`
	Username  string `gorm:"size:255"`
	Password  string `gorm:"size:255"`
	UseTLS    bool   `gorm:"default:true"`
	FromEmail string `gorm:"size:255"`
}
