package model

import "time"

// AvailabilityDay holds one party's declared free intervals for one
// calendar date. The Slots payload is a JSON array of canonical
// "HH:MM-HH:MM" strings; the row is replaced wholesale on every write.
type AvailabilityDay struct {
	Party     string    `gorm:"primaryKey;size:16"`
	Date      string    `gorm:"primaryKey;size:10"` // ISO "YYYY-MM-DD"
	Slots     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
