package model

import "time"

// Booking records a confirmed slot selection made through the bot.
type Booking struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ChatID    int64     `gorm:"index;not null"`
	Username  string    `gorm:"size:128"`
	Date      string    `gorm:"index;size:10;not null"` // ISO "YYYY-MM-DD"
	Slot      string    `gorm:"size:64;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
