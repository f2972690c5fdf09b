package models

import "time"

// Event is a sales event (market, fair, ...). There is no edit operation.
type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Date      time.Time `gorm:"type:date;index" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
