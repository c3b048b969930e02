package models

import "time"

const (
	// VenueStatusOpen marks a venue currently trading.
	VenueStatusOpen = "open"
	// VenueStatusClosed is the initial status of every venue.
	VenueStatusClosed = "closed"
)

// Venue is a licensed premises covered by the security team.
type Venue struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   string    `gorm:"size:512;not null" json:"address"`
	Contact   string    `gorm:"size:255;not null" json:"contact"`
	Status    string    `gorm:"size:32;not null;default:closed" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOpen reports whether the venue is trading.
func (v Venue) IsOpen() bool {
	return v.Status == VenueStatusOpen
}
