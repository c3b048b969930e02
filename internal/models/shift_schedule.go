package models

// ShiftSchedule is a named recurring shift window at a venue.
type ShiftSchedule struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	VenueID   uint   `gorm:"not null;index" json:"venue_id"`
	Name      string `gorm:"size:128;not null" json:"name"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Active    bool   `gorm:"not null" json:"active"`
}
