package models

import "time"

// Camera statuses.
const (
	CameraStatusActive      = "active"
	CameraStatusInactive    = "inactive"
	CameraStatusMaintenance = "maintenance"
)

// Check statuses.
const (
	CheckStatusWorking = "working"
	CheckStatusIssue   = "issue"
	CheckStatusOffline = "offline"
)

// Shift types a check can be recorded against.
const (
	ShiftTypeStart = "start"
	ShiftTypeEnd   = "end"
)

// CctvCamera is a camera installed at a venue.
type CctvCamera struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Location  string    `gorm:"size:255;not null" json:"location"`
	VenueID   uint      `gorm:"not null;index" json:"venue_id"`
	Type      string    `gorm:"size:64;not null" json:"type"`
	Status    string    `gorm:"size:32;not null;default:active" json:"status"`
	Notes     *string   `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// CctvCheck is a periodic inspection record of a camera.
type CctvCheck struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CameraID         uint      `gorm:"not null;index" json:"camera_id"`
	CheckedBy        uint      `gorm:"not null" json:"checked_by"`
	VenueID          uint      `gorm:"not null;index" json:"venue_id"`
	CheckTime        time.Time `gorm:"not null;index" json:"check_time"`
	ShiftType        string    `gorm:"size:16;not null" json:"shift_type"`
	Status           string    `gorm:"size:32;not null" json:"status"`
	IssueDescription *string   `gorm:"type:text" json:"issue_description"`
	ActionTaken      *string   `gorm:"type:text" json:"action_taken"`
	Resolved         bool      `gorm:"not null;default:false" json:"resolved"`
}

// HasOpenIssue reports whether the check flagged a fault that is still unresolved.
func (c CctvCheck) HasOpenIssue() bool {
	return c.Status != CheckStatusWorking && !c.Resolved
}
