package models

import "time"

const (
	// IncidentStatusPending is assigned on creation and awaits review.
	IncidentStatusPending = "pending"
	// IncidentStatusApproved is terminal.
	IncidentStatusApproved = "approved"
	// IncidentStatusRejected is terminal.
	IncidentStatusRejected = "rejected"
)

// Incident is a reported security-relevant event at a venue.
type Incident struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Type            string     `gorm:"size:128;not null" json:"type"`
	Severity        string     `gorm:"size:32;not null" json:"severity"`
	Date            time.Time  `gorm:"not null;index" json:"date"`
	VenueID         uint       `gorm:"not null;index" json:"venue_id"`
	Location        string     `gorm:"size:255;not null" json:"location"`
	Description     string     `gorm:"type:text;not null" json:"description"`
	InvolvedParties *string    `gorm:"type:text" json:"involved_parties"`
	ActionsTaken    *string    `gorm:"type:text" json:"actions_taken"`
	Witnesses       *string    `gorm:"type:text" json:"witnesses"`
	ReportedBy      string     `gorm:"size:255;not null" json:"reported_by"`
	Position        string     `gorm:"size:128;not null" json:"position"`
	Status          string     `gorm:"size:32;not null;default:pending;index" json:"status"`
	ReviewedBy      *uint      `json:"reviewed_by"`
	ReviewDate      *time.Time `json:"review_date"`
	ReviewNotes     *string    `gorm:"type:text" json:"review_notes"`
	CreatedBy       *uint      `gorm:"index" json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsPending reports whether the incident still awaits a review decision.
func (i Incident) IsPending() bool {
	return i.Status == IncidentStatusPending
}

// ValidIncidentStatus reports whether status names a workflow state.
func ValidIncidentStatus(status string) bool {
	switch status {
	case IncidentStatusPending, IncidentStatusApproved, IncidentStatusRejected:
		return true
	default:
		return false
	}
}
