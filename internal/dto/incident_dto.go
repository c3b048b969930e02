package dto

import "time"

// IncidentCreateRequest is the payload for POST /incidents. Any status sent
// by the client is ignored; new incidents always start pending.
type IncidentCreateRequest struct {
	Type            string    `json:"type" validate:"required,max=128"`
	Severity        string    `json:"severity" validate:"required,max=32"`
	Date            time.Time `json:"date" validate:"required"`
	VenueID         uint      `json:"venue_id" validate:"required"`
	Location        string    `json:"location" validate:"required,max=255"`
	Description     string    `json:"description" validate:"required"`
	InvolvedParties *string   `json:"involved_parties"`
	ActionsTaken    *string   `json:"actions_taken"`
	Witnesses       *string   `json:"witnesses"`
	ReportedBy      string    `json:"reported_by" validate:"required,max=255"`
	Position        string    `json:"position" validate:"required,max=128"`
	Status          string    `json:"status"`
	CreatedBy       *uint     `json:"created_by"`
}

// IncidentUpdateRequest is the partial payload for PUT /incidents/:id.
// Workflow fields are changed only through approve and reject.
type IncidentUpdateRequest struct {
	Type            *string    `json:"type" validate:"omitempty,min=1,max=128"`
	Severity        *string    `json:"severity" validate:"omitempty,min=1,max=32"`
	Date            *time.Time `json:"date"`
	VenueID         *uint      `json:"venue_id" validate:"omitempty,min=1"`
	Location        *string    `json:"location" validate:"omitempty,min=1,max=255"`
	Description     *string    `json:"description" validate:"omitempty,min=1"`
	InvolvedParties *string    `json:"involved_parties"`
	ActionsTaken    *string    `json:"actions_taken"`
	Witnesses       *string    `json:"witnesses"`
	ReportedBy      *string    `json:"reported_by" validate:"omitempty,min=1,max=255"`
	Position        *string    `json:"position" validate:"omitempty,min=1,max=128"`
}

// IncidentListQuery carries the optional list filters.
type IncidentListQuery struct {
	VenueID *uint
	Status  string
	UserID  *uint
}

// IncidentReviewRequest is the body of approve and reject.
type IncidentReviewRequest struct {
	Notes *string `json:"notes"`
}
