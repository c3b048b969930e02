package dto

// ScheduleCreateRequest is the payload for POST /shift-schedules.
type ScheduleCreateRequest struct {
	VenueID   uint   `json:"venue_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=128"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	Active    *bool  `json:"active"`
}

// ScheduleUpdateRequest is the partial payload for PUT /shift-schedules/:id.
type ScheduleUpdateRequest struct {
	VenueID   *uint   `json:"venue_id" validate:"omitempty,min=1"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=128"`
	StartTime *string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime   *string `json:"end_time" validate:"omitempty,hhmm"`
	Active    *bool   `json:"active"`
}
