package dto

// CameraCreateRequest is the payload for POST /cctv/cameras.
type CameraCreateRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Location string  `json:"location" validate:"required,max=255"`
	VenueID  uint    `json:"venue_id" validate:"required"`
	Type     string  `json:"type" validate:"required,max=64"`
	Status   string  `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
	Notes    *string `json:"notes"`
}

// CameraUpdateRequest is the partial payload for PUT /cctv/cameras/:id.
type CameraUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Location *string `json:"location" validate:"omitempty,min=1,max=255"`
	VenueID  *uint   `json:"venue_id" validate:"omitempty,min=1"`
	Type     *string `json:"type" validate:"omitempty,min=1,max=64"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
	Notes    *string `json:"notes"`
}

// CheckCreateRequest is the payload for POST /cctv/checks. checked_by
// defaults to the caller and venue_id to the camera's venue.
type CheckCreateRequest struct {
	CameraID         uint    `json:"camera_id" validate:"required"`
	CheckedBy        *uint   `json:"checked_by"`
	VenueID          *uint   `json:"venue_id"`
	ShiftType        string  `json:"shift_type" validate:"required,oneof=start end"`
	Status           string  `json:"status" validate:"required,oneof=working issue offline"`
	IssueDescription *string `json:"issue_description"`
	ActionTaken      *string `json:"action_taken"`
}

// CheckResolveRequest is the body of POST /cctv/checks/:id/resolve.
type CheckResolveRequest struct {
	ActionTaken string `json:"action_taken"`
}

// CheckListQuery carries the optional list filters. A positive limit
// returns the most recent checks first.
type CheckListQuery struct {
	VenueID  *uint
	CameraID *uint
	Limit    int
}
