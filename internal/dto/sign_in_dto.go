package dto

import "time"

// SignInCreateRequest is the payload for POST /security-sign-ins. Date and
// time_in default to the current time.
type SignInCreateRequest struct {
	SecurityName string     `json:"security_name" validate:"required,max=255"`
	BadgeNumber  string     `json:"badge_number" validate:"required,max=64"`
	VenueID      uint       `json:"venue_id" validate:"required"`
	Position     string     `json:"position" validate:"required,max=128"`
	Date         *time.Time `json:"date"`
	TimeIn       *time.Time `json:"time_in"`
	Notes        *string    `json:"notes"`
}

// SignInUpdateRequest is the partial payload for PUT /security-sign-ins/:id.
type SignInUpdateRequest struct {
	SecurityName *string    `json:"security_name" validate:"omitempty,min=1,max=255"`
	BadgeNumber  *string    `json:"badge_number" validate:"omitempty,min=1,max=64"`
	VenueID      *uint      `json:"venue_id" validate:"omitempty,min=1"`
	Position     *string    `json:"position" validate:"omitempty,min=1,max=128"`
	Date         *time.Time `json:"date"`
	TimeIn       *time.Time `json:"time_in"`
	Notes        *string    `json:"notes"`
}

// SignOutRequest is the optional body of POST /security-sign-ins/:id/sign-out.
type SignOutRequest struct {
	TimeOut *time.Time `json:"time_out"`
}

// SignInListQuery carries the optional list filters.
type SignInListQuery struct {
	VenueID    *uint
	ActiveOnly bool
}
