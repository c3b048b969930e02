package dto

// VenueCreateRequest is the payload for POST /venues.
type VenueCreateRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address" validate:"required,max=512"`
	Contact string `json:"contact" validate:"required,max=255"`
	Status  string `json:"status" validate:"omitempty,oneof=open closed"`
}

// VenueUpdateRequest is the partial payload for PUT /venues/:id. A status
// toggle is sent as {"status": "open"}.
type VenueUpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=255"`
	Address *string `json:"address" validate:"omitempty,min=1,max=512"`
	Contact *string `json:"contact" validate:"omitempty,min=1,max=255"`
	Status  *string `json:"status" validate:"omitempty,oneof=open closed"`
}
