package repository

import "time"

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name             *string
	Email            *string
	Role             *string
	DocumentPath     *string
	DocumentType     *string
	DocumentVerified *bool
}

func (u UserUpdate) columns() map[string]interface{} {
	updates := map[string]interface{}{}
	setString(updates, "name", u.Name)
	setString(updates, "email", u.Email)
	setString(updates, "role", u.Role)
	setString(updates, "document_path", u.DocumentPath)
	setString(updates, "document_type", u.DocumentType)
	if u.DocumentVerified != nil {
		updates["document_verified"] = *u.DocumentVerified
	}
	return updates
}

// VenueUpdate carries a partial venue update.
type VenueUpdate struct {
	Name    *string
	Address *string
	Contact *string
	Status  *string
}

func (u VenueUpdate) columns() map[string]interface{} {
	updates := map[string]interface{}{}
	setString(updates, "name", u.Name)
	setString(updates, "address", u.Address)
	setString(updates, "contact", u.Contact)
	setString(updates, "status", u.Status)
	return updates
}

// IncidentUpdate carries a partial incident update. Review fields are only
// changed through IncidentRepository.Review.
type IncidentUpdate struct {
	Type            *string
	Severity        *string
	Date            *time.Time
	VenueID         *uint
	Location        *string
	Description     *string
	InvolvedParties *string
	ActionsTaken    *string
	Witnesses       *string
	ReportedBy      *string
	Position        *string
}

func (u IncidentUpdate) columns() map[string]interface{} {
	updates := map[string]interface{}{}
	setString(updates, "type", u.Type)
	setString(updates, "severity", u.Severity)
	if u.Date != nil {
		updates["date"] = *u.Date
	}
	if u.VenueID != nil {
		updates["venue_id"] = *u.VenueID
	}
	setString(updates, "location", u.Location)
	setString(updates, "description", u.Description)
	setString(updates, "involved_parties", u.InvolvedParties)
	setString(updates, "actions_taken", u.ActionsTaken)
	setString(updates, "witnesses", u.Witnesses)
	setString(updates, "reported_by", u.ReportedBy)
	setString(updates, "position", u.Position)
	return updates
}

// IncidentReview is the decision stamped onto a pending incident.
type IncidentReview struct {
	Status     string
	ReviewerID uint
	Notes      *string
	At         time.Time
}

// SignInUpdate carries a partial sign-in update. Status and time_out are only
// changed through SignInRepository.SignOut.
type SignInUpdate struct {
	SecurityName *string
	BadgeNumber  *string
	VenueID      *uint
	Position     *string
	Date         *time.Time
	TimeIn       *time.Time
	Notes        *string
}

func (u SignInUpdate) columns() map[string]interface{} {
	updates := map[string]interface{}{}
	setString(updates, "security_name", u.SecurityName)
	setString(updates, "badge_number", u.BadgeNumber)
	if u.VenueID != nil {
		updates["venue_id"] = *u.VenueID
	}
	setString(updates, "position", u.Position)
	if u.Date != nil {
		updates["date"] = *u.Date
	}
	if u.TimeIn != nil {
		updates["time_in"] = *u.TimeIn
	}
	setString(updates, "notes", u.Notes)
	return updates
}

// CameraUpdate carries a partial camera update.
type CameraUpdate struct {
	Name     *string
	Location *string
	VenueID  *uint
	Type     *string
	Status   *string
	Notes    *string
}

func (u CameraUpdate) columns() map[string]interface{} {
	updates := map[string]interface{}{}
	setString(updates, "name", u.Name)
	setString(updates, "location", u.Location)
	if u.VenueID != nil {
		updates["venue_id"] = *u.VenueID
	}
	setString(updates, "type", u.Type)
	setString(updates, "status", u.Status)
	setString(updates, "notes", u.Notes)
	return updates
}

// ScheduleUpdate carries a partial shift schedule update.
type ScheduleUpdate struct {
	VenueID   *uint
	Name      *string
	StartTime *string
	EndTime   *string
	Active    *bool
}

func (u ScheduleUpdate) columns() map[string]interface{} {
	updates := map[string]interface{}{}
	if u.VenueID != nil {
		updates["venue_id"] = *u.VenueID
	}
	setString(updates, "name", u.Name)
	setString(updates, "start_time", u.StartTime)
	setString(updates, "end_time", u.EndTime)
	if u.Active != nil {
		updates["active"] = *u.Active
	}
	return updates
}

func setString(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = *value
	}
}
