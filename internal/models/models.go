package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Venue{},
		&Incident{},
		&SecuritySignIn{},
		&CctvCamera{},
		&CctvCheck{},
		&ShiftSchedule{},
		&Session{},
		&ActivityLog{},
	}
}
