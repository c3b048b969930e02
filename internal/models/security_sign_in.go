package models

import "time"

const (
	// SignInStatusOnDuty is set when a guard signs in.
	SignInStatusOnDuty = "on-duty"
	// SignInStatusOffDuty is set together with time_out on sign-out.
	SignInStatusOffDuty = "off-duty"
)

// SecuritySignIn is a guard's shift attendance record.
type SecuritySignIn struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SecurityName string     `gorm:"size:255;not null" json:"security_name"`
	BadgeNumber  string     `gorm:"size:64;not null" json:"badge_number"`
	VenueID      uint       `gorm:"not null;index" json:"venue_id"`
	Position     string     `gorm:"size:128;not null" json:"position"`
	Date         time.Time  `gorm:"not null" json:"date"`
	TimeIn       time.Time  `gorm:"not null" json:"time_in"`
	TimeOut      *time.Time `json:"time_out"`
	Notes        *string    `gorm:"type:text" json:"notes"`
	Status       string     `gorm:"size:32;not null;default:on-duty;index" json:"status"`
}

// TableName keeps the table name stable regardless of GORM pluralisation rules.
func (SecuritySignIn) TableName() string { return "security_sign_ins" }

// IsOnDuty reports whether the guard has not signed out yet.
func (s SecuritySignIn) IsOnDuty() bool {
	return s.Status == SignInStatusOnDuty
}
