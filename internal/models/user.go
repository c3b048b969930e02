package models

import "time"

// Document types accepted for staff verification.
const (
	DocumentTypeSecurityLicense = "security_license"
	DocumentTypeRSACertificate  = "rsa_certificate"
)

// User is an operator of the register. The role is one of the permission ranks.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"size:128;uniqueIndex;not null" json:"username"`
	Password         string    `gorm:"size:255;not null" json:"-"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Email            string    `gorm:"size:255;not null" json:"email"`
	Role             string    `gorm:"size:32;not null;default:security" json:"role"`
	DocumentPath     *string   `gorm:"size:512" json:"document_path"`
	DocumentType     *string   `gorm:"size:64" json:"document_type"`
	DocumentVerified bool      `gorm:"not null;default:false" json:"document_verified"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
