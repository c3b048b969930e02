package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/nightguard-api/internal/dto"
)

var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the caller's role or ownership does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState indicates the entity's current state does not permit the operation.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnauthenticated indicates missing or expired credentials.
	ErrUnauthenticated = errors.New("Not authenticated")
	// ErrUploadTooLarge indicates the document exceeded the configured limit.
	ErrUploadTooLarge = errors.New("File too large. Maximum size is 5MB.")
	// ErrUploadTypeNotAllowed indicates the document extension or content is not accepted.
	ErrUploadTypeNotAllowed = errors.New("Invalid file type. Only JPG, PNG or PDF files are allowed.")
)

// Entity specific errors keep the messages clients already display.
var (
	ErrVenueNotFound    = kindError(ErrNotFound, "Venue not found")
	ErrIncidentNotFound = kindError(ErrNotFound, "Incident not found")
	ErrSignInNotFound   = kindError(ErrNotFound, "Security sign-in not found")
	ErrCameraNotFound   = kindError(ErrNotFound, "Camera not found")
	ErrCheckNotFound    = kindError(ErrNotFound, "Check record not found")
	ErrScheduleNotFound = kindError(ErrNotFound, "Shift schedule not found")
	ErrUserNotFound     = kindError(ErrNotFound, "User not found")
	ErrDocumentNotFound = kindError(ErrNotFound, "Document not found")

	ErrAlreadySignedOut = kindError(ErrInvalidState, "Security staff is already signed out")
	ErrAlreadyResolved  = kindError(ErrInvalidState, "Issue already resolved")
	ErrSelfDeletion     = kindError(ErrInvalidState, "Cannot delete your own account")

	ErrAdminRequired = kindError(ErrForbidden, "Unauthorized: Admin access required")

	ErrInvalidCredentials = kindError(ErrUnauthenticated, "Invalid username or password")
)

type classifiedError struct {
	kind    error
	message string
}

func (e *classifiedError) Error() string { return e.message }

func (e *classifiedError) Unwrap() error { return e.kind }

func kindError(kind error, message string) error {
	return &classifiedError{kind: kind, message: message}
}

func invalidState(format string, args ...interface{}) error {
	return kindError(ErrInvalidState, fmt.Sprintf(format, args...))
}

func forbidden(message string) error {
	return kindError(ErrForbidden, message)
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports a malformed or incomplete payload.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError without field details.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// validationFailed converts validator output into a ValidationError carrying
// the given summary message. Other errors are returned unchanged.
func validationFailed(message string, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, FieldError{
			Field:   fieldErr.Field(),
			Message: describeRule(fieldErr),
		})
	}
	return &ValidationError{Message: message, Fields: fields}
}

func describeRule(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "hhmm":
		return field + " must be a 24h time formatted HH:MM"
	case "bcrypt":
		return fmt.Sprintf("%s must be at most %d bytes", field, dto.MaxPasswordBytes)
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fieldErr.Tag())
	}
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}
