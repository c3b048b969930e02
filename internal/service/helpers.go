package service

import (
	"context"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/nightguard-api/internal/repository"
)

// notFoundAs replaces a repository miss with the entity specific error.
func notFoundAs(err error, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return err
}

// requireVenue reports a missing venue as a field error on venue_id.
func requireVenue(ctx context.Context, venues repository.VenueRepository, venueID uint, message string) error {
	if _, err := venues.GetByID(ctx, venueID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ValidationError{
				Message: message,
				Fields:  []FieldError{{Field: "venue_id", Message: "venue does not exist"}},
			}
		}
		return err
	}
	return nil
}

type textSanitizer struct {
	policy *bluemonday.Policy
}

func newTextSanitizer() textSanitizer {
	return textSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s textSanitizer) clean(value string) string {
	return strings.TrimSpace(s.policy.Sanitize(value))
}

func (s textSanitizer) cleanOptional(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := s.clean(*value)
	return &cleaned
}

func uintPtr(value uint) *uint { return &value }
