package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/observability"
	"github.com/noah-isme/nightguard-api/internal/permission"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

// ErrInvalidIncidentStatus is returned for status filters outside the workflow.
var ErrInvalidIncidentStatus = NewValidationError("Invalid status. Must be pending, approved, or rejected.")

// IncidentService manages incident reports and their review workflow.
type IncidentService interface {
	List(ctx context.Context, query dto.IncidentListQuery) ([]models.Incident, error)
	ListByStatus(ctx context.Context, status string) ([]models.Incident, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Incident, error)
	Get(ctx context.Context, id uint) (models.Incident, error)
	Create(ctx context.Context, actor Actor, payload dto.IncidentCreateRequest) (models.Incident, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.IncidentUpdateRequest) (models.Incident, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	Approve(ctx context.Context, actor Actor, id uint, notes *string) (models.Incident, error)
	Reject(ctx context.Context, actor Actor, id uint, notes string) (models.Incident, error)
}

type incidentService struct {
	repo      repository.IncidentRepository
	venues    repository.VenueRepository
	validator *validator.Validate
	activity  ActivityRecorder
	events    EventPublisher
	sanitizer textSanitizer
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewIncidentService constructs the incident service.
func NewIncidentService(repo repository.IncidentRepository, venues repository.VenueRepository, validator *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) IncidentService {
	return &incidentService{
		repo:      repo,
		venues:    venues,
		validator: validator,
		activity:  activity,
		events:    publisherOrNoop(events),
		sanitizer: newTextSanitizer(),
		logger:    logger.With().Str("component", "incident_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/nightguard-api/internal/service/incident"),
		now:       time.Now,
	}
}

func (s *incidentService) List(ctx context.Context, query dto.IncidentListQuery) ([]models.Incident, error) {
	filter := repository.IncidentFilter{
		VenueID:   query.VenueID,
		CreatedBy: query.UserID,
	}
	if models.ValidIncidentStatus(query.Status) {
		filter.Status = query.Status
	}
	return s.repo.List(ctx, filter)
}

func (s *incidentService) ListByStatus(ctx context.Context, status string) ([]models.Incident, error) {
	if !models.ValidIncidentStatus(status) {
		return nil, ErrInvalidIncidentStatus
	}
	return s.repo.List(ctx, repository.IncidentFilter{Status: status})
}

func (s *incidentService) ListByUser(ctx context.Context, userID uint) ([]models.Incident, error) {
	return s.repo.List(ctx, repository.IncidentFilter{CreatedBy: &userID})
}

func (s *incidentService) Get(ctx context.Context, id uint) (models.Incident, error) {
	incident, err := s.repo.GetByID(ctx, id)
	return incident, notFoundAs(err, ErrIncidentNotFound)
}

func (s *incidentService) Create(ctx context.Context, actor Actor, payload dto.IncidentCreateRequest) (models.Incident, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Incident{}, validationFailed("Invalid incident data", err)
	}

	if err := s.ensureVenue(ctx, payload.VenueID); err != nil {
		return models.Incident{}, err
	}

	incident := models.Incident{
		Type:            strings.TrimSpace(payload.Type),
		Severity:        strings.TrimSpace(payload.Severity),
		Date:            payload.Date,
		VenueID:         payload.VenueID,
		Location:        s.sanitizer.clean(payload.Location),
		Description:     s.sanitizer.clean(payload.Description),
		InvolvedParties: s.sanitizer.cleanOptional(payload.InvolvedParties),
		ActionsTaken:    s.sanitizer.cleanOptional(payload.ActionsTaken),
		Witnesses:       s.sanitizer.cleanOptional(payload.Witnesses),
		ReportedBy:      strings.TrimSpace(payload.ReportedBy),
		Position:        strings.TrimSpace(payload.Position),
		Status:          models.IncidentStatusPending,
		CreatedBy:       payload.CreatedBy,
	}
	if incident.CreatedBy == nil && actor.ID != 0 {
		incident.CreatedBy = uintPtr(actor.ID)
	}

	if err := s.repo.Create(ctx, &incident); err != nil {
		return models.Incident{}, err
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventIncidentCreated, EntityID: incident.ID, VenueID: uintPtr(incident.VenueID), ActorID: actor.ID})
	return incident, nil
}

func (s *incidentService) Update(ctx context.Context, actor Actor, id uint, payload dto.IncidentUpdateRequest) (models.Incident, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Incident{}, validationFailed("Invalid incident data", err)
	}

	if payload.VenueID != nil {
		if err := s.ensureVenue(ctx, *payload.VenueID); err != nil {
			return models.Incident{}, err
		}
	}

	update := repository.IncidentUpdate{
		Type:            payload.Type,
		Severity:        payload.Severity,
		Date:            payload.Date,
		VenueID:         payload.VenueID,
		Location:        s.sanitizer.cleanOptional(payload.Location),
		Description:     s.sanitizer.cleanOptional(payload.Description),
		InvolvedParties: s.sanitizer.cleanOptional(payload.InvolvedParties),
		ActionsTaken:    s.sanitizer.cleanOptional(payload.ActionsTaken),
		Witnesses:       s.sanitizer.cleanOptional(payload.Witnesses),
		ReportedBy:      payload.ReportedBy,
		Position:        payload.Position,
	}

	incident, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return models.Incident{}, notFoundAs(err, ErrIncidentNotFound)
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventIncidentUpdated, EntityID: incident.ID, VenueID: uintPtr(incident.VenueID), ActorID: actor.ID})
	return incident, nil
}

func (s *incidentService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrIncidentNotFound)
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventIncidentDeleted, EntityID: id, ActorID: actor.ID})
	return nil
}

func (s *incidentService) Approve(ctx context.Context, actor Actor, id uint, notes *string) (models.Incident, error) {
	if !actor.Allows(permission.Manager) {
		return models.Incident{}, forbidden("Not authorized. Only admin or manager can approve incidents.")
	}
	return s.review(ctx, actor, id, models.IncidentStatusApproved, s.sanitizer.cleanOptional(notes))
}

func (s *incidentService) Reject(ctx context.Context, actor Actor, id uint, notes string) (models.Incident, error) {
	if !actor.Allows(permission.Manager) {
		return models.Incident{}, forbidden("Not authorized. Only admin or manager can reject incidents.")
	}

	cleaned := s.sanitizer.clean(notes)
	if cleaned == "" {
		return models.Incident{}, NewValidationError("Rejection notes are required")
	}
	return s.review(ctx, actor, id, models.IncidentStatusRejected, &cleaned)
}

func (s *incidentService) review(ctx context.Context, actor Actor, id uint, status string, notes *string) (models.Incident, error) {
	ctx, span := s.tracer.Start(ctx, "incident.review")
	span.SetAttributes(
		attribute.Int64("incident.id", int64(id)),
		attribute.Int64("incident.reviewer_id", int64(actor.ID)),
		attribute.String("incident.decision", status),
	)
	defer span.End()

	incident, err := s.repo.Review(ctx, id, repository.IncidentReview{
		Status:     status,
		ReviewerID: actor.ID,
		Notes:      notes,
		At:         s.now().UTC(),
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		span.SetStatus(codes.Error, "incident_not_found")
		return models.Incident{}, ErrIncidentNotFound
	case errors.Is(err, repository.ErrStateConflict):
		span.SetStatus(codes.Error, "incident_already_reviewed")
		observability.IncidentReviews().WithLabelValues("conflict").Inc()
		return models.Incident{}, invalidState("Incident is already %s", incident.Status)
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "incident_review_failed")
		return models.Incident{}, err
	}

	observability.IncidentReviews().WithLabelValues(status).Inc()
	s.logger.Info().Uint("incident_id", incident.ID).Str("status", status).Uint("reviewer_id", actor.ID).Msg("incident reviewed")

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "incident." + status,
		EntityType: "incident",
		EntityID:   &incident.ID,
		Metadata: map[string]interface{}{
			"venue_id": incident.VenueID,
			"notes":    notes,
		},
	})

	eventType := EventIncidentApproved
	if status == models.IncidentStatusRejected {
		eventType = EventIncidentRejected
	}
	s.events.Publish(ctx, OperationalEvent{Type: eventType, EntityID: incident.ID, VenueID: uintPtr(incident.VenueID), ActorID: actor.ID})

	return incident, nil
}

func (s *incidentService) ensureVenue(ctx context.Context, venueID uint) error {
	return requireVenue(ctx, s.venues, venueID, "Invalid incident data")
}
