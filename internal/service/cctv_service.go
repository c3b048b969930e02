package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/observability"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

// CctvService manages cameras and their inspection records.
type CctvService interface {
	ListCameras(ctx context.Context, venueID *uint) ([]models.CctvCamera, error)
	GetCamera(ctx context.Context, id uint) (models.CctvCamera, error)
	CreateCamera(ctx context.Context, actor Actor, payload dto.CameraCreateRequest) (models.CctvCamera, error)
	UpdateCamera(ctx context.Context, actor Actor, id uint, payload dto.CameraUpdateRequest) (models.CctvCamera, error)
	DeleteCamera(ctx context.Context, actor Actor, id uint) error

	ListChecks(ctx context.Context, query dto.CheckListQuery) ([]models.CctvCheck, error)
	GetCheck(ctx context.Context, id uint) (models.CctvCheck, error)
	CreateCheck(ctx context.Context, actor Actor, payload dto.CheckCreateRequest) (models.CctvCheck, error)
	Resolve(ctx context.Context, actor Actor, id uint, actionTaken string) (models.CctvCheck, error)
}

type cctvService struct {
	cameras   repository.CameraRepository
	checks    repository.CheckRepository
	validator *validator.Validate
	activity  ActivityRecorder
	events    EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCctvService constructs the CCTV service.
func NewCctvService(cameras repository.CameraRepository, checks repository.CheckRepository, validator *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) CctvService {
	return &cctvService{
		cameras:   cameras,
		checks:    checks,
		validator: validator,
		activity:  activity,
		events:    publisherOrNoop(events),
		logger:    logger.With().Str("component", "cctv_service").Logger(),
		now:       time.Now,
	}
}

func (s *cctvService) ListCameras(ctx context.Context, venueID *uint) ([]models.CctvCamera, error) {
	return s.cameras.List(ctx, repository.CameraFilter{VenueID: venueID})
}

func (s *cctvService) GetCamera(ctx context.Context, id uint) (models.CctvCamera, error) {
	camera, err := s.cameras.GetByID(ctx, id)
	return camera, notFoundAs(err, ErrCameraNotFound)
}

func (s *cctvService) CreateCamera(ctx context.Context, actor Actor, payload dto.CameraCreateRequest) (models.CctvCamera, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.CctvCamera{}, validationFailed("Invalid camera data", err)
	}

	camera := models.CctvCamera{
		Name:     payload.Name,
		Location: payload.Location,
		VenueID:  payload.VenueID,
		Type:     payload.Type,
		Status:   payload.Status,
		Notes:    payload.Notes,
	}
	if camera.Status == "" {
		camera.Status = models.CameraStatusActive
	}

	if err := s.cameras.Create(ctx, &camera); err != nil {
		return models.CctvCamera{}, err
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventCameraCreated, EntityID: camera.ID, VenueID: uintPtr(camera.VenueID), ActorID: actor.ID})
	return camera, nil
}

func (s *cctvService) UpdateCamera(ctx context.Context, actor Actor, id uint, payload dto.CameraUpdateRequest) (models.CctvCamera, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.CctvCamera{}, validationFailed("Invalid camera data", err)
	}

	camera, err := s.cameras.Update(ctx, id, repository.CameraUpdate{
		Name:     payload.Name,
		Location: payload.Location,
		VenueID:  payload.VenueID,
		Type:     payload.Type,
		Status:   payload.Status,
		Notes:    payload.Notes,
	})
	if err != nil {
		return models.CctvCamera{}, notFoundAs(err, ErrCameraNotFound)
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventCameraUpdated, EntityID: camera.ID, VenueID: uintPtr(camera.VenueID), ActorID: actor.ID})
	return camera, nil
}

func (s *cctvService) DeleteCamera(ctx context.Context, actor Actor, id uint) error {
	if err := s.cameras.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrCameraNotFound)
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventCameraDeleted, EntityID: id, ActorID: actor.ID})
	return nil
}

func (s *cctvService) ListChecks(ctx context.Context, query dto.CheckListQuery) ([]models.CctvCheck, error) {
	if query.Limit < 0 {
		return nil, NewValidationError("limit must not be negative")
	}
	return s.checks.List(ctx, repository.CheckFilter{
		VenueID:  query.VenueID,
		CameraID: query.CameraID,
		Limit:    query.Limit,
	})
}

func (s *cctvService) GetCheck(ctx context.Context, id uint) (models.CctvCheck, error) {
	check, err := s.checks.GetByID(ctx, id)
	return check, notFoundAs(err, ErrCheckNotFound)
}

func (s *cctvService) CreateCheck(ctx context.Context, actor Actor, payload dto.CheckCreateRequest) (models.CctvCheck, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.CctvCheck{}, validationFailed("Invalid check data", err)
	}

	camera, err := s.cameras.GetByID(ctx, payload.CameraID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.CctvCheck{}, &ValidationError{
				Message: "Invalid check data",
				Fields:  []FieldError{{Field: "camera_id", Message: "camera does not exist"}},
			}
		}
		return models.CctvCheck{}, err
	}

	check := models.CctvCheck{
		CameraID:         camera.ID,
		CheckedBy:        actor.ID,
		VenueID:          camera.VenueID,
		CheckTime:        s.now().UTC(),
		ShiftType:        payload.ShiftType,
		Status:           payload.Status,
		IssueDescription: payload.IssueDescription,
		ActionTaken:      payload.ActionTaken,
	}
	if payload.CheckedBy != nil {
		check.CheckedBy = *payload.CheckedBy
	}
	if payload.VenueID != nil && *payload.VenueID != camera.VenueID {
		return models.CctvCheck{}, &ValidationError{
			Message: "Invalid check data",
			Fields:  []FieldError{{Field: "venue_id", Message: "venue does not match the camera"}},
		}
	}

	if err := s.checks.Create(ctx, &check); err != nil {
		return models.CctvCheck{}, err
	}

	if check.HasOpenIssue() {
		s.logger.Warn().Uint("camera_id", check.CameraID).Str("status", check.Status).Msg("cctv issue reported")
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventCheckCreated, EntityID: check.ID, VenueID: uintPtr(check.VenueID), ActorID: actor.ID})
	return check, nil
}

func (s *cctvService) Resolve(ctx context.Context, actor Actor, id uint, actionTaken string) (models.CctvCheck, error) {
	actionTaken = strings.TrimSpace(actionTaken)
	if actionTaken == "" {
		return models.CctvCheck{}, NewValidationError("Action taken is required")
	}

	check, err := s.checks.Resolve(ctx, id, actionTaken)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return models.CctvCheck{}, ErrCheckNotFound
	case errors.Is(err, repository.ErrStateConflict):
		return models.CctvCheck{}, ErrAlreadyResolved
	case err != nil:
		return models.CctvCheck{}, err
	}

	observability.CctvResolutions().Inc()
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "check.resolved",
		EntityType: "cctv_check",
		EntityID:   &check.ID,
		Metadata:   map[string]interface{}{"camera_id": check.CameraID, "action_taken": actionTaken},
	})
	s.events.Publish(ctx, OperationalEvent{Type: EventCheckResolved, EntityID: check.ID, VenueID: uintPtr(check.VenueID), ActorID: actor.ID})

	return check, nil
}
