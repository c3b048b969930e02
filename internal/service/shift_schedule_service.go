package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

// ScheduleService manages recurring shift windows.
type ScheduleService interface {
	List(ctx context.Context, venueID *uint) ([]models.ShiftSchedule, error)
	Get(ctx context.Context, id uint) (models.ShiftSchedule, error)
	Create(ctx context.Context, actor Actor, payload dto.ScheduleCreateRequest) (models.ShiftSchedule, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.ScheduleUpdateRequest) (models.ShiftSchedule, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type scheduleService struct {
	repo      repository.ScheduleRepository
	validator *validator.Validate
	events    EventPublisher
	logger    zerolog.Logger
}

// NewScheduleService constructs the shift schedule service.
func NewScheduleService(repo repository.ScheduleRepository, validator *validator.Validate, events EventPublisher, logger zerolog.Logger) ScheduleService {
	return &scheduleService{
		repo:      repo,
		validator: validator,
		events:    publisherOrNoop(events),
		logger:    logger.With().Str("component", "schedule_service").Logger(),
	}
}

func (s *scheduleService) List(ctx context.Context, venueID *uint) ([]models.ShiftSchedule, error) {
	return s.repo.List(ctx, venueID)
}

func (s *scheduleService) Get(ctx context.Context, id uint) (models.ShiftSchedule, error) {
	schedule, err := s.repo.GetByID(ctx, id)
	return schedule, notFoundAs(err, ErrScheduleNotFound)
}

func (s *scheduleService) Create(ctx context.Context, actor Actor, payload dto.ScheduleCreateRequest) (models.ShiftSchedule, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.ShiftSchedule{}, validationFailed("Invalid shift schedule data", err)
	}

	schedule := models.ShiftSchedule{
		VenueID:   payload.VenueID,
		Name:      payload.Name,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
		Active:    true,
	}
	if payload.Active != nil {
		schedule.Active = *payload.Active
	}

	if err := s.repo.Create(ctx, &schedule); err != nil {
		return models.ShiftSchedule{}, err
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventScheduleCreated, EntityID: schedule.ID, VenueID: uintPtr(schedule.VenueID), ActorID: actor.ID})
	return schedule, nil
}

func (s *scheduleService) Update(ctx context.Context, actor Actor, id uint, payload dto.ScheduleUpdateRequest) (models.ShiftSchedule, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.ShiftSchedule{}, validationFailed("Invalid shift schedule data", err)
	}

	schedule, err := s.repo.Update(ctx, id, repository.ScheduleUpdate{
		VenueID:   payload.VenueID,
		Name:      payload.Name,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
		Active:    payload.Active,
	})
	if err != nil {
		return models.ShiftSchedule{}, notFoundAs(err, ErrScheduleNotFound)
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventScheduleUpdated, EntityID: schedule.ID, VenueID: uintPtr(schedule.VenueID), ActorID: actor.ID})
	return schedule, nil
}

func (s *scheduleService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrScheduleNotFound)
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventScheduleDeleted, EntityID: id, ActorID: actor.ID})
	return nil
}
