package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

// VenueService manages the venues covered by the security team.
type VenueService interface {
	List(ctx context.Context) ([]models.Venue, error)
	Get(ctx context.Context, id uint) (models.Venue, error)
	Create(ctx context.Context, actor Actor, payload dto.VenueCreateRequest) (models.Venue, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.VenueUpdateRequest) (models.Venue, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type venueService struct {
	repo      repository.VenueRepository
	validator *validator.Validate
	events    EventPublisher
	logger    zerolog.Logger
}

// NewVenueService constructs the venue service.
func NewVenueService(repo repository.VenueRepository, validator *validator.Validate, events EventPublisher, logger zerolog.Logger) VenueService {
	return &venueService{
		repo:      repo,
		validator: validator,
		events:    publisherOrNoop(events),
		logger:    logger.With().Str("component", "venue_service").Logger(),
	}
}

func (s *venueService) List(ctx context.Context) ([]models.Venue, error) {
	return s.repo.List(ctx)
}

func (s *venueService) Get(ctx context.Context, id uint) (models.Venue, error) {
	venue, err := s.repo.GetByID(ctx, id)
	return venue, notFoundAs(err, ErrVenueNotFound)
}

func (s *venueService) Create(ctx context.Context, actor Actor, payload dto.VenueCreateRequest) (models.Venue, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Venue{}, validationFailed("Invalid venue data", err)
	}

	venue := models.Venue{
		Name:    payload.Name,
		Address: payload.Address,
		Contact: payload.Contact,
		Status:  payload.Status,
	}
	if venue.Status == "" {
		venue.Status = models.VenueStatusClosed
	}

	if err := s.repo.Create(ctx, &venue); err != nil {
		return models.Venue{}, err
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventVenueCreated, EntityID: venue.ID, VenueID: uintPtr(venue.ID), ActorID: actor.ID})
	return venue, nil
}

func (s *venueService) Update(ctx context.Context, actor Actor, id uint, payload dto.VenueUpdateRequest) (models.Venue, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Venue{}, validationFailed("Invalid venue data", err)
	}

	venue, err := s.repo.Update(ctx, id, repository.VenueUpdate{
		Name:    payload.Name,
		Address: payload.Address,
		Contact: payload.Contact,
		Status:  payload.Status,
	})
	if err != nil {
		return models.Venue{}, notFoundAs(err, ErrVenueNotFound)
	}

	if payload.Status != nil {
		s.logger.Info().Uint("venue_id", venue.ID).Str("status", venue.Status).Uint("actor_id", actor.ID).Msg("venue status changed")
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventVenueUpdated, EntityID: venue.ID, VenueID: uintPtr(venue.ID), ActorID: actor.ID})
	return venue, nil
}

func (s *venueService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrVenueNotFound)
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventVenueDeleted, EntityID: id, VenueID: uintPtr(id), ActorID: actor.ID})
	return nil
}
