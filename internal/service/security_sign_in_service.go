package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/observability"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

// SignInService manages guard shift attendance.
type SignInService interface {
	List(ctx context.Context, query dto.SignInListQuery) ([]models.SecuritySignIn, error)
	Get(ctx context.Context, id uint) (models.SecuritySignIn, error)
	Create(ctx context.Context, actor Actor, payload dto.SignInCreateRequest) (models.SecuritySignIn, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.SignInUpdateRequest) (models.SecuritySignIn, error)
	SignOut(ctx context.Context, actor Actor, id uint, timeOut *time.Time) (models.SecuritySignIn, error)
}

type signInService struct {
	repo      repository.SignInRepository
	venues    repository.VenueRepository
	validator *validator.Validate
	activity  ActivityRecorder
	events    EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSignInService constructs the sign-in service.
func NewSignInService(repo repository.SignInRepository, venues repository.VenueRepository, validator *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) SignInService {
	return &signInService{
		repo:      repo,
		venues:    venues,
		validator: validator,
		activity:  activity,
		events:    publisherOrNoop(events),
		logger:    logger.With().Str("component", "sign_in_service").Logger(),
		now:       time.Now,
	}
}

func (s *signInService) List(ctx context.Context, query dto.SignInListQuery) ([]models.SecuritySignIn, error) {
	return s.repo.List(ctx, repository.SignInFilter{VenueID: query.VenueID, ActiveOnly: query.ActiveOnly})
}

func (s *signInService) Get(ctx context.Context, id uint) (models.SecuritySignIn, error) {
	signIn, err := s.repo.GetByID(ctx, id)
	return signIn, notFoundAs(err, ErrSignInNotFound)
}

func (s *signInService) Create(ctx context.Context, actor Actor, payload dto.SignInCreateRequest) (models.SecuritySignIn, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.SecuritySignIn{}, validationFailed("Invalid security sign-in data", err)
	}
	if err := requireVenue(ctx, s.venues, payload.VenueID, "Invalid security sign-in data"); err != nil {
		return models.SecuritySignIn{}, err
	}

	now := s.now().UTC()
	signIn := models.SecuritySignIn{
		SecurityName: payload.SecurityName,
		BadgeNumber:  payload.BadgeNumber,
		VenueID:      payload.VenueID,
		Position:     payload.Position,
		Date:         now,
		TimeIn:       now,
		Notes:        payload.Notes,
		Status:       models.SignInStatusOnDuty,
	}
	if payload.Date != nil {
		signIn.Date = *payload.Date
	}
	if payload.TimeIn != nil {
		signIn.TimeIn = *payload.TimeIn
	}

	if err := s.repo.Create(ctx, &signIn); err != nil {
		return models.SecuritySignIn{}, err
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventSignInCreated, EntityID: signIn.ID, VenueID: uintPtr(signIn.VenueID), ActorID: actor.ID})
	return signIn, nil
}

func (s *signInService) Update(ctx context.Context, actor Actor, id uint, payload dto.SignInUpdateRequest) (models.SecuritySignIn, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.SecuritySignIn{}, validationFailed("Invalid security sign-in data", err)
	}
	if payload.VenueID != nil {
		if err := requireVenue(ctx, s.venues, *payload.VenueID, "Invalid security sign-in data"); err != nil {
			return models.SecuritySignIn{}, err
		}
	}

	signIn, err := s.repo.Update(ctx, id, repository.SignInUpdate{
		SecurityName: payload.SecurityName,
		BadgeNumber:  payload.BadgeNumber,
		VenueID:      payload.VenueID,
		Position:     payload.Position,
		Date:         payload.Date,
		TimeIn:       payload.TimeIn,
		Notes:        payload.Notes,
	})
	if err != nil {
		return models.SecuritySignIn{}, notFoundAs(err, ErrSignInNotFound)
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventSignInUpdated, EntityID: signIn.ID, VenueID: uintPtr(signIn.VenueID), ActorID: actor.ID})
	return signIn, nil
}

func (s *signInService) SignOut(ctx context.Context, actor Actor, id uint, timeOut *time.Time) (models.SecuritySignIn, error) {
	at := s.now().UTC()
	if timeOut != nil && !timeOut.IsZero() {
		at = *timeOut
	}

	signIn, err := s.repo.SignOut(ctx, id, at)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return models.SecuritySignIn{}, ErrSignInNotFound
	case errors.Is(err, repository.ErrStateConflict):
		return models.SecuritySignIn{}, ErrAlreadySignedOut
	case err != nil:
		return models.SecuritySignIn{}, err
	}

	observability.SignOuts().Inc()
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "sign_in.signed_out",
		EntityType: "security_sign_in",
		EntityID:   &signIn.ID,
		Metadata:   map[string]interface{}{"venue_id": signIn.VenueID, "badge_number": signIn.BadgeNumber},
	})
	s.events.Publish(ctx, OperationalEvent{Type: EventSignedOut, EntityID: signIn.ID, VenueID: uintPtr(signIn.VenueID), ActorID: actor.ID})

	return signIn, nil
}
