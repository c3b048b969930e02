package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/permission"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

// UserService exposes the admin user management operations.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uint) (models.User, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.UserUpdateRequest) (models.User, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.Validate
	activity  ActivityRecorder
	events    EventPublisher
	logger    zerolog.Logger
}

// NewUserService constructs the user management service.
func NewUserService(repo repository.UserRepository, validator *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		activity:  activity,
		events:    publisherOrNoop(events),
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Get(ctx context.Context, id uint) (models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	return user, notFoundAs(err, ErrUserNotFound)
}

func (s *userService) Update(ctx context.Context, actor Actor, id uint, payload dto.UserUpdateRequest) (models.User, error) {
	if payload.Role != nil {
		normalized := strings.ToLower(strings.TrimSpace(*payload.Role))
		payload.Role = &normalized
	}
	if err := s.validator.Struct(payload); err != nil {
		return models.User{}, validationFailed("Invalid user data", err)
	}

	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.User{}, notFoundAs(err, ErrUserNotFound)
	}

	user, err := s.repo.Update(ctx, id, repository.UserUpdate{
		Name:  payload.Name,
		Email: payload.Email,
		Role:  payload.Role,
	})
	if err != nil {
		return models.User{}, notFoundAs(err, ErrUserNotFound)
	}

	if before.Role != user.Role {
		s.logger.Info().
			Uint("user_id", user.ID).
			Str("from", before.Role).
			Str("to", user.Role).
			Uint("actor_id", actor.ID).
			Msg("user role changed")
		recordActivity(ctx, s.activity, s.logger, ActivityEntry{
			Actor:      actor,
			Action:     "user.role_changed",
			EntityType: "user",
			EntityID:   &user.ID,
			Metadata:   map[string]interface{}{"from": before.Role, "to": user.Role},
		})
	}

	s.events.Publish(ctx, OperationalEvent{Type: EventUserUpdated, EntityID: user.ID, ActorID: actor.ID})
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.Allows(permission.Admin) {
		return ErrAdminRequired
	}
	if actor.ID == id {
		return ErrSelfDeletion
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "user.deleted",
		EntityType: "user",
		EntityID:   &id,
	})
	s.events.Publish(ctx, OperationalEvent{Type: EventUserDeleted, EntityID: id, ActorID: actor.ID})
	return nil
}
