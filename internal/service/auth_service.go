package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/permission"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

// ErrUsernameTaken indicates a registration for an existing username.
var ErrUsernameTaken = NewValidationError("Username already exists")

// AuthOptions configures session issuing.
type AuthOptions struct {
	Secret   string
	TTL      time.Duration
	HashCost int
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	User      models.User
	ExpiresAt time.Time
}

// Principal is the caller behind a verified session token.
type Principal struct {
	User      models.User
	SessionID string
}

// Actor returns the principal as an operation actor.
func (p Principal) Actor() Actor {
	return Actor{ID: p.User.ID, Role: permission.Normalize(p.User.Role)}
}

// AuthService registers users and manages their sessions.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (models.User, error)
	Login(ctx context.Context, payload dto.LoginRequest, ip, userAgent string) (LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, token string) (Principal, error)
	BootstrapAdmin(ctx context.Context, password string) (bool, error)
	CleanupSessions(ctx context.Context) (int64, error)
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	validator *validator.Validate
	events    EventPublisher
	logger    zerolog.Logger
	secret    []byte
	ttl       time.Duration
	hashCost  int
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, validator *validator.Validate, opts AuthOptions, events EventPublisher, logger zerolog.Logger) AuthService {
	if opts.TTL <= 0 {
		opts.TTL = 12 * time.Hour
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	return &authService{
		users:     users,
		sessions:  sessions,
		validator: validator,
		events:    publisherOrNoop(events),
		logger:    logger.With().Str("component", "auth_service").Logger(),
		secret:    []byte(opts.Secret),
		ttl:       opts.TTL,
		hashCost:  opts.HashCost,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (models.User, error) {
	payload.Username = strings.TrimSpace(payload.Username)
	payload.Role = strings.ToLower(strings.TrimSpace(payload.Role))
	if err := s.validator.Struct(payload); err != nil {
		return models.User{}, validationFailed("Invalid registration data", err)
	}

	if _, err := s.users.GetByUsername(ctx, payload.Username); err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return models.User{}, err
	}

	role := payload.Role
	if role == "" {
		role = string(permission.Security)
	}

	user, err := s.createUser(ctx, payload.Username, payload.Password, payload.Name, payload.Email, role)
	if err != nil {
		return models.User{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	s.events.Publish(ctx, OperationalEvent{Type: EventUserRegistered, EntityID: user.ID, ActorID: user.ID})
	return user, nil
}

func (s *authService) createUser(ctx context.Context, username, password, name, email, role string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Password: string(hash),
		Name:     name,
		Email:    email,
		Role:     role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest, ip, userAgent string) (LoginResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return LoginResult{}, validationFailed("Username and password are required", err)
	}

	user, err := s.users.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		s.logger.Info().Str("username", user.Username).Str("ip", ip).Msg("login rejected")
		return LoginResult{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		IP:        ip,
		UserAgent: truncate(userAgent, 512),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}

	claims := sessionClaims{
		SessionID: session.ID,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign session token: %w", err)
	}

	s.logger.Info().Uint("user_id", user.ID).Str("session_id", session.ID).Msg("user logged in")
	return LoginResult{Token: token, User: user, ExpiresAt: session.ExpiresAt}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrUnauthenticated
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return Principal{}, ErrUnauthenticated
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Principal{}, ErrUnauthenticated
		}
		return Principal{}, err
	}
	if session.UserID != uint(userID) {
		return Principal{}, ErrUnauthenticated
	}
	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to drop expired session")
		}
		return Principal{}, ErrUnauthenticated
	}

	// Role is re-read so changes apply to existing sessions.
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Principal{}, ErrUnauthenticated
		}
		return Principal{}, err
	}

	return Principal{User: user, SessionID: session.ID}, nil
}

func (s *authService) BootstrapAdmin(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	user, err := s.createUser(ctx, "admin", password, "Administrator", "admin@nightguard.local", string(permission.Admin))
	if err != nil {
		return false, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("bootstrap admin created")
	return true, nil
}

func (s *authService) CleanupSessions(ctx context.Context) (int64, error) {
	removed, err := s.sessions.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Msg("expired sessions removed")
	}
	return removed, nil
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
