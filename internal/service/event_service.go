package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/observability"
)

const eventBufferSize = 16

// Operational event types.
const (
	EventVenueCreated     = "venue.created"
	EventVenueUpdated     = "venue.updated"
	EventVenueDeleted     = "venue.deleted"
	EventIncidentCreated  = "incident.created"
	EventIncidentUpdated  = "incident.updated"
	EventIncidentDeleted  = "incident.deleted"
	EventIncidentApproved = "incident.approved"
	EventIncidentRejected = "incident.rejected"
	EventSignInCreated    = "sign_in.created"
	EventSignInUpdated    = "sign_in.updated"
	EventSignedOut        = "sign_in.signed_out"
	EventCameraCreated    = "camera.created"
	EventCameraUpdated    = "camera.updated"
	EventCameraDeleted    = "camera.deleted"
	EventCheckCreated     = "check.created"
	EventCheckResolved    = "check.resolved"
	EventScheduleCreated  = "schedule.created"
	EventScheduleUpdated  = "schedule.updated"
	EventScheduleDeleted  = "schedule.deleted"
	EventUserUpdated      = "user.updated"
	EventUserDeleted      = "user.deleted"
	EventDocumentUploaded = "document.uploaded"
	EventDocumentVerified = "document.verified"
	EventDocumentRejected = "document.rejected"
	EventUserRegistered   = "user.registered"
)

// OperationalEvent announces a completed mutation.
type OperationalEvent struct {
	Type     string    `json:"type"`
	EntityID uint      `json:"entity_id"`
	VenueID  *uint     `json:"venue_id,omitempty"`
	ActorID  uint      `json:"actor_id"`
	At       time.Time `json:"at"`
}

// EventPublisher announces mutations. Publication is best effort and never
// fails the operation that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, event OperationalEvent)
}

// EventListener is invoked for every published or received event.
type EventListener func(ctx context.Context, event OperationalEvent)

// EventService fans events out to stream subscribers, in-process listeners
// and, when configured, a NATS subject shared with other API instances.
type EventService interface {
	EventPublisher
	Subscribe() (<-chan OperationalEvent, func())
	AddListener(listener EventListener)
	Start(ctx context.Context)
}

type wireEvent struct {
	Source string           `json:"source"`
	Event  OperationalEvent `json:"event"`
}

type eventService struct {
	nats      *nats.Conn
	subject   string
	logger    zerolog.Logger
	nodeID    string
	now       func() time.Time
	mu        sync.RWMutex
	clients   map[chan OperationalEvent]struct{}
	listeners []EventListener
}

// NewEventService constructs the event fan-out. natsConn may be nil.
func NewEventService(natsConn *nats.Conn, subject string, logger zerolog.Logger) EventService {
	return &eventService{
		nats:    natsConn,
		subject: subject,
		logger:  logger.With().Str("component", "event_service").Logger(),
		nodeID:  uuid.NewString(),
		now:     time.Now,
		clients: make(map[chan OperationalEvent]struct{}),
	}
}

func (s *eventService) Start(ctx context.Context) {
	if s.nats == nil || s.subject == "" {
		return
	}

	sub, err := s.nats.Subscribe(s.subject, func(msg *nats.Msg) {
		s.handleMessage(ctx, msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("subject", s.subject).Msg("failed to subscribe to event subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain event subscription")
		}
	}()
}

func (s *eventService) Publish(ctx context.Context, event OperationalEvent) {
	if event.At.IsZero() {
		event.At = s.now().UTC()
	}

	observability.EventsPublished().WithLabelValues(event.Type).Inc()
	s.dispatch(ctx, event)

	if s.nats == nil || s.subject == "" {
		return
	}

	payload, err := json.Marshal(wireEvent{Source: s.nodeID, Event: event})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode event")
		return
	}
	if err := s.nats.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish event to nats")
	}
}

func (s *eventService) Subscribe() (<-chan OperationalEvent, func()) {
	ch := make(chan OperationalEvent, eventBufferSize)

	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()
	observability.EventStreamClients().Inc()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.clients, ch)
			close(ch)
			s.mu.Unlock()
			observability.EventStreamClients().Dec()
		})
	}
	return ch, cleanup
}

func (s *eventService) AddListener(listener EventListener) {
	if listener == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *eventService) handleMessage(ctx context.Context, payload []byte) {
	var message wireEvent
	if err := json.Unmarshal(payload, &message); err != nil {
		s.logger.Warn().Err(err).Msg("invalid event payload")
		return
	}
	if message.Source == s.nodeID || message.Event.Type == "" {
		return
	}
	s.dispatch(ctx, message.Event)
}

func (s *eventService) dispatch(ctx context.Context, event OperationalEvent) {
	s.mu.RLock()
	listeners := append([]EventListener(nil), s.listeners...)
	for ch := range s.clients {
		select {
		case ch <- event:
		default:
		}
	}
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(ctx, event)
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, OperationalEvent) {}

func publisherOrNoop(publisher EventPublisher) EventPublisher {
	if publisher == nil {
		return noopPublisher{}
	}
	return publisher
}
