package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/service"
)

// EventSubscriber hands out live operational event streams.
type EventSubscriber interface {
	Subscribe() (<-chan service.OperationalEvent, func())
}

// EventStreamHandler pushes operational events to dashboards over SSE.
type EventStreamHandler struct {
	events    EventSubscriber
	keepAlive time.Duration
	logger    zerolog.Logger
}

// NewEventStreamHandler constructs the handler.
func NewEventStreamHandler(events EventSubscriber, keepAlive time.Duration, logger zerolog.Logger) *EventStreamHandler {
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}
	return &EventStreamHandler{
		events:    events,
		keepAlive: keepAlive,
		logger:    logger.With().Str("component", "event_stream_handler").Logger(),
	}
}

// Register wires the stream route.
func (h *EventStreamHandler) Register(router fiber.Router) {
	router.Get("/events/stream", h.stream)
}

func (h *EventStreamHandler) stream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(c.UserContext())
	stream, cleanup := h.events.Subscribe()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cleanup()
			cancel()
		}()

		if err := writeKeepAlive(w); err != nil {
			return
		}

		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-stream:
				if !ok {
					return
				}
				if err := writeOperationalEvent(w, event); err != nil {
					h.logger.Debug().Err(err).Msg("event stream client went away")
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write event stream keepalive")
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}

func writeOperationalEvent(w *bufio.Writer, event service.OperationalEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: %s\n", event.Type); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, ": keep-alive %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return w.Flush()
}
