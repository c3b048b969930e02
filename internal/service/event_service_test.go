package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventSubscribersReceivePublishedEvents(t *testing.T) {
	svc := NewEventService(nil, "", testLogger())
	stream, cancel := svc.Subscribe()
	defer cancel()

	svc.Publish(context.Background(), OperationalEvent{Type: EventIncidentApproved, EntityID: 9, ActorID: 2})

	select {
	case event := <-stream:
		require.Equal(t, EventIncidentApproved, event.Type)
		require.Equal(t, uint(9), event.EntityID)
		require.False(t, event.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	_, open := <-stream
	require.False(t, open)
	cancel()
}

func TestEventSlowSubscriberDoesNotBlock(t *testing.T) {
	svc := NewEventService(nil, "", testLogger())
	_, cancel := svc.Subscribe()
	defer cancel()

	for i := 0; i < eventBufferSize*2; i++ {
		svc.Publish(context.Background(), OperationalEvent{Type: EventVenueUpdated, EntityID: uint(i)})
	}
}

func TestEventRemoteMessagesSkipOwnNode(t *testing.T) {
	svc := NewEventService(nil, "", testLogger()).(*eventService)
	received := 0
	svc.AddListener(func(context.Context, OperationalEvent) { received++ })

	own, err := json.Marshal(wireEvent{Source: svc.nodeID, Event: OperationalEvent{Type: EventSignedOut}})
	require.NoError(t, err)
	remote, err := json.Marshal(wireEvent{Source: "other-node", Event: OperationalEvent{Type: EventSignedOut}})
	require.NoError(t, err)

	svc.handleMessage(context.Background(), own)
	svc.handleMessage(context.Background(), []byte("{not json"))
	svc.handleMessage(context.Background(), remote)
	require.Equal(t, 1, received)
}
