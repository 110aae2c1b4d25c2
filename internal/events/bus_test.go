package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Hectotor/Inventory-web-sub000/internal/events"
)

type stubStore struct {
	lastTopic     string
	lastAggregate string
	lastPayload   []byte
	err           error
}

func (s *stubStore) InsertDomainEvent(_ context.Context, topic, aggregateID string, payload []byte) (events.Event, error) {
	if s.err != nil {
		return events.Event{}, s.err
	}
	s.lastTopic = topic
	s.lastAggregate = aggregateID
	s.lastPayload = payload
	return events.Event{
		ID:          uuid.NewString(),
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  time.Now(),
	}, nil
}

type captureNotifier struct {
	events []events.Event
	err    error
}

func (c *captureNotifier) Notify(_ context.Context, ev events.Event) error {
	c.events = append(c.events, ev)
	return c.err
}

func TestEmitPersistsAndNotifies(t *testing.T) {
	store := &stubStore{}
	notifier := &captureNotifier{}
	bus := &events.Bus{Store: store, Notifiers: []events.Notifier{notifier}}

	aggregate := uuid.NewString()
	ev, err := bus.Emit(context.Background(), events.TopicOrderCreated, aggregate, map[string]any{"total": "42.00"})
	require.NoError(t, err)
	require.Equal(t, events.TopicOrderCreated, ev.Topic)
	require.Equal(t, aggregate, store.lastAggregate)
	require.JSONEq(t, `{"total":"42.00"}`, string(store.lastPayload))
	require.Len(t, notifier.events, 1)
}

func TestEmitNilPayloadDefaultsToEmptyObject(t *testing.T) {
	store := &stubStore{}
	bus := &events.Bus{Store: store}

	_, err := bus.Emit(context.Background(), events.TopicStockLow, uuid.NewString(), nil)
	require.NoError(t, err)
	require.Equal(t, json.RawMessage("{}"), json.RawMessage(store.lastPayload))
}

func TestEmitRequiresTopicAndAggregate(t *testing.T) {
	bus := &events.Bus{Store: &stubStore{}}

	_, err := bus.Emit(context.Background(), " ", uuid.NewString(), nil)
	require.Error(t, err)

	_, err = bus.Emit(context.Background(), events.TopicOrderCreated, "", nil)
	require.Error(t, err)
}

func TestEmitNotifierErrorDoesNotLoseEvent(t *testing.T) {
	store := &stubStore{}
	notifier := &captureNotifier{err: errors.New("boom")}
	bus := &events.Bus{Store: store, Notifiers: []events.Notifier{notifier}}

	ev, err := bus.Emit(context.Background(), events.TopicOrderCreated, uuid.NewString(), nil)
	require.Error(t, err)
	require.NotEmpty(t, ev.ID)
}
