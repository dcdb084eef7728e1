package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("broker down")

	var seen []string
	d.Subscribe(func(_ context.Context, e Event) error {
		seen = append(seen, "first")
		return boom
	}, EventTicketCreated)
	d.Subscribe(func(_ context.Context, e Event) error {
		seen = append(seen, "second")
		return nil
	}, EventTicketCreated)
	d.Subscribe(func(context.Context, Event) error {
		seen = append(seen, "other")
		return nil
	}, EventTicketDeleted)

	err := d.Publish(context.Background(), NewEvent(EventTicketCreated, 7, time.Now(), nil))
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "ticket_created handler")
	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestDispatcher_SubscribeWithoutTypesCoversEveryTicketEvent(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType
	d.Subscribe(func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	for _, eventType := range TicketEventTypes {
		require.NoError(t, d.Publish(context.Background(), NewEvent(eventType, 1, time.Now(), nil)))
	}
	assert.Equal(t, TicketEventTypes, got)
}

func TestDispatcher_RecoversPanickingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	called := false
	d.Subscribe(func(context.Context, Event) error { panic("nil payload") }, EventTicketRated)
	d.Subscribe(func(context.Context, Event) error {
		called = true
		return nil
	}, EventTicketRated)

	err := d.Publish(context.Background(), NewEvent(EventTicketRated, 2, time.Now(), nil))
	assert.ErrorContains(t, err, "panic: nil payload")
	assert.True(t, called)
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.FixedZone("EAT", 3*3600))
	a := NewEvent(EventTicketRated, 3, at, TicketRatedPayload{Rating: 5})
	b := NewEvent(EventTicketRated, 3, at, nil)

	require.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, time.UTC, a.Timestamp.Location())
	assert.Equal(t, int64(3), a.TicketID)
}
