package messaging

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleposta/ict-helpdesk/internal/config"
	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/events"
)

func TestNewAMQPPublisher_DisabledWithoutURL(t *testing.T) {
	assert.Nil(t, NewAMQPPublisher(config.NotificationConfig{Queue: "q"}))

	p := NewAMQPPublisher(config.NotificationConfig{AMQPURL: "amqp://localhost"})
	require.NotNil(t, p)
	assert.Equal(t, "helpdesk.ticket.events", p.Queue())
}

// stalledBroker accepts TCP connections and never speaks AMQP.
func stalledBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		defer close(done)
		var held []net.Conn
		for {
			c, err := ln.Accept()
			if err != nil {
				for _, c := range held {
					_ = c.Close()
				}
				return
			}
			held = append(held, c)
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		<-done
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestPublish_StalledBrokerHonoursContextDeadline(t *testing.T) {
	p := NewAMQPPublisher(config.NotificationConfig{AMQPURL: stalledBroker(t), DialTimeoutSeconds: 30})
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Publish(ctx, events.NewEvent(events.EventTicketCreated, 1, time.Now(), nil))
	assert.ErrorContains(t, err, "amqp dial")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestPublish_StalledBrokerHonoursDialTimeout(t *testing.T) {
	p := NewAMQPPublisher(config.NotificationConfig{AMQPURL: stalledBroker(t), DialTimeoutSeconds: 1})
	defer p.Close()

	start := time.Now()
	err := p.Publish(context.Background(), events.NewEvent(events.EventTicketCreated, 1, time.Now(), nil))
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClose_NilPublisher(t *testing.T) {
	var p *AMQPPublisher
	assert.NotPanics(t, p.Close)
}

func TestEncode(t *testing.T) {
	event := events.NewEvent(events.EventTicketStatusChanged, 12, time.Now(), events.TicketStatusChangedPayload{
		OldStatus: domain.TicketStatusPending,
		NewStatus: domain.TicketStatusResolved,
	})

	msg, err := encode(event)
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, event.ID, msg.MessageId)
	assert.Equal(t, "ticket_status_changed", msg.Type)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, float64(12), decoded["ticket_id"])
	assert.Equal(t, "resolved", decoded["payload"].(map[string]any)["new_status"])
}

func TestPublish_Broker(t *testing.T) {
	url := os.Getenv("AMQP_TEST_URL")
	if url == "" {
		t.Skip("AMQP_TEST_URL not set")
	}
	p := NewAMQPPublisher(config.NotificationConfig{AMQPURL: url, Queue: "helpdesk.test.events"})
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Publish(ctx, events.NewEvent(events.EventTicketCreated, 1, time.Now(), nil)))
	require.NoError(t, p.Publish(ctx, events.NewEvent(events.EventTicketDeleted, 1, time.Now(), nil)),
		"second publish reuses the open connection")
}
