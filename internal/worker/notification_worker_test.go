package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teleposta/ict-helpdesk/internal/events"
)

func TestStartNotificationWorker_LogsEventsWithoutBroker(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()

	ns := StartNotificationWorker(dispatcher, nil, zap.New(core))
	require.NotNil(t, ns)

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventTicketAssigned, 12, time.Now(), nil))
	require.NoError(t, err)

	entries := logs.FilterMessage("ticket event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(12), entries[0].ContextMap()["ticket_id"])
	assert.Equal(t, 1, logs.FilterMessage("no AMQP_URL set, ticket events are logged only").Len())
}
