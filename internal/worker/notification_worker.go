package worker

import (
	"go.uber.org/zap"

	"github.com/teleposta/ict-helpdesk/internal/events"
	"github.com/teleposta/ict-helpdesk/internal/messaging"
	"github.com/teleposta/ict-helpdesk/internal/service"
)

// StartNotificationWorker subscribes a notification service to every ticket
// event on dispatcher. Events are only logged unless a broker publisher is
// configured.
func StartNotificationWorker(dispatcher events.Dispatcher, publisher *messaging.AMQPPublisher, logger *zap.Logger) *service.NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}

	// A nil *AMQPPublisher must not reach the interface as a typed nil.
	var forward service.EventPublisher
	if publisher != nil {
		forward = publisher
		logger.Info("ticket events forwarded to broker", zap.String("queue", publisher.Queue()))
	} else {
		logger.Info("no AMQP_URL set, ticket events are logged only")
	}

	notifications := service.NewNotificationService(dispatcher, forward, logger)
	notifications.RegisterHandlers()
	return notifications
}
