package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/trattoria-luca/service-booking/internal/notify"
	"github.com/trattoria-luca/service-booking/internal/platform/kafka"
)

// Dispatcher sends an operator alert for a booking record.
type Dispatcher interface {
	Dispatch(ctx context.Context, r notify.Record) error
}

// NotificationConsumer listens to booking events and alerts the operator.
type NotificationConsumer struct {
	consumer   *kafka.Consumer
	dispatcher Dispatcher
	logger     *zap.Logger
}

// NewNotificationConsumer creates a new NotificationConsumer.
func NewNotificationConsumer(
	brokers []string,
	groupID string,
	topic string,
	dispatcher Dispatcher,
	logger *zap.Logger,
) *NotificationConsumer {
	if topic == "" {
		topic = TopicBookingEvents
	}
	return &NotificationConsumer{
		consumer:   kafka.NewConsumer(brokers, groupID, topic, logger),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *NotificationConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *NotificationConsumer) Close() error {
	return c.consumer.Close()
}

func (c *NotificationConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case BookingCreated:
		return c.handleBookingCreated(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *NotificationConsumer) handleBookingCreated(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var record notify.Record
	if err := cloudEvent.ParseData(&record); err != nil {
		c.logger.Error("failed to parse booking record", zap.Error(err))
		return nil // Don't retry malformed data
	}

	// Delivery failures are logged by the dispatcher and not retried.
	if err := c.dispatcher.Dispatch(ctx, record); err != nil {
		c.logger.Warn("booking alert not delivered",
			zap.String("booking_id", record.ID),
			zap.Error(err),
		)
	}
	return nil
}
