package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/trattoria-luca/service-booking/internal/domain/booking"
	"github.com/trattoria-luca/service-booking/internal/notify"
	"github.com/trattoria-luca/service-booking/internal/platform/kafka"
)

const publishTimeout = 10 * time.Second

// EventPublisher writes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingPublisher emits booking.created after a booking is stored. It
// satisfies booking.InsertListener and never blocks the insert path.
type BookingPublisher struct {
	publisher EventPublisher
	topic     string
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewBookingPublisher creates a BookingPublisher writing to topic.
func NewBookingPublisher(publisher EventPublisher, topic string, logger *zap.Logger) *BookingPublisher {
	if topic == "" {
		topic = TopicBookingEvents
	}
	return &BookingPublisher{publisher: publisher, topic: topic, logger: logger}
}

// BookingInserted publishes in the background. Failures are logged only.
func (p *BookingPublisher) BookingInserted(ctx context.Context, b *booking.Booking) {
	record := notify.RecordFromBooking(b)
	ctx = context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		if err := p.publish(ctx, record); err != nil {
			p.logger.Error("failed to publish booking created event",
				zap.String("booking_id", record.ID),
				zap.Error(err),
			)
			return
		}
		p.logger.Debug("booking created event published", zap.String("booking_id", record.ID))
	}()
}

func (p *BookingPublisher) publish(ctx context.Context, record notify.Record) error {
	event, err := kafka.NewCloudEvent(EventSource, BookingCreated, record)
	if err != nil {
		return err
	}
	event.Subject = record.ID
	return p.publisher.PublishEvent(ctx, p.topic, event)
}

// Wait blocks until in-flight publishes have finished.
func (p *BookingPublisher) Wait() {
	p.wg.Wait()
}
