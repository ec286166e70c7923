package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sender delivers a rendered alert.
type Sender interface {
	SendMessage(ctx context.Context, text string) error
}

// Dispatcher turns booking records into operator alerts.
type Dispatcher struct {
	sender Sender
	loc    *time.Location
	logger *zap.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sender Sender, loc *time.Location, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, loc: loc, logger: logger}
}

// Dispatch formats and sends one alert. The error is returned to the
// caller for reporting; nothing is retried.
func (d *Dispatcher) Dispatch(ctx context.Context, r Record) error {
	text := FormatMessage(r, d.loc)
	if err := d.sender.SendMessage(ctx, text); err != nil {
		d.logger.Error("failed to send booking alert",
			zap.String("booking_id", r.ID),
			zap.String("booking_type", r.BookingType),
			zap.Error(err),
		)
		return err
	}
	d.logger.Info("booking alert sent", zap.String("booking_id", r.ID))
	return nil
}
