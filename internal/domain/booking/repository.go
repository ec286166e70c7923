package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// Create persists a new booking together with its child records.
	Create(ctx context.Context, booking *Booking) error

	// FindByID retrieves a booking and its child records.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Update persists a status change with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}

// InsertListener is notified after a booking has been durably stored.
// Implementations must not block the caller.
type InsertListener interface {
	BookingInserted(ctx context.Context, booking *Booking)
}
