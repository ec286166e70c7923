package events

const (
	// TopicBookingEvents carries booking lifecycle events.
	TopicBookingEvents = "booking.events"

	// BookingCreated is emitted once a booking and its children are stored.
	BookingCreated = "booking.created"

	// EventSource identifies this service in CloudEvent envelopes.
	EventSource = "service-booking"
)
