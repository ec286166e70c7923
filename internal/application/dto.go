package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/trattoria-luca/service-booking/internal/domain/booking"
	"github.com/trattoria-luca/service-booking/internal/domain/form"
	"github.com/trattoria-luca/service-booking/internal/domain/newsletter"
)

// BookingDTO is the read model of a persisted booking.
type BookingDTO struct {
	ID                  uuid.UUID                  `json:"id"`
	BookingNumber       string                     `json:"booking_number"`
	BookingType         string                     `json:"booking_type"`
	Status              string                     `json:"status"`
	SelectedPackage     string                     `json:"selected_package,omitempty"`
	BookingDate         *string                    `json:"booking_date"`
	PickupTime          *time.Time                 `json:"pickup_time,omitempty"`
	GuestCount          *int                       `json:"guest_count"`
	VenueType           *string                    `json:"venue_type"`
	VenueAddress        *string                    `json:"venue_address"`
	SelectedAreas       []string                   `json:"selected_areas,omitempty"`
	CustomerName        string                     `json:"customer_name"`
	Email               string                     `json:"email"`
	PhoneNumber         string                     `json:"phone_number"`
	Notes               string                     `json:"notes,omitempty"`
	DietaryRequirements string                     `json:"dietary_requirements,omitempty"`
	SelectedItems       []booking.SelectedItem     `json:"selected_items,omitempty"`
	SpecialOrders       []booking.SpecialOrderLine `json:"special_orders,omitempty"`
	Collaboration       *booking.Collaboration     `json:"collaboration,omitempty"`
	EstimatedTotalCents *int64                     `json:"estimated_total_cents"`
	TotalAmountCents    *int64                     `json:"total_amount_cents"`
	BookingTimestamp    time.Time                  `json:"booking_timestamp"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

// SubmitResult is the uniform outcome of a submission.
type SubmitResult struct {
	Success bool        `json:"success"`
	Booking *BookingDTO `json:"booking,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DraftView is a draft together with everything derived from it.
type DraftView struct {
	SessionID  string      `json:"session_id"`
	Draft      form.Draft  `json:"draft"`
	StepNumber int         `json:"step_number"`
	CanAdvance bool        `json:"can_advance"`
	Totals     form.Totals `json:"totals"`
}

// CollaborationRequest is the body of a collaboration enquiry.
type CollaborationRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	CollaborationType  string `json:"collaboration_type"`
	ProjectDescription string `json:"project_description"`
	SocialMedia        string `json:"social_media"`
	Timeline           string `json:"timeline"`
	Notes              string `json:"notes"`
}

// SubscriberDTO is the read model of a newsletter subscriber.
type SubscriberDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Active       bool      `json:"active"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

func toBookingDTO(b *booking.Booking) BookingDTO {
	dto := BookingDTO{
		ID:                  b.ID(),
		BookingNumber:       b.BookingNumber(),
		BookingType:         string(b.Type()),
		Status:              string(b.Status()),
		SelectedPackage:     b.SelectedPackage(),
		PickupTime:          b.PickupTime(),
		GuestCount:          b.GuestCount(),
		VenueAddress:        b.VenueAddress(),
		SelectedAreas:       b.SelectedAreas(),
		CustomerName:        b.CustomerName(),
		Email:               b.Email(),
		PhoneNumber:         b.PhoneNumber(),
		Notes:               b.Notes(),
		DietaryRequirements: b.DietaryRequirements(),
		SelectedItems:       b.SelectedItems(),
		SpecialOrders:       b.SpecialOrders(),
		Collaboration:       b.Collaboration(),
		BookingTimestamp:    b.BookingTimestamp(),
		UpdatedAt:           b.UpdatedAt(),
	}
	if d := b.BookingDate(); d != nil {
		s := d.String()
		dto.BookingDate = &s
	}
	if vt := b.VenueType(); vt != nil {
		s := string(*vt)
		dto.VenueType = &s
	}
	if c := b.EstimatedTotal(); c != nil {
		v := int64(*c)
		dto.EstimatedTotalCents = &v
	}
	if c := b.TotalAmount(); c != nil {
		v := int64(*c)
		dto.TotalAmountCents = &v
	}
	return dto
}

func toSubscriberDTO(s *newsletter.Subscriber) SubscriberDTO {
	return SubscriberDTO{
		ID:           s.ID(),
		Name:         s.Name(),
		Email:        s.Email(),
		Active:       s.IsActive(),
		SubscribedAt: s.SubscribedAt(),
	}
}
