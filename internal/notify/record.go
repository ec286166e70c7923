// Package notify formats new-booking alerts for the operator and delivers
// them through the Telegram Bot API.
package notify

import (
	"time"

	"github.com/trattoria-luca/service-booking/internal/domain/booking"
)

// Record is the booking row as seen by the dispatcher. The JSON shape
// matches the database webhook payload.
type Record struct {
	ID                  string    `json:"id"`
	BookingType         string    `json:"booking_type"`
	OrderType           string    `json:"order_type"`
	BookingDate         *string   `json:"booking_date"`
	GuestCount          *int      `json:"guest_count"`
	PhoneNumber         string    `json:"phone_number"`
	Email               *string   `json:"email"`
	SelectedPackage     *string   `json:"selected_package"`
	TotalAmount         *float64  `json:"total_amount"`
	EstimatedTotal      *float64  `json:"estimated_total"`
	VenueType           *string   `json:"venue_type"`
	VenueAddress        *string   `json:"venue_address"`
	Notes               *string   `json:"notes"`
	DietaryRequirements *string   `json:"dietary_requirements"`
	CreatedAt           time.Time `json:"created_at"`
}

// RecordFromBooking projects a persisted booking onto a Record.
func RecordFromBooking(b *booking.Booking) Record {
	r := Record{
		ID:                  b.ID().String(),
		BookingType:         string(b.Type()),
		OrderType:           string(b.Type()),
		GuestCount:          b.GuestCount(),
		PhoneNumber:         b.PhoneNumber(),
		Email:               optional(b.Email()),
		SelectedPackage:     optional(b.SelectedPackage()),
		VenueAddress:        b.VenueAddress(),
		Notes:               optional(b.Notes()),
		DietaryRequirements: optional(b.DietaryRequirements()),
		CreatedAt:           b.BookingTimestamp(),
	}
	if d := b.BookingDate(); d != nil {
		s := d.String()
		r.BookingDate = &s
	}
	if vt := b.VenueType(); vt != nil {
		s := string(*vt)
		r.VenueType = &s
	}
	if t := b.TotalAmount(); t != nil {
		v := t.Dollars()
		r.TotalAmount = &v
	}
	if e := b.EstimatedTotal(); e != nil {
		v := e.Dollars()
		r.EstimatedTotal = &v
	}
	return r
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
