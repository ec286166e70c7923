package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	"github.com/trattoria-luca/service-booking/internal/domain/money"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for a persisted booking request.
type Booking struct {
	id              uuid.UUID
	bookingNumber   string
	bookingType     BookingType
	status          BookingStatus
	selectedPackage string

	bookingDate   *catalog.Date
	pickupTime    *time.Time
	guestCount    *int
	venueType     *VenueType
	venueAddress  *string
	selectedAreas []string

	customerName        string
	email               string
	phoneNumber         string
	notes               string
	dietaryRequirements string

	selectedItems []SelectedItem
	specialOrders []SpecialOrderLine
	collaboration *Collaboration

	estimatedTotal *money.Cents
	totalAmount    *money.Cents

	version          int64
	bookingTimestamp time.Time
	updatedAt        time.Time
}

// Submission is the draft data handed over for persistence.
type Submission struct {
	Type      BookingType
	PackageID string

	// BookingDate is a YYYY-MM-DD string for dining; empty means unset.
	BookingDate string
	// PickupTime is set for special orders. Its date in Location becomes
	// the booking date.
	PickupTime *time.Time
	Location   *time.Location

	GuestCount    *int
	VenueType     string
	VenueAddress  string
	SelectedAreas []string

	CustomerName        string
	Email               string
	PhoneNumber         string
	Notes               string
	DietaryRequirements string

	SelectedItems  []SelectedItem
	SpecialOrders  []SpecialOrderLine
	EstimatedTotal money.Cents
	Collaboration  *Collaboration
}

// generateBookingNumber creates a booking number in the format "TL-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "TL-" + string(result), nil
}

// NewBooking normalizes a submission into a pending Booking.
//
// Special orders get their total from the line items and their date from
// the pickup time; dining bookings keep the estimated total and leave the
// total amount unset. Venue fields that do not apply are nulled.
func NewBooking(s Submission) (*Booking, error) {
	if !s.Type.IsValid() {
		return nil, apperr.NewValidationError(fmt.Sprintf("invalid booking type: %s", s.Type))
	}
	if strings.TrimSpace(s.CustomerName) == "" {
		return nil, apperr.NewValidationError("customer name is required")
	}
	if strings.TrimSpace(s.Email) == "" {
		return nil, apperr.NewValidationError("email is required")
	}

	b := &Booking{
		id:                  uuid.New(),
		bookingType:         s.Type,
		status:              StatusPending,
		selectedPackage:     s.PackageID,
		customerName:        strings.TrimSpace(s.CustomerName),
		email:               strings.TrimSpace(s.Email),
		phoneNumber:         strings.TrimSpace(s.PhoneNumber),
		notes:               s.Notes,
		dietaryRequirements: s.DietaryRequirements,
		selectedItems:       normalizeItems(s.SelectedItems),
		version:             1,
	}

	switch s.Type {
	case TypeSpecialOrder:
		b.specialOrders = activeLines(s.SpecialOrders)
		if len(b.specialOrders) == 0 {
			return nil, apperr.NewValidationError("special order has no items")
		}
		if total := LinesTotal(b.specialOrders); total > 0 {
			b.totalAmount = &total
		}
		if s.PickupTime != nil {
			loc := s.Location
			if loc == nil {
				loc = time.UTC
			}
			pickup := s.PickupTime.UTC()
			date := catalog.DateOf(pickup.In(loc))
			b.pickupTime = &pickup
			b.bookingDate = &date
		}

	case TypeDining:
		if s.BookingDate != "" {
			date, err := catalog.ParseDate(s.BookingDate)
			if err != nil {
				return nil, apperr.NewValidationError(err.Error())
			}
			b.bookingDate = &date
		}
		b.guestCount = s.GuestCount
		b.applyVenue(s.VenueType, s.VenueAddress, s.SelectedAreas)
		if s.EstimatedTotal > 0 {
			est := s.EstimatedTotal
			b.estimatedTotal = &est
		}

	case TypeCollaboration:
		if s.Collaboration == nil || strings.TrimSpace(s.Collaboration.Type) == "" {
			return nil, apperr.NewValidationError("collaboration type is required")
		}
		collab := *s.Collaboration
		b.collaboration = &collab
	}

	number, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}
	b.bookingNumber = number

	now := time.Now().UTC()
	b.bookingTimestamp = now
	b.updatedAt = now
	return b, nil
}

func (b *Booking) applyVenue(venueType, address string, areas []string) {
	b.venueType = ParseVenueType(venueType)
	if b.venueType == nil {
		return
	}
	switch *b.venueType {
	case VenueHome:
		if addr := strings.TrimSpace(address); addr != "" {
			b.venueAddress = &addr
		}
	case VenueRental:
		if len(areas) > 0 {
			b.selectedAreas = append([]string(nil), areas...)
		}
	}
}

// Snapshot is the full persisted state of a booking.
type Snapshot struct {
	ID                  uuid.UUID
	BookingNumber       string
	BookingType         BookingType
	Status              BookingStatus
	SelectedPackage     string
	BookingDate         *catalog.Date
	PickupTime          *time.Time
	GuestCount          *int
	VenueType           *VenueType
	VenueAddress        *string
	SelectedAreas       []string
	CustomerName        string
	Email               string
	PhoneNumber         string
	Notes               string
	DietaryRequirements string
	SelectedItems       []SelectedItem
	SpecialOrders       []SpecialOrderLine
	Collaboration       *Collaboration
	EstimatedTotal      *money.Cents
	TotalAmount         *money.Cents
	Version             int64
	BookingTimestamp    time.Time
	UpdatedAt           time.Time
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(s Snapshot) *Booking {
	return &Booking{
		id:                  s.ID,
		bookingNumber:       s.BookingNumber,
		bookingType:         s.BookingType,
		status:              s.Status,
		selectedPackage:     s.SelectedPackage,
		bookingDate:         s.BookingDate,
		pickupTime:          s.PickupTime,
		guestCount:          s.GuestCount,
		venueType:           s.VenueType,
		venueAddress:        s.VenueAddress,
		selectedAreas:       s.SelectedAreas,
		customerName:        s.CustomerName,
		email:               s.Email,
		phoneNumber:         s.PhoneNumber,
		notes:               s.Notes,
		dietaryRequirements: s.DietaryRequirements,
		selectedItems:       s.SelectedItems,
		specialOrders:       s.SpecialOrders,
		collaboration:       s.Collaboration,
		estimatedTotal:      s.EstimatedTotal,
		totalAmount:         s.TotalAmount,
		version:             s.Version,
		bookingTimestamp:    s.BookingTimestamp,
		updatedAt:           s.UpdatedAt,
	}
}

// Snapshot exports the booking's state.
func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:                  b.id,
		BookingNumber:       b.bookingNumber,
		BookingType:         b.bookingType,
		Status:              b.status,
		SelectedPackage:     b.selectedPackage,
		BookingDate:         b.bookingDate,
		PickupTime:          b.pickupTime,
		GuestCount:          b.guestCount,
		VenueType:           b.venueType,
		VenueAddress:        b.venueAddress,
		SelectedAreas:       b.selectedAreas,
		CustomerName:        b.customerName,
		Email:               b.email,
		PhoneNumber:         b.phoneNumber,
		Notes:               b.notes,
		DietaryRequirements: b.dietaryRequirements,
		SelectedItems:       b.selectedItems,
		SpecialOrders:       b.specialOrders,
		Collaboration:       b.collaboration,
		EstimatedTotal:      b.estimatedTotal,
		TotalAmount:         b.totalAmount,
		Version:             b.version,
		BookingTimestamp:    b.bookingTimestamp,
		UpdatedAt:           b.updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// Type returns the booking type.
func (b *Booking) Type() BookingType { return b.bookingType }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// SelectedPackage returns the package id the booking was made for.
func (b *Booking) SelectedPackage() string { return b.selectedPackage }

// BookingDate returns the resolved calendar date, or nil if unset.
func (b *Booking) BookingDate() *catalog.Date { return b.bookingDate }

// PickupTime returns the special-order pickup time, or nil.
func (b *Booking) PickupTime() *time.Time { return b.pickupTime }

// GuestCount returns the party size for dining bookings.
func (b *Booking) GuestCount() *int { return b.guestCount }

// VenueType returns the venue type, or nil when not applicable.
func (b *Booking) VenueType() *VenueType { return b.venueType }

// VenueAddress returns the home venue address, or nil.
func (b *Booking) VenueAddress() *string { return b.venueAddress }

// SelectedAreas returns the rental venue areas.
func (b *Booking) SelectedAreas() []string { return b.selectedAreas }

// CustomerName returns the contact name.
func (b *Booking) CustomerName() string { return b.customerName }

// Email returns the contact email.
func (b *Booking) Email() string { return b.email }

// PhoneNumber returns the contact phone number.
func (b *Booking) PhoneNumber() string { return b.phoneNumber }

// Notes returns free-text notes.
func (b *Booking) Notes() string { return b.notes }

// DietaryRequirements returns dietary notes.
func (b *Booking) DietaryRequirements() string { return b.dietaryRequirements }

// SelectedItems returns the normalized dish selection.
func (b *Booking) SelectedItems() []SelectedItem { return b.selectedItems }

// SpecialOrders returns the special-order lines.
func (b *Booking) SpecialOrders() []SpecialOrderLine { return b.specialOrders }

// Collaboration returns collaboration details, or nil.
func (b *Booking) Collaboration() *Collaboration { return b.collaboration }

// EstimatedTotal returns the pre-estimated dining total, or nil.
func (b *Booking) EstimatedTotal() *money.Cents { return b.estimatedTotal }

// TotalAmount returns the computed special-order total, or nil.
func (b *Booking) TotalAmount() *money.Cents { return b.totalAmount }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// BookingTimestamp returns when the booking was created.
func (b *Booking) BookingTimestamp() time.Time { return b.bookingTimestamp }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Confirm transitions a pending booking to confirmed.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return apperr.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled if it is not already.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return apperr.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
