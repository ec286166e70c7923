// Package validation holds the field and step rules of the booking form.
// Every function is pure: callers pass the current time and the business
// location explicitly.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/trattoria-luca/service-booking/internal/domain/booking"
	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	"github.com/trattoria-luca/service-booking/internal/domain/money"
)

const (
	MinGuests       = 1
	MaxGuests       = 25
	MinPhoneDigits  = 8
	MaxLineQuantity = 999
	MaxVenueAreas   = 2
	PickupLeadTime  = 48 * time.Hour
	BookingLeadDays = 10

	pickupOpenHour  = 11
	pickupCloseHour = 22
)

// blackoutBounds returns the inclusive special-order blackout in loc.
func blackoutBounds(loc *time.Location) (time.Time, time.Time) {
	return time.Date(2025, time.August, 20, 0, 0, 0, 0, loc),
		time.Date(2025, time.August, 27, 23, 59, 59, 0, loc)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ParsePickupTime accepts RFC 3339 or a browser datetime-local value
// ("2006-01-02T15:04"), the latter read in loc.
func ParsePickupTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrPickupRequired
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrPickupRequired
}

// InBlackout reports whether t falls inside the special-order blackout.
func InBlackout(t time.Time, loc *time.Location) bool {
	start, end := blackoutBounds(loc)
	return !t.Before(start) && !t.After(end)
}

// PickupTime checks a special-order pickup. The blackout check runs first
// and short-circuits the lead-time and opening-hours checks.
func PickupTime(pickup, now time.Time, loc *time.Location) error {
	if pickup.IsZero() {
		return ErrPickupRequired
	}
	if InBlackout(pickup, loc) {
		return ErrPickupBlackout
	}
	if pickup.Sub(now) < PickupLeadTime {
		return ErrPickupLeadTime
	}

	local := pickup.In(loc)
	h := local.Hour()
	if h < pickupOpenHour || h > pickupCloseHour {
		return ErrPickupWindow
	}
	if h == pickupCloseHour && (local.Minute() > 0 || local.Second() > 0) {
		return ErrPickupWindow
	}
	return nil
}

// MinimumBookingDate is the earliest bookable day for a dining package: its
// availability date when set, otherwise today plus the lead days.
func MinimumBookingDate(pkg catalog.Package, now time.Time, loc *time.Location) (catalog.Date, bool) {
	if pkg.AvailableFrom != nil {
		return *pkg.AvailableFrom, true
	}
	return catalog.DateOf(now.In(loc)).AddDays(BookingLeadDays), false
}

// BookingDate checks a dining date against the package minimum.
func BookingDate(date catalog.Date, pkg catalog.Package, now time.Time, loc *time.Location) error {
	if date.IsZero() {
		return ErrDateRequired
	}
	earliest, fromPackage := MinimumBookingDate(pkg, now, loc)
	if date.Before(earliest) {
		return &DateTooEarlyError{Minimum: earliest, FromPackage: fromPackage}
	}
	return nil
}

// GuestCount checks the party size.
func GuestCount(n int) error {
	switch {
	case n > MaxGuests:
		return ErrGuestsTooMany
	case n < MinGuests:
		return ErrGuestsTooFew
	}
	return nil
}

// LineQuantity bounds the quantity of a single special-order SKU.
func LineQuantity(n int) error {
	if n > MaxLineQuantity {
		return ErrQuantityTooLarge
	}
	return nil
}

// Phone passes when the input has at least eight ASCII digits. Other
// characters are ignored.
func Phone(s string) error {
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < MinPhoneDigits {
		return ErrPhoneInvalid
	}
	return nil
}

// Email applies a loose user@host.tld pattern.
func Email(s string) error {
	if !emailPattern.MatchString(s) {
		return ErrEmailInvalid
	}
	return nil
}

// Name requires a non-blank name.
func Name(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrNameRequired
	}
	return nil
}

// Venue checks the venue block of a dining booking.
func Venue(venueType *booking.VenueType, address string, areas []string) error {
	if venueType == nil {
		return ErrVenueTypeRequired
	}
	switch *venueType {
	case booking.VenueHome:
		if strings.TrimSpace(address) == "" {
			return ErrVenueAddress
		}
	case booking.VenueRental:
		if len(areas) == 0 {
			return ErrVenueNoArea
		}
		if len(areas) > MaxVenueAreas {
			return ErrVenueTooManyAreas
		}
	default:
		return ErrVenueTypeRequired
	}
	return nil
}

// MinimumSpend checks a special-order total against the package minimum.
func MinimumSpend(total, minimum money.Cents) error {
	if total < minimum {
		return &MinimumSpendError{Total: total, Minimum: minimum}
	}
	return nil
}

// Selection checks that exactly the required number of dishes is chosen.
func Selection(selected, required int) error {
	if selected != required {
		return &SelectionCountError{Selected: selected, Required: required}
	}
	return nil
}

// Contact checks the contact block. All rules are evaluated together.
func Contact(name, email, phone string) Violations {
	v := Violations{}
	v.Add(FieldName, Name(name))
	v.Add(FieldEmail, Email(email))
	v.Add(FieldPhone, Phone(phone))
	return v
}
