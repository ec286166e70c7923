package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	"github.com/trattoria-luca/service-booking/internal/domain/money"
)

var (
	ErrPickupRequired    = errors.New("Please select a pickup date and time")
	ErrPickupBlackout    = errors.New("Special orders are not available from August 20-27, 2025. Please select a different date.")
	ErrPickupLeadTime    = errors.New("Please select a time at least 48 hours in advance")
	ErrPickupWindow      = errors.New("Pickup time must be between 11:00 AM and 10:00 PM")
	ErrDateRequired      = errors.New("Please select a date")
	ErrGuestsTooMany     = errors.New("Maximum 25 guests allowed")
	ErrGuestsTooFew      = errors.New("At least 1 guest required")
	ErrPhoneInvalid      = errors.New("Please enter a valid phone number (minimum 8 digits)")
	ErrEmailInvalid      = errors.New("Please enter a valid email address")
	ErrNameRequired      = errors.New("Please enter your name")
	ErrVenueTypeRequired = errors.New("Please select a venue type")
	ErrVenueAddress      = errors.New("Please enter the venue address")
	ErrVenueNoArea       = errors.New("Please select at least one area")
	ErrVenueTooManyAreas = errors.New("You can select up to 2 areas")
	ErrQuantityTooLarge  = errors.New("Maximum 999 of each item per order")
)

// DateTooEarlyError is returned for a booking date before the earliest
// bookable day.
type DateTooEarlyError struct {
	Minimum catalog.Date
	// FromPackage is set when the minimum comes from the package's
	// availability date rather than the default lead time.
	FromPackage bool
}

func (e *DateTooEarlyError) Error() string {
	if e.FromPackage {
		return fmt.Sprintf("Please select a date from %s onwards", e.Minimum.In(time.UTC).Format("2 Jan 2006"))
	}
	return "Please select a date at least 10 days in advance"
}

// MinimumSpendError is returned when a special order's total is below the
// package minimum.
type MinimumSpendError struct {
	Total   money.Cents
	Minimum money.Cents
}

// Remaining is the amount still needed to reach the minimum.
func (e *MinimumSpendError) Remaining() money.Cents {
	return e.Minimum - e.Total
}

func (e *MinimumSpendError) Error() string {
	return fmt.Sprintf("Add $%s more to reach the minimum order of $%s", e.Remaining(), e.Minimum)
}

// SelectionCountError is returned when a dining selection does not match the
// package's required count.
type SelectionCountError struct {
	Selected int
	Required int
}

func (e *SelectionCountError) Error() string {
	if e.Selected > e.Required {
		return fmt.Sprintf("You can only select %d items", e.Required)
	}
	return fmt.Sprintf("Please select %d items", e.Required)
}

// Violations maps form field names to user-facing messages.
type Violations map[string]string

// Add records err against field if err is non-nil.
func (v Violations) Add(field string, err error) {
	if err != nil {
		v[field] = err.Error()
	}
}

// Empty reports whether no rule failed.
func (v Violations) Empty() bool {
	return len(v) == 0
}

func (v Violations) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return strings.Join(parts, "; ")
}
