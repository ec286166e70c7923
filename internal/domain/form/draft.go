// Package form implements the multi-step booking form as a pure reducer
// over an immutable Draft.
package form

import (
	"time"

	"github.com/trattoria-luca/service-booking/internal/domain/booking"
	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	"github.com/trattoria-luca/service-booking/internal/domain/money"
)

// DefaultGuestCount is the party size of a fresh draft.
const DefaultGuestCount = 2

// Catalog is the read side of the catalog store the reducer needs.
type Catalog interface {
	Package(id string) (catalog.Package, bool)
	SpecialOrderItem(sku string) (catalog.SpecialOrderItem, bool)
	HasMenuItem(packageID, name string) bool
	Area(id string) (catalog.Area, bool)
}

// Env is everything outside the draft that a reduction may consult.
type Env struct {
	Catalog  Catalog
	Now      time.Time
	Location *time.Location
}

func (e Env) location() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// Draft is the in-progress booking. It is treated as a value: Reduce never
// mutates its input.
type Draft struct {
	Step      Step   `json:"step"`
	PackageID string `json:"package_id,omitempty"`

	BookingDate *catalog.Date `json:"booking_date,omitempty"`
	PickupTime  *time.Time    `json:"pickup_time,omitempty"`
	GuestCount  int           `json:"guest_count"`

	VenueType     *booking.VenueType `json:"venue_type,omitempty"`
	VenueAddress  string             `json:"venue_address,omitempty"`
	SelectedAreas []string           `json:"selected_areas,omitempty"`

	SelectedItems     []string                   `json:"selected_items,omitempty"`
	SpecialOrderLines []booking.SpecialOrderLine `json:"special_order_lines,omitempty"`

	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Notes   string `json:"notes,omitempty"`
	Dietary string `json:"dietary_requirements,omitempty"`

	Errors map[string]string `json:"errors,omitempty"`
}

// NewDraft returns the empty draft on the first step.
func NewDraft() Draft {
	return Draft{Step: StepPackageSelection, GuestCount: DefaultGuestCount}
}

// clone deep-copies the reference fields so the copy can be changed freely.
func (d Draft) clone() Draft {
	out := d
	if d.BookingDate != nil {
		v := *d.BookingDate
		out.BookingDate = &v
	}
	if d.PickupTime != nil {
		v := *d.PickupTime
		out.PickupTime = &v
	}
	if d.VenueType != nil {
		v := *d.VenueType
		out.VenueType = &v
	}
	out.SelectedAreas = cloneSlice(d.SelectedAreas)
	out.SelectedItems = cloneSlice(d.SelectedItems)
	out.SpecialOrderLines = cloneSlice(d.SpecialOrderLines)
	if d.Errors != nil {
		out.Errors = make(map[string]string, len(d.Errors))
		for k, v := range d.Errors {
			out.Errors[k] = v
		}
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append([]T(nil), s...)
}

func (d *Draft) setError(field, msg string) {
	if d.Errors == nil {
		d.Errors = make(map[string]string)
	}
	d.Errors[field] = msg
}

func (d *Draft) clearError(fields ...string) {
	for _, f := range fields {
		delete(d.Errors, f)
	}
	if len(d.Errors) == 0 {
		d.Errors = nil
	}
}

// IsSpecialOrder reports whether the selected package follows the pickup branch.
func (d Draft) IsSpecialOrder(env Env) bool {
	if d.PackageID == "" || env.Catalog == nil {
		return false
	}
	pkg, ok := env.Catalog.Package(d.PackageID)
	return ok && pkg.IsSpecialOrder()
}

// HasSelected reports whether a dish is in the selection set.
func (d Draft) HasSelected(name string) bool {
	for _, n := range d.SelectedItems {
		if n == name {
			return true
		}
	}
	return false
}

// Totals are the derived amounts shown alongside the draft.
type Totals struct {
	// Total is the special-order line total.
	Total money.Cents `json:"total_cents"`
	// Minimum is the package minimum spend.
	Minimum money.Cents `json:"minimum_cents"`
	// Remaining is how much is left to reach Minimum, never negative.
	Remaining money.Cents `json:"remaining_cents"`
	// ProgressPercent is Total over Minimum, capped at 100.
	ProgressPercent int `json:"progress_percent"`
	// Estimated is the dining estimate taken from the package.
	Estimated money.Cents `json:"estimated_cents,omitempty"`
}

// ComputeTotals derives totals for the current package.
func ComputeTotals(d Draft, env Env) Totals {
	var t Totals
	if d.PackageID == "" || env.Catalog == nil {
		return t
	}
	pkg, ok := env.Catalog.Package(d.PackageID)
	if !ok {
		return t
	}
	t.Minimum = pkg.MinSpend
	if !pkg.IsSpecialOrder() {
		t.Estimated = pkg.MinSpend
		if t.Estimated == 0 {
			t.Estimated = pkg.Price
		}
		return t
	}

	t.Total = booking.LinesTotal(d.SpecialOrderLines)
	if t.Total < t.Minimum {
		t.Remaining = t.Minimum - t.Total
	}
	switch {
	case t.Minimum <= 0, t.Total >= t.Minimum:
		t.ProgressPercent = 100
	default:
		t.ProgressPercent = int(t.Total * 100 / t.Minimum)
	}
	return t
}
