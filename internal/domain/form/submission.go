package form

import (
	"strings"

	"github.com/trattoria-luca/service-booking/internal/domain/booking"
)

// CheckSubmittable returns nil only when the draft is on the last step and
// that step's rules all pass.
func CheckSubmittable(d Draft, env Env) error {
	if !d.Step.IsTerminal() {
		return ErrWrongStep
	}
	if v := StepViolations(d, env); !v.Empty() {
		return &IncompleteStepError{Step: d.Step, Violations: v}
	}
	return nil
}

// Submission converts a submittable draft into the booking input.
func Submission(d Draft, env Env) (booking.Submission, error) {
	if err := CheckSubmittable(d, env); err != nil {
		return booking.Submission{}, err
	}
	pkg, ok := lookupPackage(d, env)
	if !ok {
		return booking.Submission{}, ErrNoPackage
	}

	s := booking.Submission{
		PackageID:           pkg.ID,
		Location:            env.location(),
		CustomerName:        strings.TrimSpace(d.Name),
		Email:               d.Email,
		PhoneNumber:         d.Phone,
		Notes:               d.Notes,
		DietaryRequirements: d.Dietary,
	}

	if pkg.IsSpecialOrder() {
		s.Type = booking.TypeSpecialOrder
		if d.PickupTime != nil {
			pickup := *d.PickupTime
			s.PickupTime = &pickup
		}
		s.SpecialOrders = cloneSlice(d.SpecialOrderLines)
		return s, nil
	}

	s.Type = booking.TypeDining
	if d.BookingDate != nil {
		s.BookingDate = d.BookingDate.String()
	}
	guests := d.GuestCount
	s.GuestCount = &guests
	if d.VenueType != nil {
		s.VenueType = string(*d.VenueType)
	}
	s.VenueAddress = d.VenueAddress
	s.SelectedAreas = cloneSlice(d.SelectedAreas)
	for _, name := range d.SelectedItems {
		s.SelectedItems = append(s.SelectedItems, booking.SelectedItem{Name: name, Quantity: 1})
	}
	s.EstimatedTotal = ComputeTotals(d, env).Estimated
	return s, nil
}
