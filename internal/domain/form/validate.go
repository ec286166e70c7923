package form

import (
	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	"github.com/trattoria-luca/service-booking/internal/domain/validation"
)

// StepViolations evaluates every rule that gates the draft's current step.
func StepViolations(d Draft, env Env) validation.Violations {
	return violationsFor(d.Step, d, env)
}

// ValidateStep reports whether the current step may be left forwards.
func ValidateStep(d Draft, env Env) bool {
	return StepViolations(d, env).Empty()
}

func violationsFor(step Step, d Draft, env Env) validation.Violations {
	v := validation.Violations{}

	pkg, ok := lookupPackage(d, env)
	if !ok {
		v.Add(validation.FieldPackage, ErrNoPackage)
		return v
	}

	loc := env.location()
	switch step {
	case StepPackageSelection:
		// Package presence is checked above.

	case StepVenueAndDate:
		if d.BookingDate == nil {
			v.Add(validation.FieldBookingDate, validation.ErrDateRequired)
		} else {
			v.Add(validation.FieldBookingDate, validation.BookingDate(*d.BookingDate, pkg, env.Now, loc))
		}
		v.Add(validation.FieldGuestCount, validation.GuestCount(d.GuestCount))
		if err := validation.Venue(d.VenueType, d.VenueAddress, d.SelectedAreas); err != nil {
			v.Add(venueField(err), err)
		}

	case StepPickupTime:
		if d.PickupTime == nil {
			v.Add(validation.FieldPickupTime, validation.ErrPickupRequired)
		} else {
			v.Add(validation.FieldPickupTime, validation.PickupTime(*d.PickupTime, env.Now, loc))
		}

	case StepMenuSelection:
		v.Add(validation.FieldSelection, validation.Selection(len(d.SelectedItems), pkg.RequiredSelections))

	case StepSpecialOrderSelection:
		total := ComputeTotals(d, env).Total
		v.Add(validation.FieldSpecialOrder, validation.MinimumSpend(total, pkg.MinSpend))

	case StepContactAndSubmit:
		for field, msg := range validation.Contact(d.Name, d.Email, d.Phone) {
			v[field] = msg
		}
	}
	return v
}

func venueField(err error) string {
	switch err {
	case validation.ErrVenueAddress:
		return validation.FieldVenueAddress
	case validation.ErrVenueNoArea, validation.ErrVenueTooManyAreas:
		return validation.FieldVenueAreas
	}
	return validation.FieldVenueType
}

func lookupPackage(d Draft, env Env) (catalog.Package, bool) {
	if d.PackageID == "" || env.Catalog == nil {
		return catalog.Package{}, false
	}
	return env.Catalog.Package(d.PackageID)
}
