package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/trattoria-luca/service-booking/internal/domain/booking"
	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	"github.com/trattoria-luca/service-booking/internal/domain/validation"
)

// Reduce applies an action to a draft and returns the resulting draft.
//
// Rule violations on a single field are reported in the returned draft's
// Errors and leave the field at its previous value; Reduce still returns a
// nil error for them. A non-nil error means the action was refused and the
// returned draft equals the input (a refused Advance also carries Errors).
func Reduce(d Draft, a Action, env Env) (Draft, error) {
	next := d.clone()

	var err error
	switch act := a.(type) {
	case SelectPackage:
		return selectPackage(next, act, env)
	case Reset:
		return NewDraft(), nil
	case Advance:
		return advance(next, env)
	case Retreat:
		return retreat(next, env), nil

	case SetBookingDate:
		err = next.setBookingDate(act, env)
	case SetGuestCount:
		err = next.setGuestCount(act)
	case SelectVenueType:
		err = next.selectVenueType(act)
	case SetVenueAddress:
		err = next.setVenueAddress(act)
	case ToggleArea:
		err = next.toggleArea(act, env)
	case SetPickupTime:
		err = next.setPickupTime(act, env)
	case ToggleMenuItem:
		err = next.toggleMenuItem(act, env)
	case SetLineQuantity:
		err = next.setLineQuantity(act, env)
	case SetContact:
		err = next.setContact(act)
	case SetNotes:
		if err = next.requireStep(StepContactAndSubmit); err == nil {
			next.Notes = act.Notes
		}
	case SetDietary:
		if err = next.requireStep(StepContactAndSubmit); err == nil {
			next.Dietary = act.Dietary
		}
	default:
		err = fmt.Errorf("unsupported action %T", a)
	}

	if err != nil {
		return d, err
	}
	return next, nil
}

func (d *Draft) requireStep(step Step) error {
	if d.Step != step {
		return fmt.Errorf("%w: expected %s, draft is on %s", ErrWrongStep, step, d.Step)
	}
	return nil
}

// selectPackage starts a fresh draft for the package, whatever was entered before.
func selectPackage(d Draft, act SelectPackage, env Env) (Draft, error) {
	if env.Catalog == nil {
		return d, ErrUnknownPackage
	}
	if _, ok := env.Catalog.Package(act.PackageID); !ok {
		return d, fmt.Errorf("%w: %s", ErrUnknownPackage, act.PackageID)
	}
	fresh := NewDraft()
	fresh.PackageID = act.PackageID
	return fresh, nil
}

func advance(d Draft, env Env) (Draft, error) {
	if d.Step.IsTerminal() {
		return d, ErrTerminalStep
	}
	if v := StepViolations(d, env); !v.Empty() {
		refused := d.clone()
		refused.Errors = v
		return refused, &IncompleteStepError{Step: d.Step, Violations: v}
	}
	to, err := d.Step.next(d.IsSpecialOrder(env))
	if err != nil {
		return d, err
	}
	d.Step = to
	d.Errors = nil
	return d, nil
}

// retreat always succeeds. On the first step it does nothing.
func retreat(d Draft, env Env) Draft {
	from, ok := d.Step.previous(d.IsSpecialOrder(env))
	if !ok {
		return d
	}
	d.clearStep(d.Step)
	d.Step = from
	return d
}

// clearStep empties the fields owned by a step and their errors.
func (d *Draft) clearStep(step Step) {
	switch step {
	case StepVenueAndDate:
		d.VenueType = nil
		d.VenueAddress = ""
		d.SelectedAreas = nil
		d.BookingDate = nil
		d.GuestCount = DefaultGuestCount
		d.clearError(validation.FieldVenueType, validation.FieldVenueAddress, validation.FieldVenueAreas,
			validation.FieldBookingDate, validation.FieldGuestCount)
	case StepPickupTime:
		d.PickupTime = nil
		d.clearError(validation.FieldPickupTime)
	case StepMenuSelection:
		d.SelectedItems = nil
		d.clearError(validation.FieldSelection)
	case StepSpecialOrderSelection:
		d.SpecialOrderLines = nil
		d.clearError(validation.FieldSpecialOrder)
	case StepContactAndSubmit:
		d.Name, d.Email, d.Phone = "", "", ""
		d.Notes, d.Dietary = "", ""
		d.clearError(validation.FieldName, validation.FieldEmail, validation.FieldPhone)
	}
}

func (d *Draft) setBookingDate(act SetBookingDate, env Env) error {
	if err := d.requireStep(StepVenueAndDate); err != nil {
		return err
	}
	pkg, ok := lookupPackage(*d, env)
	if !ok {
		return ErrNoPackage
	}
	date, err := catalog.ParseDate(strings.TrimSpace(act.Date))
	if err != nil {
		d.setError(validation.FieldBookingDate, validation.ErrDateRequired.Error())
		return nil
	}
	if err := validation.BookingDate(date, pkg, env.Now, env.location()); err != nil {
		d.setError(validation.FieldBookingDate, err.Error())
		return nil
	}
	d.BookingDate = &date
	d.clearError(validation.FieldBookingDate)
	return nil
}

func (d *Draft) setGuestCount(act SetGuestCount) error {
	if err := d.requireStep(StepVenueAndDate); err != nil {
		return err
	}
	if err := validation.GuestCount(act.Count); err != nil {
		d.setError(validation.FieldGuestCount, err.Error())
		return nil
	}
	d.GuestCount = act.Count
	d.clearError(validation.FieldGuestCount)
	return nil
}

func (d *Draft) selectVenueType(act SelectVenueType) error {
	if err := d.requireStep(StepVenueAndDate); err != nil {
		return err
	}
	vt := booking.ParseVenueType(act.VenueType)
	if vt == nil {
		d.setError(validation.FieldVenueType, validation.ErrVenueTypeRequired.Error())
		return nil
	}
	d.VenueType = vt
	switch *vt {
	case booking.VenueHome:
		d.SelectedAreas = nil
		d.clearError(validation.FieldVenueAreas)
	case booking.VenueRental:
		d.VenueAddress = ""
		d.clearError(validation.FieldVenueAddress)
	}
	d.clearError(validation.FieldVenueType)
	return nil
}

func (d *Draft) setVenueAddress(act SetVenueAddress) error {
	if err := d.requireStep(StepVenueAndDate); err != nil {
		return err
	}
	d.VenueAddress = act.Address
	if strings.TrimSpace(act.Address) != "" {
		d.clearError(validation.FieldVenueAddress)
	}
	return nil
}

func (d *Draft) toggleArea(act ToggleArea, env Env) error {
	if err := d.requireStep(StepVenueAndDate); err != nil {
		return err
	}
	if env.Catalog == nil {
		return ErrUnknownArea
	}
	if _, ok := env.Catalog.Area(act.AreaID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownArea, act.AreaID)
	}

	for i, id := range d.SelectedAreas {
		if id == act.AreaID {
			d.SelectedAreas = append(d.SelectedAreas[:i], d.SelectedAreas[i+1:]...)
			if len(d.SelectedAreas) == 0 {
				d.SelectedAreas = nil
			}
			d.clearError(validation.FieldVenueAreas)
			return nil
		}
	}
	if len(d.SelectedAreas) >= validation.MaxVenueAreas {
		d.setError(validation.FieldVenueAreas, validation.ErrVenueTooManyAreas.Error())
		return nil
	}
	d.SelectedAreas = append(d.SelectedAreas, act.AreaID)
	d.clearError(validation.FieldVenueAreas)
	return nil
}

// setPickupTime applies the pickup checks. A blackout time is not stored;
// other violations are stored together with their message.
func (d *Draft) setPickupTime(act SetPickupTime, env Env) error {
	if err := d.requireStep(StepPickupTime); err != nil {
		return err
	}
	loc := env.location()
	pickup, err := validation.ParsePickupTime(act.PickupTime, loc)
	if err != nil {
		d.setError(validation.FieldPickupTime, err.Error())
		return nil
	}

	err = validation.PickupTime(pickup, env.Now, loc)
	if errors.Is(err, validation.ErrPickupBlackout) {
		d.setError(validation.FieldPickupTime, err.Error())
		return nil
	}
	d.PickupTime = &pickup
	if err != nil {
		d.setError(validation.FieldPickupTime, err.Error())
		return nil
	}
	d.clearError(validation.FieldPickupTime)
	return nil
}

func (d *Draft) toggleMenuItem(act ToggleMenuItem, env Env) error {
	if err := d.requireStep(StepMenuSelection); err != nil {
		return err
	}
	pkg, ok := lookupPackage(*d, env)
	if !ok {
		return ErrNoPackage
	}
	if !env.Catalog.HasMenuItem(pkg.ID, act.Name) {
		return fmt.Errorf("%w: %s", ErrUnknownItem, act.Name)
	}

	for i, name := range d.SelectedItems {
		if name == act.Name {
			d.SelectedItems = append(d.SelectedItems[:i], d.SelectedItems[i+1:]...)
			if len(d.SelectedItems) == 0 {
				d.SelectedItems = nil
			}
			d.clearError(validation.FieldSelection)
			return nil
		}
	}
	if len(d.SelectedItems) >= pkg.RequiredSelections {
		err := validation.Selection(len(d.SelectedItems)+1, pkg.RequiredSelections)
		d.setError(validation.FieldSelection, err.Error())
		return nil
	}
	d.SelectedItems = append(d.SelectedItems, act.Name)
	d.clearError(validation.FieldSelection)
	return nil
}

func (d *Draft) setLineQuantity(act SetLineQuantity, env Env) error {
	if err := d.requireStep(StepSpecialOrderSelection); err != nil {
		return err
	}
	if env.Catalog == nil {
		return ErrUnknownItem
	}
	item, ok := env.Catalog.SpecialOrderItem(act.SKU)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, act.SKU)
	}
	if err := validation.LineQuantity(act.Quantity); err != nil {
		d.setError(validation.FieldSpecialOrder, err.Error())
		return nil
	}

	idx := -1
	for i, l := range d.SpecialOrderLines {
		if l.SKU == act.SKU {
			idx = i
			break
		}
	}

	switch {
	case act.Quantity <= 0 && idx >= 0:
		d.SpecialOrderLines = append(d.SpecialOrderLines[:idx], d.SpecialOrderLines[idx+1:]...)
		if len(d.SpecialOrderLines) == 0 {
			d.SpecialOrderLines = nil
		}
	case act.Quantity <= 0:
		// Nothing to remove.
	case idx >= 0:
		d.SpecialOrderLines[idx].Quantity = act.Quantity
	default:
		d.SpecialOrderLines = append(d.SpecialOrderLines, booking.SpecialOrderLine{
			SKU:      item.SKU,
			Name:     item.Name,
			ItemType: string(item.ItemType),
			Size:     string(item.Size),
			Quantity: act.Quantity,
			Price:    item.Price,
		})
	}
	d.clearError(validation.FieldSpecialOrder)
	return nil
}

// setContact stores the contact block and reports problems with any
// non-empty field straight away.
func (d *Draft) setContact(act SetContact) error {
	if err := d.requireStep(StepContactAndSubmit); err != nil {
		return err
	}
	d.Name = act.Name
	d.Email = strings.TrimSpace(act.Email)
	d.Phone = act.Phone

	check := func(field, value string, rule func(string) error) {
		err := rule(value)
		if err == nil || strings.TrimSpace(value) == "" {
			d.clearError(field)
			return
		}
		d.setError(field, err.Error())
	}
	check(validation.FieldName, d.Name, validation.Name)
	check(validation.FieldEmail, d.Email, validation.Email)
	check(validation.FieldPhone, d.Phone, validation.Phone)
	return nil
}
