package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trattoria-luca/service-booking/internal/domain/booking"
	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	"github.com/trattoria-luca/service-booking/internal/domain/money"
	"github.com/trattoria-luca/service-booking/internal/domain/validation"
)

func testEnv(t *testing.T) Env {
	t.Helper()
	store, err := catalog.Default()
	require.NoError(t, err)
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	return Env{
		Catalog:  store,
		Now:      time.Date(2025, time.August, 1, 10, 0, 0, 0, loc),
		Location: loc,
	}
}

func apply(t *testing.T, d Draft, env Env, actions ...Action) Draft {
	t.Helper()
	for _, a := range actions {
		var err error
		d, err = Reduce(d, a, env)
		require.NoError(t, err, "%T", a)
	}
	return d
}

// diningAtContact walks italian-pizza through to the contact step.
func diningAtContact(t *testing.T, env Env) Draft {
	return apply(t, NewDraft(), env,
		SelectPackage{PackageID: "italian-pizza"},
		Advance{},
		SelectVenueType{VenueType: "home"},
		SetVenueAddress{Address: "1 Orchard Road"},
		SetBookingDate{Date: "2025-08-29"},
		SetGuestCount{Count: 10},
		Advance{},
		ToggleMenuItem{Name: "Margherita"},
		ToggleMenuItem{Name: "Diavola"},
		ToggleMenuItem{Name: "Ortolana"},
		ToggleMenuItem{Name: "Quattro Formaggi"},
		Advance{},
	)
}

func specialAtContact(t *testing.T, env Env) Draft {
	return apply(t, NewDraft(), env,
		SelectPackage{PackageID: "special-orders"},
		Advance{},
		SetPickupTime{PickupTime: "2025-09-05T15:00"},
		Advance{},
		SetLineQuantity{SKU: "pinsa-base-m", Quantity: 12},
		Advance{},
	)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	env := testEnv(t)
	d := apply(t, NewDraft(), env, SelectPackage{PackageID: "italian-pizza"}, Advance{}, SelectVenueType{VenueType: "rental"})
	d = apply(t, d, env, ToggleArea{AreaID: "garden"})

	before := d.clone()
	_ = apply(t, d, env, ToggleArea{AreaID: "rooftop"}, ToggleArea{AreaID: "garden"})
	assert.Equal(t, before, d)
}

func TestSelectPackage_ResetsEverything(t *testing.T) {
	env := testEnv(t)

	for _, start := range []Draft{diningAtContact(t, env), specialAtContact(t, env)} {
		filled := apply(t, start, env, SetContact{Name: "Luca", Email: "luca@example.com", Phone: "91234567"}, SetNotes{Notes: "window seat"})

		for _, other := range []string{"i-love-italian", "italian-sharing", "italian-pizza", "special-orders"} {
			if other == filled.PackageID {
				continue
			}
			got := apply(t, filled, env, SelectPackage{PackageID: other})

			want := NewDraft()
			want.PackageID = other
			assert.Equal(t, want, got, "%s -> %s", filled.PackageID, other)
		}
	}
}

func TestSelectPackage_Unknown(t *testing.T) {
	env := testEnv(t)
	d := NewDraft()
	got, err := Reduce(d, SelectPackage{PackageID: "brunch"}, env)
	assert.ErrorIs(t, err, ErrUnknownPackage)
	assert.Equal(t, d, got)
}

func TestSetGuestCount_OutOfRangeKeepsPrevious(t *testing.T) {
	env := testEnv(t)
	d := apply(t, NewDraft(), env, SelectPackage{PackageID: "italian-pizza"}, Advance{})

	d = apply(t, d, env, SetGuestCount{Count: 26})
	assert.Equal(t, DefaultGuestCount, d.GuestCount)
	assert.Equal(t, "Maximum 25 guests allowed", d.Errors[validation.FieldGuestCount])

	d = apply(t, d, env, SetGuestCount{Count: 12}, SetGuestCount{Count: 0})
	assert.Equal(t, 12, d.GuestCount)
	assert.Equal(t, "At least 1 guest required", d.Errors[validation.FieldGuestCount])

	d = apply(t, d, env, SetGuestCount{Count: 25})
	assert.Equal(t, 25, d.GuestCount)
	assert.NotContains(t, d.Errors, validation.FieldGuestCount)
}

func TestAdvance_RefusedLeavesFieldsAlone(t *testing.T) {
	env := testEnv(t)
	d := apply(t, NewDraft(), env, SelectPackage{PackageID: "italian-pizza"}, Advance{}, SetGuestCount{Count: 8})

	got, err := Reduce(d, Advance{}, env)
	require.ErrorIs(t, err, ErrStepIncomplete)

	var incomplete *IncompleteStepError
	require.ErrorAs(t, err, &incomplete)
	assert.Contains(t, incomplete.Violations, validation.FieldBookingDate)
	assert.Contains(t, incomplete.Violations, validation.FieldVenueType)

	assert.Equal(t, StepVenueAndDate, got.Step)
	assert.Equal(t, 8, got.GuestCount)
	assert.Equal(t, map[string]string(incomplete.Violations), got.Errors)
}

func TestAdvance_NoPackage(t *testing.T) {
	env := testEnv(t)
	_, err := Reduce(NewDraft(), Advance{}, env)
	assert.ErrorIs(t, err, ErrStepIncomplete)
}

func TestAdvance_FromTerminal(t *testing.T) {
	env := testEnv(t)
	d := diningAtContact(t, env)
	_, err := Reduce(d, Advance{}, env)
	assert.ErrorIs(t, err, ErrTerminalStep)
}

func TestBranching(t *testing.T) {
	env := testEnv(t)

	d := apply(t, NewDraft(), env, SelectPackage{PackageID: "special-orders"}, Advance{})
	assert.Equal(t, StepPickupTime, d.Step)
	assert.Equal(t, 2, d.Step.Ordinal())

	d = apply(t, NewDraft(), env, SelectPackage{PackageID: "i-love-italian"}, Advance{})
	assert.Equal(t, StepVenueAndDate, d.Step)

	_, err := Reduce(d, SetPickupTime{PickupTime: "2025-09-05T15:00"}, env)
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestBookingDate_BeforeAvailability(t *testing.T) {
	env := testEnv(t)
	d := apply(t, NewDraft(), env, SelectPackage{PackageID: "italian-pizza"}, Advance{}, SetBookingDate{Date: "2025-08-28"})

	assert.Nil(t, d.BookingDate)
	assert.Equal(t, "Please select a date from 29 Aug 2025 onwards", d.Errors[validation.FieldBookingDate])

	d = apply(t, d, env, SetBookingDate{Date: "2025-08-29"})
	require.NotNil(t, d.BookingDate)
	assert.NotContains(t, d.Errors, validation.FieldBookingDate)
}

func TestPickupTime_Rules(t *testing.T) {
	env := testEnv(t)
	d := apply(t, NewDraft(), env, SelectPackage{PackageID: "special-orders"}, Advance{})

	blackout := apply(t, d, env, SetPickupTime{PickupTime: "2025-08-23T14:00"})
	assert.Nil(t, blackout.PickupTime)
	assert.Equal(t, validation.ErrPickupBlackout.Error(), blackout.Errors[validation.FieldPickupTime])

	early := apply(t, d, env, SetPickupTime{PickupTime: "2025-09-05T10:00"})
	require.NotNil(t, early.PickupTime)
	assert.Equal(t, validation.ErrPickupWindow.Error(), early.Errors[validation.FieldPickupTime])
	_, err := Reduce(early, Advance{}, env)
	assert.ErrorIs(t, err, ErrStepIncomplete)

	ok := apply(t, early, env, SetPickupTime{PickupTime: "2025-09-05T15:00"})
	assert.Empty(t, ok.Errors)
	ok = apply(t, ok, env, Advance{})
	assert.Equal(t, StepSpecialOrderSelection, ok.Step)
}

func TestToggleMenuItem(t *testing.T) {
	env := testEnv(t)
	d := apply(t, NewDraft(), env,
		SelectPackage{PackageID: "italian-pizza"}, Advance{},
		SelectVenueType{VenueType: "home"}, SetVenueAddress{Address: "x"}, SetBookingDate{Date: "2025-08-29"}, Advance{},
	)

	for _, name := range []string{"Margherita", "Diavola", "Ortolana", "Quattro Formaggi"} {
		d = apply(t, d, env, ToggleMenuItem{Name: name})
	}
	assert.Len(t, d.SelectedItems, 4)

	d = apply(t, d, env, ToggleMenuItem{Name: "Funghi e Tartufo"})
	assert.Len(t, d.SelectedItems, 4)
	assert.Equal(t, "You can only select 4 items", d.Errors[validation.FieldSelection])

	d = apply(t, d, env, ToggleMenuItem{Name: "Diavola"})
	assert.Len(t, d.SelectedItems, 3)
	assert.False(t, d.HasSelected("Diavola"))
	assert.Empty(t, d.Errors)

	_, err := Reduce(d, Advance{}, env)
	assert.ErrorIs(t, err, ErrStepIncomplete)

	_, err = Reduce(d, ToggleMenuItem{Name: "Tiramisu"}, env)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestToggleMenuItem_SharingNeedsFive(t *testing.T) {
	env := testEnv(t)
	d := apply(t, NewDraft(), env,
		SelectPackage{PackageID: "italian-sharing"}, Advance{},
		SelectVenueType{VenueType: "rental"}, ToggleArea{AreaID: "garden"}, SetBookingDate{Date: "2025-08-29"}, Advance{},
		ToggleMenuItem{Name: "Arancini"}, ToggleMenuItem{Name: "Supplì"}, ToggleMenuItem{Name: "Panzerotti"},
		ToggleMenuItem{Name: "Gnocco Fritto"},
	)
	_, err := Reduce(d, Advance{}, env)
	require.ErrorIs(t, err, ErrStepIncomplete)

	d = apply(t, d, env, ToggleMenuItem{Name: "Cannoli Siciliani"}, Advance{})
	assert.Equal(t, StepContactAndSubmit, d.Step)
}

func TestToggleArea_MaxTwo(t *testing.T) {
	env := testEnv(t)
	d := apply(t, NewDraft(), env,
		SelectPackage{PackageID: "italian-pizza"}, Advance{}, SelectVenueType{VenueType: "rental"},
		ToggleArea{AreaID: "garden"}, ToggleArea{AreaID: "rooftop"}, ToggleArea{AreaID: "dining-room"},
	)
	assert.Equal(t, []string{"garden", "rooftop"}, d.SelectedAreas)
	assert.Equal(t, "You can select up to 2 areas", d.Errors[validation.FieldVenueAreas])

	_, err := Reduce(d, ToggleArea{AreaID: "basement"}, env)
	assert.ErrorIs(t, err, ErrUnknownArea)

	d = apply(t, d, env, SelectVenueType{VenueType: "home"})
	assert.Nil(t, d.SelectedAreas)
}

func TestSetLineQuantity(t *testing.T) {
	env := testEnv(t)
	d := apply(t, NewDraft(), env,
		SelectPackage{PackageID: "special-orders"}, Advance{},
		SetPickupTime{PickupTime: "2025-09-05T15:00"}, Advance{},
		SetLineQuantity{SKU: "lasagna-l", Quantity: 1},
		SetLineQuantity{SKU: "pizzette-m", Quantity: 2},
	)
	require.Len(t, d.SpecialOrderLines, 2)

	totals := ComputeTotals(d, env)
	assert.Equal(t, money.Cents(18200), totals.Total)
	assert.Equal(t, money.Cents(1800), totals.Remaining)
	assert.Equal(t, 91, totals.ProgressPercent)

	_, err := Reduce(d, Advance{}, env)
	require.ErrorIs(t, err, ErrStepIncomplete)

	d = apply(t, d, env, SetLineQuantity{SKU: "pizzette-m", Quantity: 0})
	require.Len(t, d.SpecialOrderLines, 1)
	assert.Equal(t, "lasagna-l", d.SpecialOrderLines[0].SKU)

	d = apply(t, d, env, SetLineQuantity{SKU: "lasagna-l", Quantity: 0})
	assert.Nil(t, d.SpecialOrderLines)

	_, err = Reduce(d, SetLineQuantity{SKU: "calzone", Quantity: 1}, env)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestSetLineQuantity_TooLargeIsRefused(t *testing.T) {
	env := testEnv(t)
	d := apply(t, NewDraft(), env,
		SelectPackage{PackageID: "special-orders"}, Advance{},
		SetPickupTime{PickupTime: "2025-09-05T15:00"}, Advance{},
		SetLineQuantity{SKU: "pinsa-base-m", Quantity: 2},
	)

	// Large enough to wrap price x quantity past int64.
	maxUint := ^uint64(0)
	huge := int(maxUint/1800 + 13)
	d = apply(t, d, env, SetLineQuantity{SKU: "pinsa-base-m", Quantity: huge})
	require.Len(t, d.SpecialOrderLines, 1)
	assert.Equal(t, 2, d.SpecialOrderLines[0].Quantity)
	assert.Equal(t, validation.ErrQuantityTooLarge.Error(), d.Errors[validation.FieldSpecialOrder])
	assert.Equal(t, money.Cents(3600), ComputeTotals(d, env).Total)

	_, err := Reduce(d, Advance{}, env)
	require.ErrorIs(t, err, ErrStepIncomplete)

	d = apply(t, d, env, SetLineQuantity{SKU: "pinsa-base-m", Quantity: validation.MaxLineQuantity + 1})
	assert.Equal(t, 2, d.SpecialOrderLines[0].Quantity)
}

func TestMinimumSpend_ExactBoundary(t *testing.T) {
	env := testEnv(t)
	d := apply(t, NewDraft(), env,
		SelectPackage{PackageID: "special-orders"}, Advance{},
		SetPickupTime{PickupTime: "2025-09-05T15:00"}, Advance{},
		// 140 + 6 x 10 = 200.00
		SetLineQuantity{SKU: "sharing-platter-l", Quantity: 1},
		SetLineQuantity{SKU: "pinsa-base-xs", Quantity: 6},
	)
	assert.Equal(t, money.Cents(20000), ComputeTotals(d, env).Total)
	d = apply(t, d, env, Advance{})
	assert.Equal(t, StepContactAndSubmit, d.Step)
}

func TestRetreat_ClearsLeftStep(t *testing.T) {
	env := testEnv(t)

	contact := apply(t, diningAtContact(t, env), env,
		SetContact{Name: "Luca", Email: "luca@example.com", Phone: "91234567"},
		SetNotes{Notes: "n"}, SetDietary{Dietary: "d"},
	)
	menu := apply(t, contact, env, Retreat{})
	assert.Equal(t, StepMenuSelection, menu.Step)
	assert.Empty(t, menu.Name+menu.Email+menu.Phone+menu.Notes+menu.Dietary)
	assert.Len(t, menu.SelectedItems, 4)

	venue := apply(t, menu, env, Retreat{})
	assert.Equal(t, StepVenueAndDate, venue.Step)
	assert.Nil(t, venue.SelectedItems)
	require.NotNil(t, venue.BookingDate)

	pkg := apply(t, venue, env, Retreat{})
	assert.Equal(t, StepPackageSelection, pkg.Step)
	assert.Nil(t, pkg.BookingDate)
	assert.Nil(t, pkg.VenueType)
	assert.Empty(t, pkg.VenueAddress)
	assert.Equal(t, DefaultGuestCount, pkg.GuestCount)
	assert.Equal(t, "italian-pizza", pkg.PackageID)

	assert.Equal(t, pkg, apply(t, pkg, env, Retreat{}))

	special := apply(t, specialAtContact(t, env), env, Retreat{}, Retreat{})
	assert.Equal(t, StepPickupTime, special.Step)
	assert.Nil(t, special.SpecialOrderLines)
	require.NotNil(t, special.PickupTime)
	special = apply(t, special, env, Retreat{})
	assert.Nil(t, special.PickupTime)
}

func TestRetreatThenAdvance_SameOutcome(t *testing.T) {
	env := testEnv(t)

	// At the menu step, the venue step's fields are complete.
	atMenu := apply(t, diningAtContact(t, env), env, Retreat{})
	back := apply(t, atMenu, env, Retreat{})
	assert.True(t, ValidateStep(back, env))

	forward, err := Reduce(back, Advance{}, env)
	require.NoError(t, err)
	assert.Equal(t, StepMenuSelection, forward.Step)

	// An incomplete venue step stays incomplete after navigating.
	venue := apply(t, NewDraft(), env, SelectPackage{PackageID: "italian-pizza"}, Advance{}, SetGuestCount{Count: 4})
	before := StepViolations(venue, env)
	_, errBefore := Reduce(venue, Advance{}, env)

	pkg := apply(t, venue, env, Retreat{})
	again := apply(t, pkg, env, Advance{})
	_, errAfter := Reduce(again, Advance{}, env)

	assert.ErrorIs(t, errBefore, ErrStepIncomplete)
	assert.ErrorIs(t, errAfter, ErrStepIncomplete)
	assert.Equal(t, before, StepViolations(again, env))
}

func TestSetContact_LiveErrors(t *testing.T) {
	env := testEnv(t)
	d := apply(t, diningAtContact(t, env), env, SetContact{Name: "", Email: "a@b", Phone: ""})
	assert.Equal(t, validation.ErrEmailInvalid.Error(), d.Errors[validation.FieldEmail])
	assert.NotContains(t, d.Errors, validation.FieldName)
	assert.NotContains(t, d.Errors, validation.FieldPhone)

	d = apply(t, d, env, SetContact{Name: "Luca", Email: "a@b.co", Phone: "9123 4567"})
	assert.Empty(t, d.Errors)
}

func TestReset(t *testing.T) {
	env := testEnv(t)
	d := apply(t, diningAtContact(t, env), env, Reset{})
	assert.Equal(t, NewDraft(), d)
}

func TestSubmission_Dining(t *testing.T) {
	env := testEnv(t)
	d := apply(t, diningAtContact(t, env), env, SetContact{Name: " Luca ", Email: "luca@example.com", Phone: "+65 9123 4567"})

	s, err := Submission(d, env)
	require.NoError(t, err)
	assert.Equal(t, booking.TypeDining, s.Type)
	assert.Equal(t, "italian-pizza", s.PackageID)
	assert.Equal(t, "2025-08-29", s.BookingDate)
	assert.Equal(t, "home", s.VenueType)
	assert.Equal(t, "Luca", s.CustomerName)
	require.NotNil(t, s.GuestCount)
	assert.Equal(t, 10, *s.GuestCount)
	assert.Len(t, s.SelectedItems, 4)
	assert.Equal(t, money.Cents(130000), s.EstimatedTotal)
}

func TestSubmission_SpecialOrder(t *testing.T) {
	env := testEnv(t)
	d := apply(t, specialAtContact(t, env), env, SetContact{Name: "Luca", Email: "luca@example.com", Phone: "91234567"})

	s, err := Submission(d, env)
	require.NoError(t, err)
	assert.Equal(t, booking.TypeSpecialOrder, s.Type)
	require.NotNil(t, s.PickupTime)
	require.Len(t, s.SpecialOrders, 1)
	assert.Equal(t, 12, s.SpecialOrders[0].Quantity)
	assert.Equal(t, money.Cents(1800), s.SpecialOrders[0].Price)
}

func TestSubmission_RequiresValidTerminalStep(t *testing.T) {
	env := testEnv(t)

	_, err := Submission(apply(t, NewDraft(), env, SelectPackage{PackageID: "italian-pizza"}), env)
	assert.ErrorIs(t, err, ErrWrongStep)

	d := apply(t, diningAtContact(t, env), env, SetContact{Name: "Luca", Email: "a@b", Phone: "91234567"})
	_, err = Submission(d, env)
	assert.ErrorIs(t, err, ErrStepIncomplete)

	d = apply(t, d, env, SetContact{Name: "", Email: "a@b.co", Phone: "91234567"})
	_, err = Submission(d, env)
	assert.ErrorIs(t, err, ErrStepIncomplete)
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction([]byte(`{"type":"set_line_quantity","sku":"lasagna-s","quantity":3}`))
	require.NoError(t, err)
	assert.Equal(t, SetLineQuantity{SKU: "lasagna-s", Quantity: 3}, a)

	a, err = ParseAction([]byte(`{"type":"advance"}`))
	require.NoError(t, err)
	assert.Equal(t, Advance{}, a)

	_, err = ParseAction([]byte(`{"type":"teleport"}`))
	assert.Error(t, err)

	_, err = ParseAction([]byte(`{"type":"set_guest_count","count":"many"}`))
	assert.Error(t, err)
}
