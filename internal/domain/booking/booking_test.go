package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trattoria-luca/service-booking/internal/domain/money"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

func diningSubmission() Submission {
	guests := 10
	return Submission{
		Type:          TypeDining,
		PackageID:     "italian-pizza",
		BookingDate:   "2025-08-29",
		GuestCount:    &guests,
		VenueType:     "home",
		VenueAddress:  "1 Orchard Road",
		SelectedAreas: []string{"garden"},
		CustomerName:  "Luca",
		Email:         "luca@example.com",
		PhoneNumber:   "+65 9123 4567",
		SelectedItems: []SelectedItem{
			{Name: "Margherita"}, {Name: "Diavola"}, {Name: "Ortolana"}, {Name: "Quattro Formaggi"},
		},
		EstimatedTotal: 130000,
	}
}

func TestNewBooking_Dining(t *testing.T) {
	b, err := NewBooking(diningSubmission())
	require.NoError(t, err)

	assert.Equal(t, TypeDining, b.Type())
	assert.Equal(t, StatusPending, b.Status())
	assert.True(t, strings.HasPrefix(b.BookingNumber(), "TL-"))
	assert.Len(t, b.BookingNumber(), 9)
	require.NotNil(t, b.BookingDate())
	assert.Equal(t, "2025-08-29", b.BookingDate().String())
	require.NotNil(t, b.VenueType())
	assert.Equal(t, VenueHome, *b.VenueType())
	require.NotNil(t, b.VenueAddress())
	assert.Nil(t, b.SelectedAreas(), "areas do not apply to a home venue")
	assert.Nil(t, b.TotalAmount())
	require.NotNil(t, b.EstimatedTotal())
	assert.Equal(t, money.Cents(130000), *b.EstimatedTotal())

	require.Len(t, b.SelectedItems(), 4)
	for _, it := range b.SelectedItems() {
		assert.Equal(t, 1, it.Quantity)
	}
	assert.Equal(t, int64(1), b.Version())
}

func TestNewBooking_DiningEdgeCases(t *testing.T) {
	s := diningSubmission()
	s.BookingDate = ""
	s.VenueType = "boat"
	b, err := NewBooking(s)
	require.NoError(t, err)
	assert.Nil(t, b.BookingDate(), "empty date is unset, not today")
	assert.Nil(t, b.VenueType())
	assert.Nil(t, b.VenueAddress())

	s = diningSubmission()
	s.VenueType = "rental"
	b, err = NewBooking(s)
	require.NoError(t, err)
	assert.Nil(t, b.VenueAddress())
	assert.Equal(t, []string{"garden"}, b.SelectedAreas())

	s = diningSubmission()
	s.BookingDate = "29/08/2025"
	_, err = NewBooking(s)
	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestNewBooking_SpecialOrder(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	// 01:00 on 6 Sep in Singapore is still 5 Sep in UTC.
	pickup := time.Date(2025, time.September, 6, 1, 0, 0, 0, loc)

	b, err := NewBooking(Submission{
		Type:         TypeSpecialOrder,
		PackageID:    "special-orders",
		PickupTime:   &pickup,
		Location:     loc,
		VenueType:    "home",
		VenueAddress: "ignored",
		CustomerName: "Luca",
		Email:        "luca@example.com",
		PhoneNumber:  "91234567",
		SpecialOrders: []SpecialOrderLine{
			{SKU: "pinsa-base-m", Name: "Pinsa Base M", ItemType: "pinsa_base", Size: "M", Quantity: 12, Price: 1800},
			{SKU: "lasagna-s", Name: "Lasagna S", ItemType: "lasagna", Size: "S", Quantity: 0, Price: 4500},
			{SKU: "broken", Name: "Broken", Quantity: 2, Price: 0},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, b.TotalAmount())
	assert.Equal(t, money.Cents(21600), *b.TotalAmount())
	require.NotNil(t, b.BookingDate())
	assert.Equal(t, "2025-09-06", b.BookingDate().String())
	assert.Nil(t, b.VenueType())
	assert.Nil(t, b.GuestCount())
	require.Len(t, b.SpecialOrders(), 1)
	assert.Equal(t, 12, b.SpecialOrders()[0].Quantity)
}

func TestNewBooking_Rejects(t *testing.T) {
	s := diningSubmission()
	s.Type = "brunch"
	_, err := NewBooking(s)
	assert.Error(t, err)

	s = diningSubmission()
	s.CustomerName = " "
	_, err = NewBooking(s)
	assert.Error(t, err)

	_, err = NewBooking(Submission{Type: TypeSpecialOrder, CustomerName: "a", Email: "a@b.co"})
	assert.Error(t, err)

	_, err = NewBooking(Submission{Type: TypeCollaboration, CustomerName: "a", Email: "a@b.co"})
	assert.Error(t, err)
}

func TestNewBooking_Collaboration(t *testing.T) {
	b, err := NewBooking(Submission{
		Type:         TypeCollaboration,
		CustomerName: "Ana",
		Email:        "ana@studio.sg",
		Collaboration: &Collaboration{
			Type:               "content",
			ProjectDescription: "Food reel",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, b.Collaboration())
	assert.Equal(t, "content", b.Collaboration().Type)
	assert.Nil(t, b.BookingDate())
}

func TestBooking_StatusTransitions(t *testing.T) {
	b, err := NewBooking(diningSubmission())
	require.NoError(t, err)

	require.NoError(t, b.Confirm())
	assert.Equal(t, StatusConfirmed, b.Status())
	assert.Error(t, b.Confirm())

	require.NoError(t, b.Cancel())
	assert.Equal(t, StatusCancelled, b.Status())

	err = b.Cancel()
	var stateErr *apperr.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
	assert.True(t, b.Status().IsTerminal())
}

func TestReconstruct_RoundTrip(t *testing.T) {
	b, err := NewBooking(diningSubmission())
	require.NoError(t, err)

	again := Reconstruct(b.Snapshot())
	assert.Equal(t, b.Snapshot(), again.Snapshot())
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseBookingStatus("delivered")
	assert.Error(t, err)
}

func TestParseVenueType(t *testing.T) {
	require.NotNil(t, ParseVenueType("rental"))
	assert.Nil(t, ParseVenueType(""))
	assert.Nil(t, ParseVenueType("Home"))
}
