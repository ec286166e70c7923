package form

import (
	"encoding/json"
	"fmt"
)

// Action is a user intent applied to a draft by Reduce.
type Action interface {
	ActionType() string
}

// SelectPackage picks a package and resets everything else.
type SelectPackage struct {
	PackageID string `json:"package_id"`
}

// SetBookingDate sets the dining date (YYYY-MM-DD).
type SetBookingDate struct {
	Date string `json:"date"`
}

// SetPickupTime sets the special-order pickup time.
type SetPickupTime struct {
	PickupTime string `json:"pickup_time"`
}

// SetGuestCount sets the party size.
type SetGuestCount struct {
	Count int `json:"count"`
}

// SelectVenueType chooses home or rental.
type SelectVenueType struct {
	VenueType string `json:"venue_type"`
}

// SetVenueAddress sets the address of a home venue.
type SetVenueAddress struct {
	Address string `json:"address"`
}

// ToggleArea adds or removes a rental-venue area.
type ToggleArea struct {
	AreaID string `json:"area_id"`
}

// ToggleMenuItem adds or removes a dish from the dining selection.
type ToggleMenuItem struct {
	Name string `json:"name"`
}

// SetLineQuantity sets how many of a special-order SKU are wanted.
// Zero removes the line.
type SetLineQuantity struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// SetContact replaces the contact block.
type SetContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SetNotes sets free-text notes.
type SetNotes struct {
	Notes string `json:"notes"`
}

// SetDietary sets dietary requirements.
type SetDietary struct {
	Dietary string `json:"dietary_requirements"`
}

// Advance moves to the next step if the current one is complete.
type Advance struct{}

// Retreat moves back one step, clearing the fields of the step being left.
type Retreat struct{}

// Reset discards the draft.
type Reset struct{}

func (SelectPackage) ActionType() string   { return "select_package" }
func (SetBookingDate) ActionType() string  { return "set_booking_date" }
func (SetPickupTime) ActionType() string   { return "set_pickup_time" }
func (SetGuestCount) ActionType() string   { return "set_guest_count" }
func (SelectVenueType) ActionType() string { return "select_venue_type" }
func (SetVenueAddress) ActionType() string { return "set_venue_address" }
func (ToggleArea) ActionType() string      { return "toggle_area" }
func (ToggleMenuItem) ActionType() string  { return "toggle_menu_item" }
func (SetLineQuantity) ActionType() string { return "set_line_quantity" }
func (SetContact) ActionType() string      { return "set_contact" }
func (SetNotes) ActionType() string        { return "set_notes" }
func (SetDietary) ActionType() string      { return "set_dietary" }
func (Advance) ActionType() string         { return "advance" }
func (Retreat) ActionType() string         { return "retreat" }
func (Reset) ActionType() string           { return "reset" }

var actionDecoders = map[string]func([]byte) (Action, error){
	"select_package":    decodeAs[SelectPackage],
	"set_booking_date":  decodeAs[SetBookingDate],
	"set_pickup_time":   decodeAs[SetPickupTime],
	"set_guest_count":   decodeAs[SetGuestCount],
	"select_venue_type": decodeAs[SelectVenueType],
	"set_venue_address": decodeAs[SetVenueAddress],
	"toggle_area":       decodeAs[ToggleArea],
	"toggle_menu_item":  decodeAs[ToggleMenuItem],
	"set_line_quantity": decodeAs[SetLineQuantity],
	"set_contact":       decodeAs[SetContact],
	"set_notes":         decodeAs[SetNotes],
	"set_dietary":       decodeAs[SetDietary],
	"advance":           decodeAs[Advance],
	"retreat":           decodeAs[Retreat],
	"reset":             decodeAs[Reset],
}

func decodeAs[T Action](data []byte) (Action, error) {
	var a T
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return a, nil
}

// ParseAction decodes a JSON object of the form {"type": "...", ...fields}.
func ParseAction(data []byte) (Action, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid action: %w", err)
	}
	decode, ok := actionDecoders[head.Type]
	if !ok {
		return nil, fmt.Errorf("unknown action type %q", head.Type)
	}
	a, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid %s action: %w", head.Type, err)
	}
	return a, nil
}
