// Package catalog holds the immutable package, menu and special-order data
// that drives the booking form.
package catalog

import (
	"fmt"
	"time"

	"github.com/trattoria-luca/service-booking/internal/domain/money"
)

// Kind distinguishes sit-down dining packages from take-home special orders.
type Kind string

const (
	KindDining       Kind = "dining"
	KindSpecialOrder Kind = "special_order"
)

// IsValid returns true if the kind is a recognized package kind.
func (k Kind) IsValid() bool {
	return k == KindDining || k == KindSpecialOrder
}

// ItemType classifies special-order SKUs.
type ItemType string

const (
	ItemPinsaBase      ItemType = "pinsa_base"
	ItemLasagna        ItemType = "lasagna"
	ItemPizzette       ItemType = "pizzette"
	ItemSharingPlatter ItemType = "sharing_platter"
)

var validItemTypes = map[ItemType]bool{
	ItemPinsaBase:      true,
	ItemLasagna:        true,
	ItemPizzette:       true,
	ItemSharingPlatter: true,
}

// IsValid returns true if the item type is one of the known special-order types.
func (t ItemType) IsValid() bool {
	return validItemTypes[t]
}

// Size is the portion size of a special-order SKU.
type Size string

const (
	SizeXS Size = "XS"
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
)

// IsValid returns true if the size is one of XS, S, M or L.
func (s Size) IsValid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL:
		return true
	}
	return false
}

// Package is a bookable offering.
type Package struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Kind               Kind        `json:"kind"`
	Price              money.Cents `json:"price_cents"`
	PriceFrom          bool        `json:"price_from"`
	MinSpend           money.Cents `json:"min_spend_cents"`
	MinGuests          int         `json:"min_guests,omitempty"`
	MaxGuests          int         `json:"max_guests,omitempty"`
	Courses            int         `json:"courses,omitempty"`
	Includes           []string    `json:"includes,omitempty"`
	Category           string      `json:"category"`
	AvailableFrom      *Date       `json:"available_from,omitempty"`
	RequiredSelections int         `json:"required_selections,omitempty"`
}

// IsSpecialOrder reports whether the package follows the pickup branch of the form.
func (p Package) IsSpecialOrder() bool {
	return p.Kind == KindSpecialOrder
}

// MenuItem is a dish a dining guest may pick.
type MenuItem struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// MenuSection groups menu items under a course heading.
type MenuSection struct {
	Name  string     `json:"name" yaml:"name"`
	Items []MenuItem `json:"items" yaml:"items"`
}

// MenuCatalog is the selectable menu of a dining package.
type MenuCatalog struct {
	PackageID string        `json:"package_id"`
	Sections  []MenuSection `json:"sections"`
}

// SpecialOrderItem is a priced take-home SKU.
type SpecialOrderItem struct {
	SKU         string      `json:"sku"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	ItemType    ItemType    `json:"item_type"`
	Size        Size        `json:"size"`
	Price       money.Cents `json:"price_cents"`
	Servings    int         `json:"servings,omitempty"`
}

// SpecialOrderCategory groups SKUs of one item type.
type SpecialOrderCategory struct {
	Name        string             `json:"name"`
	ItemType    ItemType           `json:"item_type"`
	Description string             `json:"description"`
	Items       []SpecialOrderItem `json:"items"`
}

// SpecialOrderCatalog lists everything orderable under the special-order package.
type SpecialOrderCatalog struct {
	PackageID  string                 `json:"package_id"`
	Categories []SpecialOrderCategory `json:"categories"`
}

// Catalog is the choice set for a package. Exactly one of Menu or SpecialOrder is set.
type Catalog struct {
	Menu         *MenuCatalog         `json:"menu,omitempty"`
	SpecialOrder *SpecialOrderCatalog `json:"special_order,omitempty"`
}

// Area is a selectable section of the rental venue.
type Area struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Date is a calendar date without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns midnight of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d falls on an earlier day than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
