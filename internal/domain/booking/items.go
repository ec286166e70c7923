package booking

import (
	"strings"

	"github.com/trattoria-luca/service-booking/internal/domain/money"
)

// SelectedItem is a dish chosen for a dining booking.
type SelectedItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// SpecialOrderLine is one SKU of a special order.
type SpecialOrderLine struct {
	SKU      string      `json:"sku"`
	Name     string      `json:"name"`
	ItemType string      `json:"item_type"`
	Size     string      `json:"size"`
	Quantity int         `json:"quantity"`
	Price    money.Cents `json:"price_cents"`
}

// Subtotal is price times quantity.
func (l SpecialOrderLine) Subtotal() money.Cents {
	return l.Price.Times(l.Quantity)
}

// Collaboration carries the details of a partnership request.
type Collaboration struct {
	Type               string `json:"collaboration_type"`
	ProjectDescription string `json:"project_description"`
	SocialMedia        string `json:"social_media,omitempty"`
	Timeline           string `json:"timeline,omitempty"`
}

// normalizeItems maps every entry to a named pair with a positive quantity.
func normalizeItems(items []SelectedItem) []SelectedItem {
	out := make([]SelectedItem, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		q := it.Quantity
		if q <= 0 {
			q = 1
		}
		out = append(out, SelectedItem{Name: name, Quantity: q})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// activeLines keeps only lines that can be charged.
func activeLines(lines []SpecialOrderLine) []SpecialOrderLine {
	out := make([]SpecialOrderLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity > 0 && l.Price > 0 {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// LinesTotal sums the subtotals of all lines.
func LinesTotal(lines []SpecialOrderLine) money.Cents {
	var total money.Cents
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}
