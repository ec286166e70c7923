package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	"github.com/trattoria-luca/service-booking/internal/domain/money"
)

// FormatMessage renders the Markdown alert sent to the operator chat.
// Times are shown in loc.
func FormatMessage(r Record, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	emoji, title := "🍝", "New Booking"
	switch {
	case r.OrderType == "special_order":
		emoji, title = "📦", "New Special Order"
	case r.BookingType == "collaboration":
		emoji, title = "🤝", "New Collaboration Request"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s Alert!* %s\n\n", emoji, title, emoji)

	b.WriteString("📋 *Booking Details:*\n")
	fmt.Fprintf(&b, "• ID: `%s...`\n", shortID(r.ID))
	fmt.Fprintf(&b, "• Type: %s\n", orNA(strings.ToUpper(r.BookingType)))
	fmt.Fprintf(&b, "• Package: %s\n", orNA(deref(r.SelectedPackage)))
	fmt.Fprintf(&b, "• Date: %s\n", formatDate(r.BookingDate))
	if r.GuestCount != nil && *r.GuestCount > 0 {
		fmt.Fprintf(&b, "• Guests: %d\n", *r.GuestCount)
	} else {
		b.WriteString("• Guests: N/A\n")
	}
	fmt.Fprintf(&b, "• Total: %s\n\n", formatTotal(r))

	b.WriteString("👤 *Customer Info:*\n")
	fmt.Fprintf(&b, "• Phone: [%s](tel:%s)\n", r.PhoneNumber, r.PhoneNumber)
	email := deref(r.Email)
	if email == "" {
		email = "Not provided"
	}
	fmt.Fprintf(&b, "• Email: %s\n\n", email)

	switch deref(r.VenueType) {
	case "home":
		if addr := deref(r.VenueAddress); addr != "" {
			fmt.Fprintf(&b, "🏠 *Venue:* Customer's Home\n📍 Address: %s\n\n", addr)
		}
	case "rental":
		b.WriteString("🏢 *Venue:* Rental Space\n\n")
	}

	if d := deref(r.DietaryRequirements); d != "" {
		fmt.Fprintf(&b, "🥗 *Dietary Requirements:* %s\n\n", d)
	}
	if n := deref(r.Notes); n != "" {
		fmt.Fprintf(&b, "📝 *Notes:* %s\n\n", n)
	}

	fmt.Fprintf(&b, "⏰ *Booked at:* %s\n\n", r.CreatedAt.In(loc).Format("02/01/2006, 3:04:05 pm"))
	b.WriteString("Please review and confirm this booking! 🎉")
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDate(s *string) string {
	if s == nil || *s == "" {
		return "Not specified"
	}
	d, err := catalog.ParseDate(*s)
	if err != nil {
		return *s
	}
	return d.In(time.UTC).Format("Monday, 2 January 2006")
}

func formatTotal(r Record) string {
	switch {
	case r.TotalAmount != nil && *r.TotalAmount > 0:
		return fmt.Sprintf("$%s SGD", money.FromDollars(*r.TotalAmount))
	case r.EstimatedTotal != nil && *r.EstimatedTotal > 0:
		return fmt.Sprintf("$%s SGD (estimated)", money.FromDollars(*r.EstimatedTotal))
	}
	return "Not specified"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
