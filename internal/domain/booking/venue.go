package booking

// VenueType says where a dining booking takes place.
type VenueType string

const (
	VenueHome   VenueType = "home"
	VenueRental VenueType = "rental"
)

// IsValid returns true for home or rental.
func (v VenueType) IsValid() bool {
	return v == VenueHome || v == VenueRental
}

// ParseVenueType returns the venue type for s, or nil if s is not one of
// the allowed values.
func ParseVenueType(s string) *VenueType {
	v := VenueType(s)
	if !v.IsValid() {
		return nil
	}
	return &v
}
