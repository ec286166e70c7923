package validation

// Form field names used as keys in Violations.
const (
	FieldPackage      = "package"
	FieldBookingDate  = "booking_date"
	FieldPickupTime   = "pickup_time"
	FieldGuestCount   = "guest_count"
	FieldVenueType    = "venue_type"
	FieldVenueAddress = "venue_address"
	FieldVenueAreas   = "selected_areas"
	FieldSelection    = "selected_items"
	FieldSpecialOrder = "special_order_items"
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPhone        = "phone"
)
