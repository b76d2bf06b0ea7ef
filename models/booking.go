package models

// BookingType distinguishes a standard table booking from a pre-ordered
// Sunday lunch. Only meaningful when the selected date falls on a Sunday.
type BookingType string

const (
	BookingRegular     BookingType = "regular"
	BookingSundayLunch BookingType = "sunday_lunch"
)

// MenuSelection is one guest's pre-ordered Sunday roast main course.
type MenuSelection struct {
	GuestName      string  `json:"guest_name"`
	MenuItemID     string  `json:"menu_item_id"`
	Quantity       int     `json:"quantity"`
	PriceAtBooking float64 `json:"price_at_booking"` // display estimate; the API's billed amount is authoritative
}

// BookingDraft is the in-progress booking accumulated by the wizard.
// It is owned by exactly one wizard session and discarded on submission.
type BookingDraft struct {
	Date                string          `json:"date,omitempty"` // YYYY-MM-DD, venue-local
	BookingType         BookingType     `json:"bookingType"`
	MenuSelections      []MenuSelection `json:"menuSelections,omitempty"`
	PartySize           int             `json:"partySize"`
	Time                string          `json:"time,omitempty"` // HH:MM
	FirstName           string          `json:"firstName"`
	LastName            string          `json:"lastName"`
	Phone               string          `json:"phone"`
	Email               string          `json:"email,omitempty"`
	MarketingOptIn      bool            `json:"marketingOptIn"`
	SpecialRequirements string          `json:"specialRequirements,omitempty"`
}

// CustomerName is the display name used on confirmations.
func (d BookingDraft) CustomerName() string {
	return d.FirstName + " " + d.LastName
}

// BookingSnapshot is the minimal record handed from the wizard to the
// confirmation screen after submission. Written once per booking, read once.
type BookingSnapshot struct {
	Reference      string          `json:"reference"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	PartySize      int             `json:"partySize"`
	MenuSelections []MenuSelection `json:"menuSelections,omitempty"`
	CustomerName   string          `json:"customerName"`
	TotalPrice     float64         `json:"totalPrice,omitempty"`
}
