package models

// Wire shapes for the Anchor management API (snake_case JSON).

// TimeSlot is a bookable sitting returned by the availability endpoints.
type TimeSlot struct {
	Time            string `json:"time"` // HH:MM
	Available       bool   `json:"available"`
	TablesAvailable int    `json:"tables_available"`
}

// DayAvailability describes one calendar day for the date-selection step.
type DayAvailability struct {
	Date            string     `json:"date"`
	IsClosed        bool       `json:"is_closed"`
	IsKitchenClosed bool       `json:"is_kitchen_closed"`
	TimeSlots       []TimeSlot `json:"time_slots,omitempty"`
	SpecialNote     string     `json:"special_note,omitempty"`
}

// MenuItem is a Sunday lunch course option.
type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	DietaryInfo []string `json:"dietary_info,omitempty"`
	Allergens   []string `json:"allergens,omitempty"`
	IsAvailable bool     `json:"is_available"`
}

// SundayLunchMenu is the pre-order menu for a given Sunday.
type SundayLunchMenu struct {
	MenuDate string     `json:"menu_date"`
	Mains    []MenuItem `json:"mains"`
	Sides    []MenuItem `json:"sides,omitempty"`
}

// CustomerDetails is the contact block sent with a booking.
type CustomerDetails struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	MobileNumber string `json:"mobile_number"`
	Email        string `json:"email,omitempty"`
	SMSOptIn     bool   `json:"sms_opt_in"`
}

// TableBookingRequest is the booking-creation payload.
type TableBookingRequest struct {
	BookingType         string          `json:"booking_type"`
	Date                string          `json:"date"`
	Time                string          `json:"time"`
	PartySize           int             `json:"party_size"`
	Customer            CustomerDetails `json:"customer"`
	DurationMinutes     int             `json:"duration_minutes"`
	SpecialRequirements string          `json:"special_requirements,omitempty"`
	Source              string          `json:"source"`
	MarketingOptIn      bool            `json:"marketing_opt_in"`
	MenuSelections      []MenuSelection `json:"menu_selections,omitempty"`
}

// PaymentDetails is returned when a booking needs a deposit before confirmation.
type PaymentDetails struct {
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	PaymentURL string  `json:"payment_url"`
	ExpiresAt  string  `json:"expires_at,omitempty"`
}

// Booking statuses returned by the management API.
const (
	BookingStatusConfirmed      = "confirmed"
	BookingStatusPendingPayment = "pending_payment"
)

// TableBookingResponse is the management API's answer to a booking request.
type TableBookingResponse struct {
	BookingReference string          `json:"booking_reference"`
	Status           string          `json:"status"`
	ConfirmationSent bool            `json:"confirmation_sent"`
	PaymentRequired  bool            `json:"payment_required"`
	PaymentDetails   *PaymentDetails `json:"payment_details,omitempty"`
}

// KitchenHours is the kitchen service window within a day's opening hours.
// A null kitchen block on the wire means no food service at all that day.
type KitchenHours struct {
	Opens    string `json:"opens,omitempty"`
	Closes   string `json:"closes,omitempty"`
	IsClosed bool   `json:"is_closed"`
}

// DayHours is one weekday's opening pattern.
type DayHours struct {
	Opens    string        `json:"opens,omitempty"`
	Closes   string        `json:"closes,omitempty"`
	Kitchen  *KitchenHours `json:"kitchen"`
	IsClosed bool          `json:"is_closed"`
}

// SpecialHours overrides regular hours on a specific date.
type SpecialHours struct {
	Date     string        `json:"date"`
	IsClosed bool          `json:"is_closed"`
	Kitchen  *KitchenHours `json:"kitchen"`
	Note     string        `json:"note,omitempty"`
}

// BusinessHours is the venue's published schedule.
type BusinessHours struct {
	RegularHours map[string]DayHours `json:"regularHours"`
	SpecialHours []SpecialHours      `json:"specialHours,omitempty"`
}
