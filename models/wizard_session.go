package models

import "time"

// StepType identifies a wizard step by role rather than numeric slot;
// numeric positions shift as conditional steps enter and leave the sequence.
type StepType string

const (
	StepDate          StepType = "date"
	StepSundayOffer   StepType = "sunday_offer"
	StepPartySize     StepType = "party_size"
	StepMenuSelection StepType = "menu_selection"
	StepTime          StepType = "time"
	StepDetails       StepType = "details"
	StepConfirm       StepType = "confirm"
)

// WizardSession holds one tab's booking flow between steps. Cached as JSON
// with a rolling TTL; the draft inside is never shared across sessions.
type WizardSession struct {
	SessionID string       `json:"sessionId"`
	Draft     BookingDraft `json:"draft"`
	Current   StepType     `json:"current"`

	// TimeSlots caches the collaborator's answer for TimeSlotKey
	// (date|partySize). A key mismatch marks the cache stale: a fetch that
	// resolves after the draft moved on is discarded, not applied.
	TimeSlots   []TimeSlot `json:"timeSlots,omitempty"`
	TimeSlotKey string     `json:"timeSlotKey,omitempty"`

	// Menu caches the Sunday lunch menu fetched for MenuDate.
	Menu     *SundayLunchMenu `json:"menu,omitempty"`
	MenuDate string           `json:"menuDate,omitempty"`

	// IdempotencyKey is minted once per session so a retried confirm can
	// never create a second booking.
	IdempotencyKey string    `json:"idempotencyKey"`
	CreatedAt      time.Time `json:"createdAt"`
}

// StepInfo is one entry of the active step sequence as shown to the client.
type StepInfo struct {
	Type  StepType `json:"type"`
	Label string   `json:"label"`
}

// StepPayload carries whatever the current step needs to render. Only the
// fields relevant to the current step are populated.
type StepPayload struct {
	// Date step: the forward-looking booking window (inclusive bounds).
	MinDate string `json:"minDate,omitempty"`
	MaxDate string `json:"maxDate,omitempty"`

	// Sunday offer step.
	RoastAvailable  *bool   `json:"roastAvailable,omitempty"`
	RoastDeadline   string  `json:"roastDeadline,omitempty"`
	DepositPerGuest float64 `json:"depositPerGuest,omitempty"`

	// Party size step.
	Advisory string `json:"advisory,omitempty"`

	// Menu selection step.
	Menu    *SundayLunchMenu `json:"menu,omitempty"`
	Deposit float64          `json:"deposit,omitempty"`

	// Time step.
	TimeSlots []TimeSlot `json:"timeSlots,omitempty"`

	// Confirm step.
	Summary *BookingSummary `json:"summary,omitempty"`
}

// BookingSummary is the confirm step's recap of the accumulated draft.
type BookingSummary struct {
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	PartySize      int             `json:"partySize"`
	BookingType    BookingType     `json:"bookingType"`
	MenuSelections []MenuSelection `json:"menuSelections,omitempty"`
	CustomerName   string          `json:"customerName"`
	Deposit        float64         `json:"deposit,omitempty"`
	TotalPrice     float64         `json:"totalPrice,omitempty"`
}

// WizardState is the full client-facing view of a session.
type WizardState struct {
	SessionID    string       `json:"sessionId"`
	Draft        BookingDraft `json:"draft"`
	Steps        []StepInfo   `json:"steps"`
	Current      StepType     `json:"current"`
	CurrentIndex int          `json:"currentIndex"` // 1-based position in Steps
	TotalSteps   int          `json:"totalSteps"`
	Step         *StepPayload `json:"step,omitempty"`
}

// SubmissionResult is the wizard's answer to a confirmed booking.
type SubmissionResult struct {
	Reference        string `json:"reference"`
	Status           string `json:"status"`
	PaymentRequired  bool   `json:"paymentRequired"`
	PaymentURL       string `json:"paymentUrl,omitempty"`
	ConfirmationPath string `json:"confirmationPath,omitempty"`
}
