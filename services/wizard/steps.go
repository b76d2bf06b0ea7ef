package wizard

import (
	"context"

	"anchorsite/models"

	"go.uber.org/zap"
)

// SubmitStep applies the current step's submission to the draft, advancing
// on success. Validation failures block the step and leave everything
// already entered intact.
func (s *DefaultWizardService) SubmitStep(ctx context.Context, sessionID string, input StepInput) (*models.WizardState, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Current {
	case models.StepDate:
		err = s.applyDate(ctx, session, input)
	case models.StepSundayOffer:
		err = s.applySundayOffer(session, input)
	case models.StepPartySize:
		err = s.applyPartySize(session, input)
	case models.StepMenuSelection:
		err = s.applyMenuSelections(ctx, session, input)
	case models.StepTime:
		err = s.applyTime(ctx, session, input)
	case models.StepDetails:
		err = s.applyDetails(session, input)
	case models.StepConfirm:
		// The terminal step has no forward transition; submitting it is a
		// no-op rather than an error.
		return s.buildState(ctx, session)
	}
	if err != nil {
		return nil, err
	}

	// Advance against the sequence recomputed from the mutated draft, not
	// the one the step was rendered from.
	seq := ActiveSteps(session.Draft, s.Loc)
	session.Current = realignCursor(seq, session.Current)
	if next, ok := nextStep(seq, session.Current); ok {
		session.Current = next
	}

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.buildState(ctx, session)
}

func (s *DefaultWizardService) applyDate(ctx context.Context, session *models.WizardSession, input StepInput) error {
	if input.Date == nil || *input.Date == "" {
		return NewValidationError("Please select a date", FieldErrors{"date": "Date is required"})
	}
	date := *input.Date

	if _, err := parseVenueDate(date, s.Loc); err != nil {
		return NewValidationError("Please select a valid date", FieldErrors{"date": "Invalid date"})
	}
	if !WithinBookingWindow(date, s.Clock.Now(), s.Loc) {
		return NewValidationError("Please pick a date within the next 30 days",
			FieldErrors{"date": "Bookings can be made up to 30 days ahead"})
	}

	day, err := s.Anchor.GetAvailability(ctx, date)
	if err != nil {
		s.Logger.Error("availability fetch failed", zap.Error(err), zap.String("date", date))
		return &SubmitError{Message: s.callUsMessage("We couldn't check availability for that date.")}
	}
	if day.IsClosed {
		msg := "We're closed that day"
		if day.SpecialNote != "" {
			msg = day.SpecialNote
		}
		return NewValidationError(msg, FieldErrors{"date": msg})
	}
	if day.IsKitchenClosed {
		// Drinks-only days can't take food bookings through the wizard.
		return NewValidationError(
			s.callUsMessage("The kitchen is closed that day, so we can only take drinks-only reservations by phone."),
			FieldErrors{"date": "Kitchen closed on this day"})
	}

	if session.Draft.Date != date {
		session.Draft.Date = date
		// A new date invalidates everything derived from the old one.
		session.Draft.Time = ""
		normalizeDraft(&session.Draft, s.Loc)
	}
	return nil
}

func (s *DefaultWizardService) applySundayOffer(session *models.WizardSession, input StepInput) error {
	if input.BookingType == nil {
		return NewValidationError("Please choose a booking type", FieldErrors{"bookingType": "Booking type is required"})
	}
	choice := *input.BookingType
	if choice != models.BookingRegular && choice != models.BookingSundayLunch {
		return NewValidationError("Please choose a booking type", FieldErrors{"bookingType": "Unknown booking type"})
	}

	if choice == models.BookingSundayLunch && !RoastPreorderOpen(session.Draft.Date, s.Clock.Now(), s.Loc) {
		return NewValidationError(
			"The 1pm Saturday deadline for pre-ordering Sunday roasts has passed. You can still book a table for our regular menu.",
			FieldErrors{"bookingType": "Sunday roast pre-orders have closed for this date"})
	}

	session.Draft.BookingType = choice
	normalizeDraft(&session.Draft, s.Loc)
	return nil
}

func (s *DefaultWizardService) applyPartySize(session *models.WizardSession, input StepInput) error {
	if input.PartySize == nil {
		return NewValidationError("Please select your party size", FieldErrors{"partySize": "Party size is required"})
	}
	size := *input.PartySize
	if fields := ValidatePartySize(size); fields != nil {
		return NewValidationError("Please select your party size", fields)
	}

	if session.Draft.PartySize != size {
		session.Draft.PartySize = size
		// One main per guest: existing selections no longer line up.
		session.Draft.MenuSelections = nil
		session.Draft.Time = ""
	}
	return nil
}

func (s *DefaultWizardService) applyMenuSelections(ctx context.Context, session *models.WizardSession, input StepInput) error {
	menu, err := s.ensureMenu(ctx, session)
	if err != nil {
		return err
	}

	selections := input.MenuSelections
	if fields := ValidateMenuSelections(selections, session.Draft.PartySize, menu); fields != nil {
		return NewValidationError("Please complete every guest's menu choice", fields)
	}

	// Capture prices at selection time for display; the server's billed
	// amount at submission is authoritative.
	prices := make(map[string]float64, len(menu.Mains))
	for _, item := range menu.Mains {
		prices[item.ID] = item.Price
	}
	for i := range selections {
		selections[i].Quantity = 1
		selections[i].PriceAtBooking = prices[selections[i].MenuItemID]
	}
	session.Draft.MenuSelections = selections
	return nil
}

func (s *DefaultWizardService) applyTime(ctx context.Context, session *models.WizardSession, input StepInput) error {
	if input.Time == nil || *input.Time == "" {
		return NewValidationError("Please select a time", FieldErrors{"time": "Time is required"})
	}
	chosen := *input.Time

	slots, err := s.ensureTimeSlots(ctx, session)
	if err != nil {
		return err
	}
	valid := false
	for _, slot := range slots {
		if slot.Time == chosen {
			valid = true
			break
		}
	}
	if !valid {
		return NewValidationError("That time is no longer available",
			FieldErrors{"time": "Please pick one of the available times"})
	}

	session.Draft.Time = chosen
	return nil
}

func (s *DefaultWizardService) applyDetails(session *models.WizardSession, input StepInput) error {
	if input.Details == nil {
		return NewValidationError("Please fill in your details", FieldErrors{"details": "Contact details are required"})
	}
	details := *input.Details

	draft := session.Draft
	draft.FirstName = details.FirstName
	draft.LastName = details.LastName
	draft.Phone = details.Phone
	draft.Email = details.Email
	draft.SpecialRequirements = details.SpecialRequirements
	if details.MarketingOptIn != nil {
		draft.MarketingOptIn = *details.MarketingOptIn
	}

	if fields := ValidateContact(draft); fields != nil {
		return NewValidationError("Please check your details", fields)
	}

	session.Draft = draft
	return nil
}
