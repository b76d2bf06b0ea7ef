package wizard

import (
	"context"

	"anchorsite/models"

	"go.uber.org/zap"
)

// Confirm submits the accumulated draft to the management API, exactly
// once per confirm action. A second confirm while one is in flight is
// rejected; a failed submission leaves the draft intact for retry.
func (s *DefaultWizardService) Confirm(ctx context.Context, sessionID string) (*models.SubmissionResult, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	seq := ActiveSteps(session.Draft, s.Loc)
	if realignCursor(seq, session.Current) != models.StepConfirm {
		return nil, NewValidationError("Please complete every step before confirming", nil)
	}
	if session.Draft.Date == "" || session.Draft.Time == "" {
		return nil, NewValidationError("Please complete every step before confirming", nil)
	}
	if fields := ValidateContact(session.Draft); fields != nil {
		return nil, NewValidationError("Please check your details", fields)
	}
	if session.Draft.BookingType == models.BookingSundayLunch {
		// Step navigation can land on Confirm without passing through the
		// menu step, so completeness is re-checked here before submission.
		menu, err := s.ensureMenu(ctx, session)
		if err != nil {
			return nil, err
		}
		if fields := ValidateMenuSelections(session.Draft.MenuSelections, session.Draft.PartySize, menu); fields != nil {
			return nil, NewValidationError("Please complete every guest's menu choice", fields)
		}
	}

	locked, err := s.Store.AcquireSubmitLock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, &ConflictError{Message: "Your booking is already being submitted"}
	}

	req := s.buildBookingRequest(session.Draft)
	booking, err := s.Anchor.CreateBooking(ctx, req, session.IdempotencyKey)
	if err != nil {
		// Surface a human fallback; the draft stays put so nothing has to
		// be re-entered on retry.
		if relErr := s.Store.ReleaseSubmitLock(ctx, sessionID); relErr != nil {
			s.Logger.Warn("submit lock release failed", zap.Error(relErr), zap.String("sessionID", sessionID))
		}
		s.Logger.Error("booking submission failed", zap.Error(err), zap.String("sessionID", sessionID))
		return nil, &SubmitError{Message: s.callUsMessage("Sorry, there was a problem submitting your booking.")}
	}

	reference := booking.BookingReference
	snap := models.BookingSnapshot{
		Reference:      reference,
		Date:           session.Draft.Date,
		Time:           session.Draft.Time,
		PartySize:      session.Draft.PartySize,
		MenuSelections: session.Draft.MenuSelections,
		CustomerName:   session.Draft.CustomerName(),
	}

	result := &models.SubmissionResult{
		Reference: reference,
		Status:    booking.Status,
	}

	if booking.PaymentRequired && booking.PaymentDetails != nil {
		// The payment processor's return redirect carries nothing, so the
		// confirmation page reads this snapshot instead.
		snap.TotalPrice = TotalPrice(session.Draft.MenuSelections)
		if err := s.Store.PutSnapshot(ctx, SnapshotPending, reference, snap); err != nil {
			s.Logger.Warn("pending snapshot write failed", zap.Error(err), zap.String("reference", reference))
		}
		result.PaymentRequired = true
		result.PaymentURL = booking.PaymentDetails.PaymentURL
	} else {
		if err := s.Store.PutSnapshot(ctx, SnapshotCompleted, reference, snap); err != nil {
			s.Logger.Warn("completed snapshot write failed", zap.Error(err), zap.String("reference", reference))
		}
		result.ConfirmationPath = "/booking-confirmation?ref=" + reference
	}

	// The draft's job is done; the server-issued reference replaces it.
	if err := s.Store.Delete(ctx, sessionID); err != nil {
		s.Logger.Warn("session cleanup failed", zap.Error(err), zap.String("sessionID", sessionID))
	}
	if err := s.Store.ReleaseSubmitLock(ctx, sessionID); err != nil {
		s.Logger.Warn("submit lock release failed", zap.Error(err), zap.String("sessionID", sessionID))
	}

	s.Logger.Info("booking submitted",
		zap.String("reference", reference),
		zap.String("status", booking.Status),
		zap.Bool("paymentRequired", result.PaymentRequired))
	return result, nil
}

func (s *DefaultWizardService) buildBookingRequest(draft models.BookingDraft) models.TableBookingRequest {
	req := models.TableBookingRequest{
		BookingType: string(draft.BookingType),
		Date:        draft.Date,
		Time:        draft.Time,
		PartySize:   draft.PartySize,
		Customer: models.CustomerDetails{
			FirstName:    draft.FirstName,
			LastName:     draft.LastName,
			MobileNumber: draft.Phone,
			Email:        draft.Email,
			SMSOptIn:     draft.MarketingOptIn,
		},
		DurationMinutes:     120,
		SpecialRequirements: draft.SpecialRequirements,
		Source:              "website_wizard",
		MarketingOptIn:      draft.MarketingOptIn,
	}
	if draft.BookingType == models.BookingSundayLunch {
		req.MenuSelections = draft.MenuSelections
	}
	return req
}
