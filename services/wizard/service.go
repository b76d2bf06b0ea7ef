package wizard

import (
	"context"
	"time"

	"anchorsite/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnchorClient is the slice of the management API the wizard consumes.
type AnchorClient interface {
	GetAvailability(ctx context.Context, date string) (*models.DayAvailability, error)
	GetTimeSlots(ctx context.Context, date string, partySize int) ([]models.TimeSlot, error)
	GetSundayLunchMenu(ctx context.Context) (*models.SundayLunchMenu, error)
	CreateBooking(ctx context.Context, req models.TableBookingRequest, idempotencyKey string) (*models.TableBookingResponse, error)
	GetBooking(ctx context.Context, reference string) (*models.TableBookingResponse, error)
}

// SessionSeed pre-fills a new session from a deep link, e.g. a "Book
// Sunday Lunch" call-to-action elsewhere on the site.
type SessionSeed struct {
	Date        string             `json:"date,omitempty"`
	BookingType models.BookingType `json:"bookingType,omitempty"`
}

// ContactInput is the details step's submission.
type ContactInput struct {
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Phone               string `json:"phone"`
	Email               string `json:"email,omitempty"`
	MarketingOptIn      *bool  `json:"marketingOptIn,omitempty"`
	SpecialRequirements string `json:"specialRequirements,omitempty"`
}

// StepInput carries a step submission; only the fields belonging to the
// session's current step are read.
type StepInput struct {
	Date           *string                `json:"date,omitempty"`
	BookingType    *models.BookingType    `json:"bookingType,omitempty"`
	PartySize      *int                   `json:"partySize,omitempty"`
	MenuSelections []models.MenuSelection `json:"menuSelections,omitempty"`
	Time           *string                `json:"time,omitempty"`
	Details        *ContactInput          `json:"details,omitempty"`
}

// Service drives the booking wizard: step sequencing, per-step validation
// and final submission to the management API.
type Service interface {
	StartSession(ctx context.Context, seed SessionSeed) (*models.WizardState, error)
	GetState(ctx context.Context, sessionID string) (*models.WizardState, error)
	SubmitStep(ctx context.Context, sessionID string, input StepInput) (*models.WizardState, error)
	Back(ctx context.Context, sessionID string) (*models.WizardState, error)
	GoToStep(ctx context.Context, sessionID string, step models.StepType) (*models.WizardState, error)
	Confirm(ctx context.Context, sessionID string) (*models.SubmissionResult, error)
	Confirmation(ctx context.Context, reference string) (string, *models.BookingSnapshot, error)
}

// DefaultWizardService implements Service.
type DefaultWizardService struct {
	Store      SessionStore
	Anchor     AnchorClient
	Clock      Clock
	Loc        *time.Location
	VenuePhone string
	Logger     *zap.Logger
}

// StartSession creates a draft, optionally seeded from a deep link, and
// computes its initial step sequence.
func (s *DefaultWizardService) StartSession(ctx context.Context, seed SessionSeed) (*models.WizardState, error) {
	session := &models.WizardSession{
		SessionID: uuid.New().String(),
		Draft: models.BookingDraft{
			BookingType:    models.BookingRegular,
			PartySize:      2,
			MarketingOptIn: true,
		},
		Current:        models.StepDate,
		IdempotencyKey: uuid.New().String(),
		CreatedAt:      s.Clock.Now(),
	}

	if seed.Date != "" && s.seedDateBookable(ctx, seed.Date) {
		session.Draft.Date = seed.Date
		if seed.BookingType == models.BookingSundayLunch &&
			RoastPreorderOpen(seed.Date, s.Clock.Now(), s.Loc) {
			session.Draft.BookingType = models.BookingSundayLunch
		}
		normalizeDraft(&session.Draft, s.Loc)

		// A seeded date skips straight past the date step.
		seq := ActiveSteps(session.Draft, s.Loc)
		if next, ok := nextStep(seq, models.StepDate); ok {
			session.Current = next
		}
	}

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	s.Logger.Info("wizard session started",
		zap.String("sessionID", session.SessionID),
		zap.String("seedDate", seed.Date))
	return s.buildState(ctx, session)
}

// seedDateBookable holds a deep-linked date to the same rules the date
// step applies. A date that is out of window, closed, kitchen-closed or
// unverifiable is dropped and the session starts at the date step instead.
func (s *DefaultWizardService) seedDateBookable(ctx context.Context, date string) bool {
	if !WithinBookingWindow(date, s.Clock.Now(), s.Loc) {
		return false
	}
	day, err := s.Anchor.GetAvailability(ctx, date)
	if err != nil {
		s.Logger.Warn("seed date availability check failed", zap.Error(err), zap.String("date", date))
		return false
	}
	return !day.IsClosed && !day.IsKitchenClosed
}

// GetState returns the current view of a session.
func (s *DefaultWizardService) GetState(ctx context.Context, sessionID string) (*models.WizardState, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildState(ctx, session)
}

// Back moves to the previous active step. At the first step it is a no-op.
func (s *DefaultWizardService) Back(ctx context.Context, sessionID string) (*models.WizardState, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	seq := ActiveSteps(session.Draft, s.Loc)
	if prev, ok := prevStep(seq, session.Current); ok {
		session.Current = prev
		if err := s.Store.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return s.buildState(ctx, session)
}

// GoToStep jumps directly to a step, used by the confirm screen's edit
// links. Jumps to steps outside the active sequence are no-ops.
func (s *DefaultWizardService) GoToStep(ctx context.Context, sessionID string, step models.StepType) (*models.WizardState, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	seq := ActiveSteps(session.Draft, s.Loc)
	if stepIndex(seq, step) >= 0 {
		session.Current = step
		if err := s.Store.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return s.buildState(ctx, session)
}

// Confirmation consumes the one-shot snapshot written at submission. When
// the snapshot is gone (expired, or a second read), it falls back to the
// management API's record.
func (s *DefaultWizardService) Confirmation(ctx context.Context, reference string) (string, *models.BookingSnapshot, error) {
	kind, snap, err := s.Store.TakeSnapshot(ctx, reference)
	if err == nil {
		return kind, snap, nil
	}
	if err != ErrNotFound {
		return "", nil, err
	}

	booking, err := s.Anchor.GetBooking(ctx, reference)
	if err != nil {
		return "", nil, ErrNotFound
	}
	kind = SnapshotCompleted
	if booking.Status == models.BookingStatusPendingPayment {
		kind = SnapshotPending
	}
	return kind, &models.BookingSnapshot{Reference: booking.BookingReference}, nil
}

// buildState assembles the client-facing view, recomputing the active
// sequence from the draft every time.
func (s *DefaultWizardService) buildState(ctx context.Context, session *models.WizardSession) (*models.WizardState, error) {
	seq := ActiveSteps(session.Draft, s.Loc)
	session.Current = realignCursor(seq, session.Current)

	payload, err := s.buildStepPayload(ctx, session)
	if err != nil {
		return nil, err
	}

	return &models.WizardState{
		SessionID:    session.SessionID,
		Draft:        session.Draft,
		Steps:        seq,
		Current:      session.Current,
		CurrentIndex: stepIndex(seq, session.Current) + 1,
		TotalSteps:   len(seq),
		Step:         payload,
	}, nil
}

func (s *DefaultWizardService) buildStepPayload(ctx context.Context, session *models.WizardSession) (*models.StepPayload, error) {
	draft := session.Draft
	now := s.Clock.Now()

	switch session.Current {
	case models.StepDate:
		today := startOfDay(now.In(s.Loc))
		return &models.StepPayload{
			MinDate: today.Format("2006-01-02"),
			MaxDate: today.AddDate(0, 0, bookingWindowDays).Format("2006-01-02"),
		}, nil

	case models.StepSundayOffer:
		// Re-evaluated live so a session left open across the Saturday
		// cutoff reflects the closed state on its next interaction.
		open := RoastPreorderOpen(draft.Date, now, s.Loc)
		payload := &models.StepPayload{
			RoastAvailable:  &open,
			DepositPerGuest: depositPerGuest,
		}
		if day, err := parseVenueDate(draft.Date, s.Loc); err == nil {
			payload.RoastDeadline = RoastCutoff(day).Format(time.RFC3339)
		}
		return payload, nil

	case models.StepPartySize:
		return &models.StepPayload{Advisory: PartySizeAdvisory(draft.PartySize)}, nil

	case models.StepMenuSelection:
		menu, err := s.ensureMenu(ctx, session)
		if err != nil {
			return nil, err
		}
		return &models.StepPayload{
			Menu:    menu,
			Deposit: DepositAmount(draft.PartySize),
		}, nil

	case models.StepTime:
		slots, err := s.ensureTimeSlots(ctx, session)
		if err != nil {
			return nil, err
		}
		return &models.StepPayload{TimeSlots: slots}, nil

	case models.StepConfirm:
		summary := &models.BookingSummary{
			Date:           draft.Date,
			Time:           draft.Time,
			PartySize:      draft.PartySize,
			BookingType:    draft.BookingType,
			MenuSelections: draft.MenuSelections,
			CustomerName:   draft.CustomerName(),
		}
		if draft.BookingType == models.BookingSundayLunch {
			summary.Deposit = DepositAmount(draft.PartySize)
			summary.TotalPrice = TotalPrice(draft.MenuSelections)
		}
		return &models.StepPayload{Summary: summary}, nil
	}

	return nil, nil
}

// ensureMenu returns the Sunday lunch menu for the draft's date, fetching
// it once per date and caching it on the session.
func (s *DefaultWizardService) ensureMenu(ctx context.Context, session *models.WizardSession) (*models.SundayLunchMenu, error) {
	if session.Menu != nil && session.MenuDate == session.Draft.Date {
		return session.Menu, nil
	}
	menu, err := s.Anchor.GetSundayLunchMenu(ctx)
	if err != nil {
		s.Logger.Error("sunday lunch menu fetch failed", zap.Error(err))
		return nil, &SubmitError{Message: s.callUsMessage("We couldn't load the Sunday lunch menu right now.")}
	}
	session.Menu = menu
	session.MenuDate = session.Draft.Date
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return menu, nil
}

// ensureTimeSlots returns the slot set for the draft's (date, partySize),
// refetching whenever the key no longer matches. A response fetched for an
// older key is never applied: last request wins.
func (s *DefaultWizardService) ensureTimeSlots(ctx context.Context, session *models.WizardSession) ([]models.TimeSlot, error) {
	key := slotKey(session.Draft.Date, session.Draft.PartySize)
	if session.TimeSlotKey != key {
		slots, err := s.Anchor.GetTimeSlots(ctx, session.Draft.Date, session.Draft.PartySize)
		if err != nil {
			s.Logger.Error("time slot fetch failed", zap.Error(err), zap.String("key", key))
			return nil, &SubmitError{Message: s.callUsMessage("We couldn't load available times right now.")}
		}
		// The draft may have moved on while the fetch was in flight.
		if current := slotKey(session.Draft.Date, session.Draft.PartySize); current != key {
			return s.ensureTimeSlots(ctx, session)
		}
		session.TimeSlots = slots
		session.TimeSlotKey = key
		if err := s.Store.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return FilterTimeSlots(session.TimeSlots, session.Draft.Date, s.Clock.Now(), s.Loc), nil
}

func (s *DefaultWizardService) callUsMessage(lead string) string {
	return lead + " Please call us on " + s.VenuePhone + "."
}
