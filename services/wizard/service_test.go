package wizard

import (
	"context"
	"testing"
	"time"

	"anchorsite/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday morning, well inside the booking window for the dates below.
var testNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func confirmedBooking(ref string) *models.TableBookingResponse {
	return &models.TableBookingResponse{
		BookingReference: ref,
		Status:           models.BookingStatusConfirmed,
		ConfirmationSent: true,
	}
}

func pendingBooking(ref, payURL string) *models.TableBookingResponse {
	return &models.TableBookingResponse{
		BookingReference: ref,
		Status:           models.BookingStatusPendingPayment,
		PaymentRequired:  true,
		PaymentDetails: &models.PaymentDetails{
			Amount:     10,
			Currency:   "GBP",
			PaymentURL: payURL,
		},
	}
}

func sundayMenu() *models.SundayLunchMenu {
	return &models.SundayLunchMenu{
		MenuDate: "2025-06-08",
		Mains: []models.MenuItem{
			{ID: "roast-beef", Name: "Roast Beef", Price: 16.95, IsAvailable: true},
			{ID: "roast-chicken", Name: "Roast Chicken", Price: 14.95, IsAvailable: true},
		},
	}
}

func submit(t *testing.T, svc *DefaultWizardService, id string, input StepInput) *models.WizardState {
	t.Helper()
	state, err := svc.SubmitStep(context.Background(), id, input)
	require.NoError(t, err)
	return state
}

func strPtr(s string) *string                          { return &s }
func intPtr(n int) *int                                { return &n }
func typePtr(t models.BookingType) *models.BookingType { return &t }

func TestRegularBookingFlow(t *testing.T) {
	api := &fakeAnchor{
		slots:     []models.TimeSlot{{Time: "19:00", Available: true}},
		createRes: confirmedBooking("REF123"),
	}
	store := newMemoryStore()
	svc := newTestService(store, api, testNow)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, SessionSeed{})
	require.NoError(t, err)
	assert.Equal(t, models.StepDate, state.Current)
	assert.Equal(t, 1, state.CurrentIndex)
	id := state.SessionID

	state = submit(t, svc, id, StepInput{Date: strPtr("2025-06-04")})
	assert.Equal(t, models.StepPartySize, state.Current, "weekday skips the Sunday offer")

	state = submit(t, svc, id, StepInput{PartySize: intPtr(3)})
	assert.Equal(t, models.StepTime, state.Current)
	require.NotNil(t, state.Step)
	assert.Equal(t, []models.TimeSlot{{Time: "19:00", Available: true}}, state.Step.TimeSlots)

	state = submit(t, svc, id, StepInput{Time: strPtr("19:00")})
	assert.Equal(t, models.StepDetails, state.Current)

	state = submit(t, svc, id, StepInput{Details: &ContactInput{
		FirstName: "Jo", LastName: "Smith", Phone: "01753 682707",
	}})
	assert.Equal(t, models.StepConfirm, state.Current)
	require.NotNil(t, state.Step.Summary)
	assert.Equal(t, "Jo Smith", state.Step.Summary.CustomerName)
	assert.Zero(t, state.Step.Summary.Deposit, "regular bookings carry no deposit")

	result, err := svc.Confirm(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "REF123", result.Reference)
	assert.Equal(t, models.BookingStatusConfirmed, result.Status)
	assert.False(t, result.PaymentRequired)
	assert.Empty(t, result.PaymentURL)
	assert.Equal(t, "/booking-confirmation?ref=REF123", result.ConfirmationPath)

	require.Len(t, api.created, 1)
	req := api.created[0]
	assert.Equal(t, "regular", req.BookingType)
	assert.Equal(t, "2025-06-04", req.Date)
	assert.Equal(t, "19:00", req.Time)
	assert.Equal(t, 3, req.PartySize)
	assert.Equal(t, 120, req.DurationMinutes)
	assert.Equal(t, "website_wizard", req.Source)
	assert.Empty(t, req.MenuSelections)
	assert.NotEmpty(t, api.idemKeys[0])

	// Session gone, snapshot readable exactly once.
	_, err = svc.GetState(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, store.locks[id], "submit lock must be released")

	kind, snap, err := svc.Confirmation(ctx, "REF123")
	require.NoError(t, err)
	assert.Equal(t, SnapshotCompleted, kind)
	assert.Equal(t, "Jo Smith", snap.CustomerName)
	assert.Equal(t, "2025-06-04", snap.Date)
}

func TestSundayLunchFlowRequiresDeposit(t *testing.T) {
	api := &fakeAnchor{
		slots:     []models.TimeSlot{{Time: "12:30", Available: true}},
		menu:      sundayMenu(),
		createRes: pendingBooking("SL456", "https://pay.example/x"),
	}
	store := newMemoryStore()
	svc := newTestService(store, api, testNow)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, SessionSeed{})
	require.NoError(t, err)
	id := state.SessionID

	state = submit(t, svc, id, StepInput{Date: strPtr("2025-06-08")})
	assert.Equal(t, models.StepSundayOffer, state.Current)
	require.NotNil(t, state.Step.RoastAvailable)
	assert.True(t, *state.Step.RoastAvailable, "pre-orders are open before the Saturday cutoff")
	assert.Equal(t, 5.0, state.Step.DepositPerGuest)

	state = submit(t, svc, id, StepInput{BookingType: typePtr(models.BookingSundayLunch)})
	assert.Equal(t, models.StepPartySize, state.Current)

	state = submit(t, svc, id, StepInput{PartySize: intPtr(2)})
	assert.Equal(t, models.StepMenuSelection, state.Current)
	require.NotNil(t, state.Step.Menu)
	assert.Equal(t, 10.0, state.Step.Deposit)

	state = submit(t, svc, id, StepInput{MenuSelections: []models.MenuSelection{
		{GuestName: "Alice", MenuItemID: "roast-beef"},
		{GuestName: "Bob", MenuItemID: "roast-chicken"},
	}})
	assert.Equal(t, models.StepTime, state.Current)

	state = submit(t, svc, id, StepInput{Time: strPtr("12:30")})
	state = submit(t, svc, id, StepInput{Details: &ContactInput{
		FirstName: "Alice", LastName: "Jones", Phone: "07700900123",
	}})
	assert.Equal(t, models.StepConfirm, state.Current)
	require.NotNil(t, state.Step.Summary)
	assert.Equal(t, 10.0, state.Step.Summary.Deposit)
	assert.InDelta(t, 31.90, state.Step.Summary.TotalPrice, 0.001)

	result, err := svc.Confirm(ctx, id)
	require.NoError(t, err)
	assert.True(t, result.PaymentRequired)
	assert.Equal(t, "https://pay.example/x", result.PaymentURL)
	assert.Empty(t, result.ConfirmationPath)

	require.Len(t, api.created, 1)
	req := api.created[0]
	assert.Equal(t, "sunday_lunch", req.BookingType)
	require.Len(t, req.MenuSelections, 2)
	assert.Equal(t, 1, req.MenuSelections[0].Quantity)
	assert.InDelta(t, 16.95, req.MenuSelections[0].PriceAtBooking, 0.001)

	kind, snap, err := svc.Confirmation(ctx, "SL456")
	require.NoError(t, err)
	assert.Equal(t, SnapshotPending, kind)
	assert.InDelta(t, 31.90, snap.TotalPrice, 0.001)
}

func TestSundayLunchBlockedAfterDeadline(t *testing.T) {
	// Saturday afternoon, past the 13:00 cutoff for Sunday the 8th.
	saturday := time.Date(2025, 6, 7, 14, 0, 0, 0, time.UTC)
	api := &fakeAnchor{}
	svc := newTestService(newMemoryStore(), api, saturday)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, SessionSeed{})
	require.NoError(t, err)
	id := state.SessionID

	state = submit(t, svc, id, StepInput{Date: strPtr("2025-06-08")})
	assert.Equal(t, models.StepSundayOffer, state.Current)
	require.NotNil(t, state.Step.RoastAvailable)
	assert.False(t, *state.Step.RoastAvailable)

	_, err = svc.SubmitStep(ctx, id, StepInput{BookingType: typePtr(models.BookingSundayLunch)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "bookingType")

	// A regular booking on the same Sunday is still fine.
	state = submit(t, svc, id, StepInput{BookingType: typePtr(models.BookingRegular)})
	assert.Equal(t, models.StepPartySize, state.Current)
}

func TestDateChangeResetsSundayLunch(t *testing.T) {
	api := &fakeAnchor{
		slots: []models.TimeSlot{{Time: "12:30", Available: true}},
		menu:  sundayMenu(),
	}
	svc := newTestService(newMemoryStore(), api, testNow)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, SessionSeed{})
	require.NoError(t, err)
	id := state.SessionID

	submit(t, svc, id, StepInput{Date: strPtr("2025-06-08")})
	submit(t, svc, id, StepInput{BookingType: typePtr(models.BookingSundayLunch)})
	submit(t, svc, id, StepInput{PartySize: intPtr(2)})
	state = submit(t, svc, id, StepInput{MenuSelections: []models.MenuSelection{
		{GuestName: "Alice", MenuItemID: "roast-beef"},
		{GuestName: "Bob", MenuItemID: "roast-chicken"},
	}})
	assert.Equal(t, models.StepTime, state.Current)

	state, err = svc.GoToStep(ctx, id, models.StepDate)
	require.NoError(t, err)
	assert.Equal(t, models.StepDate, state.Current)

	state = submit(t, svc, id, StepInput{Date: strPtr("2025-06-04")})
	assert.Equal(t, models.BookingRegular, state.Draft.BookingType)
	assert.Empty(t, state.Draft.MenuSelections)
	assert.Empty(t, state.Draft.Time)
	assert.Equal(t, models.StepPartySize, state.Current)
	assert.Equal(t, 5, state.TotalSteps, "the flow shrank back to the weekday shape")
}

func TestPartySizeChangeDropsSelectionsAndRefetchesSlots(t *testing.T) {
	api := &fakeAnchor{
		slots: []models.TimeSlot{{Time: "12:30", Available: true}},
		menu:  sundayMenu(),
	}
	svc := newTestService(newMemoryStore(), api, testNow)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, SessionSeed{})
	require.NoError(t, err)
	id := state.SessionID

	submit(t, svc, id, StepInput{Date: strPtr("2025-06-08")})
	submit(t, svc, id, StepInput{BookingType: typePtr(models.BookingSundayLunch)})
	submit(t, svc, id, StepInput{PartySize: intPtr(2)})
	submit(t, svc, id, StepInput{MenuSelections: []models.MenuSelection{
		{GuestName: "Alice", MenuItemID: "roast-beef"},
		{GuestName: "Bob", MenuItemID: "roast-chicken"},
	}})
	assert.Equal(t, 1, api.slotCalls)

	state, err = svc.GoToStep(ctx, id, models.StepPartySize)
	require.NoError(t, err)
	state = submit(t, svc, id, StepInput{PartySize: intPtr(4)})
	assert.Empty(t, state.Draft.MenuSelections, "one main per guest no longer lines up")
	assert.Equal(t, models.StepMenuSelection, state.Current)
	assert.Equal(t, 1, api.menuCalls, "the menu is cached per date")

	submit(t, svc, id, StepInput{MenuSelections: []models.MenuSelection{
		{GuestName: "Alice", MenuItemID: "roast-beef"},
		{GuestName: "Bob", MenuItemID: "roast-chicken"},
		{GuestName: "Cat", MenuItemID: "roast-beef"},
		{GuestName: "Dan", MenuItemID: "roast-chicken"},
	}})
	assert.Equal(t, 2, api.slotCalls, "a new party size invalidates the cached slots")
}

func TestClosedAndKitchenClosedDates(t *testing.T) {
	ctx := context.Background()

	t.Run("closed day", func(t *testing.T) {
		api := &fakeAnchor{day: &models.DayAvailability{
			Date: "2025-06-04", IsClosed: true, SpecialNote: "Closed for a private event",
		}}
		svc := newTestService(newMemoryStore(), api, testNow)
		state, err := svc.StartSession(ctx, SessionSeed{})
		require.NoError(t, err)

		_, err = svc.SubmitStep(ctx, state.SessionID, StepInput{Date: strPtr("2025-06-04")})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Closed for a private event", verr.Message)
	})

	t.Run("kitchen closed day points at the phone", func(t *testing.T) {
		api := &fakeAnchor{day: &models.DayAvailability{
			Date: "2025-06-04", IsKitchenClosed: true,
		}}
		svc := newTestService(newMemoryStore(), api, testNow)
		state, err := svc.StartSession(ctx, SessionSeed{})
		require.NoError(t, err)

		_, err = svc.SubmitStep(ctx, state.SessionID, StepInput{Date: strPtr("2025-06-04")})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "01753 682707")
	})
}

func TestDateOutsideWindowRejected(t *testing.T) {
	svc := newTestService(newMemoryStore(), &fakeAnchor{}, testNow)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, SessionSeed{})
	require.NoError(t, err)

	for _, date := range []string{"2025-06-01", "2025-07-03", "junk"} {
		_, err = svc.SubmitStep(ctx, state.SessionID, StepInput{Date: strPtr(date)})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, date)
	}
}

func TestValidationFailureLeavesDraftIntact(t *testing.T) {
	api := &fakeAnchor{slots: []models.TimeSlot{{Time: "19:00", Available: true}}}
	svc := newTestService(newMemoryStore(), api, testNow)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, SessionSeed{})
	require.NoError(t, err)
	id := state.SessionID

	submit(t, svc, id, StepInput{Date: strPtr("2025-06-04")})
	submit(t, svc, id, StepInput{PartySize: intPtr(2)})
	submit(t, svc, id, StepInput{Time: strPtr("19:00")})

	_, err = svc.SubmitStep(ctx, id, StepInput{Details: &ContactInput{
		FirstName: "", LastName: "Smith", Phone: "bad!phone",
	}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "firstName")
	assert.Contains(t, verr.Fields, "phone")

	state, err = svc.GetState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StepDetails, state.Current, "the step did not advance")
	assert.Equal(t, "2025-06-04", state.Draft.Date, "earlier answers survive")
	assert.Equal(t, "19:00", state.Draft.Time)
}

func TestConfirmGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("sunday lunch without menu selections cannot confirm", func(t *testing.T) {
		api := &fakeAnchor{
			slots: []models.TimeSlot{{Time: "12:30", Available: true}},
			menu:  sundayMenu(),
		}
		svc := newTestService(newMemoryStore(), api, testNow)

		state, err := svc.StartSession(ctx, SessionSeed{})
		require.NoError(t, err)
		id := state.SessionID
		submit(t, svc, id, StepInput{Date: strPtr("2025-06-08")})
		submit(t, svc, id, StepInput{BookingType: typePtr(models.BookingSundayLunch)})
		submit(t, svc, id, StepInput{PartySize: intPtr(2)})

		// Jump over the menu step and walk the rest of the flow.
		state, err = svc.GoToStep(ctx, id, models.StepTime)
		require.NoError(t, err)
		assert.Equal(t, models.StepTime, state.Current)
		submit(t, svc, id, StepInput{Time: strPtr("12:30")})
		state = submit(t, svc, id, StepInput{Details: &ContactInput{
			FirstName: "Jo", LastName: "Smith", Phone: "01753 682707",
		}})
		require.Equal(t, models.StepConfirm, state.Current)

		_, err = svc.Confirm(ctx, id)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "menuSelections")
		assert.Empty(t, api.created, "nothing may reach the management API")
	})

	t.Run("incomplete session cannot confirm", func(t *testing.T) {
		svc := newTestService(newMemoryStore(), &fakeAnchor{}, testNow)
		state, err := svc.StartSession(ctx, SessionSeed{})
		require.NoError(t, err)

		_, err = svc.Confirm(ctx, state.SessionID)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("concurrent confirm is rejected", func(t *testing.T) {
		api := &fakeAnchor{slots: []models.TimeSlot{{Time: "19:00", Available: true}}}
		store := newMemoryStore()
		svc := newTestService(store, api, testNow)

		state, err := svc.StartSession(ctx, SessionSeed{})
		require.NoError(t, err)
		id := state.SessionID
		submit(t, svc, id, StepInput{Date: strPtr("2025-06-04")})
		submit(t, svc, id, StepInput{PartySize: intPtr(2)})
		submit(t, svc, id, StepInput{Time: strPtr("19:00")})
		submit(t, svc, id, StepInput{Details: &ContactInput{
			FirstName: "Jo", LastName: "Smith", Phone: "01753 682707",
		}})

		store.locks[id] = true
		_, err = svc.Confirm(ctx, id)
		var cerr *ConflictError
		require.ErrorAs(t, err, &cerr)
	})
}

func TestSubmitFailureKeepsDraftForRetry(t *testing.T) {
	api := &fakeAnchor{
		slots:     []models.TimeSlot{{Time: "19:00", Available: true}},
		createErr: assert.AnError,
	}
	store := newMemoryStore()
	svc := newTestService(store, api, testNow)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, SessionSeed{})
	require.NoError(t, err)
	id := state.SessionID
	submit(t, svc, id, StepInput{Date: strPtr("2025-06-04")})
	submit(t, svc, id, StepInput{PartySize: intPtr(2)})
	submit(t, svc, id, StepInput{Time: strPtr("19:00")})
	submit(t, svc, id, StepInput{Details: &ContactInput{
		FirstName: "Jo", LastName: "Smith", Phone: "01753 682707",
	}})

	_, err = svc.Confirm(ctx, id)
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Message, "01753 682707")

	state, err = svc.GetState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-04", state.Draft.Date, "nothing has to be re-entered")
	assert.False(t, store.locks[id], "the lock is free for the retry")

	// The retry reuses the session's idempotency key.
	api.createErr = nil
	api.createRes = confirmedBooking("REF789")
	result, err := svc.Confirm(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "REF789", result.Reference)
	require.Len(t, api.idemKeys, 2)
	assert.Equal(t, api.idemKeys[0], api.idemKeys[1])
}

func TestSeededSession(t *testing.T) {
	ctx := context.Background()

	t.Run("seeded sunday lunch lands on the offer step", func(t *testing.T) {
		svc := newTestService(newMemoryStore(), &fakeAnchor{}, testNow)
		state, err := svc.StartSession(ctx, SessionSeed{
			Date:        "2025-06-08",
			BookingType: models.BookingSundayLunch,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StepSundayOffer, state.Current)
		assert.Equal(t, models.BookingSundayLunch, state.Draft.BookingType)
	})

	t.Run("stale deep link is ignored", func(t *testing.T) {
		svc := newTestService(newMemoryStore(), &fakeAnchor{}, testNow)
		state, err := svc.StartSession(ctx, SessionSeed{Date: "2025-05-01"})
		require.NoError(t, err)
		assert.Equal(t, models.StepDate, state.Current)
		assert.Empty(t, state.Draft.Date)
	})

	t.Run("deep link to a closed or drinks-only date falls back to the date step", func(t *testing.T) {
		for name, day := range map[string]*models.DayAvailability{
			"closed":         {Date: "2025-06-08", IsClosed: true},
			"kitchen closed": {Date: "2025-06-08", IsKitchenClosed: true},
		} {
			svc := newTestService(newMemoryStore(), &fakeAnchor{day: day}, testNow)
			state, err := svc.StartSession(ctx, SessionSeed{
				Date:        "2025-06-08",
				BookingType: models.BookingSundayLunch,
			})
			require.NoError(t, err, name)
			assert.Equal(t, models.StepDate, state.Current, name)
			assert.Empty(t, state.Draft.Date, name)
			assert.Equal(t, models.BookingRegular, state.Draft.BookingType, name)
		}
	})

	t.Run("unverifiable deep link falls back to the date step", func(t *testing.T) {
		svc := newTestService(newMemoryStore(), &fakeAnchor{dayErr: assert.AnError}, testNow)
		state, err := svc.StartSession(ctx, SessionSeed{Date: "2025-06-08"})
		require.NoError(t, err)
		assert.Equal(t, models.StepDate, state.Current)
		assert.Empty(t, state.Draft.Date)
	})

	t.Run("seeded sunday lunch past the deadline degrades to regular", func(t *testing.T) {
		saturday := time.Date(2025, 6, 7, 14, 0, 0, 0, time.UTC)
		svc := newTestService(newMemoryStore(), &fakeAnchor{}, saturday)
		state, err := svc.StartSession(ctx, SessionSeed{
			Date:        "2025-06-08",
			BookingType: models.BookingSundayLunch,
		})
		require.NoError(t, err)
		assert.Equal(t, models.BookingRegular, state.Draft.BookingType)
	})
}

func TestBackNavigation(t *testing.T) {
	api := &fakeAnchor{slots: []models.TimeSlot{{Time: "19:00", Available: true}}}
	svc := newTestService(newMemoryStore(), api, testNow)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, SessionSeed{})
	require.NoError(t, err)
	id := state.SessionID

	state, err = svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StepDate, state.Current, "back at the first step stays put")

	submit(t, svc, id, StepInput{Date: strPtr("2025-06-04")})
	state, err = svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StepDate, state.Current)

	state, err = svc.GoToStep(ctx, id, models.StepMenuSelection)
	require.NoError(t, err)
	assert.Equal(t, models.StepDate, state.Current, "jumps to inactive steps are no-ops")
}

func TestConfirmationFallsBackToManagementAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("expired snapshot, booking still known upstream", func(t *testing.T) {
		api := &fakeAnchor{booking: confirmedBooking("REF123")}
		svc := newTestService(newMemoryStore(), api, testNow)

		kind, snap, err := svc.Confirmation(ctx, "REF123")
		require.NoError(t, err)
		assert.Equal(t, SnapshotCompleted, kind)
		assert.Equal(t, "REF123", snap.Reference)
	})

	t.Run("unknown reference", func(t *testing.T) {
		api := &fakeAnchor{bookingErr: assert.AnError}
		svc := newTestService(newMemoryStore(), api, testNow)

		_, _, err := svc.Confirmation(ctx, "NOPE")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
