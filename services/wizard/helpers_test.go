package wizard

import (
	"context"
	"encoding/json"
	"time"

	"anchorsite/models"

	"go.uber.org/zap"
)

// memoryStore mimics the redis store's copy-on-read behaviour so service
// code has to Save mutations explicitly, exactly as in production.
type memoryStore struct {
	sessions  map[string]string
	snapshots map[string]string
	locks     map[string]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions:  make(map[string]string),
		snapshots: make(map[string]string),
		locks:     make(map[string]bool),
	}
}

func (m *memoryStore) Get(_ context.Context, sessionID string) (*models.WizardSession, error) {
	data, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	var session models.WizardSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *memoryStore) Save(_ context.Context, session *models.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	m.sessions[session.SessionID] = string(data)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

func (m *memoryStore) AcquireSubmitLock(_ context.Context, sessionID string) (bool, error) {
	if m.locks[sessionID] {
		return false, nil
	}
	m.locks[sessionID] = true
	return true, nil
}

func (m *memoryStore) ReleaseSubmitLock(_ context.Context, sessionID string) error {
	delete(m.locks, sessionID)
	return nil
}

func (m *memoryStore) PutSnapshot(_ context.Context, kind, reference string, snap models.BookingSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.snapshots[kind+":"+reference] = string(data)
	return nil
}

func (m *memoryStore) TakeSnapshot(_ context.Context, reference string) (string, *models.BookingSnapshot, error) {
	for _, kind := range []string{SnapshotCompleted, SnapshotPending} {
		data, ok := m.snapshots[kind+":"+reference]
		if !ok {
			continue
		}
		delete(m.snapshots, kind+":"+reference)
		var snap models.BookingSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return "", nil, err
		}
		return kind, &snap, nil
	}
	return "", nil, ErrNotFound
}

// fakeAnchor is a canned management API.
type fakeAnchor struct {
	day      *models.DayAvailability
	dayErr   error
	slots    []models.TimeSlot
	slotsErr error
	menu     *models.SundayLunchMenu
	menuErr  error

	slotCalls int
	menuCalls int

	createRes *models.TableBookingResponse
	createErr error
	created   []models.TableBookingRequest
	idemKeys  []string

	booking    *models.TableBookingResponse
	bookingErr error
}

func (f *fakeAnchor) GetAvailability(_ context.Context, date string) (*models.DayAvailability, error) {
	if f.dayErr != nil {
		return nil, f.dayErr
	}
	if f.day != nil {
		return f.day, nil
	}
	return &models.DayAvailability{Date: date}, nil
}

func (f *fakeAnchor) GetTimeSlots(_ context.Context, _ string, _ int) ([]models.TimeSlot, error) {
	f.slotCalls++
	if f.slotsErr != nil {
		return nil, f.slotsErr
	}
	return f.slots, nil
}

func (f *fakeAnchor) GetSundayLunchMenu(_ context.Context) (*models.SundayLunchMenu, error) {
	f.menuCalls++
	if f.menuErr != nil {
		return nil, f.menuErr
	}
	return f.menu, nil
}

func (f *fakeAnchor) CreateBooking(_ context.Context, req models.TableBookingRequest, idempotencyKey string) (*models.TableBookingResponse, error) {
	f.created = append(f.created, req)
	f.idemKeys = append(f.idemKeys, idempotencyKey)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createRes, nil
}

func (f *fakeAnchor) GetBooking(_ context.Context, _ string) (*models.TableBookingResponse, error) {
	if f.bookingErr != nil {
		return nil, f.bookingErr
	}
	return f.booking, nil
}

// fixedClock pins time for deadline and buffer rules.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

func newTestService(store SessionStore, api AnchorClient, now time.Time) *DefaultWizardService {
	return &DefaultWizardService{
		Store:      store,
		Anchor:     api,
		Clock:      &fixedClock{t: now},
		Loc:        time.UTC,
		VenuePhone: "01753 682707",
		Logger:     zap.NewNop(),
	}
}
