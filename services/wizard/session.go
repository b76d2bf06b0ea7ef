package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"anchorsite/models"

	"github.com/go-redis/redis/v8"
)

// Sessions idle out after half an hour; every save refreshes the TTL.
const sessionTTL = 30 * time.Minute

// Snapshots are kept long enough for a payment round-trip and the
// confirmation page read, then expire on their own.
const snapshotTTL = 24 * time.Hour

const (
	// SnapshotCompleted is the handoff slot for an immediately confirmed booking.
	SnapshotCompleted = "completedBooking"
	// SnapshotPending is the handoff slot for a booking awaiting deposit payment.
	SnapshotPending = "pendingBooking"
)

// ErrNotFound reports a missing or expired session or snapshot.
var ErrNotFound = errors.New("wizard: not found")

// SessionStore persists wizard sessions and the one-shot booking snapshots
// handed to the confirmation screen.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Save(ctx context.Context, session *models.WizardSession) error
	Delete(ctx context.Context, sessionID string) error

	// AcquireSubmitLock guards the confirm action: it succeeds at most once
	// while a submission is in flight for the session.
	AcquireSubmitLock(ctx context.Context, sessionID string) (bool, error)
	ReleaseSubmitLock(ctx context.Context, sessionID string) error

	// PutSnapshot writes a booking handoff slot; TakeSnapshot reads and
	// consumes it. Write-once by the wizard, read-once by the confirmation
	// screen; the two never run concurrently within one flow.
	PutSnapshot(ctx context.Context, kind, reference string, snap models.BookingSnapshot) error
	TakeSnapshot(ctx context.Context, reference string) (string, *models.BookingSnapshot, error)
}

// RedisSessionStore keeps sessions as JSON blobs with a rolling TTL.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(id string) string    { return "wizard:session:" + id }
func submitLockKey(id string) string { return "wizard:submit:" + id }
func snapshotKey(kind, ref string) string {
	return fmt.Sprintf("wizard:%s:%s", kind, ref)
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session models.WizardSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.SessionID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

func (s *RedisSessionStore) AcquireSubmitLock(ctx context.Context, sessionID string) (bool, error) {
	// TTL bounds how long a crashed submission can block retries.
	return s.client.SetNX(ctx, submitLockKey(sessionID), "1", time.Minute).Result()
}

func (s *RedisSessionStore) ReleaseSubmitLock(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, submitLockKey(sessionID)).Err()
}

func (s *RedisSessionStore) PutSnapshot(ctx context.Context, kind, reference string, snap models.BookingSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(kind, reference), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) TakeSnapshot(ctx context.Context, reference string) (string, *models.BookingSnapshot, error) {
	for _, kind := range []string{SnapshotCompleted, SnapshotPending} {
		data, err := s.client.GetDel(ctx, snapshotKey(kind, reference)).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("load snapshot: %w", err)
		}
		var snap models.BookingSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return "", nil, fmt.Errorf("parse snapshot: %w", err)
		}
		return kind, &snap, nil
	}
	return "", nil, ErrNotFound
}
