package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis     []bool    `json:"redis"`
	AnchorAPI bool      `json:"anchorApi"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// Healthy reports whether every probed dependency answered its last check.
func (s HealthStatus) Healthy() bool {
	for _, ok := range s.Redis {
		if !ok {
			return false
		}
	}
	return s.AnchorAPI
}

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
// pingAnchor probes the management API; it may be nil when no key is configured.
func StartHealthMonitor(redisClients []*redis.Client, pingAnchor func(ctx context.Context) error) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		check := func() {
			status := HealthStatus{CheckedAt: time.Now()}

			for _, client := range redisClients {
				checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
				err := client.Ping(checkCtx).Err()
				cancel()
				status.Redis = append(status.Redis, err == nil)
			}

			if pingAnchor != nil {
				checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				status.AnchorAPI = pingAnchor(checkCtx) == nil
				cancel()
			} else {
				// Nothing configured to probe counts as healthy.
				status.AnchorAPI = true
			}

			mu.Lock()
			currentHealth = status
			mu.Unlock()
		}

		check()
		for range ticker.C {
			check()
		}
	}()
}
