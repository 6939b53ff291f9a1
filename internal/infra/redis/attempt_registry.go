package redis

import (
	"context"
	"sync"
	"time"

	"quiz-attempt-service/internal/attempt"
	"github.com/redis/go-redis/v9"
)

// AttemptRegistry is a Redis-aware implementation of attempt.Registry.
// Engines themselves stay in-process (they hold a live timer goroutine);
// Redis carries liveness markers so operators can see attempts across
// instances.
type AttemptRegistry struct {
	client *redis.Client
	ttl    time.Duration

	mu       sync.RWMutex
	attempts map[string]*attempt.Engine
}

func NewAttemptRegistry(client *redis.Client, ttl time.Duration) *AttemptRegistry {
	return &AttemptRegistry{
		client:   client,
		ttl:      ttl,
		attempts: make(map[string]*attempt.Engine),
	}
}

func (r *AttemptRegistry) Register(attemptID string, e *attempt.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[attemptID] = e
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(attemptID), "1", r.ttl).Err()
}

func (r *AttemptRegistry) Get(attemptID string) (*attempt.Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.attempts[attemptID]
	return e, ok
}

func (r *AttemptRegistry) Remove(attemptID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, attemptID)
	_ = r.client.Del(context.Background(), r.key(attemptID)).Err()
}

func (r *AttemptRegistry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attempts)
}

func (r *AttemptRegistry) key(attemptID string) string {
	return "quiz:attempt:" + attemptID
}
