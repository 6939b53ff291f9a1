package memory

import (
	"sync"

	"quiz-attempt-service/internal/attempt"
)

// AttemptRegistry is an in-memory implementation of attempt.Registry.
type AttemptRegistry struct {
	mu       sync.RWMutex
	attempts map[string]*attempt.Engine
}

func NewAttemptRegistry() *AttemptRegistry {
	return &AttemptRegistry{
		attempts: make(map[string]*attempt.Engine),
	}
}

func (r *AttemptRegistry) Register(attemptID string, e *attempt.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[attemptID] = e
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
}

func (r *AttemptRegistry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attempts)
}
