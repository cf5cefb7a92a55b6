package authflowrepo

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/nugudi/nugudi-gateway/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface.
// Entries older than ttl are treated as missing and dropped on the next write.
type InMemoryRepo struct {
	mu     sync.RWMutex
	ttl    time.Duration
	states map[string]*AuthFlowState
}

// NewInMemoryRepo creates a new in-memory auth flow state repository
func NewInMemoryRepo(ttl time.Duration) *InMemoryRepo {
	return &InMemoryRepo{
		ttl:    ttl,
		states: make(map[string]*AuthFlowState),
	}
}

func (r *InMemoryRepo) expired(s *AuthFlowState, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.CreatedAt) > r.ttl
}

// Upsert stores or updates an auth flow state
func (r *InMemoryRepo) Upsert(_ context.Context, state string, authState *AuthFlowState) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if authState == nil {
		return errors.New("authState cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := NowTimeFunc()
	for k, s := range r.states {
		if r.expired(s, now) {
			delete(r.states, k)
		}
	}

	copied := *authState
	r.states[state] = &copied
	return nil
}

// Get retrieves an auth flow state by state parameter
func (r *InMemoryRepo) Get(_ context.Context, state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	authState, exists := r.states[state]
	if !exists || r.expired(authState, NowTimeFunc()) {
		return nil, apperrors.ErrStateNotFound
	}

	copied := *authState
	return &copied, nil
}

// Delete removes an auth flow state
func (r *InMemoryRepo) Delete(_ context.Context, state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, state)
	return nil
}

// Take retrieves and removes an auth flow state under one lock
func (r *InMemoryRepo) Take(_ context.Context, state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	authState, exists := r.states[state]
	if !exists {
		return nil, apperrors.ErrStateNotFound
	}
	delete(r.states, state)
	if r.expired(authState, NowTimeFunc()) {
		return nil, apperrors.ErrStateNotFound
	}
	return authState, nil
}
