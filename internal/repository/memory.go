package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

type memoryEntry struct {
	state     *entity.GameState
	expiresAt time.Time
}

type memorySession struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository - keeps game states in process memory with the same ttl semantics as redis.
// States are stored by pointer; callers never mutate a state after saving it.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySession{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (that *memorySession) Save(_ context.Context, id string, state *entity.GameState) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[id] = memoryEntry{
		state:     state,
		expiresAt: that.now().Add(that.ttl),
	}

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.lookup(id)
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return entry.state, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookup(id); !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

// lookup - returns a live entry, dropping it when expired. Caller holds the lock.
func (that *memorySession) lookup(id string) (memoryEntry, bool) {
	entry, ok := that.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}

	if that.ttl > 0 && !that.now().Before(entry.expiresAt) {
		delete(that.sessions, id)
		return memoryEntry{}, false
	}

	return entry, true
}
