package denylist

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local Denylist. It is lost on restart, which is
// acceptable for single-instance deployments because access tokens are
// short-lived.
type Memory struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]time.Time), now: time.Now}
}

// WithClock replaces time.Now, for tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Revoke(_ context.Context, jti string, until time.Time) error {
	if jti == "" || !until.After(m.now()) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.entries[jti]; !ok || until.After(cur) {
		m.entries[jti] = until
	}
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.entries[jti]
	if !ok {
		return false, nil
	}
	if !until.After(m.now()) {
		delete(m.entries, jti)
		return false, nil
	}
	return true, nil
}

// Purge drops entries that expired by now and returns how many went.
func (m *Memory) Purge(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for jti, until := range m.entries {
		if !until.After(now) {
			delete(m.entries, jti)
			n++
		}
	}
	return n
}

// Len reports the number of live and not yet purged entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
