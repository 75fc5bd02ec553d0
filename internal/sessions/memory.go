package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-intake/pkg/wizard"
)

type memoryEntry struct {
	session   wizard.Session
	expiresAt time.Time
}

// Memory keeps sessions in a map.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

var _ wizard.SessionStore = (*Memory)(nil)

// NewMemory returns a store expiring entries ttl after their last save. A
// non-positive ttl keeps entries forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *Memory) Load(ctx context.Context, id string) (wizard.Session, error) {
	if err := ctx.Err(); err != nil {
		return wizard.Session{}, err
	}
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok || m.expired(entry) {
		return wizard.Session{}, wizard.ErrSessionNotFound
	}
	return entry.session, nil
}

func (m *Memory) Save(ctx context.Context, session wizard.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := memoryEntry{session: session}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[session.ID] = entry
	m.mu.Unlock()
	return nil
}

// Sweep drops expired entries and reports how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Memory) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Memory) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt)
}
