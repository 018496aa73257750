package forms

import (
	"log/slog"
	"sync"
	"time"
)

const (
	defaultEntryTTL      = 2 * time.Hour
	defaultSweepInterval = 10 * time.Minute
)

// Registry hands out one SelectionController per browser session so
// concurrent operators do not share selection state. Idle entries are
// swept after a TTL; a swept session simply starts from a cleared
// selection on its next request.
type Registry[K comparable, D any] struct {
	loader Loader[K, D]
	logger *slog.Logger
	ttl    time.Duration

	mu        sync.Mutex
	entries   map[string]*registryEntry[K, D]
	lastSweep time.Time
}

type registryEntry[K comparable, D any] struct {
	ctrl     *SelectionController[K, D]
	lastSeen time.Time
}

func NewRegistry[K comparable, D any](loader Loader[K, D], logger *slog.Logger) *Registry[K, D] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry[K, D]{
		loader:  loader,
		logger:  logger,
		ttl:     defaultEntryTTL,
		entries: make(map[string]*registryEntry[K, D]),
	}
}

// Get returns the controller for sessionID, creating it on first use.
func (r *Registry[K, D]) Get(sessionID string) *SelectionController[K, D] {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked(now)

	entry, ok := r.entries[sessionID]
	if !ok {
		entry = &registryEntry[K, D]{ctrl: NewSelectionController(r.loader, r.logger)}
		r.entries[sessionID] = entry
	}
	entry.lastSeen = now
	return entry.ctrl
}

// Drop removes the controller for sessionID, e.g. on logout.
func (r *Registry[K, D]) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
}

// Len reports how many sessions currently hold a controller.
func (r *Registry[K, D]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry[K, D]) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < defaultSweepInterval {
		return
	}
	r.lastSweep = now

	for id, entry := range r.entries {
		if now.Sub(entry.lastSeen) > r.ttl {
			delete(r.entries, id)
		}
	}
	if len(r.entries) > 0 {
		r.logger.Debug("swept selection registry", "live_sessions", len(r.entries))
	}
}
