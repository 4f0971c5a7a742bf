package api

import (
	"sync"
	"time"
)

// ConfirmWindow is how long a delete stays armed awaiting confirmation.
const ConfirmWindow = 5 * time.Second

// ConfirmGuard implements two-step destructive-action confirmation. The
// first request for a (user, resource) pair arms a short window and is
// refused; a second request inside the window is allowed through. After the
// window lapses the pair behaves as if never armed.
type ConfirmGuard struct {
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	armed map[string]time.Time
}

// NewConfirmGuard creates a guard with the default window.
func NewConfirmGuard() *ConfirmGuard {
	return &ConfirmGuard{
		window: ConfirmWindow,
		now:    time.Now,
		armed:  make(map[string]time.Time),
	}
}

// Confirm reports whether the action for (userID, resourceID) is confirmed.
// The first call arms the window and returns false; a call within the window
// returns true and disarms. Expired entries are re-armed as first calls.
func (g *ConfirmGuard) Confirm(userID, resourceID string) bool {
	key := userID + "|" + resourceID
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	armedAt, ok := g.armed[key]
	if ok && now.Sub(armedAt) <= g.window {
		delete(g.armed, key)
		return true
	}

	g.armed[key] = now

	// Drop expired entries so abandoned first clicks don't accumulate.
	for k, at := range g.armed {
		if now.Sub(at) > g.window {
			delete(g.armed, k)
		}
	}
	return false
}
