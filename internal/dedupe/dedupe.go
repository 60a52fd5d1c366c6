// Package dedupe tracks message identifiers already processed during the
// current process lifetime. The set is not persisted; replays across
// restarts are out of scope.
package dedupe

import "sync"

// Guard is a process-lifetime set of seen message ids. The set grows
// without bound; see DESIGN.md for the long-running deployment question.
type Guard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{seen: make(map[string]struct{})}
}

// Seen reports whether id was already marked.
func (g *Guard) Seen(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.seen[id]
	return ok
}

// MarkSeen records id as processed.
func (g *Guard) MarkSeen(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen[id] = struct{}{}
}

// CheckAndMark atomically marks id and reports whether this is its first
// occurrence. Callers use it so a message cannot be processed twice even
// under concurrent delivery.
func (g *Guard) CheckAndMark(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[id]; ok {
		return false
	}
	g.seen[id] = struct{}{}
	return true
}

// Len returns the number of tracked ids.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
