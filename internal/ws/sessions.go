package ws

import "sync"

// SessionDirectory maps a user id to the set of connection ids currently
// authenticated as that user. A user key exists iff its set is non-empty;
// empty sets are pruned immediately. Rebuilt from zero on process restart.
type SessionDirectory struct {
	mu       sync.RWMutex
	sessions map[string]map[string]struct{}
}

// NewSessionDirectory creates an empty directory.
func NewSessionDirectory() *SessionDirectory {
	return &SessionDirectory{sessions: make(map[string]map[string]struct{})}
}

// Bind adds the connection to the user's set, creating the set if absent.
// Binding the same pair twice is a no-op.
func (d *SessionDirectory) Bind(userID, connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.sessions[userID]; !ok {
		d.sessions[userID] = make(map[string]struct{})
	}
	d.sessions[userID][connID] = struct{}{}
}

// Unbind removes the connection from the user's set, pruning the user entry
// once the set is empty.
func (d *SessionDirectory) Unbind(userID, connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if conns, ok := d.sessions[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(d.sessions, userID)
		}
	}
}

// ConnectionsOf returns a snapshot of the user's live connection ids. The
// result is empty when the user is offline.
func (d *SessionDirectory) ConnectionsOf(userID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	conns := d.sessions[userID]
	out := make([]string, 0, len(conns))
	for connID := range conns {
		out = append(out, connID)
	}
	return out
}

// IsOnline reports whether the user has at least one live connection.
func (d *SessionDirectory) IsOnline(userID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions[userID]) > 0
}
