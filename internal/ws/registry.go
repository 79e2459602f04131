package ws

import "sync"

// Registry tracks live connection handles by connection id. Pure bookkeeping:
// the registry owns each handle from transport accept until transport close.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Register stores the handle for a connection id.
func (r *Registry) Register(connID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connID] = conn
}

// Unregister drops the handle for a connection id.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connID)
}

// Lookup returns the handle for a connection id, if registered.
func (r *Registry) Lookup(connID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[connID]
	return conn, ok
}

// Len reports the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
