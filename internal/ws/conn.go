package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conn is the write side of one live client connection. *websocket.Conn
// satisfies it; tests substitute in-memory fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// syncConn serializes access to the underlying connection. gorilla permits at
// most one concurrent writer per connection, while fan-out runs on whichever
// goroutine owns the unit of work.
type syncConn struct {
	mu   sync.Mutex
	conn Conn
}

func newSyncConn(conn Conn) *syncConn {
	return &syncConn{conn: conn}
}

func (c *syncConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *syncConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// ConnInfo describes a registered connection for observability purposes.
type ConnInfo struct {
	ConnID      string
	UserID      string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

func newConnID() string {
	return uuid.NewString()
}
