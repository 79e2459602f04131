package ws

import (
	"errors"
	"sync"
	"sync/atomic"

	"messenger-service/internal/models"
)

// fakeConn records every event written to it.
type fakeConn struct {
	mu         sync.Mutex
	events     []models.ServerEvent
	failWrites bool
	closed     bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("write failed")
	}
	event, ok := v.(models.ServerEvent)
	if !ok {
		return errors.New("unexpected payload type")
	}
	c.events = append(c.events, event)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) Events() []models.ServerEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ServerEvent, len(c.events))
	copy(out, c.events)
	return out
}

func (c *fakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// overlapConn counts writes that arrive while another write is in flight. It
// deliberately holds no lock of its own, like *websocket.Conn.
type overlapConn struct {
	active   int32
	overlaps int32
	writes   int32
}

func (c *overlapConn) WriteJSON(v interface{}) error {
	if atomic.AddInt32(&c.active, 1) > 1 {
		atomic.AddInt32(&c.overlaps, 1)
	}
	atomic.AddInt32(&c.writes, 1)
	atomic.AddInt32(&c.active, -1)
	return nil
}

func (c *overlapConn) Close() error {
	return nil
}

func countEvents(events []models.ServerEvent, name string) int {
	n := 0
	for _, e := range events {
		if e.Event == name {
			n++
		}
	}
	return n
}
