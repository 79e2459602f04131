package ws

import (
	"fmt"
	"sync"
	"testing"
)

func TestSessionDirectoryBindAndUnbind(t *testing.T) {
	dir := NewSessionDirectory()

	dir.Bind("alice", "c1")
	if !dir.IsOnline("alice") {
		t.Fatalf("expected alice online after bind")
	}

	dir.Unbind("alice", "c1")
	if dir.IsOnline("alice") {
		t.Fatalf("expected alice offline after last unbind")
	}
	if len(dir.sessions) != 0 {
		t.Fatalf("expected empty user entry to be pruned")
	}
}

func TestSessionDirectoryBindIsIdempotent(t *testing.T) {
	dir := NewSessionDirectory()

	dir.Bind("alice", "c1")
	dir.Bind("alice", "c1")

	if got := len(dir.ConnectionsOf("alice")); got != 1 {
		t.Fatalf("expected one connection, got %d", got)
	}
}

func TestSessionDirectoryMultiDevice(t *testing.T) {
	dir := NewSessionDirectory()

	dir.Bind("alice", "c1")
	dir.Bind("alice", "c2")
	dir.Bind("alice", "c3")

	if got := len(dir.ConnectionsOf("alice")); got != 3 {
		t.Fatalf("expected three connections, got %d", got)
	}

	dir.Unbind("alice", "c2")
	if got := len(dir.ConnectionsOf("alice")); got != 2 {
		t.Fatalf("expected two connections, got %d", got)
	}
	if !dir.IsOnline("alice") {
		t.Fatalf("expected alice to stay online with remaining connections")
	}
}

func TestSessionDirectoryUnbindUnknownIsNoop(t *testing.T) {
	dir := NewSessionDirectory()
	dir.Unbind("nobody", "c1")
	if dir.IsOnline("nobody") {
		t.Fatalf("expected nobody to be offline")
	}
}

func TestSessionDirectoryConnectionsOfOffline(t *testing.T) {
	dir := NewSessionDirectory()
	if got := dir.ConnectionsOf("ghost"); len(got) != 0 {
		t.Fatalf("expected empty set for offline user, got %v", got)
	}
}

func TestSessionDirectoryConcurrentAccess(t *testing.T) {
	dir := NewSessionDirectory()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("c%d", i)
			dir.Bind("alice", connID)
			dir.ConnectionsOf("alice")
			if i%2 == 0 {
				dir.Unbind("alice", connID)
			}
		}(i)
	}
	wg.Wait()

	if got := len(dir.ConnectionsOf("alice")); got != 25 {
		t.Fatalf("expected 25 remaining connections, got %d", got)
	}
}
