// Package testutil provides shared test helpers for stores and services.
package testutil

import (
	"os"
	"sync"
	"testing"

	"github.com/lifemirror/lifemirror/internal/store"
)

// TestDB creates a temporary SQLite store that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "lifemirror-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() {
		os.Remove(dbFile.Name())
		os.Remove(dbFile.Name() + "-wal")
		os.Remove(dbFile.Name() + "-shm")
	})

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Event is one notification captured by Recorder.
type Event struct {
	Owner, Resource, Action, ID string
}

// Recorder is a Notifier that remembers every call.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(owner, resource, action, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{owner, resource, action, id})
}

// Events returns a copy of the recorded notifications.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
