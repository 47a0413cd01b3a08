package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifemirror/lifemirror/internal/identity"
)

func drain(ch chan []byte) []string {
	time.Sleep(50 * time.Millisecond)
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	assert.Equal(t, 0, b.ClientCount())

	ch := b.Subscribe("alice")
	assert.Equal(t, 1, b.ClientCount())

	b.Unsubscribe(ch)
	assert.Equal(t, 0, b.ClientCount())
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe("alice")
	defer b.Unsubscribe(ch)

	b.Publish(Event{Owner: "alice", Type: "task.created", Data: map[string]string{"id": "t1"}})

	select {
	case msg := <-ch:
		s := string(msg)
		assert.Contains(t, s, "event: task.created\n")
		assert.Contains(t, s, `data: {"id":"t1"}`)
		assert.True(t, strings.HasSuffix(s, "\n\n"))
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestEventsNeverCrossOwners(t *testing.T) {
	b := NewBroker(time.Millisecond)
	defer b.Close()
	alice := b.Subscribe("alice")
	defer b.Unsubscribe(alice)
	bob := b.Subscribe("bob")
	defer b.Unsubscribe(bob)

	b.Notify("alice", "task", "created", "t1")
	b.Publish(Event{Owner: "alice", Type: "custom", Data: map[string]string{}})

	got := drain(alice)
	assert.Len(t, got, 3)
	assert.Empty(t, drain(bob))
}

func TestNotify_DashboardThrottlePerOwner(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	alice := b.Subscribe("alice")
	defer b.Unsubscribe(alice)
	bob := b.Subscribe("bob")
	defer b.Unsubscribe(bob)

	b.Notify("alice", "task", "created", "t1")
	b.Notify("alice", "task", "updated", "t1")
	// A different owner has its own throttle window.
	b.Notify("bob", "bill", "deleted", "b1")

	count := func(msgs []string) (resource, dashboard int) {
		for _, m := range msgs {
			if strings.Contains(m, "event: "+DashboardUpdated) {
				dashboard++
			} else {
				resource++
			}
		}
		return resource, dashboard
	}

	res, dash := count(drain(alice))
	assert.Equal(t, 2, res)
	assert.Equal(t, 1, dash)

	bobMsgs := drain(bob)
	res, dash = count(bobMsgs)
	assert.Equal(t, 1, res)
	assert.Equal(t, 1, dash)
	require.NotEmpty(t, bobMsgs)
	assert.Contains(t, bobMsgs[0], "event: bill.deleted")
	assert.Contains(t, bobMsgs[0], `"id":"b1"`)
}

func TestNotify_ThrottleWindowExpires(t *testing.T) {
	b := NewBroker(time.Minute)
	defer b.Close()

	var mu sync.Mutex
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	ch := b.Subscribe("alice")
	defer b.Unsubscribe(ch)

	b.Notify("alice", "habit", "updated", "h1")
	drain(ch)

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()
	b.Notify("alice", "habit", "updated", "h1")

	msgs := drain(ch)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1], DashboardUpdated)
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(identity.WithOwner(context.Background(), "alice"))
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, b.ClientCount())

	b.Notify("bob", "task", "created", "secret")
	b.Notify("alice", "mood_log", "updated", "m1")
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: mood_log.updated")
	assert.Contains(t, body, "event: dashboard.updated")
	assert.NotContains(t, body, "secret")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, b.ClientCount())
}

func TestSSEHandler_RequiresOwner(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	w := httptest.NewRecorder()
	b.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, b.ClientCount())
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe("alice")
	defer b.Unsubscribe(ch)

	// Capacity is 64; the extra publishes must not block.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Owner: "alice", Type: "test", Data: map[string]string{"i": "x"}})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe("alice")
	require.Equal(t, 1, b.ClientCount())

	b.Close()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "expected subscriber channel to be closed")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}
	assert.Equal(t, 0, b.ClientCount())

	// No-ops after close.
	b.Publish(Event{Owner: "alice", Type: "task.updated", Data: map[string]string{"id": "x"}})
	b.Notify("alice", "task", "updated", "x")
	_, ok := <-b.Subscribe("alice")
	assert.False(t, ok)
}
