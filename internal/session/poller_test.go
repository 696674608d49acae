package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerDeliversNotifications(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications", r.URL.Path)
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"notifications":[{"id":1,"title":"Welcome","message":"Hello","isRead":false}]}}`))
	}))
	defer srv.Close()

	poller := NewPoller(srv.URL, storedStore("access-1", "refresh-1"), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delivered := make(chan []Notification, 8)
	go poller.Run(ctx, func(ns []Notification) {
		delivered <- ns
	})

	// First delivery is immediate, subsequent ones arrive on the interval.
	for i := 0; i < 2; i++ {
		select {
		case ns := <-delivered:
			require.Len(t, ns, 1)
			assert.Equal(t, "Welcome", ns[0].Title)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for notification delivery")
		}
	}
}

func TestPollerStopsOnCancel(t *testing.T) {
	t.Parallel()

	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`{"success":true,"data":{"notifications":[]}}`))
	}))
	defer srv.Close()

	poller := NewPoller(srv.URL, storedStore("access-1", "refresh-1"), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		poller.Run(ctx, func([]Notification) {})
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}

	settled := atomic.LoadInt64(&hits)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, atomic.LoadInt64(&hits), "no fetches after cancellation")
}

func TestPollerSkipsWithoutSession(t *testing.T) {
	t.Parallel()

	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer srv.Close()

	poller := NewPoller(srv.URL, NewMemoryStore(), 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	poller.Run(ctx, func([]Notification) {
		t.Error("nothing should be delivered without a session")
	})

	assert.Zero(t, atomic.LoadInt64(&hits))
}

func TestPollerDefaultInterval(t *testing.T) {
	t.Parallel()

	poller := NewPoller("http://127.0.0.1:0", NewMemoryStore(), 0)
	assert.Equal(t, DefaultPollInterval, poller.interval)
}
