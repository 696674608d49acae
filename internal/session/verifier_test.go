package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func storedStore(access, refresh string) *MemoryStore {
	store := NewMemoryStore()
	if access != "" || refresh != "" {
		store.Set(TokenPair{AccessToken: access, RefreshToken: refresh})
	}
	return store
}

func TestVerifyEmptyStoreSkipsNetwork(t *testing.T) {
	t.Parallel()

	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer srv.Close()

	v := NewVerifier(srv.URL, NewMemoryStore())

	assert.Equal(t, ResultUnauthenticated, v.Verify(context.Background()))
	assert.Zero(t, atomic.LoadInt64(&hits), "an empty store must not produce a request")
}

func TestVerifyStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   Result
	}{
		{"success true", http.StatusOK, `{"success":true,"message":"Session is valid"}`, ResultAuthenticated},
		{"success false", http.StatusOK, `{"success":false}`, ResultUnauthenticated},
		{"legacy authenticated field", http.StatusOK, `{"authenticated":true}`, ResultAuthenticated},
		{"truthy body without known fields", http.StatusOK, `{"ok":true}`, ResultUnauthenticated},
		{"malformed body", http.StatusOK, `{not json`, ResultUnauthenticated},
		{"expired access token", http.StatusUnauthorized, `{"success":false,"error":"Invalid token"}`, ResultNeedsRefresh},
		{"server error is terminal", http.StatusInternalServerError, `{"success":false}`, ResultUnauthenticated},
		{"forbidden is terminal", http.StatusForbidden, `{"success":false}`, ResultUnauthenticated},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/protected", r.URL.Path)
				assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			v := NewVerifier(srv.URL, storedStore("access-1", "refresh-1"))
			assert.Equal(t, tt.want, v.Verify(context.Background()))
		})
	}
}

func TestVerifyTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	store := storedStore("access-1", "refresh-1")
	v := NewVerifier(srv.URL, store)

	assert.Equal(t, ResultUnauthenticated, v.Verify(context.Background()))

	// A transport failure never mutates the stored pair.
	_, ok := store.Get()
	assert.True(t, ok)
}

func TestVerifyCanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	store := storedStore("access-1", "refresh-1")
	v := NewVerifier(srv.URL, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, ResultUnauthenticated, v.Verify(ctx))

	_, ok := store.Get()
	assert.True(t, ok, "cancellation must leave the store untouched")
}
