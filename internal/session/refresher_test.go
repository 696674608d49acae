package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshNoStoredToken(t *testing.T) {
	t.Parallel()

	r := NewRefresher("http://127.0.0.1:0", NewMemoryStore())

	_, err := r.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestRefreshSuccessRotatesPair(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "refresh-1", r.Header.Get("X-Refresh-Token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Token refreshed","data":{"accessToken":"access-2","refreshToken":"refresh-2","accessTokenExpiresAt":1767225600,"refreshTokenExpiresAt":1767830400}}`))
	}))
	defer srv.Close()

	store := storedStore("access-1", "refresh-1")
	r := NewRefresher(srv.URL, store)

	token, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-2", token)

	pair, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "access-2", pair.AccessToken)
	assert.Equal(t, "refresh-2", pair.RefreshToken)
}

func TestRefreshKeepsRefreshTokenWithoutRotation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"accessToken":"access-2","accessTokenExpiresAt":1767225600}}`))
	}))
	defer srv.Close()

	store := storedStore("access-1", "refresh-1")
	r := NewRefresher(srv.URL, store)

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	pair, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "refresh-1", pair.RefreshToken)
}

func TestRefreshRejectedClearsStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"success":false,"error":"Invalid refresh token"}`},
		{"server error", http.StatusInternalServerError, `{"success":false}`},
		{"malformed body", http.StatusOK, `{not json`},
		{"success false", http.StatusOK, `{"success":false}`},
		{"missing access token", http.StatusOK, `{"success":true,"data":{}}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			store := storedStore("access-1", "refresh-1")
			r := NewRefresher(srv.URL, store)

			_, err := r.Refresh(context.Background())
			assert.ErrorIs(t, err, ErrRefreshRejected)

			_, ok := store.Get()
			assert.False(t, ok, "a rejected refresh must clear the stored pair")
		})
	}
}

func TestRefreshTransportFailureLeavesStore(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	store := storedStore("access-1", "refresh-1")
	r := NewRefresher(srv.URL, store)

	_, err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRefreshRejected)

	pair, ok := store.Get()
	require.True(t, ok, "a transport failure must leave the stored pair for a later attempt")
	assert.Equal(t, "refresh-1", pair.RefreshToken)
}

func TestRefreshCanceledContextLeavesStore(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"accessToken":"access-2"}}`))
	}))
	defer srv.Close()

	store := storedStore("access-1", "refresh-1")
	r := NewRefresher(srv.URL, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Refresh(ctx)
	require.Error(t, err)

	pair, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "access-1", pair.AccessToken)
}
