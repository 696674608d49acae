package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI stands in for the auth endpoints and counts how often each one is
// hit, so the single-refresh-cycle property can be asserted directly.
type fakeAPI struct {
	mu           sync.Mutex
	verifyCalls  int
	refreshCalls int

	validAccess  map[string]bool
	validRefresh string
	rotatedPair  TokenPair
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{validAccess: map[string]bool{}}
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/protected":
			f.verifyCalls++
			token := ""
			if auth := r.Header.Get("Authorization"); len(auth) > 7 {
				token = auth[7:]
			}
			if f.validAccess[token] {
				w.Write([]byte(`{"success":true,"message":"Session is valid"}`))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"error":"Invalid token"}`))
		case "/auth/refresh":
			f.refreshCalls++
			if r.Header.Get("X-Refresh-Token") == f.validRefresh && f.validRefresh != "" {
				f.validAccess[f.rotatedPair.AccessToken] = true
				w.Write([]byte(`{"success":true,"data":{"accessToken":"` + f.rotatedPair.AccessToken +
					`","refreshToken":"` + f.rotatedPair.RefreshToken + `"}}`))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"error":"Invalid refresh token"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (f *fakeAPI) calls() (verify, refresh int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verifyCalls, f.refreshCalls
}

func TestGuardValidAccessToken(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.validAccess["access-1"] = true
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	store := storedStore("access-1", "refresh-1")
	guard := NewGuard(srv.URL, store)

	assert.Equal(t, StatusAuthenticated, guard.Check(context.Background()))

	verify, refresh := api.calls()
	assert.Equal(t, 1, verify)
	assert.Zero(t, refresh, "a valid access token needs no refresh")
}

func TestGuardExpiredAccessRefreshesOnce(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.validRefresh = "refresh-1"
	api.rotatedPair = TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	store := storedStore("stale-access", "refresh-1")
	guard := NewGuard(srv.URL, store)

	assert.Equal(t, StatusAuthenticated, guard.Check(context.Background()))

	verify, refresh := api.calls()
	assert.Equal(t, 2, verify, "exactly one retry after the refresh")
	assert.Equal(t, 1, refresh, "exactly one refresh attempt")

	pair, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "access-2", pair.AccessToken)
	assert.Equal(t, "refresh-2", pair.RefreshToken)
}

func TestGuardBothTokensInvalid(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	store := storedStore("stale-access", "stale-refresh")
	guard := NewGuard(srv.URL, store)

	assert.Equal(t, StatusUnauthenticated, guard.Check(context.Background()))

	verify, refresh := api.calls()
	assert.Equal(t, 1, verify)
	assert.Equal(t, 1, refresh)

	_, ok := store.Get()
	assert.False(t, ok, "a rejected refresh clears the stored pair")
}

func TestGuardNoSecondRefreshCycle(t *testing.T) {
	t.Parallel()

	// Refresh succeeds but the new token is never marked valid, so the retry
	// comes back 401 again. The guard must stop rather than loop.
	api := newFakeAPI()
	api.validRefresh = "refresh-1"
	api.rotatedPair = TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/protected" {
			api.mu.Lock()
			api.verifyCalls++
			api.mu.Unlock()
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false}`))
			return
		}
		api.handler().ServeHTTP(w, r)
	}))
	defer srv.Close()

	store := storedStore("stale-access", "refresh-1")
	guard := NewGuard(srv.URL, store)

	assert.Equal(t, StatusUnauthenticated, guard.Check(context.Background()))

	verify, refresh := api.calls()
	assert.Equal(t, 2, verify)
	assert.Equal(t, 1, refresh, "never more than one refresh per check")
}

func TestGuardEmptyStore(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	guard := NewGuard(srv.URL, NewMemoryStore())

	assert.Equal(t, StatusUnauthenticated, guard.Check(context.Background()))

	verify, refresh := api.calls()
	assert.Zero(t, verify)
	assert.Zero(t, refresh)
}

func TestGuardCanceledContext(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	store := storedStore("access-1", "refresh-1")
	guard := NewGuard(srv.URL, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, StatusUnknown, guard.Check(ctx))

	pair, ok := store.Get()
	require.True(t, ok, "cancellation must not mutate the store")
	assert.Equal(t, "access-1", pair.AccessToken)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "authenticated", StatusAuthenticated.String())
	assert.Equal(t, "unauthenticated", StatusUnauthenticated.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}

func TestPortalBase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://portal.primith.com", PortalBase(true))
	assert.Equal(t, "http://portal.localhost:5173", PortalBase(false))
}

func TestLoginURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		portalBase string
		hostname   string
		currentURL string
		want       string
	}{
		{
			name:       "portal host gets absolute url",
			portalBase: "https://portal.primith.com",
			hostname:   "portal.primith.com",
			currentURL: "/rdm/projects",
			want:       "https://portal.primith.com/login?redirect=%2Frdm%2Fprojects",
		},
		{
			name:       "other host gets local path",
			portalBase: "https://portal.primith.com",
			hostname:   "primith.com",
			currentURL: "/pricing",
			want:       "/login?redirect=%2Fpricing",
		},
		{
			name:       "query string survives escaping",
			portalBase: "https://portal.primith.com",
			hostname:   "portal.primith.com",
			currentURL: "/rdm/documents?folderId=12&view=grid",
			want:       "https://portal.primith.com/login?redirect=%2Frdm%2Fdocuments%3FfolderId%3D12%26view%3Dgrid",
		},
		{
			name:       "trailing slash on base is trimmed",
			portalBase: "https://portal.primith.com/",
			hostname:   "portal.primith.com",
			currentURL: "/",
			want:       "https://portal.primith.com/login?redirect=%2F",
		},
		{
			name:       "host comparison is case insensitive",
			portalBase: "https://portal.primith.com",
			hostname:   "Portal.Primith.Com",
			currentURL: "/dashboard",
			want:       "https://portal.primith.com/login?redirect=%2Fdashboard",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, LoginURL(tt.portalBase, tt.hostname, tt.currentURL))
		})
	}
}
