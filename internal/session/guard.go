package session

import (
	"context"
	"net/url"
	"strings"
)

// Status is the guard's view of the session. It starts unknown and settles
// exactly once per check; a canceled check stays unknown.
type Status int

const (
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Guard gates access to protected content. It verifies the stored session,
// attempts at most one refresh-and-retry cycle on an expired access token,
// and otherwise resolves to unauthenticated.
type Guard struct {
	store     Store
	verifier  *Verifier
	refresher *Refresher
}

func NewGuard(apiBaseURL string, store Store) *Guard {
	return &Guard{
		store:     store,
		verifier:  NewVerifier(apiBaseURL, store),
		refresher: NewRefresher(apiBaseURL, store),
	}
}

// Check runs one verify -> (refresh -> verify) sequence. Cancellation of ctx
// aborts the in-flight request and leaves both the status and the store
// untouched, reported as StatusUnknown.
func (g *Guard) Check(ctx context.Context) Status {
	switch g.verifier.Verify(ctx) {
	case ResultAuthenticated:
		return StatusAuthenticated
	case ResultNeedsRefresh:
		if ctx.Err() != nil {
			return StatusUnknown
		}
		if _, err := g.refresher.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return StatusUnknown
			}
			return StatusUnauthenticated
		}
		if g.verifier.Verify(ctx) == ResultAuthenticated {
			return StatusAuthenticated
		}
		if ctx.Err() != nil {
			return StatusUnknown
		}
		return StatusUnauthenticated
	default:
		if ctx.Err() != nil {
			return StatusUnknown
		}
		return StatusUnauthenticated
	}
}

// PortalBase selects the portal origin for the current deployment mode.
func PortalBase(production bool) string {
	if production {
		return "https://portal.primith.com"
	}
	return "http://portal.localhost:5173"
}

// LoginURL decides where an unauthenticated visitor should land, preserving
// the originally requested URL for post-login redirect. Visitors already on
// the portal host get an absolute URL; everyone else gets a local path.
// Pure function so destination logic stays testable apart from the redirect
// side effect.
func LoginURL(portalBaseURL, hostname, currentURL string) string {
	redirect := url.QueryEscape(currentURL)

	portalHost := hostname
	if u, err := url.Parse(portalBaseURL); err == nil && u.Hostname() != "" {
		portalHost = u.Hostname()
	}

	if strings.EqualFold(hostname, portalHost) {
		return strings.TrimSuffix(portalBaseURL, "/") + "/login?redirect=" + redirect
	}
	return "/login?redirect=" + redirect
}
