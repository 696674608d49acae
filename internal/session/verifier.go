package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MForbesPrim/primith-portal/pkg/logger"
	"github.com/go-resty/resty/v2"
)

// Result of one verification attempt against the protected endpoint.
type Result int

const (
	ResultUnauthenticated Result = iota
	ResultAuthenticated
	ResultNeedsRefresh
)

// Verifier checks the stored access token against GET {api}/protected.
// 200 with a truthy body means authenticated, 401 means the access token
// should be refreshed, anything else means unauthenticated with no retry.
type Verifier struct {
	client *resty.Client
	store  Store
}

func NewVerifier(apiBaseURL string, store Store) *Verifier {
	return &Verifier{
		client: newClient(apiBaseURL),
		store:  store,
	}
}

func newClient(apiBaseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(apiBaseURL).
		SetTimeout(10 * time.Second)
}

// verifyResponse accepts both response shapes the API has historically served
// and normalizes them at the boundary. The canonical field is "success".
type verifyResponse struct {
	Success       *bool `json:"success"`
	Authenticated *bool `json:"authenticated"`
}

func (r verifyResponse) ok() bool {
	if r.Success != nil {
		return *r.Success
	}
	if r.Authenticated != nil {
		return *r.Authenticated
	}
	return false
}

// Verify issues one verification request. An empty store short-circuits to
// ResultUnauthenticated without touching the network.
func (v *Verifier) Verify(ctx context.Context) Result {
	pair, ok := v.store.Get()
	if !ok || pair.AccessToken == "" {
		return ResultUnauthenticated
	}

	resp, err := v.client.R().
		SetContext(ctx).
		SetAuthToken(pair.AccessToken).
		Get("/protected")
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("session verification request failed: ", err)
		}
		return ResultUnauthenticated
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		var body verifyResponse
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			logger.Warn("malformed session verification response: ", err)
			return ResultUnauthenticated
		}
		if body.ok() {
			return ResultAuthenticated
		}
		return ResultUnauthenticated
	case http.StatusUnauthorized:
		return ResultNeedsRefresh
	default:
		logger.Warn("unexpected session verification status: ", resp.StatusCode())
		return ResultUnauthenticated
	}
}
