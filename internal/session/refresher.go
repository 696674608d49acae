package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNoRefreshToken means the store holds nothing to exchange.
	ErrNoRefreshToken = errors.New("no refresh token stored")
	// ErrRefreshRejected means the refresh token was expired or invalid.
	// The store has been cleared; only a full re-login recovers.
	ErrRefreshRejected = errors.New("refresh token rejected")
)

// Refresher exchanges the stored refresh token for a new access token.
type Refresher struct {
	client *resty.Client
	store  Store
}

func NewRefresher(apiBaseURL string, store Store) *Refresher {
	return &Refresher{
		client: newClient(apiBaseURL),
		store:  store,
	}
}

type refreshResponse struct {
	Success bool `json:"success"`
	Data    struct {
		AccessToken           string `json:"accessToken"`
		RefreshToken          string `json:"refreshToken"`
		AccessTokenExpiresAt  int64  `json:"accessTokenExpiresAt"`
		RefreshTokenExpiresAt int64  `json:"refreshTokenExpiresAt"`
	} `json:"data"`
}

// Refresh performs one token exchange. On success the stored pair is replaced
// whole (the refresh token may rotate) and the new access token is returned.
// On rejection the store is cleared entirely. A transport failure or canceled
// context leaves the store untouched so a later attempt can still succeed.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	pair, ok := r.store.Get()
	if !ok || pair.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("X-Refresh-Token", pair.RefreshToken).
		Post("/auth/refresh")
	if err != nil {
		return "", err
	}

	if resp.StatusCode() != http.StatusOK {
		r.store.Clear()
		return "", ErrRefreshRejected
	}

	var body refreshResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil || !body.Success || body.Data.AccessToken == "" {
		r.store.Clear()
		return "", ErrRefreshRejected
	}

	newPair := TokenPair{
		AccessToken:  body.Data.AccessToken,
		RefreshToken: body.Data.RefreshToken,
		ExpiresAt:    time.Unix(body.Data.AccessTokenExpiresAt, 0),
	}
	// The endpoint may or may not rotate the refresh token.
	if newPair.RefreshToken == "" {
		newPair.RefreshToken = pair.RefreshToken
	}
	r.store.Set(newPair)

	return newPair.AccessToken, nil
}
